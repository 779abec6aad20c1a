package repository

import (
	"errors"

	"course-checkout/internal/errs"

	"gorm.io/gorm"
)

type RepositoryErrorKind string

const (
	KindNotFound     RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure    RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey RepositoryErrorKind = "DUPLICATE_KEY"
)

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

func wrapRepoErr(msg string, err error) error {
	kind := KindDBFailure
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		kind = KindNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		kind = KindDuplicateKey
	}

	return RepositoryError{Kind: kind, msg: msg, err: errs.WithStack(err)}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}
