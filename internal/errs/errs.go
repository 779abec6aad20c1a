package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// Sentinel marks. Wrapped errors keep their mark through Wrap and Mark, so
// callers classify with Is instead of matching messages.
var (
	ErrInvalidRequest     = cr.New("invalid request")
	ErrGatewayUnavailable = cr.New("payment gateway unavailable")
	ErrIntentNotFound     = cr.New("payment intent not found")
	ErrPersistence        = cr.New("persistence failure")
	ErrOwnershipMismatch  = cr.New("payment intent belongs to another checkout")
	ErrCourseNotFound     = cr.New("course not found")
	ErrAlreadyEnrolled    = cr.New("user already enrolled in course")
	ErrInvalidSignature   = cr.New("invalid webhook signature")
	ErrInvalidPayload     = cr.New("invalid webhook payload")
)

func New(msg string) error {
	return cr.New(msg)
}

func Newf(format string, args ...any) error {
	return cr.Newf(format, args...)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func WithStack(err error) error {
	return cr.WithStack(err)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

func Is(err, target error) bool {
	return cr.Is(err, target)
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
