package service

import (
	"context"
	"time"

	"course-checkout/internal/errs"
	"course-checkout/internal/model"
	"course-checkout/internal/repository"

	"github.com/google/uuid"
)

// EnrollmentCreator grants course access. Any existing enrollment for the
// pair counts as granted; it is returned as is.
type EnrollmentCreator interface {
	Enroll(ctx context.Context, userID, courseID, intentID string) (*model.Enrollment, error)
}

type enrollmentCreatorImpl struct {
	enrollmentRepo repository.EnrollmentRepository
}

func NewEnrollmentCreator(enrollmentRepo repository.EnrollmentRepository) EnrollmentCreator {
	return &enrollmentCreatorImpl{
		enrollmentRepo: enrollmentRepo,
	}
}

func (c *enrollmentCreatorImpl) Enroll(ctx context.Context, userID, courseID, intentID string) (*model.Enrollment, error) {
	existing, err := c.enrollmentRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err == nil {
		return existing, nil
	}
	if !repository.IsNotFound(err) {
		return nil, errs.Mark(errs.Wrap(err, "find enrollment"), errs.ErrPersistence)
	}

	_, err = c.enrollmentRepo.CreateIfAbsent(ctx, &model.Enrollment{
		ID:              uuid.NewString(),
		UserID:          userID,
		CourseID:        courseID,
		Status:          model.EnrollmentStatusActive,
		PaymentIntentID: intentID,
		EnrolledAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "create enrollment"), errs.ErrPersistence)
	}

	enrollment, err := c.enrollmentRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "reload enrollment"), errs.ErrPersistence)
	}

	return enrollment, nil
}
