package service

import (
	"context"

	"course-checkout/internal/errs"
	"course-checkout/internal/model"
	"course-checkout/internal/repository"
)

type EnrollmentService interface {
	ListEnrollments(ctx context.Context, userID string) ([]*model.Enrollment, error)
}

type enrollmentServiceImpl struct {
	enrollmentRepo repository.EnrollmentRepository
}

func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *enrollmentServiceImpl) ListEnrollments(ctx context.Context, userID string) ([]*model.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "list enrollments"), errs.ErrPersistence)
	}
	return enrollments, nil
}
