package service

import (
	"context"

	"course-checkout/internal/client"
	"course-checkout/internal/dto"
	"course-checkout/internal/errs"
	"course-checkout/internal/model"
	"course-checkout/internal/repository"
)

type CheckoutService interface {
	ListCourses(ctx context.Context) ([]*model.Course, error)
	CreateIntent(ctx context.Context, userID, courseID, paymentMethodNonce string) (*dto.CreateIntentResponse, error)
}

type checkoutServiceImpl struct {
	gateway        client.PaymentGateway
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewCheckoutService(
	gateway client.PaymentGateway,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
) CheckoutService {
	return &checkoutServiceImpl{
		gateway:        gateway,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *checkoutServiceImpl) ListCourses(ctx context.Context) ([]*model.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "list courses"), errs.ErrPersistence)
	}
	return courses, nil
}

// CreateIntent prices the course server-side and opens an intent tagged with
// the buyer and course, so confirmation can check who the intent was for.
func (s *checkoutServiceImpl) CreateIntent(ctx context.Context, userID, courseID, paymentMethodNonce string) (*dto.CreateIntentResponse, error) {
	if userID == "" || courseID == "" {
		return nil, errs.Mark(errs.New("user id and course id are required"), errs.ErrInvalidRequest)
	}

	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errs.Mark(errs.Wrapf(err, "course %s", courseID), errs.ErrCourseNotFound)
		}
		return nil, errs.Mark(errs.Wrap(err, "find course"), errs.ErrPersistence)
	}

	_, err = s.enrollmentRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err == nil {
		return nil, errs.Mark(errs.Newf("user %s already enrolled in %s", userID, courseID), errs.ErrAlreadyEnrolled)
	}
	if !repository.IsNotFound(err) {
		return nil, errs.Mark(errs.Wrap(err, "find enrollment"), errs.ErrPersistence)
	}

	created, err := s.gateway.CreateIntent(ctx, model.IntentParams{
		Amount:   course.PriceAmount,
		Currency: course.Currency,
		Metadata: map[string]string{
			model.MetadataUserID:   userID,
			model.MetadataCourseID: courseID,
		},
		PaymentMethodNonce: paymentMethodNonce,
	})
	if err != nil {
		return nil, errs.Wrap(err, "gateway create intent")
	}

	return &dto.CreateIntentResponse{
		IntentID:     created.IntentID,
		ClientSecret: created.ClientSecret,
		Amount:       course.PriceAmount,
		Currency:     course.Currency,
	}, nil
}
