package handler_test

import (
	"context"
	"net/http"

	"course-checkout/internal/dto"
	"course-checkout/internal/model"
	"course-checkout/internal/service"

	"github.com/stretchr/testify/mock"
)

type mockCheckoutService struct {
	mock.Mock
}

func (m *mockCheckoutService) ListCourses(ctx context.Context) ([]*model.Course, error) {
	args := m.Called(ctx)
	courses, _ := args.Get(0).([]*model.Course)
	return courses, args.Error(1)
}

func (m *mockCheckoutService) CreateIntent(ctx context.Context, userID, courseID, nonce string) (*dto.CreateIntentResponse, error) {
	args := m.Called(ctx, userID, courseID, nonce)
	resp, _ := args.Get(0).(*dto.CreateIntentResponse)
	return resp, args.Error(1)
}

type mockReconciliationService struct {
	mock.Mock
}

func (m *mockReconciliationService) ConfirmPayment(ctx context.Context, intentID, courseID, userID string) *service.Outcome {
	args := m.Called(ctx, intentID, courseID, userID)
	return args.Get(0).(*service.Outcome)
}

func (m *mockReconciliationService) RetryEnrollment(ctx context.Context, intentID, userID string) *service.Outcome {
	args := m.Called(ctx, intentID, userID)
	return args.Get(0).(*service.Outcome)
}

type mockEnrollmentService struct {
	mock.Mock
}

func (m *mockEnrollmentService) ListEnrollments(ctx context.Context, userID string) ([]*model.Enrollment, error) {
	args := m.Called(ctx, userID)
	enrollments, _ := args.Get(0).([]*model.Enrollment)
	return enrollments, args.Error(1)
}

type mockWebhookService struct {
	mock.Mock
}

func (m *mockWebhookService) HandleStripeWebhook(ctx context.Context, headers http.Header, body []byte) error {
	args := m.Called(ctx, headers, body)
	return args.Error(0)
}
