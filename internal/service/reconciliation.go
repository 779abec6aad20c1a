package service

import (
	"context"
	"log/slog"
	"strings"

	"course-checkout/internal/errs"
	"course-checkout/internal/metrics"
	"course-checkout/internal/model"
	"course-checkout/internal/repository"
)

// ReconciliationService aligns a gateway payment decision with enrollment
// state: verify the intent, record the payment, then enroll. Every result,
// including failures and recovered panics, comes back as an Outcome.
type ReconciliationService interface {
	ConfirmPayment(ctx context.Context, intentID, courseID, userID string) *Outcome
	// RetryEnrollment re-runs only the enrollment step for an intent whose
	// payment is already recorded. The gateway is not contacted.
	RetryEnrollment(ctx context.Context, intentID, userID string) *Outcome
}

type reconciliationServiceImpl struct {
	verifier    IntentVerifier
	recorder    PaymentRecorder
	enroller    EnrollmentCreator
	paymentRepo repository.PaymentRepository
	courseRepo  repository.CourseRepository
	provider    string
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewReconciliationService(
	verifier IntentVerifier,
	recorder PaymentRecorder,
	enroller EnrollmentCreator,
	paymentRepo repository.PaymentRepository,
	courseRepo repository.CourseRepository,
	provider string,
	m *metrics.Metrics,
	logger *slog.Logger,
) ReconciliationService {
	return &reconciliationServiceImpl{
		verifier:    verifier,
		recorder:    recorder,
		enroller:    enroller,
		paymentRepo: paymentRepo,
		courseRepo:  courseRepo,
		provider:    provider,
		metrics:     m,
		logger:      logger,
	}
}

// recorded is set once the payment row is durable, so a panic after that
// point is reported as a partial success.
type reconcileState struct {
	recorded *model.Payment
}

func (s *reconciliationServiceImpl) ConfirmPayment(ctx context.Context, intentID, courseID, userID string) (outcome *Outcome) {
	state := &reconcileState{}
	defer func() {
		if r := recover(); r != nil {
			outcome = s.recovered(state, r)
		}
		s.report("confirm_payment", intentID, userID, outcome)
	}()

	return s.confirm(ctx, state, intentID, courseID, userID)
}

func (s *reconciliationServiceImpl) confirm(ctx context.Context, state *reconcileState, intentID, courseID, userID string) *Outcome {
	if intentID == "" || courseID == "" || userID == "" {
		return rejected(ReasonInvalidRequest, "intent_id, course_id and user_id are required", nil)
	}

	verification, err := s.verifier.Verify(ctx, intentID)
	if err != nil {
		if errs.Is(err, errs.ErrInvalidRequest) {
			return rejected(ReasonInvalidRequest, "intent could not be verified", err)
		}
		return rejected(ReasonGatewayUnavailable, "payment gateway unavailable", err)
	}

	if !verification.Verified {
		return declined(verification.Status, verification.Detail)
	}

	if outcome := checkMetadata(verification.Metadata, userID, courseID); outcome != nil {
		return outcome
	}

	course, rejection := s.loadCourse(ctx, courseID)
	if rejection != nil {
		return rejection
	}
	if verification.Amount != course.PriceAmount || !strings.EqualFold(verification.Currency, course.Currency) {
		return rejected(ReasonInvalidRequest, "paid amount does not match course price", nil)
	}

	payment, err := s.recorder.Record(ctx, RecordPaymentParams{
		UserID:      userID,
		IntentID:    intentID,
		CourseID:    courseID,
		AmountMinor: verification.Amount,
		Currency:    verification.Currency,
		Provider:    s.provider,
	})
	if err != nil {
		if errs.Is(err, errs.ErrOwnershipMismatch) {
			return rejected(ReasonOwnershipMismatch, "intent was recorded for another checkout", err)
		}
		return rejected(ReasonPersistenceFailure, "payment could not be recorded", err)
	}
	state.recorded = payment

	enrollment, err := s.enroller.Enroll(ctx, userID, courseID, intentID)
	if err != nil {
		return enrollmentFailed(payment, err)
	}

	return succeeded(payment, enrollment)
}

func (s *reconciliationServiceImpl) RetryEnrollment(ctx context.Context, intentID, userID string) (outcome *Outcome) {
	state := &reconcileState{}
	defer func() {
		if r := recover(); r != nil {
			outcome = s.recovered(state, r)
		}
		s.report("retry_enrollment", intentID, userID, outcome)
	}()

	if intentID == "" || userID == "" {
		return rejected(ReasonInvalidRequest, "intent_id and user_id are required", nil)
	}

	payment, err := s.paymentRepo.FindByIntentID(ctx, intentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return rejected(ReasonInvalidRequest, "no payment recorded for intent", err)
		}
		return rejected(ReasonPersistenceFailure, "payment could not be loaded", err)
	}
	if payment.UserID != userID {
		return rejected(ReasonOwnershipMismatch, "intent was recorded for another user", nil)
	}
	if payment.Status != model.PaymentStatusCompleted {
		return rejected(ReasonInvalidRequest, "payment is not completed", nil)
	}

	course, rejection := s.loadCourse(ctx, payment.CourseID)
	if rejection != nil {
		return rejection
	}
	if model.MajorToMinor(payment.Amount, payment.Currency) != course.PriceAmount ||
		!strings.EqualFold(payment.Currency, course.Currency) {
		return rejected(ReasonInvalidRequest, "recorded amount does not match course price", nil)
	}
	state.recorded = payment

	enrollment, err := s.enroller.Enroll(ctx, payment.UserID, payment.CourseID, intentID)
	if err != nil {
		return enrollmentFailed(payment, err)
	}

	return succeeded(payment, enrollment)
}

func (s *reconciliationServiceImpl) report(operation, intentID, userID string, outcome *Outcome) {
	reason := string(outcome.Reason)
	if reason == "" {
		reason = "none"
	}
	s.metrics.ReconciliationOutcomes.WithLabelValues(string(outcome.Kind), reason).Inc()

	attrs := []any{
		"operation", operation,
		"intent_id", intentID,
		"user_id", userID,
		"outcome", outcome.Kind,
	}
	if outcome.Detail != "" {
		attrs = append(attrs, "detail", outcome.Detail)
	}
	if outcome.Err != nil {
		attrs = append(attrs, "error", outcome.Err.Error())
	}

	switch {
	case outcome.Kind == OutcomePaymentRecordedEnrollmentFailed:
		s.logger.Error("payment recorded but enrollment failed", attrs...)
	case outcome.Reason == ReasonGatewayUnavailable, outcome.Reason == ReasonPersistenceFailure:
		s.logger.Warn("payment reconciliation failed", append(attrs, "reason", outcome.Reason)...)
	case outcome.Kind == OutcomePaymentRejected:
		s.logger.Info("payment rejected", append(attrs, "reason", outcome.Reason, "intent_status", outcome.IntentStatus)...)
	default:
		s.logger.Info("payment reconciled", attrs...)
	}
}

func (s *reconciliationServiceImpl) recovered(state *reconcileState, r any) *Outcome {
	err := errs.Newf("panic during reconciliation: %v", r)
	s.logger.Error("recovered from panic", "error", err.Error(), "stack", errs.ExtractStackLines(err, 12))

	if state.recorded != nil {
		return enrollmentFailed(state.recorded, err)
	}
	return rejected(ReasonPersistenceFailure, "internal error", err)
}

// checkMetadata requires the checkout metadata stamped at intent creation
// and that it names the caller's user and course.
func checkMetadata(metadata map[string]string, userID, courseID string) *Outcome {
	metaUser, hasUser := metadata[model.MetadataUserID]
	metaCourse, hasCourse := metadata[model.MetadataCourseID]
	if !hasUser || !hasCourse {
		return rejected(ReasonInvalidRequest, "intent has no checkout metadata", nil)
	}
	if metaUser != userID || metaCourse != courseID {
		return rejected(ReasonOwnershipMismatch, "intent was created for another checkout", nil)
	}
	return nil
}

func (s *reconciliationServiceImpl) loadCourse(ctx context.Context, courseID string) (*model.Course, *Outcome) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, rejected(ReasonInvalidRequest, "course not found", err)
		}
		return nil, rejected(ReasonPersistenceFailure, "course could not be loaded", err)
	}
	return course, nil
}
