package service

import (
	"context"
	"strings"

	"course-checkout/internal/errs"
	"course-checkout/internal/model"
	"course-checkout/internal/repository"

	"github.com/google/uuid"
)

type RecordPaymentParams struct {
	UserID      string
	IntentID    string
	CourseID    string
	AmountMinor int64
	Currency    string
	Provider    string
}

type PaymentRecorder interface {
	// Record stores a completed payment for a verified intent. Replays of a
	// completed intent return the stored record untouched.
	Record(ctx context.Context, params RecordPaymentParams) (*model.Payment, error)
	// RecordFailed stores a failed attempt unless the intent already has a record.
	RecordFailed(ctx context.Context, params RecordPaymentParams) error
}

type paymentRecorderImpl struct {
	paymentRepo repository.PaymentRepository
}

func NewPaymentRecorder(paymentRepo repository.PaymentRepository) PaymentRecorder {
	return &paymentRecorderImpl{
		paymentRepo: paymentRepo,
	}
}

func (r *paymentRecorderImpl) Record(ctx context.Context, params RecordPaymentParams) (*model.Payment, error) {
	existing, err := r.find(ctx, params.IntentID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if !ownedBy(existing, params.UserID, params.CourseID) {
			return nil, errs.Mark(errs.Newf("intent %s is recorded for another checkout", params.IntentID), errs.ErrOwnershipMismatch)
		}
		if existing.Status == model.PaymentStatusCompleted {
			return existing, nil
		}
	}

	err = r.paymentRepo.Upsert(ctx, newPayment(params, model.PaymentStatusCompleted))
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "upsert payment"), errs.ErrPersistence)
	}

	// a concurrent writer may have won the insert; the stored row is the truth
	stored, err := r.find(ctx, params.IntentID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errs.Mark(errs.Newf("payment for intent %s missing after upsert", params.IntentID), errs.ErrPersistence)
	}
	if !ownedBy(stored, params.UserID, params.CourseID) {
		return nil, errs.Mark(errs.Newf("intent %s is recorded for another checkout", params.IntentID), errs.ErrOwnershipMismatch)
	}

	return stored, nil
}

func (r *paymentRecorderImpl) RecordFailed(ctx context.Context, params RecordPaymentParams) error {
	_, err := r.paymentRepo.InsertIfAbsent(ctx, newPayment(params, model.PaymentStatusFailed))
	if err != nil {
		return errs.Mark(errs.Wrap(err, "insert failed payment"), errs.ErrPersistence)
	}
	return nil
}

func (r *paymentRecorderImpl) find(ctx context.Context, intentID string) (*model.Payment, error) {
	payment, err := r.paymentRepo.FindByIntentID(ctx, intentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, errs.Mark(errs.Wrap(err, "find payment"), errs.ErrPersistence)
	}
	return payment, nil
}

func newPayment(params RecordPaymentParams, status model.PaymentStatus) *model.Payment {
	return &model.Payment{
		ID:       uuid.NewString(),
		IntentID: params.IntentID,
		UserID:   params.UserID,
		CourseID: params.CourseID,
		Amount:   model.MinorToMajor(params.AmountMinor, params.Currency),
		Currency: strings.ToLower(params.Currency),
		Status:   status,
		Provider: params.Provider,
	}
}

func ownedBy(payment *model.Payment, userID, courseID string) bool {
	return payment.UserID == userID && payment.CourseID == courseID
}
