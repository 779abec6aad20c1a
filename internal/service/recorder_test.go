package service_test

import (
	"context"
	"testing"
	"time"

	"course-checkout/internal/errs"
	"course-checkout/internal/model"
	"course-checkout/internal/repository"
	"course-checkout/internal/service"
	"course-checkout/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordParams() service.RecordPaymentParams {
	return service.RecordPaymentParams{
		UserID:      "user-1",
		IntentID:    "pi_123",
		CourseID:    "course-1",
		AmountMinor: 4900,
		Currency:    "USD",
		Provider:    "stripe",
	}
}

func TestPaymentRecorder_ReplayIsNoOp(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	recorder := service.NewPaymentRecorder(repository.NewPaymentRepository(db))

	first, err := recorder.Record(ctx, recordParams())
	require.NoError(t, err)
	assert.Equal(t, "usd", first.Currency)

	time.Sleep(10 * time.Millisecond)

	params := recordParams()
	params.AmountMinor = 9999
	second, err := recorder.Record(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Amount.Equal(decimal.NewFromInt(49)))
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt))
	assert.EqualValues(t, 1, testutil.CountRows(t, db, &model.Payment{}))
}

func TestPaymentRecorder_OwnershipMismatch(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	recorder := service.NewPaymentRecorder(repository.NewPaymentRepository(db))

	_, err := recorder.Record(ctx, recordParams())
	require.NoError(t, err)

	params := recordParams()
	params.CourseID = "course-2"
	_, err = recorder.Record(ctx, params)

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrOwnershipMismatch))
}

func TestPaymentRecorder_FailedThenCompleted(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	recorder := service.NewPaymentRecorder(repository.NewPaymentRepository(db))

	require.NoError(t, recorder.RecordFailed(ctx, recordParams()))

	payment, err := recorder.Record(ctx, recordParams())
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)
	assert.EqualValues(t, 1, testutil.CountRows(t, db, &model.Payment{}))
}

func TestPaymentRecorder_FailureNeverDowngrades(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	paymentRepo := repository.NewPaymentRepository(db)
	recorder := service.NewPaymentRecorder(paymentRepo)

	_, err := recorder.Record(ctx, recordParams())
	require.NoError(t, err)
	require.NoError(t, recorder.RecordFailed(ctx, recordParams()))

	payment, err := paymentRepo.FindByIntentID(ctx, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)
}

func TestEnrollmentCreator_ExistingEnrollmentIsKept(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	for _, status := range []model.EnrollmentStatus{
		model.EnrollmentStatusActive,
		model.EnrollmentStatusInProgress,
		model.EnrollmentStatusCompleted,
	} {
		t.Run(string(status), func(t *testing.T) {
			userID := "user-" + string(status)
			_, err := enrollmentRepo.CreateIfAbsent(ctx, &model.Enrollment{
				ID:         "enr-" + string(status),
				UserID:     userID,
				CourseID:   "course-1",
				Status:     status,
				EnrolledAt: time.Now().UTC(),
			})
			require.NoError(t, err)

			enrollment, err := service.NewEnrollmentCreator(enrollmentRepo).Enroll(ctx, userID, "course-1", "pi_123")

			require.NoError(t, err)
			assert.Equal(t, "enr-"+string(status), enrollment.ID)
			assert.Equal(t, status, enrollment.Status)
		})
	}

	assert.EqualValues(t, 3, testutil.CountRows(t, db, &model.Enrollment{}))
}

func TestEnrollmentCreator_StoreFailure(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&model.Enrollment{}))

	_, err := service.NewEnrollmentCreator(repository.NewEnrollmentRepository(db)).
		Enroll(context.Background(), "user-1", "course-1", "pi_123")

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrPersistence))
}
