package repository_test

import (
	"context"
	"testing"
	"time"

	"course-checkout/internal/model"
	"course-checkout/internal/repository"
	"course-checkout/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payment(id, intentID, userID, courseID string, status model.PaymentStatus) *model.Payment {
	return &model.Payment{
		ID:       id,
		IntentID: intentID,
		UserID:   userID,
		CourseID: courseID,
		Amount:   decimal.RequireFromString("49.00"),
		Currency: "usd",
		Status:   status,
		Provider: "stripe",
	}
}

func TestPaymentRepository_UpsertReusedIDIsDuplicateKey(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPaymentRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.Upsert(ctx, payment("p-1", "pi_1", "user-1", "course-1", model.PaymentStatusCompleted)))

	err := repo.Upsert(ctx, payment("p-1", "pi_2", "user-2", "course-2", model.PaymentStatusCompleted))

	require.Error(t, err)
	assert.True(t, repository.IsKind(err, repository.KindDuplicateKey), "got %v", err)
	assert.False(t, repository.IsNotFound(err))
}

func TestPaymentRepository_UpsertKeepsOwner(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPaymentRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.Upsert(ctx, payment("p-1", "pi_123", "user-1", "course-1", model.PaymentStatusFailed)))
	require.NoError(t, repo.Upsert(ctx, payment("p-2", "pi_123", "user-2", "course-2", model.PaymentStatusCompleted)))

	stored, err := repo.FindByIntentID(ctx, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, "p-1", stored.ID)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, "course-1", stored.CourseID)
	assert.Equal(t, model.PaymentStatusCompleted, stored.Status)
}

func TestPaymentRepository_InsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPaymentRepository(testutil.NewTestDB(t))

	created, err := repo.InsertIfAbsent(ctx, payment("p-1", "pi_123", "user-1", "course-1", model.PaymentStatusCompleted))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.InsertIfAbsent(ctx, payment("p-2", "pi_123", "user-1", "course-1", model.PaymentStatusFailed))
	require.NoError(t, err)
	assert.False(t, created)

	stored, err := repo.FindByIntentID(ctx, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, stored.Status)
}

func TestPaymentRepository_FindMissing(t *testing.T) {
	repo := repository.NewPaymentRepository(testutil.NewTestDB(t))

	_, err := repo.FindByIntentID(context.Background(), "pi_missing")

	require.Error(t, err)
	assert.True(t, repository.IsNotFound(err))
	assert.False(t, repository.IsKind(err, repository.KindDBFailure))
}

func TestPaymentRepository_ListCompletedWithoutEnrollment(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	paymentRepo := repository.NewPaymentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	require.NoError(t, paymentRepo.Upsert(ctx, payment("p-1", "pi_enrolled", "user-1", "course-1", model.PaymentStatusCompleted)))
	require.NoError(t, paymentRepo.Upsert(ctx, payment("p-2", "pi_orphan", "user-1", "course-2", model.PaymentStatusCompleted)))
	require.NoError(t, paymentRepo.Upsert(ctx, payment("p-3", "pi_failed", "user-2", "course-1", model.PaymentStatusFailed)))

	_, err := enrollmentRepo.CreateIfAbsent(ctx, &model.Enrollment{
		ID: "e-1", UserID: "user-1", CourseID: "course-1",
		Status: model.EnrollmentStatusActive, EnrolledAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	payments, err := paymentRepo.ListCompletedWithoutEnrollment(ctx, 10)

	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "pi_orphan", payments[0].IntentID)
}

func TestPaymentRepository_DBFailure(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&model.Payment{}))
	repo := repository.NewPaymentRepository(db)

	_, err := repo.FindByIntentID(context.Background(), "pi_123")

	require.Error(t, err)
	assert.True(t, repository.IsKind(err, repository.KindDBFailure))
}
