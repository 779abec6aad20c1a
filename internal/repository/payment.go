package repository

import (
	"context"
	"time"

	"course-checkout/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	// Upsert writes the record keyed on intent id. On conflict only the
	// outcome columns change; user and course stay with the first writer.
	Upsert(ctx context.Context, payment *model.Payment) error
	InsertIfAbsent(ctx context.Context, payment *model.Payment) (bool, error)
	FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error)
	ListCompletedWithoutEnrollment(ctx context.Context, limit int) ([]*model.Payment, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Upsert(ctx context.Context, payment *model.Payment) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "intent_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":     payment.Status,
			"amount":     payment.Amount,
			"currency":   payment.Currency,
			"provider":   payment.Provider,
			"updated_at": time.Now(),
		}),
	}).Create(payment).Error
	if err != nil {
		return wrapRepoErr("upsert payment", err)
	}
	return nil
}

func (r *paymentRepoImpl) InsertIfAbsent(ctx context.Context, payment *model.Payment) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "intent_id"}},
			DoNothing: true,
		}).
		Create(payment)
	if result.Error != nil {
		return false, wrapRepoErr("insert payment", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *paymentRepoImpl) FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("intent_id = ?", intentID).
		First(&payment).Error

	if err != nil {
		return nil, wrapRepoErr("find payment by intent id", err)
	}

	return &payment, nil
}

func (r *paymentRepoImpl) ListCompletedWithoutEnrollment(ctx context.Context, limit int) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Select("payments.*").
		Joins("LEFT JOIN enrollments ON enrollments.user_id = payments.user_id AND enrollments.course_id = payments.course_id").
		Where("payments.status = ?", model.PaymentStatusCompleted).
		Where("enrollments.id IS NULL").
		Order("payments.created_at").
		Limit(limit).
		Find(&payments).
		Error

	if err != nil {
		return nil, wrapRepoErr("list completed payments without enrollment", err)
	}

	return payments, nil
}
