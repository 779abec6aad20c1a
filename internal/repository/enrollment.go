package repository

import (
	"context"

	"course-checkout/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	// CreateIfAbsent inserts unless a row for (user, course) exists and
	// reports whether this call created it.
	CreateIfAbsent(ctx context.Context, enrollment *model.Enrollment) (bool, error)
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*model.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Enrollment, error)
}

type enrollmentRepoImpl struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepoImpl{
		db: db,
	}
}

func (r *enrollmentRepoImpl) CreateIfAbsent(ctx context.Context, enrollment *model.Enrollment) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(enrollment)
	if result.Error != nil {
		return false, wrapRepoErr("create enrollment", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *enrollmentRepoImpl) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error

	if err != nil {
		return nil, wrapRepoErr("find enrollment", err)
	}

	return &enrollment, nil
}

func (r *enrollmentRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).
		Error

	if err != nil {
		return nil, wrapRepoErr("list enrollments", err)
	}

	return enrollments, nil
}
