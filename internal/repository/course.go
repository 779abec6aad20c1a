package repository

import (
	"context"

	"course-checkout/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, courseID string) (*model.Course, error)
	List(ctx context.Context) ([]*model.Course, error)
}

type courseRepoImpl struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepoImpl{
		db: db,
	}
}

func (r *courseRepoImpl) Seed(ctx context.Context) error {
	courses := []model.Course{
		{ID: "course-1", Title: "Introduction to Web Development", PriceAmount: 4900, Currency: "usd"},
		{ID: "course-2", Title: "Arabic Calligraphy Fundamentals", PriceAmount: 2900, Currency: "usd"},
		{ID: "course-3", Title: "Data Analysis with Spreadsheets", PriceAmount: 15000, Currency: "kwd"},
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&courses).Error
	if err != nil {
		return wrapRepoErr("seed courses", err)
	}
	return nil
}

func (r *courseRepoImpl) FindByID(ctx context.Context, courseID string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("id = ?", courseID).
		First(&course).Error

	if err != nil {
		return nil, wrapRepoErr("find course by id", err)
	}

	return &course, nil
}

func (r *courseRepoImpl) List(ctx context.Context) ([]*model.Course, error) {
	var courses []*model.Course
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&courses).
		Error

	if err != nil {
		return nil, wrapRepoErr("list courses", err)
	}

	return courses, nil
}
