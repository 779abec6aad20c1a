package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type EnrollmentStatus string

const (
	EnrollmentStatusActive     EnrollmentStatus = "active"
	EnrollmentStatusInProgress EnrollmentStatus = "in_progress"
	EnrollmentStatusCompleted  EnrollmentStatus = "completed"
)

type Course struct {
	ID          string `gorm:"primaryKey;size:64;not null"`
	Title       string `gorm:"size:255;not null"`
	PriceAmount int64  `gorm:"not null"` // minor units
	Currency    string `gorm:"size:8;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Payment struct {
	ID       string          `gorm:"primaryKey;size:36;not null"`
	IntentID string          `gorm:"size:255;uniqueIndex;not null"` // gateway intent id
	UserID   string          `gorm:"size:64;index;not null"`
	CourseID string          `gorm:"size:64;index;not null"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,3);not null"` // major units
	Currency string          `gorm:"size:8;not null"`
	Status   PaymentStatus   `gorm:"size:16;index;not null"`
	Provider string          `gorm:"size:16;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Enrollment struct {
	ID              string           `gorm:"primaryKey;size:36;not null"`
	UserID          string           `gorm:"size:64;uniqueIndex:idx_enrollments_user_course;not null"`
	CourseID        string           `gorm:"size:64;uniqueIndex:idx_enrollments_user_course;not null"`
	Status          EnrollmentStatus `gorm:"size:16;not null"`
	PaymentIntentID string           `gorm:"size:255;index"`
	EnrolledAt      time.Time        `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
