package worker

import (
	"context"
	"log/slog"
	"time"

	"course-checkout/internal/config"
	"course-checkout/internal/metrics"
	"course-checkout/internal/repository"
	"course-checkout/internal/service"
)

// EnrollmentSweeper finds completed payments that never produced an
// enrollment and retries only the enrollment step for them.
type EnrollmentSweeper struct {
	paymentRepo    repository.PaymentRepository
	reconciliation service.ReconciliationService
	metrics        *metrics.Metrics
	logger         *slog.Logger
	interval       time.Duration
	batchSize      int
}

func NewEnrollmentSweeper(
	cfg config.Sweeper,
	paymentRepo repository.PaymentRepository,
	reconciliation service.ReconciliationService,
	m *metrics.Metrics,
	logger *slog.Logger,
) *EnrollmentSweeper {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	return &EnrollmentSweeper{
		paymentRepo:    paymentRepo,
		reconciliation: reconciliation,
		metrics:        m,
		logger:         logger,
		interval:       interval,
		batchSize:      batchSize,
	}
}

// Start blocks until ctx is cancelled.
func (w *EnrollmentSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("enrollment sweeper started", "interval", w.interval.String(), "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("enrollment sweeper stopped")
			return
		case <-ticker.C:
			w.SweepOnce(ctx)
		}
	}
}

// SweepOnce processes one batch and returns how many enrollments it granted.
func (w *EnrollmentSweeper) SweepOnce(ctx context.Context) int {
	payments, err := w.paymentRepo.ListCompletedWithoutEnrollment(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("list payments without enrollment", "error", err.Error())
		return 0
	}
	if len(payments) == 0 {
		return 0
	}

	w.logger.Info("recovering enrollments", "count", len(payments))

	recovered := 0
	for _, payment := range payments {
		if ctx.Err() != nil {
			break
		}

		outcome := w.reconciliation.RetryEnrollment(ctx, payment.IntentID, payment.UserID)
		if !outcome.IsSuccess() {
			w.logger.Warn("enrollment recovery failed",
				"intent_id", payment.IntentID,
				"user_id", payment.UserID,
				"course_id", payment.CourseID,
				"outcome", outcome.Kind,
			)
			continue
		}

		recovered++
		w.metrics.EnrollmentsRecovered.Inc()
	}

	return recovered
}
