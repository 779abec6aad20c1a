package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"course-checkout/internal/client"
	"course-checkout/internal/errs"
	"course-checkout/internal/model"
	"course-checkout/internal/repository"
)

const (
	StripeSignatureHeader = "Stripe-Signature"

	eventPaymentIntentSucceeded = "payment_intent.succeeded"
	eventPaymentIntentFailed    = "payment_intent.payment_failed"

	signatureTolerance = 5 * time.Minute
)

type WebhookService interface {
	// HandleStripeWebhook returns an error when the provider should redeliver.
	HandleStripeWebhook(ctx context.Context, headers http.Header, body []byte) error
}

type webhookServiceImpl struct {
	secret           string
	reconciliation   ReconciliationService
	recorder         PaymentRecorder
	webhookEventRepo repository.WebhookEventRepository
	logger           *slog.Logger
	now              func() time.Time
}

func NewWebhookService(
	secret string,
	reconciliation ReconciliationService,
	recorder PaymentRecorder,
	webhookEventRepo repository.WebhookEventRepository,
	logger *slog.Logger,
) WebhookService {
	return &webhookServiceImpl{
		secret:           secret,
		reconciliation:   reconciliation,
		recorder:         recorder,
		webhookEventRepo: webhookEventRepo,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *webhookServiceImpl) HandleStripeWebhook(ctx context.Context, headers http.Header, body []byte) error {
	if err := s.verifySignature(headers.Get(StripeSignatureHeader), body); err != nil {
		return errs.Mark(errs.Wrap(err, "verify webhook signature"), errs.ErrInvalidSignature)
	}

	var event model.StripeWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return errs.Mark(errs.Wrap(err, "decode webhook payload"), errs.ErrInvalidPayload)
	}
	if event.ID == "" || event.Type == "" {
		return errs.Mark(errs.New("webhook event without id or type"), errs.ErrInvalidPayload)
	}

	processed, err := s.webhookEventRepo.Exists(ctx, event.ID)
	if err != nil {
		return errs.Wrap(err, "check webhook event")
	}
	if processed {
		s.logger.Debug("webhook event already processed", "event_id", event.ID)
		return nil
	}

	switch event.Type {
	case eventPaymentIntentSucceeded:
		err = s.handleIntentSucceeded(ctx, &event)
	case eventPaymentIntentFailed:
		err = s.handleIntentFailed(ctx, &event)
	default:
		s.logger.Debug("ignoring webhook event", "event_id", event.ID, "event_type", event.Type)
	}
	if err != nil {
		return err
	}

	return s.webhookEventRepo.MarkProcessed(ctx, event.ID, event.Type)
}

func (s *webhookServiceImpl) handleIntentSucceeded(ctx context.Context, event *model.StripeWebhookEvent) error {
	intent, err := decodeIntent(event)
	if err != nil {
		return err
	}

	outcome := s.reconciliation.ConfirmPayment(ctx,
		intent.ID,
		intent.Metadata[model.MetadataCourseID],
		intent.Metadata[model.MetadataUserID],
	)
	if outcome.IsSuccess() {
		return nil
	}

	// final rejections would fail the same way on every delivery
	if outcome.RetryStep() == RetryNone {
		s.logger.Warn("webhook confirmation rejected",
			"event_id", event.ID,
			"intent_id", intent.ID,
			"reason", outcome.Reason,
			"detail", outcome.Detail,
		)
		return nil
	}

	return errs.Newf("confirm intent %s: %s %s", intent.ID, outcome.Kind, outcome.Reason)
}

func (s *webhookServiceImpl) handleIntentFailed(ctx context.Context, event *model.StripeWebhookEvent) error {
	intent, err := decodeIntent(event)
	if err != nil {
		return err
	}

	userID := intent.Metadata[model.MetadataUserID]
	courseID := intent.Metadata[model.MetadataCourseID]
	if userID == "" || courseID == "" {
		s.logger.Warn("failed intent without checkout metadata", "event_id", event.ID, "intent_id", intent.ID)
		return nil
	}

	return s.recorder.RecordFailed(ctx, RecordPaymentParams{
		UserID:      userID,
		IntentID:    intent.ID,
		CourseID:    courseID,
		AmountMinor: intent.Amount,
		Currency:    intent.Currency,
		Provider:    client.ProviderStripe,
	})
}

func decodeIntent(event *model.StripeWebhookEvent) (*model.StripePaymentIntent, error) {
	var intent model.StripePaymentIntent
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "decode payment intent"), errs.ErrInvalidPayload)
	}
	if intent.ID == "" {
		return nil, errs.Mark(errs.New("payment intent without id"), errs.ErrInvalidPayload)
	}
	return &intent, nil
}

// verifySignature checks a "t=<unix>,v1=<hex>" header where v1 is the
// HMAC-SHA256 of "<t>.<body>" under the endpoint secret.
func (s *webhookServiceImpl) verifySignature(header string, body []byte) error {
	if s.secret == "" {
		return errs.New("webhook secret not configured")
	}
	if header == "" {
		return errs.New("missing signature header")
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return errs.New("malformed signature header")
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errs.Wrap(err, "parse signature timestamp")
	}
	if age := s.now().Sub(time.Unix(unix, 0)); age > signatureTolerance || age < -signatureTolerance {
		return errs.New("signature timestamp outside tolerance")
	}

	expected := computeSignature(s.secret, timestamp, body)
	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}

	return errs.New("no matching signature")
}

func computeSignature(secret, timestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}
