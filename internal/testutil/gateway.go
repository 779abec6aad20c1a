package testutil

import (
	"context"
	"sync"

	"course-checkout/internal/errs"
	"course-checkout/internal/model"
)

// FakeGateway is an in-memory PaymentGateway. Intents are served from a map;
// Err, when set, is returned by every call instead.
type FakeGateway struct {
	mu           sync.Mutex
	intents      map[string]*model.PaymentIntent
	Err          error
	GetCalls     int
	LastParams   model.IntentParams
	NextIntentID string
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		intents:      map[string]*model.PaymentIntent{},
		NextIntentID: "pi_created",
	}
}

func (g *FakeGateway) Put(intent *model.PaymentIntent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents[intent.ID] = intent
}

func (g *FakeGateway) SetErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Err = err
}

func (g *FakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.GetCalls
}

func (g *FakeGateway) Name() string {
	return "fake"
}

func (g *FakeGateway) CreateIntent(ctx context.Context, params model.IntentParams) (*model.CreatedIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Err != nil {
		return nil, g.Err
	}
	g.LastParams = params
	g.intents[g.NextIntentID] = &model.PaymentIntent{
		ID:           g.NextIntentID,
		Amount:       params.Amount,
		Currency:     params.Currency,
		Status:       model.IntentStatusRequiresPayment,
		ClientSecret: g.NextIntentID + "_secret",
		Metadata:     params.Metadata,
	}

	return &model.CreatedIntent{
		IntentID:     g.NextIntentID,
		ClientSecret: g.NextIntentID + "_secret",
	}, nil
}

func (g *FakeGateway) GetIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.GetCalls++
	if g.Err != nil {
		return nil, g.Err
	}
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, errs.Mark(errs.Newf("no such intent %s", intentID), errs.ErrIntentNotFound)
	}

	copied := *intent
	return &copied, nil
}
