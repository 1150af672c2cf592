package wallet

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oddslip/oddslip/models"
)

// IntentStatus is the processor-side state of a payment intent.
type IntentStatus string

const (
	IntentStatusPending   IntentStatus = "pending"
	IntentStatusSucceeded IntentStatus = "succeeded"
	IntentStatusFailed    IntentStatus = "failed"
)

// PaymentIntent is the processor's view of a payment in flight. Its ID is
// stored on the ledger entry as the provider reference so that provider
// events can be correlated back to the transaction.
type PaymentIntent struct {
	ID     string
	Status IntentStatus
	Amount decimal.Decimal
	Method string
}

// PaymentProcessor abstracts the external payment provider.
type PaymentProcessor interface {
	CreateCustomer(ctx context.Context, user *models.User) (string, error)
	CreatePaymentIntent(ctx context.Context, customerRef string, amount decimal.Decimal, method string) (*PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
}

// SimulatedProcessor approves a configurable share of payments and keeps
// intents in memory. It stands in for a real gateway integration.
type SimulatedProcessor struct {
	mu          sync.Mutex
	intents     map[string]*PaymentIntent
	approveRate float64
	rng         *rand.Rand
}

// NewSimulatedProcessor creates a processor that approves approveRate
// (0..1) of confirmed payments.
func NewSimulatedProcessor(approveRate float64) *SimulatedProcessor {
	return &SimulatedProcessor{
		intents:     make(map[string]*PaymentIntent),
		approveRate: approveRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *SimulatedProcessor) CreateCustomer(_ context.Context, user *models.User) (string, error) {
	return fmt.Sprintf("cus_sim_%s", user.ID), nil
}

func (p *SimulatedProcessor) CreatePaymentIntent(_ context.Context, customerRef string, amount decimal.Decimal, method string) (*PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	intent := &PaymentIntent{
		ID:     fmt.Sprintf("pi_sim_%s_%d", customerRef, p.rng.Int63()),
		Status: IntentStatusPending,
		Amount: amount,
		Method: method,
	}
	p.intents[intent.ID] = intent
	return intent, nil
}

func (p *SimulatedProcessor) ConfirmPaymentIntent(_ context.Context, intentID string) (*PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	intent, ok := p.intents[intentID]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	if intent.Status == IntentStatusPending {
		if p.rng.Float64() < p.approveRate {
			intent.Status = IntentStatusSucceeded
		} else {
			intent.Status = IntentStatusFailed
		}
	}
	return intent, nil
}
