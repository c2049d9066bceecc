package payment

import (
	"context"
	"fmt"
	"sync"

	"member-grants-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is a simple in-memory gateway for development and tests.
// Every intent it opens verifies as completed.
type NoopPaymentGateway struct {
	mu      sync.Mutex
	seq     int64
	intents map[string]int64 // transaction ref -> expected amount in cents
}

func NewNoopPaymentGateway() *NoopPaymentGateway {
	return &NoopPaymentGateway{
		intents: make(map[string]int64),
	}
}

func (g *NoopPaymentGateway) Name() string { return "noop" }

func (g *NoopPaymentGateway) next() string {
	g.seq++
	return fmt.Sprintf("noop-%d", g.seq)
}

func (g *NoopPaymentGateway) RequestPayment(ctx context.Context, amountCents int64, currency, description, callbackURL string) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ref := g.next()
	g.intents[ref] = amountCents
	return ref, "https://example.test/pay/" + ref, nil
}

func (g *NoopPaymentGateway) VerifyPayment(ctx context.Context, transactionRef string, expectedAmountCents int64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	exp, ok := g.intents[transactionRef]
	if !ok {
		return "", fmt.Errorf("noop: transaction ref not found")
	}
	if exp != expectedAmountCents {
		return "", fmt.Errorf("noop: amount mismatch: expected %d got %d", exp, expectedAmountCents)
	}
	return "COMPLETED", nil
}
