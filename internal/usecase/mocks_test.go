//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"member-grants-platform/internal/domain"
	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// MockTxManager runs the callback without a real transaction.
type MockTxManager struct{}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// ---------------- Users / Admins ----------------

type MockUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User
}

func NewMockUserRepo() *MockUserRepo { return &MockUserRepo{store: make(map[string]*model.User)} }

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

type MockAdminRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Admin
}

func NewMockAdminRepo() *MockAdminRepo { return &MockAdminRepo{store: make(map[string]*model.Admin)} }

func (m *MockAdminRepo) Save(ctx context.Context, tx repository.Tx, a *model.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *MockAdminRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockAdminRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.store {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type MockProfileRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Profile // keyed by user ID
}

func NewMockProfileRepo() *MockProfileRepo {
	return &MockProfileRepo{store: make(map[string]*model.Profile)}
}

func (m *MockProfileRepo) Save(ctx context.Context, tx repository.Tx, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.UserID] = &cp
	return nil
}

func (m *MockProfileRepo) FindByUserID(ctx context.Context, tx repository.Tx, userID string) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// ---------------- Plans ----------------

type MockPlanRepo struct {
	mu    sync.RWMutex
	store map[string]*model.SubscriptionPlan
}

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{store: make(map[string]*model.SubscriptionPlan)}
}

func (m *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.SubscriptionPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPlanRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.SubscriptionPlan
	for _, p := range m.store {
		if p.Active {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

// ---------------- Payments ----------------

type MockPaymentRepo struct {
	mu       sync.RWMutex
	store    map[string]*model.Payment
	SaveFunc func(ctx context.Context, tx repository.Tx, p *model.Payment) error
}

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{store: make(map[string]*model.Payment)}
}

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, tx, p); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) FindByTransactionRef(ctx context.Context, tx repository.Tx, ref string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.TransactionRef != nil && *p.TransactionRef == ref {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) FindPendingRenewal(ctx context.Context, tx repository.Tx, subscriptionID string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.Status == model.PaymentStatusPending && p.RenewsSubscriptionID != nil && *p.RenewsSubscriptionID == subscriptionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time, limit int) ([]*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Payment
	for _, p := range m.store {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(cutoff) {
			cp := *p
			out = append(out, &cp)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockPaymentRepo) SumCompletedByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, p := range m.store {
		if p.Status == model.PaymentStatusCompleted {
			sum += p.AmountCents
		}
	}
	return sum, nil
}

// ---------------- Subscriptions ----------------

type MockSubscriptionRepo struct {
	mu       sync.RWMutex
	store    map[string]*model.Subscription
	SaveFunc func(ctx context.Context, tx repository.Tx, s *model.Subscription) error
}

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{store: make(map[string]*model.Subscription)}
}

func (m *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, tx, s); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepo) FindByPaymentID(ctx context.Context, tx repository.Tx, paymentID string) ([]*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Subscription
	for _, s := range m.store {
		if s.PaymentID == paymentID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockSubscriptionRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Subscription
	for _, s := range m.store {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockSubscriptionRepo) ListActiveDue(ctx context.Context, tx repository.Tx, now time.Time, limit int) ([]*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Subscription
	for _, s := range m.store {
		if s.Status == model.SubscriptionStatusActive && !now.Before(s.EndDate) {
			cp := *s
			out = append(out, &cp)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockSubscriptionRepo) CountActiveByPlan(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int)
	for _, s := range m.store {
		if s.Status == model.SubscriptionStatusActive {
			out[s.PlanID]++
		}
	}
	return out, nil
}

// ---------------- Grants ----------------

type MockGrantRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Grant
}

func NewMockGrantRepo() *MockGrantRepo { return &MockGrantRepo{store: make(map[string]*model.Grant)} }

func (m *MockGrantRepo) Save(ctx context.Context, tx repository.Tx, g *model.Grant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.store[g.ID] = &cp
	return nil
}

func (m *MockGrantRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *MockGrantRepo) List(ctx context.Context, tx repository.Tx, featuredOnly bool) ([]*model.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Grant
	for _, g := range m.store {
		if featuredOnly && !g.Featured {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

type MockApplicationRepo struct {
	mu       sync.RWMutex
	store    map[string]*model.UserGrantApplication
	SaveFunc func(ctx context.Context, tx repository.Tx, a *model.UserGrantApplication) error
}

func NewMockApplicationRepo() *MockApplicationRepo {
	return &MockApplicationRepo{store: make(map[string]*model.UserGrantApplication)}
}

func (m *MockApplicationRepo) Save(ctx context.Context, tx repository.Tx, a *model.UserGrantApplication) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, tx, a); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *MockApplicationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.UserGrantApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockApplicationRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.UserGrantApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.UserGrantApplication
	for _, a := range m.store {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockApplicationRepo) ListByGrant(ctx context.Context, tx repository.Tx, grantID string) ([]*model.UserGrantApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.UserGrantApplication
	for _, a := range m.store {
		if a.GrantID == grantID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockApplicationRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int)
	for _, a := range m.store {
		out[string(a.Status)]++
	}
	return out, nil
}

// ---------------- Support ----------------

type MockTicketRepo struct {
	mu    sync.RWMutex
	store map[string]*model.SupportTicket
}

func NewMockTicketRepo() *MockTicketRepo {
	return &MockTicketRepo{store: make(map[string]*model.SupportTicket)}
}

func (m *MockTicketRepo) Save(ctx context.Context, tx repository.Tx, t *model.SupportTicket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.store[t.ID] = &cp
	return nil
}

func (m *MockTicketRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SupportTicket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockTicketRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.SupportTicket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.SupportTicket
	for _, t := range m.store {
		if t.UserID != nil && *t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTicketRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.TicketStatus, limit int) ([]*model.SupportTicket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.SupportTicket
	for _, t := range m.store {
		if t.Status == status {
			cp := *t
			out = append(out, &cp)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

type MockResponseRepo struct {
	mu    sync.RWMutex
	store []*model.SupportResponse
}

func NewMockResponseRepo() *MockResponseRepo { return &MockResponseRepo{} }

func (m *MockResponseRepo) Save(ctx context.Context, tx repository.Tx, r *model.SupportResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.store = append(m.store, &cp)
	return nil
}

func (m *MockResponseRepo) ListByTicket(ctx context.Context, tx repository.Tx, ticketID string) ([]*model.SupportResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.SupportResponse
	for _, r := range m.store {
		if r.TicketID == ticketID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---------------- Gateway ----------------

type MockPaymentGateway struct {
	mu          sync.Mutex
	seq         int64
	RequestErr  error
	VerifyFunc  func(ctx context.Context, ref string, expected int64) (string, error)
	LastRequest int64
}

func (g *MockPaymentGateway) Name() string { return "mock" }

func (g *MockPaymentGateway) RequestPayment(ctx context.Context, amountCents int64, currency, description, callbackURL string) (string, string, error) {
	if g.RequestErr != nil {
		return "", "", g.RequestErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.LastRequest = amountCents
	ref := fmt.Sprintf("txn-%d", g.seq)
	return ref, "https://gateway.test/pay/" + ref, nil
}

func (g *MockPaymentGateway) VerifyPayment(ctx context.Context, ref string, expected int64) (string, error) {
	if g.VerifyFunc != nil {
		return g.VerifyFunc(ctx, ref, expected)
	}
	return "OK", nil
}
