//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"member-grants-platform/internal/domain"
)

// --- Payment Model Tests ---

func TestPaymentTransitions(t *testing.T) {
	userID := "user-1"
	planID := "plan-1"

	t.Run("should follow pending -> completed -> refunded", func(t *testing.T) {
		p, err := NewPayment(&userID, &planID, 1000, "USD", "card")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if p.Status != PaymentStatusPending {
			t.Fatalf("expected new payment to be pending, got %s", p.Status)
		}
		if err := p.Transition(PaymentStatusCompleted); err != nil {
			t.Fatalf("pending -> completed should be allowed, got: %v", err)
		}
		if p.PaidAt == nil {
			t.Error("expected PaidAt to be stamped on completion")
		}
		if err := p.Transition(PaymentStatusRefunded); err != nil {
			t.Fatalf("completed -> refunded should be allowed, got: %v", err)
		}
	})

	t.Run("should reject completed -> failed", func(t *testing.T) {
		p, _ := NewPayment(&userID, &planID, 1000, "USD", "card")
		_ = p.Transition(PaymentStatusCompleted)

		err := p.Transition(PaymentStatusFailed)
		if err == nil {
			t.Fatal("expected an error, but got nil")
		}
		if !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("expected ErrInvalidStateTransition, got %v", err)
		}
		var ste *domain.StateTransitionError
		if !errors.As(err, &ste) {
			t.Fatal("expected a StateTransitionError carrying transition detail")
		}
		if ste.From != "completed" || ste.To != "failed" {
			t.Errorf("unexpected transition detail: %q -> %q", ste.From, ste.To)
		}
	})

	t.Run("should reject non-positive amount", func(t *testing.T) {
		if _, err := NewPayment(nil, nil, 0, "USD", "card"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("should allow guest payment without user", func(t *testing.T) {
		p, err := NewPayment(nil, nil, 500, "USD", "card")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if p.UserID != nil {
			t.Error("expected guest payment to have nil UserID")
		}
	})
}

// --- Subscription Model Tests ---

func TestNewSubscription(t *testing.T) {
	plan, _ := NewSubscriptionPlan("", "Pro", 1000, "USD", IntervalMonthly, nil)

	t.Run("should set endDate one interval after startDate", func(t *testing.T) {
		start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		sub, err := NewSubscription("user-1", plan.ID, "pay-1", plan, start, false)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if sub.Status != SubscriptionStatusActive {
			t.Errorf("expected active, got %s", sub.Status)
		}
		want := start.AddDate(0, 1, 0)
		if !sub.EndDate.Equal(want) {
			t.Errorf("expected endDate %v, got %v", want, sub.EndDate)
		}
		if !sub.EndDate.After(sub.StartDate) {
			t.Error("endDate must be strictly after startDate")
		}
	})

	t.Run("should reject cancelled -> active", func(t *testing.T) {
		sub, _ := NewSubscription("user-1", plan.ID, "pay-1", plan, time.Now(), false)
		_ = sub.Transition(SubscriptionStatusCancelled)
		if err := sub.Transition(SubscriptionStatusActive); !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("expected ErrInvalidStateTransition, got %v", err)
		}
	})

	t.Run("cancel should leave endDate unchanged", func(t *testing.T) {
		sub, _ := NewSubscription("user-1", plan.ID, "pay-1", plan, time.Now(), false)
		end := sub.EndDate
		if err := sub.Transition(SubscriptionStatusCancelled); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !sub.EndDate.Equal(end) {
			t.Error("cancellation must not touch endDate")
		}
	})

	t.Run("RenewalDue only for active auto-renew past endDate", func(t *testing.T) {
		start := time.Now().AddDate(0, -2, 0)
		sub, _ := NewSubscription("user-1", plan.ID, "pay-1", plan, start, true)
		if !sub.RenewalDue(time.Now()) {
			t.Error("expected renewal to be due")
		}
		sub.AutoRenew = false
		if sub.RenewalDue(time.Now()) {
			t.Error("expected no renewal without autoRenew")
		}
	})
}

// --- Grant Application Model Tests ---

func TestGrantApplicationSubmit(t *testing.T) {
	grant, _ := NewGrant("", "Research Grant", 500000, time.Now().Add(48*time.Hour))

	t.Run("submittedAt is nil until submission and stamped once", func(t *testing.T) {
		app, err := NewGrantApplication("user-1", grant.ID)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if app.SubmittedAt != nil {
			t.Fatal("expected SubmittedAt to be nil for a draft")
		}
		app.Documents = `["cv.pdf"]`
		now := time.Now()
		if err := app.Submit(grant, now); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if app.SubmittedAt == nil || !app.SubmittedAt.Equal(now) {
			t.Error("expected SubmittedAt stamped with submission time")
		}
	})

	t.Run("should reject empty documents", func(t *testing.T) {
		app, _ := NewGrantApplication("user-1", grant.ID)
		err := app.Submit(grant, time.Now())
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if app.SubmittedAt != nil {
			t.Error("failed submission must not stamp SubmittedAt")
		}
	})

	t.Run("should reject submission past deadline", func(t *testing.T) {
		closed, _ := NewGrant("", "Closed Grant", 1000, time.Now().Add(-time.Hour))
		app, _ := NewGrantApplication("user-1", closed.ID)
		app.Documents = `["cv.pdf"]`
		if err := app.Submit(closed, time.Now()); !errors.Is(err, domain.ErrDeadlinePassed) {
			t.Errorf("expected ErrDeadlinePassed, got %v", err)
		}
	})

	t.Run("should reject re-submission", func(t *testing.T) {
		app, _ := NewGrantApplication("user-1", grant.ID)
		app.Documents = `["cv.pdf"]`
		_ = app.Submit(grant, time.Now())
		if err := app.Submit(grant, time.Now()); !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("expected ErrInvalidStateTransition, got %v", err)
		}
	})

	t.Run("terminal states cannot be re-reviewed", func(t *testing.T) {
		app, _ := NewGrantApplication("user-1", grant.ID)
		app.Documents = `["cv.pdf"]`
		_ = app.Submit(grant, time.Now())
		if err := app.Transition(ApplicationStatusApproved); err != nil {
			t.Fatalf("submitted -> approved should be allowed, got: %v", err)
		}
		if err := app.Transition(ApplicationStatusRejected); !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("expected ErrInvalidStateTransition, got %v", err)
		}
	})
}

// --- Support Ticket Model Tests ---

func TestSupportTicketTransitions(t *testing.T) {
	t.Run("anonymous ticket requires contact fields", func(t *testing.T) {
		if _, err := NewSupportTicket(nil, "", "jo@example.com", "s", "m", "", ""); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for empty name, got %v", err)
		}
		tk, err := NewSupportTicket(nil, "Jo", "jo@example.com", "Help", "It broke", "", "")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if tk.UserID != nil {
			t.Error("expected nil UserID on anonymous ticket")
		}
		if tk.Priority != TicketPriorityMedium || tk.Category != "general" {
			t.Error("expected defaulted priority/category")
		}
	})

	t.Run("closed reachable from any prior state", func(t *testing.T) {
		for _, from := range []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved} {
			if !from.CanTransition(TicketStatusClosed) {
				t.Errorf("expected %s -> closed to be allowed", from)
			}
		}
	})

	t.Run("resolved cannot move back to open", func(t *testing.T) {
		tk, _ := NewSupportTicket(nil, "Jo", "jo@example.com", "Help", "It broke", "", "")
		_ = tk.Transition(TicketStatusInProgress)
		_ = tk.Transition(TicketStatusResolved)
		if err := tk.Transition(TicketStatusOpen); !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("expected ErrInvalidStateTransition, got %v", err)
		}
	})
}
