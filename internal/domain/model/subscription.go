package model

import (
	"time"

	"member-grants-platform/internal/domain"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionStatusPending: {SubscriptionStatusActive, SubscriptionStatusCancelled},
	SubscriptionStatusActive:  {SubscriptionStatusCancelled, SubscriptionStatusExpired},
}

func (s SubscriptionStatus) CanTransition(next SubscriptionStatus) bool {
	for _, allowed := range subscriptionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Subscription is one entitlement period. A user may hold several at once;
// the schema does not force "one active per user" and neither does the engine.
type Subscription struct {
	ID        string
	UserID    string
	PlanID    string
	PaymentID string
	Status    SubscriptionStatus
	StartDate time.Time
	EndDate   time.Time
	AutoRenew bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSubscription creates an active subscription funded by a completed payment.
// EndDate is one plan interval after start and must land strictly after it.
func NewSubscription(userID, planID, paymentID string, plan *SubscriptionPlan, start time.Time, autoRenew bool) (*Subscription, error) {
	if userID == "" || planID == "" || paymentID == "" || plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	end := plan.Interval.AddTo(start)
	if !end.After(start) {
		return nil, domain.NewValidationError("endDate", "must be after startDate")
	}
	now := time.Now()
	return &Subscription{
		ID:        uuid.NewString(),
		UserID:    userID,
		PlanID:    planID,
		PaymentID: paymentID,
		Status:    SubscriptionStatusActive,
		StartDate: start,
		EndDate:   end,
		AutoRenew: autoRenew,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Transition validates against the table and applies the status change.
// Cancellation leaves EndDate untouched; no proration is modeled.
func (s *Subscription) Transition(next SubscriptionStatus) error {
	if !s.Status.CanTransition(next) {
		return domain.NewStateTransitionError("subscription", string(s.Status), string(next))
	}
	s.Status = next
	s.UpdatedAt = time.Now()
	return nil
}

// RenewalDue reports whether a renewal charge should be raised.
func (s *Subscription) RenewalDue(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.AutoRenew && !now.Before(s.EndDate)
}
