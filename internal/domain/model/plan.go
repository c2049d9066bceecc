package model

import (
	"time"

	"member-grants-platform/internal/domain"

	"github.com/google/uuid"
)

// BillingInterval is the charge cadence of a plan.
type BillingInterval string

const (
	IntervalMonthly   BillingInterval = "monthly"
	IntervalQuarterly BillingInterval = "quarterly"
	IntervalYearly    BillingInterval = "yearly"
)

func (i BillingInterval) Valid() bool {
	switch i {
	case IntervalMonthly, IntervalQuarterly, IntervalYearly:
		return true
	}
	return false
}

// AddTo returns the end of one billing period starting at t.
// Calendar arithmetic, not fixed day counts: a monthly period starting
// Jan 31 ends Mar 2/3 per time.AddDate normalization.
func (i BillingInterval) AddTo(t time.Time) time.Time {
	switch i {
	case IntervalQuarterly:
		return t.AddDate(0, 3, 0)
	case IntervalYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// SubscriptionPlan is a purchasable plan. Plans referenced by subscriptions
// are treated as immutable; edits are expected only on inactive plans.
type SubscriptionPlan struct {
	ID         string
	Name       string
	PriceCents int64
	Currency   string
	Interval   BillingInterval
	Features   []string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *SubscriptionPlan) IsZero() bool { return p == nil || p.ID == "" }

// NewSubscriptionPlan validates and constructs a plan.
func NewSubscriptionPlan(id, name string, priceCents int64, currency string, interval BillingInterval, features []string) (*SubscriptionPlan, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if priceCents <= 0 {
		return nil, domain.NewValidationError("price", "must be positive")
	}
	if currency == "" {
		return nil, domain.NewValidationError("currency", "must not be empty")
	}
	if !interval.Valid() {
		return nil, domain.NewValidationError("interval", "must be monthly, quarterly or yearly")
	}
	now := time.Now()
	return &SubscriptionPlan{
		ID:         id,
		Name:       name,
		PriceCents: priceCents,
		Currency:   currency,
		Interval:   interval,
		Features:   features,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
