package model

import (
	"time"

	"member-grants-platform/internal/domain"

	"github.com/google/uuid"
)

// Grant is a published funding listing users apply to.
type Grant struct {
	ID           string
	Title        string
	AmountCents  int64
	Type         string
	Level        string
	Category     string
	Organization string

	ApplicationDeadline time.Time

	// Free-text listing copy.
	Requirements string
	Benefits     string
	Eligibility  string
	Process      string
	Contact      string

	Featured  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewGrant(id, title string, amountCents int64, deadline time.Time) (*Grant, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if title == "" {
		return nil, domain.NewValidationError("title", "must not be empty")
	}
	if amountCents < 0 {
		return nil, domain.NewValidationError("amount", "must not be negative")
	}
	if deadline.IsZero() {
		return nil, domain.NewValidationError("applicationDeadline", "must be set")
	}
	now := time.Now()
	return &Grant{
		ID:                  id,
		Title:               title,
		AmountCents:         amountCents,
		ApplicationDeadline: deadline,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

func (g *Grant) IsZero() bool { return g == nil || g.ID == "" }

// AcceptingAt reports whether submissions are still open at the given time.
func (g *Grant) AcceptingAt(now time.Time) bool {
	return now.Before(g.ApplicationDeadline)
}
