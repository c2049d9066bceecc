package model

import (
	"strings"
	"time"

	"member-grants-platform/internal/domain"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// ticketTransitions: closed is reachable from any prior state (administrative
// close); closed -> in_progress exists only for the staff reopen-by-response
// path and is guarded in the engine.
var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusResolved, TicketStatusClosed},
	TicketStatusResolved:   {TicketStatusClosed},
	TicketStatusClosed:     {TicketStatusInProgress},
}

func (s TicketStatus) CanTransition(next TicketStatus) bool {
	for _, allowed := range ticketTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// SupportTicket is one help-desk thread. UserID is nullable: anonymous
// submissions capture name/email on the row itself for contact purposes, and
// those fields are stored redundantly even for registered users.
type SupportTicket struct {
	ID       string
	UserID   *string
	Name     string
	Email    string
	Subject  string
	Message  string
	Status   TicketStatus
	Priority TicketPriority
	Category string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewSupportTicket(userID *string, name, email, subject, message string, priority TicketPriority, category string) (*SupportTicket, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "must be a valid address")
	}
	if subject == "" {
		return nil, domain.NewValidationError("subject", "must not be empty")
	}
	if message == "" {
		return nil, domain.NewValidationError("message", "must not be empty")
	}
	if priority == "" {
		priority = TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, domain.NewValidationError("priority", "must be low, medium, high or urgent")
	}
	if category == "" {
		category = "general"
	}
	now := time.Now()
	return &SupportTicket{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Email:     email,
		Subject:   subject,
		Message:   message,
		Status:    TicketStatusOpen,
		Priority:  priority,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Transition validates against the table. The closed -> in_progress edge is
// reserved for staff; callers enforce that before invoking it.
func (t *SupportTicket) Transition(next TicketStatus) error {
	if !t.Status.CanTransition(next) {
		return domain.NewStateTransitionError("ticket", string(t.Status), string(next))
	}
	t.Status = next
	t.UpdatedAt = time.Now()
	return nil
}
