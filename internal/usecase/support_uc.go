// File: internal/usecase/support_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"member-grants-platform/internal/domain"
	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
	"member-grants-platform/internal/infra/metrics"
)

// Compile-time check
var _ SupportUseCase = (*supportUC)(nil)

// TicketThread is a ticket with its responses in chronological order.
type TicketThread struct {
	Ticket    *model.SupportTicket
	Responses []*model.SupportResponse
}

type SupportUseCase interface {
	// OpenTicket files a ticket. userID may be nil: anonymous submitters are
	// reachable through the name/email captured on the ticket row.
	OpenTicket(ctx context.Context, userID *string, name, email, subject, message string, priority model.TicketPriority, category string) (*model.SupportTicket, error)
	// AddResponse appends to the thread. adminID non-nil marks a staff reply:
	// staff may answer closed tickets, implicitly reopening them; anyone else
	// is turned away from a closed ticket.
	AddResponse(ctx context.Context, ticketID, content string, adminID *string) (*model.SupportResponse, error)
	// UpdateStatus applies the ticket transition table (staff surface).
	UpdateStatus(ctx context.Context, ticketID string, next model.TicketStatus) (*model.SupportTicket, error)
	GetThread(ctx context.Context, ticketID string) (*TicketThread, error)
	ListByUser(ctx context.Context, userID string) ([]*model.SupportTicket, error)
	ListOpen(ctx context.Context, limit int) ([]*model.SupportTicket, error)
}

type supportUC struct {
	tickets   repository.SupportTicketRepository
	responses repository.SupportResponseRepository
	users     repository.UserRepository
	admins    repository.AdminRepository
	log       *zerolog.Logger
}

func NewSupportUseCase(
	tickets repository.SupportTicketRepository,
	responses repository.SupportResponseRepository,
	users repository.UserRepository,
	admins repository.AdminRepository,
	logger *zerolog.Logger,
) *supportUC {
	l := logger.With().Str("component", "SupportUC").Logger()
	return &supportUC{tickets: tickets, responses: responses, users: users, admins: admins, log: &l}
}

func (u *supportUC) OpenTicket(ctx context.Context, userID *string, name, email, subject, message string, priority model.TicketPriority, category string) (*model.SupportTicket, error) {
	if userID != nil {
		owner, err := u.users.FindByID(ctx, nil, *userID)
		if err != nil {
			return nil, err
		}
		// Contact fields are stored redundantly on the ticket row.
		if name == "" {
			name = owner.Name
		}
		if email == "" {
			email = owner.Email
		}
	}
	t, err := model.NewSupportTicket(userID, name, email, subject, message, priority, category)
	if err != nil {
		return nil, err
	}
	if err := u.tickets.Save(ctx, nil, t); err != nil {
		return nil, err
	}
	metrics.IncTicketEvent("opened")
	u.log.Info().Str("ticket_id", t.ID).Bool("anonymous", userID == nil).Msg("ticket opened")
	return t, nil
}

func (u *supportUC) AddResponse(ctx context.Context, ticketID, content string, adminID *string) (*model.SupportResponse, error) {
	t, err := u.tickets.FindByID(ctx, nil, ticketID)
	if err != nil {
		return nil, err
	}

	staff := adminID != nil
	if staff {
		if _, err := u.admins.FindByID(ctx, nil, *adminID); err != nil {
			return nil, err
		}
	}
	if t.Status == model.TicketStatusClosed && !staff {
		return nil, domain.ErrTicketClosed
	}

	r, err := model.NewSupportResponse(t.ID, content, adminID)
	if err != nil {
		return nil, err
	}
	if err := u.responses.Save(ctx, nil, r); err != nil {
		return nil, err
	}

	// First staff touch takes the ticket in progress; a staff reply on a
	// closed ticket reopens it.
	if staff && (t.Status == model.TicketStatusOpen || t.Status == model.TicketStatusClosed) {
		if err := t.Transition(model.TicketStatusInProgress); err != nil {
			return nil, err
		}
		if err := u.tickets.Save(ctx, nil, t); err != nil {
			return nil, err
		}
		metrics.IncTicketEvent("in_progress")
	}

	metrics.IncTicketEvent("responded")
	return r, nil
}

func (u *supportUC) UpdateStatus(ctx context.Context, ticketID string, next model.TicketStatus) (*model.SupportTicket, error) {
	t, err := u.tickets.FindByID(ctx, nil, ticketID)
	if err != nil {
		return nil, err
	}
	if err := t.Transition(next); err != nil {
		return nil, err
	}
	if err := u.tickets.Save(ctx, nil, t); err != nil {
		return nil, err
	}
	metrics.IncTicketEvent(string(next))
	u.log.Info().Str("ticket_id", t.ID).Str("status", string(next)).Msg("ticket status updated")
	return t, nil
}

func (u *supportUC) GetThread(ctx context.Context, ticketID string) (*TicketThread, error) {
	t, err := u.tickets.FindByID(ctx, nil, ticketID)
	if err != nil {
		return nil, err
	}
	rs, err := u.responses.ListByTicket(ctx, nil, ticketID)
	if err != nil {
		return nil, err
	}
	return &TicketThread{Ticket: t, Responses: rs}, nil
}

func (u *supportUC) ListByUser(ctx context.Context, userID string) ([]*model.SupportTicket, error) {
	return u.tickets.ListByUser(ctx, nil, userID)
}

func (u *supportUC) ListOpen(ctx context.Context, limit int) ([]*model.SupportTicket, error) {
	return u.tickets.ListByStatus(ctx, nil, model.TicketStatusOpen, limit)
}
