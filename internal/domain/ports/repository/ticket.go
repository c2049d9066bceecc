package repository

import (
	"context"

	"member-grants-platform/internal/domain/model"
)

type SupportTicketRepository interface {
	Save(ctx context.Context, tx Tx, t *model.SupportTicket) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.SupportTicket, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.SupportTicket, error)
	ListByStatus(ctx context.Context, tx Tx, status model.TicketStatus, limit int) ([]*model.SupportTicket, error)
}

type SupportResponseRepository interface {
	Save(ctx context.Context, tx Tx, r *model.SupportResponse) error
	ListByTicket(ctx context.Context, tx Tx, ticketID string) ([]*model.SupportResponse, error)
}
