package model

import (
	"time"

	"member-grants-platform/internal/domain"

	"github.com/google/uuid"
)

// SupportResponse is one message on a ticket thread. AdminID is nullable:
// it is set (with IsAdmin) only for staff replies; user and anonymous replies
// carry neither.
type SupportResponse struct {
	ID        string
	TicketID  string
	AdminID   *string
	Content   string
	IsAdmin   bool
	CreatedAt time.Time
}

func NewSupportResponse(ticketID, content string, adminID *string) (*SupportResponse, error) {
	if ticketID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if content == "" {
		return nil, domain.NewValidationError("content", "must not be empty")
	}
	return &SupportResponse{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		AdminID:   adminID,
		Content:   content,
		IsAdmin:   adminID != nil,
		CreatedAt: time.Now(),
	}, nil
}
