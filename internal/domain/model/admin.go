package model

import (
	"strings"
	"time"

	"member-grants-platform/internal/domain"

	"github.com/google/uuid"
)

// Admin is a staff account. Staff may review grant applications and respond to
// support tickets; the Permissions string is a comma-separated capability list
// interpreted by the web layer.
type Admin struct {
	ID          string
	Email       string
	Name        string
	Role        string
	Permissions string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewAdmin(id, email, name, role string) (*Admin, error) {
	if id == "" {
		id = uuid.NewString()
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "must be a valid address")
	}
	if role == "" {
		role = "support"
	}
	now := time.Now()
	return &Admin{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (a *Admin) IsZero() bool { return a == nil || a.ID == "" }
