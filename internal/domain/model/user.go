package model

import (
	"strings"
	"time"

	"member-grants-platform/internal/domain"

	"github.com/google/uuid"
)

// User is the account entity every engine references by ID.
// Authentication beyond the stored password hash is out of scope here.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Plan         string // marketing plan label shown on the account, not an entitlement
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUser(id, email, passwordHash, name string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "must be a valid address")
	}
	if name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	now := time.Now()
	return &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         "user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
func (u *User) Touch()       { u.UpdatedAt = time.Now() }

// Profile is the optional one-per-user detail row.
type Profile struct {
	ID        string
	UserID    string
	Bio       string
	Phone     string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewProfile(userID string) (*Profile, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Profile{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
