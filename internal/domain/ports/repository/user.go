package repository

import (
	"context"

	"member-grants-platform/internal/domain/model"
)

// UserRepository is the account-store port consumed by every engine.
type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)
}

type ProfileRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Profile) error
	FindByUserID(ctx context.Context, tx Tx, userID string) (*model.Profile, error)
}

type AdminRepository interface {
	Save(ctx context.Context, tx Tx, a *model.Admin) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Admin, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Admin, error)
}
