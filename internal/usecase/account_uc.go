// File: internal/usecase/account_uc.go
package usecase

import (
	"context"
	"errors"

	"member-grants-platform/internal/domain"
	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ AccountUseCase = (*accountUC)(nil)

// AccountUseCase is the account store the engines lean on for identity.
// Deliberately thin: no sessions, no password policy beyond storing the hash.
type AccountUseCase interface {
	Register(ctx context.Context, email, passwordHash, name string) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpsertProfile(ctx context.Context, userID string, bio, phone, avatarURL string) (*model.Profile, error)
	GetAdmin(ctx context.Context, id string) (*model.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	CountUsers(ctx context.Context) (int, error)
}

type accountUC struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	admins   repository.AdminRepository
}

func NewAccountUseCase(users repository.UserRepository, profiles repository.ProfileRepository, admins repository.AdminRepository) *accountUC {
	return &accountUC{users: users, profiles: profiles, admins: admins}
}

func (u *accountUC) Register(ctx context.Context, email, passwordHash, name string) (*model.User, error) {
	if existing, err := u.users.FindByEmail(ctx, nil, email); err == nil && !existing.IsZero() {
		return nil, domain.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	usr, err := model.NewUser("", email, passwordHash, name)
	if err != nil {
		return nil, err
	}
	if err := u.users.Save(ctx, nil, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

func (u *accountUC) GetUser(ctx context.Context, id string) (*model.User, error) {
	return u.users.FindByID(ctx, nil, id)
}

func (u *accountUC) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.users.FindByEmail(ctx, nil, email)
}

func (u *accountUC) UpsertProfile(ctx context.Context, userID string, bio, phone, avatarURL string) (*model.Profile, error) {
	p, err := u.profiles.FindByUserID(ctx, nil, userID)
	if errors.Is(err, domain.ErrNotFound) {
		p, err = model.NewProfile(userID)
	}
	if err != nil {
		return nil, err
	}
	p.Bio = bio
	p.Phone = phone
	p.AvatarURL = avatarURL
	if err := u.profiles.Save(ctx, nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *accountUC) GetAdmin(ctx context.Context, id string) (*model.Admin, error) {
	return u.admins.FindByID(ctx, nil, id)
}

func (u *accountUC) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return u.admins.FindByEmail(ctx, nil, email)
}

func (u *accountUC) CountUsers(ctx context.Context) (int, error) {
	return u.users.CountUsers(ctx, nil)
}
