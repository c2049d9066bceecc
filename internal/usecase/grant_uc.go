// File: internal/usecase/grant_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"member-grants-platform/internal/domain"
	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
	"member-grants-platform/internal/infra/metrics"
)

// Compile-time check
var _ GrantUseCase = (*grantUC)(nil)

// ApplicationDecision is a terminal review outcome.
type ApplicationDecision string

const (
	DecisionApproved ApplicationDecision = "approved"
	DecisionRejected ApplicationDecision = "rejected"
)

type GrantUseCase interface {
	ListGrants(ctx context.Context, featuredOnly bool) ([]*model.Grant, error)
	GetGrant(ctx context.Context, id string) (*model.Grant, error)
	// SaveGrant upserts a grant on behalf of staff.
	SaveGrant(ctx context.Context, g *model.Grant) error
	// ListByGrant returns applications for one grant, submitted first.
	ListByGrant(ctx context.Context, grantID string) ([]*model.UserGrantApplication, error)

	// CreateApplication opens a draft. Duplicate applications per (user, grant)
	// are allowed: there is no uniqueness rule in the model.
	CreateApplication(ctx context.Context, userID, grantID string) (*model.UserGrantApplication, error)
	// SaveDocuments replaces the document list and notes of a draft.
	SaveDocuments(ctx context.Context, applicationID, documents string, notes *string) (*model.UserGrantApplication, error)
	// SubmitApplication performs draft -> submitted, stamping SubmittedAt.
	// Rejected when documents are empty or the grant deadline has passed.
	SubmitApplication(ctx context.Context, applicationID string) (*model.UserGrantApplication, error)
	// StartReview moves submitted -> under_review on behalf of staff.
	StartReview(ctx context.Context, adminID, applicationID string) (*model.UserGrantApplication, error)
	// ReviewApplication records a staff decision. Terminal applications are
	// not re-reviewable.
	ReviewApplication(ctx context.Context, adminID, applicationID string, decision ApplicationDecision, notes *string) (*model.UserGrantApplication, error)
	ListByUser(ctx context.Context, userID string) ([]*model.UserGrantApplication, error)
}

type grantUC struct {
	grants repository.GrantRepository
	apps   repository.GrantApplicationRepository
	users  repository.UserRepository
	admins repository.AdminRepository
	log    *zerolog.Logger
}

func NewGrantUseCase(
	grants repository.GrantRepository,
	apps repository.GrantApplicationRepository,
	users repository.UserRepository,
	admins repository.AdminRepository,
	logger *zerolog.Logger,
) *grantUC {
	l := logger.With().Str("component", "GrantUC").Logger()
	return &grantUC{grants: grants, apps: apps, users: users, admins: admins, log: &l}
}

func (u *grantUC) ListGrants(ctx context.Context, featuredOnly bool) ([]*model.Grant, error) {
	return u.grants.List(ctx, nil, featuredOnly)
}

func (u *grantUC) GetGrant(ctx context.Context, id string) (*model.Grant, error) {
	return u.grants.FindByID(ctx, nil, id)
}

func (u *grantUC) SaveGrant(ctx context.Context, g *model.Grant) error {
	if g.Title == "" {
		return domain.NewValidationError("title", "must not be empty")
	}
	if err := u.grants.Save(ctx, nil, g); err != nil {
		return err
	}
	u.log.Info().Str("grant_id", g.ID).Msg("grant saved")
	return nil
}

func (u *grantUC) ListByGrant(ctx context.Context, grantID string) ([]*model.UserGrantApplication, error) {
	if _, err := u.grants.FindByID(ctx, nil, grantID); err != nil {
		return nil, err
	}
	return u.apps.ListByGrant(ctx, nil, grantID)
}

func (u *grantUC) CreateApplication(ctx context.Context, userID, grantID string) (*model.UserGrantApplication, error) {
	if _, err := u.users.FindByID(ctx, nil, userID); err != nil {
		return nil, err
	}
	if _, err := u.grants.FindByID(ctx, nil, grantID); err != nil {
		return nil, err
	}
	app, err := model.NewGrantApplication(userID, grantID)
	if err != nil {
		return nil, err
	}
	if err := u.apps.Save(ctx, nil, app); err != nil {
		return nil, err
	}
	metrics.IncApplicationEvent("created")
	u.log.Info().Str("application_id", app.ID).Str("grant_id", grantID).Msg("application drafted")
	return app, nil
}

func (u *grantUC) SaveDocuments(ctx context.Context, applicationID, documents string, notes *string) (*model.UserGrantApplication, error) {
	app, err := u.apps.FindByID(ctx, nil, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != model.ApplicationStatusDraft {
		return nil, domain.NewStateTransitionError("application", string(app.Status), string(model.ApplicationStatusDraft))
	}
	app.Documents = documents
	if notes != nil {
		app.Notes = notes
	}
	app.UpdatedAt = time.Now()
	if err := u.apps.Save(ctx, nil, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (u *grantUC) SubmitApplication(ctx context.Context, applicationID string) (*model.UserGrantApplication, error) {
	app, err := u.apps.FindByID(ctx, nil, applicationID)
	if err != nil {
		return nil, err
	}
	grant, err := u.grants.FindByID(ctx, nil, app.GrantID)
	if err != nil {
		return nil, err
	}
	if err := app.Submit(grant, time.Now()); err != nil {
		return nil, err
	}
	if err := u.apps.Save(ctx, nil, app); err != nil {
		return nil, err
	}
	metrics.IncApplicationEvent("submitted")
	u.log.Info().Str("application_id", app.ID).Msg("application submitted")
	return app, nil
}

func (u *grantUC) StartReview(ctx context.Context, adminID, applicationID string) (*model.UserGrantApplication, error) {
	if _, err := u.admins.FindByID(ctx, nil, adminID); err != nil {
		return nil, err
	}
	app, err := u.apps.FindByID(ctx, nil, applicationID)
	if err != nil {
		return nil, err
	}
	if err := app.Transition(model.ApplicationStatusUnderReview); err != nil {
		return nil, err
	}
	if err := u.apps.Save(ctx, nil, app); err != nil {
		return nil, err
	}
	metrics.IncApplicationEvent("under_review")
	return app, nil
}

func (u *grantUC) ReviewApplication(ctx context.Context, adminID, applicationID string, decision ApplicationDecision, notes *string) (*model.UserGrantApplication, error) {
	if _, err := u.admins.FindByID(ctx, nil, adminID); err != nil {
		return nil, err
	}
	var next model.ApplicationStatus
	switch decision {
	case DecisionApproved:
		next = model.ApplicationStatusApproved
	case DecisionRejected:
		next = model.ApplicationStatusRejected
	default:
		return nil, domain.NewValidationError("decision", "must be approved or rejected")
	}

	app, err := u.apps.FindByID(ctx, nil, applicationID)
	if err != nil {
		return nil, err
	}
	if err := app.Transition(next); err != nil {
		return nil, err
	}
	if notes != nil {
		app.Notes = notes
	}
	if err := u.apps.Save(ctx, nil, app); err != nil {
		return nil, err
	}
	metrics.IncApplicationEvent(string(next))
	u.log.Info().Str("application_id", app.ID).Str("decision", string(decision)).Str("admin_id", adminID).Msg("application reviewed")
	return app, nil
}

func (u *grantUC) ListByUser(ctx context.Context, userID string) ([]*model.UserGrantApplication, error) {
	return u.apps.ListByUser(ctx, nil, userID)
}
