package repository

import (
	"context"

	"member-grants-platform/internal/domain/model"
)

type GrantRepository interface {
	Save(ctx context.Context, tx Tx, g *model.Grant) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Grant, error)
	List(ctx context.Context, tx Tx, featuredOnly bool) ([]*model.Grant, error)
}

type GrantApplicationRepository interface {
	Save(ctx context.Context, tx Tx, a *model.UserGrantApplication) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.UserGrantApplication, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.UserGrantApplication, error)
	ListByGrant(ctx context.Context, tx Tx, grantID string) ([]*model.UserGrantApplication, error)
	CountByStatus(ctx context.Context, tx Tx) (map[string]int, error)
}
