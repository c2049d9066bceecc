package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
)

var _ repository.SubscriptionPlanRepository = (*planRepo)(nil)

type planRepo struct{ pool *pgxpool.Pool }

func NewPlanRepo(pool *pgxpool.Pool) *planRepo {
	return &planRepo{pool: pool}
}

const planCols = `id, name, price_cents, currency, billing_interval, features, active, created_at, updated_at`

func scanPlan(row pgx.Row) (*model.SubscriptionPlan, error) {
	p := &model.SubscriptionPlan{}
	if err := row.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Currency, &p.Interval, &p.Features, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, normScanErr(err)
	}
	return p, nil
}

func (r *planRepo) Save(ctx context.Context, tx repository.Tx, p *model.SubscriptionPlan) error {
	const q = `
INSERT INTO subscription_plans (
  id, name, price_cents, currency, billing_interval, features, active, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
) ON CONFLICT (id) DO UPDATE SET
  name=$2, price_cents=$3, currency=$4, billing_interval=$5, features=$6, active=$7, updated_at=$9;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.Name, p.PriceCents, p.Currency, p.Interval, p.Features, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return normExecErr(err)
	}
	return nil
}

func (r *planRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	const q = `SELECT ` + planCols + ` FROM subscription_plans WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPlan(row)
}

func (r *planRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	const q = `SELECT ` + planCols + ` FROM subscription_plans WHERE active ORDER BY price_cents ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, normExecErr(err)
	}
	defer rows.Close()

	var out []*model.SubscriptionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *planRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	// Plans funding historical rows are retired, never dropped.
	const q = `UPDATE subscription_plans SET active=false, updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return normExecErr(err)
	}
	return nil
}
