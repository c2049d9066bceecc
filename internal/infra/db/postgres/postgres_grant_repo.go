package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
)

var _ repository.GrantRepository = (*grantRepo)(nil)

type grantRepo struct{ pool *pgxpool.Pool }

func NewGrantRepo(pool *pgxpool.Pool) *grantRepo {
	return &grantRepo{pool: pool}
}

const grantCols = `id, title, amount_cents, type, level, category, organization, application_deadline, requirements, benefits, eligibility, process, contact, featured, created_at, updated_at`

func scanGrant(row pgx.Row) (*model.Grant, error) {
	g := &model.Grant{}
	if err := row.Scan(&g.ID, &g.Title, &g.AmountCents, &g.Type, &g.Level, &g.Category, &g.Organization, &g.ApplicationDeadline, &g.Requirements, &g.Benefits, &g.Eligibility, &g.Process, &g.Contact, &g.Featured, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, normScanErr(err)
	}
	return g, nil
}

func (r *grantRepo) Save(ctx context.Context, tx repository.Tx, g *model.Grant) error {
	const q = `
INSERT INTO grants (
  id, title, amount_cents, type, level, category, organization, application_deadline, requirements, benefits, eligibility, process, contact, featured, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16
) ON CONFLICT (id) DO UPDATE SET
  title=$2, amount_cents=$3, type=$4, level=$5, category=$6, organization=$7, application_deadline=$8, requirements=$9, benefits=$10, eligibility=$11, process=$12, contact=$13, featured=$14, updated_at=$16;`

	_, err := execSQL(ctx, r.pool, tx, q, g.ID, g.Title, g.AmountCents, g.Type, g.Level, g.Category, g.Organization, g.ApplicationDeadline, g.Requirements, g.Benefits, g.Eligibility, g.Process, g.Contact, g.Featured, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return normExecErr(err)
	}
	return nil
}

func (r *grantRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Grant, error) {
	const q = `SELECT ` + grantCols + ` FROM grants WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanGrant(row)
}

func (r *grantRepo) List(ctx context.Context, tx repository.Tx, featuredOnly bool) ([]*model.Grant, error) {
	q := `SELECT ` + grantCols + ` FROM grants`
	if featuredOnly {
		q += ` WHERE featured`
	}
	q += ` ORDER BY application_deadline ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, normExecErr(err)
	}
	defer rows.Close()

	var out []*model.Grant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
