package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"member-grants-platform/internal/domain"
	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
)

var _ repository.GrantApplicationRepository = (*applicationRepo)(nil)

type applicationRepo struct{ pool *pgxpool.Pool }

func NewApplicationRepo(pool *pgxpool.Pool) *applicationRepo {
	return &applicationRepo{pool: pool}
}

const applicationCols = `id, user_id, grant_id, status, documents, notes, submitted_at, created_at, updated_at`

func scanApplication(row pgx.Row) (*model.UserGrantApplication, error) {
	a := &model.UserGrantApplication{}
	if err := row.Scan(&a.ID, &a.UserID, &a.GrantID, &a.Status, &a.Documents, &a.Notes, &a.SubmittedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, normScanErr(err)
	}
	return a, nil
}

func (r *applicationRepo) Save(ctx context.Context, tx repository.Tx, a *model.UserGrantApplication) error {
	const q = `
INSERT INTO grant_applications (
  id, user_id, grant_id, status, documents, notes, submitted_at, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
) ON CONFLICT (id) DO UPDATE SET
  status=$4, documents=$5, notes=$6, submitted_at=$7, updated_at=$9;`

	_, err := execSQL(ctx, r.pool, tx, q, a.ID, a.UserID, a.GrantID, a.Status, a.Documents, a.Notes, a.SubmittedAt, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return normExecErr(err)
	}
	return nil
}

func (r *applicationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.UserGrantApplication, error) {
	q := `SELECT ` + applicationCols + ` FROM grant_applications WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, tx, q+";", id)
	if err != nil {
		return nil, err
	}
	return scanApplication(row)
}

func (r *applicationRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.UserGrantApplication, error) {
	const q = `SELECT ` + applicationCols + ` FROM grant_applications WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, normExecErr(err)
	}
	defer rows.Close()

	var out []*model.UserGrantApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *applicationRepo) ListByGrant(ctx context.Context, tx repository.Tx, grantID string) ([]*model.UserGrantApplication, error) {
	const q = `SELECT ` + applicationCols + ` FROM grant_applications WHERE grant_id=$1 ORDER BY submitted_at ASC NULLS LAST;`
	rows, err := queryRows(ctx, r.pool, tx, q, grantID)
	if err != nil {
		return nil, normExecErr(err)
	}
	defer rows.Close()

	var out []*model.UserGrantApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *applicationRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	const q = `SELECT status, COUNT(*) FROM grant_applications GROUP BY status;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, normExecErr(err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[status] = n
	}
	return out, nil
}
