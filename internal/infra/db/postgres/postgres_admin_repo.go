package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
)

var _ repository.AdminRepository = (*adminRepo)(nil)

type adminRepo struct{ pool *pgxpool.Pool }

func NewAdminRepo(pool *pgxpool.Pool) *adminRepo {
	return &adminRepo{pool: pool}
}

const adminCols = `id, email, name, role, permissions, created_at, updated_at`

func scanAdmin(row pgx.Row) (*model.Admin, error) {
	a := &model.Admin{}
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Role, &a.Permissions, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, normScanErr(err)
	}
	return a, nil
}

func (r *adminRepo) Save(ctx context.Context, tx repository.Tx, a *model.Admin) error {
	const q = `
INSERT INTO admins (
  id, email, name, role, permissions, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7
) ON CONFLICT (id) DO UPDATE SET
  email=$2, name=$3, role=$4, permissions=$5, updated_at=$7;`

	_, err := execSQL(ctx, r.pool, tx, q, a.ID, a.Email, a.Name, a.Role, a.Permissions, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return normExecErr(err)
	}
	return nil
}

func (r *adminRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanAdmin(row)
}

func (r *adminRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE email=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	return scanAdmin(row)
}
