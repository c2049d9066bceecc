package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"member-grants-platform/internal/domain"
	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

const userCols = `id, email, password_hash, name, plan, role, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Plan, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, normScanErr(err)
	}
	return u, nil
}

func (r *userRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (
  id, email, password_hash, name, plan, role, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8
) ON CONFLICT (id) DO UPDATE SET
  email=$2, password_hash=$3, name=$4, plan=$5, role=$6, updated_at=$8;`

	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Email, u.PasswordHash, u.Name, u.Plan, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return normExecErr(err)
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	const q = `SELECT COUNT(*) FROM users;`
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

var _ repository.ProfileRepository = (*profileRepo)(nil)

type profileRepo struct{ pool *pgxpool.Pool }

func NewProfileRepo(pool *pgxpool.Pool) *profileRepo {
	return &profileRepo{pool: pool}
}

func (r *profileRepo) Save(ctx context.Context, tx repository.Tx, p *model.Profile) error {
	const q = `
INSERT INTO profiles (
  id, user_id, bio, phone, avatar_url, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7
) ON CONFLICT (user_id) DO UPDATE SET
  bio=$3, phone=$4, avatar_url=$5, updated_at=$7;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.Bio, p.Phone, p.AvatarURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return normExecErr(err)
	}
	return nil
}

func (r *profileRepo) FindByUserID(ctx context.Context, tx repository.Tx, userID string) (*model.Profile, error) {
	const q = `SELECT id, user_id, bio, phone, avatar_url, created_at, updated_at FROM profiles WHERE user_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	p := &model.Profile{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Bio, &p.Phone, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, normScanErr(err)
	}
	return p, nil
}
