package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"member-grants-platform/internal/domain"
	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentCols = `id, user_id, plan_id, amount_cents, currency, status, method, transaction_ref, subscription_id, renews_subscription_id, paid_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	p := &model.Payment{}
	if err := row.Scan(&p.ID, &p.UserID, &p.PlanID, &p.AmountCents, &p.Currency, &p.Status, &p.Method, &p.TransactionRef, &p.SubscriptionID, &p.RenewsSubscriptionID, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, normScanErr(err)
	}
	return p, nil
}

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, user_id, plan_id, amount_cents, currency, status, method, transaction_ref, subscription_id, renews_subscription_id, paid_at, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
) ON CONFLICT (id) DO UPDATE SET
  status=$6, transaction_ref=$8, subscription_id=$9, renews_subscription_id=$10, paid_at=$11, updated_at=$13;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.PlanID, p.AmountCents, p.Currency, p.Status, p.Method, p.TransactionRef, p.SubscriptionID, p.RenewsSubscriptionID, p.PaidAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return normExecErr(err)
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	q := `SELECT ` + paymentCols + ` FROM payments WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, tx, q+";", id)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) FindByTransactionRef(ctx context.Context, tx repository.Tx, ref string) (*model.Payment, error) {
	q := `SELECT ` + paymentCols + ` FROM payments WHERE transaction_ref=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, tx, q+";", ref)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) FindPendingRenewal(ctx context.Context, tx repository.Tx, subscriptionID string) (*model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE renews_subscription_id=$1 AND status='pending' ORDER BY created_at DESC LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, subscriptionID)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE status='pending' AND created_at < $1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		return nil, normExecErr(err)
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *paymentRepo) SumCompletedByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount_cents),0) FROM payments WHERE status='completed' AND paid_at >= DATE_TRUNC($1, NOW());`
	row, err := pickRow(ctx, r.pool, tx, q, period)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}
