package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
)

var _ repository.SupportTicketRepository = (*ticketRepo)(nil)

type ticketRepo struct{ pool *pgxpool.Pool }

func NewTicketRepo(pool *pgxpool.Pool) *ticketRepo {
	return &ticketRepo{pool: pool}
}

const ticketCols = `id, user_id, name, email, subject, message, status, priority, category, created_at, updated_at`

func scanTicket(row pgx.Row) (*model.SupportTicket, error) {
	t := &model.SupportTicket{}
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Email, &t.Subject, &t.Message, &t.Status, &t.Priority, &t.Category, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, normScanErr(err)
	}
	return t, nil
}

func (r *ticketRepo) Save(ctx context.Context, tx repository.Tx, t *model.SupportTicket) error {
	const q = `
INSERT INTO support_tickets (
  id, user_id, name, email, subject, message, status, priority, category, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
) ON CONFLICT (id) DO UPDATE SET
  status=$7, priority=$8, category=$9, updated_at=$11;`

	_, err := execSQL(ctx, r.pool, tx, q, t.ID, t.UserID, t.Name, t.Email, t.Subject, t.Message, t.Status, t.Priority, t.Category, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return normExecErr(err)
	}
	return nil
}

func (r *ticketRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SupportTicket, error) {
	q := `SELECT ` + ticketCols + ` FROM support_tickets WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, tx, q+";", id)
	if err != nil {
		return nil, err
	}
	return scanTicket(row)
}

func (r *ticketRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.SupportTicket, error) {
	const q = `SELECT ` + ticketCols + ` FROM support_tickets WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, normExecErr(err)
	}
	defer rows.Close()

	var out []*model.SupportTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *ticketRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.TicketStatus, limit int) ([]*model.SupportTicket, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + ticketCols + ` FROM support_tickets WHERE status=$1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, status, limit)
	if err != nil {
		return nil, normExecErr(err)
	}
	defer rows.Close()

	var out []*model.SupportTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

var _ repository.SupportResponseRepository = (*responseRepo)(nil)

type responseRepo struct{ pool *pgxpool.Pool }

func NewResponseRepo(pool *pgxpool.Pool) *responseRepo {
	return &responseRepo{pool: pool}
}

func (r *responseRepo) Save(ctx context.Context, tx repository.Tx, resp *model.SupportResponse) error {
	const q = `
INSERT INTO support_responses (
  id, ticket_id, admin_id, content, is_admin, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6
) ON CONFLICT (id) DO NOTHING;`

	_, err := execSQL(ctx, r.pool, tx, q, resp.ID, resp.TicketID, resp.AdminID, resp.Content, resp.IsAdmin, resp.CreatedAt)
	if err != nil {
		return normExecErr(err)
	}
	return nil
}

func (r *responseRepo) ListByTicket(ctx context.Context, tx repository.Tx, ticketID string) ([]*model.SupportResponse, error) {
	const q = `SELECT id, ticket_id, admin_id, content, is_admin, created_at FROM support_responses WHERE ticket_id=$1 ORDER BY created_at ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, ticketID)
	if err != nil {
		return nil, normExecErr(err)
	}
	defer rows.Close()

	var out []*model.SupportResponse
	for rows.Next() {
		resp := &model.SupportResponse{}
		if err := rows.Scan(&resp.ID, &resp.TicketID, &resp.AdminID, &resp.Content, &resp.IsAdmin, &resp.CreatedAt); err != nil {
			return nil, normScanErr(err)
		}
		out = append(out, resp)
	}
	return out, nil
}
