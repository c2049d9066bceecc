package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle passed through repository calls.
// The concrete type is infra-defined (pgx.Tx for Postgres); repositories must
// gracefully accept nil for the non-transactional path.
type Tx interface{}

// TransactionManager executes a function inside one database transaction,
// handing the tx to repositories via the Tx argument. Use-case interfaces stay
// free of storage types; the isolation level is chosen per call site
// (Serializable for payment activation and callback idempotency).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
