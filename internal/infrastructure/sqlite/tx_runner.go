package sqlite

import (
	"context"
	"database/sql"

	"github.com/jdrojas/repuestos-lan/internal/application/inventory"
	"github.com/jdrojas/repuestos-lan/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
type TxRunner struct {
	db *DB
}

// NewTxRunner construye el runner sobre la base.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(NewItemRepository(tx), NewMovementRepository(tx))
	})
}
