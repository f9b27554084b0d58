package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/serial-track/internal/application/lifecycle"
	"github.com/jhoicas/serial-track/internal/domain"
	"github.com/jhoicas/serial-track/internal/domain/repository"
)

// Ensure TxRunner implements lifecycle.TxRunner.
var _ lifecycle.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL: los tres
// repositorios del Ledger Store quedan atados a la misma tx y el conjunto se
// aplica con Commit o se descarta con Rollback, nunca a medias.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Un fallo de Begin/Commit se reporta como
// domain.ErrStoreUnavailable: el anfitrión debe fallar su transacción también.
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.SerialItemRepository,
	movements repository.MovementRepository,
	attributes repository.AttributeRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", errors.Join(err, domain.ErrStoreUnavailable))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemRepo := NewSerialItemRepository(tx)
	movRepo := NewMovementRepository(tx)
	attrRepo := NewAttributeRepository(tx)

	if err := fn(itemRepo, movRepo, attrRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", errors.Join(err, domain.ErrStoreUnavailable))
	}
	return nil
}
