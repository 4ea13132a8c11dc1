package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Tablas-api/internal/application/commerce"
	"github.com/jhoicas/Tablas-api/internal/application/schema"
	"github.com/jhoicas/Tablas-api/internal/application/typechange"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

var _ schema.TxRunner = (*TxRunner)(nil)
var _ typechange.TxRunner = (*TxRunner)(nil)
var _ commerce.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Cubre las mutaciones de esquema: swaps de posición,
// rename con cascadeo a la data y escrituras de filas con su historial.
func (r *TxRunner) Run(ctx context.Context, fn func(
	colRepo repository.ColumnRepository,
	rowRepo repository.RowRepository,
	invRepo repository.InventoryTransactionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	colRepo := NewColumnRepository(tx)
	rowRepo := NewRowRepository(tx)
	invRepo := NewInventoryTransactionRepository(tx)

	if err := fn(colRepo, rowRepo, invRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunTypeChange inicia una transacción con los repos que usa el applier de
// cambio de tipo. Cada operación de columna corre en su propia transacción
// pequeña; el applier decide qué fallas tolera.
func (r *TxRunner) RunTypeChange(ctx context.Context, fn func(
	colRepo repository.ColumnRepository,
	rowRepo repository.RowRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	colRepo := NewColumnRepository(tx)
	rowRepo := NewRowRepository(tx)

	if err := fn(colRepo, rowRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCommerce inicia una transacción con los repos del motor de comercio:
// fila bloqueada, asientos de venta y alquiler, consecutivos e historial.
func (r *TxRunner) RunCommerce(ctx context.Context, fn func(
	rowRepo repository.RowRepository,
	saleRepo repository.SaleRepository,
	rentalRepo repository.RentalRepository,
	seqRepo repository.SequenceRepository,
	invRepo repository.InventoryTransactionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rowRepo := NewRowRepository(tx)
	saleRepo := NewSaleRepository(tx)
	rentalRepo := NewRentalRepository(tx)
	seqRepo := NewSequenceRepository(tx)
	invRepo := NewInventoryTransactionRepository(tx)

	if err := fn(rowRepo, saleRepo, rentalRepo, seqRepo, invRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
