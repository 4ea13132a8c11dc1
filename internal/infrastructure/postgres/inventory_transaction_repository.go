package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InvTxRepo)(nil)

// InvTxRepo implementación del historial append-only de mutaciones de filas
// sobre PostgreSQL (usable con pool o tx). No hay Update ni Delete.
type InvTxRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador del historial. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InvTxRepo {
	return &InvTxRepo{q: q}
}

// Create agrega un registro al historial.
func (r *InvTxRepo) Create(tx *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (id, table_id, row_id, tx_type, before_data, after_data, quantity_delta, reference_id, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.TableID, tx.RowID, tx.Type,
		nullableJSON(tx.BeforeData), nullableJSON(tx.AfterData),
		tx.QuantityDelta, tx.ReferenceID, tx.ActorID, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory transaction: %w", err)
	}
	return nil
}

// ListByRow lista el historial de una fila, más reciente primero.
func (r *InvTxRepo) ListByRow(rowID string, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := invTxSelect + ` WHERE row_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryTxs(query, rowID, limit, offset)
}

// ListByTable lista el historial de una tabla, más reciente primero.
func (r *InvTxRepo) ListByTable(tableID string, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := invTxSelect + ` WHERE table_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryTxs(query, tableID, limit, offset)
}

const invTxSelect = `
	SELECT id, table_id, row_id, tx_type, before_data, after_data, quantity_delta, reference_id, actor_id, created_at
	FROM inventory_transactions`

func (r *InvTxRepo) queryTxs(query string, args ...any) ([]*entity.InventoryTransaction, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		var (
			tx     entity.InventoryTransaction
			before []byte
			after  []byte
		)
		if err := rows.Scan(
			&tx.ID, &tx.TableID, &tx.RowID, &tx.Type, &before, &after,
			&tx.QuantityDelta, &tx.ReferenceID, &tx.ActorID, &tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		tx.BeforeData = before
		tx.AfterData = after
		list = append(list, &tx)
	}
	return list, rows.Err()
}

// nullableJSON convierte un RawMessage vacío en NULL para no guardar strings
// vacíos en columnas json.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
