package repository

import "github.com/jhoicas/Tablas-api/internal/domain/entity"

// InventoryTransactionRepository define el puerto del historial append-only
// de mutaciones de filas. No hay Update ni Delete: el historial no se toca.
type InventoryTransactionRepository interface {
	Create(tx *entity.InventoryTransaction) error
	ListByRow(rowID string, limit, offset int) ([]*entity.InventoryTransaction, error)
	ListByTable(tableID string, limit, offset int) ([]*entity.InventoryTransaction, error)
}
