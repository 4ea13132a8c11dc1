package schema

import (
	"context"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para las mutaciones de
// posiciones, el rename con cascadeo a la data y las escrituras de filas con
// su registro de historial.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		colRepo repository.ColumnRepository,
		rowRepo repository.RowRepository,
		invRepo repository.InventoryTransactionRepository,
	) error) error
}

// TableExporter serializa una tabla completa (esquema y filas) a un
// documento de intercambio. Las columnas llegan en orden de posición y las
// filas tal cual las devuelve el repositorio.
type TableExporter interface {
	BuildTableXML(table *entity.Table, cols []*entity.Column, rows []*entity.DataRow) ([]byte, error)
}
