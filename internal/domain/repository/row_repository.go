package repository

import "github.com/jhoicas/Tablas-api/internal/domain/entity"

// RowRepository define el puerto de persistencia para DataRow (DIP).
type RowRepository interface {
	Create(row *entity.DataRow) error
	GetByID(id string) (*entity.DataRow, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); solo tiene sentido
	// dentro de una transacción.
	GetForUpdate(id string) (*entity.DataRow, error)
	ListByTable(tableID string, limit, offset int) ([]*entity.DataRow, error)
	// ListAllByTable trae todas las filas sin paginar, para barridos de
	// validación y reescrituras de rename.
	ListAllByTable(tableID string) ([]*entity.DataRow, error)
	// SearchAcrossTables trae filas de varias tablas cuyos campos de data
	// igualan los filtros where sin distinguir mayúsculas, ordenadas por
	// updatedAt descendente. limit <= 0 trae todo. Devuelve además el total
	// sin paginar.
	SearchAcrossTables(tableIDs []string, where map[string]string, limit, offset int) ([]*entity.DataRow, int64, error)
	CountByTable(tableID string) (int64, error)
	Update(row *entity.DataRow) error
	Delete(id string) error
	DeleteMany(ids []string) (int64, error)
}
