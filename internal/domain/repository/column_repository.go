package repository

import "github.com/jhoicas/Tablas-api/internal/domain/entity"

// ColumnRepository define el puerto de persistencia para Column (DIP).
// ListByTable devuelve siempre en orden de posición ascendente.
type ColumnRepository interface {
	Create(col *entity.Column) error
	GetByID(id string) (*entity.Column, error)
	GetByTableAndName(tableID, name string) (*entity.Column, error)
	ListByTable(tableID string) ([]*entity.Column, error)
	Update(col *entity.Column) error
	UpdatePosition(columnID string, position int) error
	MaxPosition(tableID string) (int, error)
	Delete(id string) error
}
