package repository

import "github.com/jhoicas/Tablas-api/internal/domain/entity"

// TableRepository define el puerto de persistencia para Table (DIP).
type TableRepository interface {
	Create(table *entity.Table) error
	GetByID(id string) (*entity.Table, error)
	Update(table *entity.Table) error
	// UpdateType cambia solo tableType y rentalPeriod; es el paso final del
	// applier de cambio de tipo.
	UpdateType(tableID, tableType, rentalPeriod string) error
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Table, error)
	// ListPublicCommerce devuelve las tablas public o shared de tipo sale o
	// rent, ordenadas por nombre.
	ListPublicCommerce() ([]*entity.Table, error)
	Delete(id string) error
}
