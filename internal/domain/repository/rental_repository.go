package repository

import (
	"time"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// RentalRepository define el puerto de persistencia para Rental (DIP).
type RentalRepository interface {
	Create(rental *entity.Rental) error
	GetByID(id string) (*entity.Rental, error)
	// GetActiveByRow devuelve el alquiler activo de una fila, o nil si no hay.
	GetActiveByRow(rowID string) (*entity.Rental, error)
	ListByTable(tableID string, limit, offset int) ([]*entity.Rental, error)
	List(limit, offset int) ([]*entity.Rental, error)
	MarkReleased(id string, releasedAt time.Time) error
	UpdateStatus(id, status, notes string) error
}
