package repository

import "github.com/jhoicas/Tablas-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia para Sale (DIP). Los campos
// financieros de un asiento son inmutables: solo status y notes se actualizan.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	ListByTable(tableID string, limit, offset int) ([]*entity.Sale, error)
	List(limit, offset int) ([]*entity.Sale, error)
	UpdateStatus(id, status, notes string) error
}
