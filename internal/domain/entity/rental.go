package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para Rental.
const (
	RentalStatusActive    = "active"
	RentalStatusReleased  = "released"
	RentalStatusCancelled = "cancelled"
)

// Rental es el asiento de un alquiler. Se crea active al rentar y pasa a
// released al devolver el ítem; ItemSnapshot congela la data de la fila al
// momento del alquiler.
type Rental struct {
	ID            string
	RentalNumber  string // RENT-YYYY-NNN, único por año
	TableID       string
	RowID         string
	ItemSnapshot  json.RawMessage
	CustomerName  string
	CustomerEmail string
	UnitPrice     decimal.Decimal
	Fee           decimal.Decimal
	Status        string // active, released, cancelled
	RentedAt      time.Time
	ReleasedAt    *time.Time
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
