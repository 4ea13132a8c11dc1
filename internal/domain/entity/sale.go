package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para Sale.
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
	SaleStatusRefunded  = "refunded"
)

// Sale es el asiento de una venta en el libro de comercio. ItemSnapshot
// congela la data de la fila al momento de la venta: ediciones posteriores
// de la fila no la alteran.
type Sale struct {
	ID            string
	SaleNumber    string // SALE-YYYY-NNN, único por año
	TableID       string
	RowID         string
	ItemSnapshot  json.RawMessage
	CustomerName  string
	CustomerEmail string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal
	Status        string // pending, completed, cancelled, refunded
	PaymentMethod string // cash, card, transfer, other
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
