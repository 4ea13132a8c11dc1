package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	TxTypeAdd     = "add"
	TxTypeRemove  = "remove"
	TxTypeUpdate  = "update"
	TxTypeAdjust  = "adjust"
	TxTypeSale    = "sale"
	TxTypeRent    = "rent"
	TxTypeRelease = "release"
)

// InventoryTransaction es el registro append-only de cada mutación de una
// fila: quién la tocó, el antes y el después, y la referencia al asiento de
// comercio cuando la mutación vino de una venta o alquiler.
type InventoryTransaction struct {
	ID            string
	TableID       string
	RowID         string
	Type          string // add, remove, update, adjust, sale, rent, release
	BeforeData    json.RawMessage
	AfterData     json.RawMessage
	QuantityDelta decimal.Decimal
	ReferenceID   string // id de Sale o Rental cuando aplica
	ActorID       string
	CreatedAt     time.Time
}
