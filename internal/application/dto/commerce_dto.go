package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SellItemRequest entrada para vender un ítem de una tabla sale.
type SellItemRequest struct {
	TableID       string          `json:"tableId" validate:"required"`
	ItemID        string          `json:"itemId" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail" validate:"omitempty,email"`
	PaymentMethod string          `json:"paymentMethod" validate:"omitempty,oneof=cash card transfer other"`
	Notes         string          `json:"notes"`
}

// RentItemRequest entrada para alquilar un ítem de una tabla rent.
type RentItemRequest struct {
	TableID       string `json:"tableId" validate:"required"`
	ItemID        string `json:"itemId" validate:"required"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
	Notes         string `json:"notes"`
}

// ReleaseItemRequest entrada para devolver un ítem alquilado.
type ReleaseItemRequest struct {
	TableID string `json:"tableId" validate:"required"`
	ItemID  string `json:"itemId" validate:"required"`
	Notes   string `json:"notes"`
}

// SaleResponse salida de un asiento de venta.
type SaleResponse struct {
	ID            string          `json:"id"`
	SaleNumber    string          `json:"saleNumber"`
	TableID       string          `json:"tableId"`
	RowID         string          `json:"rowId"`
	ItemSnapshot  json.RawMessage `json:"itemSnapshot"`
	CustomerName  string          `json:"customerName,omitempty"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     string          `json:"createdBy,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// RentalResponse salida de un asiento de alquiler.
type RentalResponse struct {
	ID            string          `json:"id"`
	RentalNumber  string          `json:"rentalNumber"`
	TableID       string          `json:"tableId"`
	RowID         string          `json:"rowId"`
	ItemSnapshot  json.RawMessage `json:"itemSnapshot"`
	CustomerName  string          `json:"customerName,omitempty"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Fee           decimal.Decimal `json:"fee"`
	Status        string          `json:"status"`
	RentedAt      time.Time       `json:"rentedAt"`
	ReleasedAt    *time.Time      `json:"releasedAt,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     string          `json:"createdBy,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// UpdateLedgerStatusRequest entrada para cambiar status/notes de un asiento.
// Los campos financieros son inmutables.
type UpdateLedgerStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// AdjustQuantityRequest entrada para un ajuste manual de qty (recepción de
// stock, merma). El delta puede ser negativo.
type AdjustQuantityRequest struct {
	Delta decimal.Decimal `json:"delta" validate:"required"`
	Note  string          `json:"note"`
}

// TransactionResponse salida de un registro del historial de inventario.
type TransactionResponse struct {
	ID            string          `json:"id"`
	TableID       string          `json:"tableId"`
	RowID         string          `json:"rowId"`
	Type          string          `json:"type"`
	BeforeData    json.RawMessage `json:"beforeData,omitempty"`
	AfterData     json.RawMessage `json:"afterData,omitempty"`
	QuantityDelta decimal.Decimal `json:"quantityDelta"`
	ReferenceID   string          `json:"referenceId,omitempty"`
	ActorID       string          `json:"actorId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// RentalListResponse lista paginada de alquileres.
type RentalListResponse struct {
	Items []RentalResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// TransactionListResponse lista paginada del historial.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
