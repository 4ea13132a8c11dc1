// Package commerce centraliza el ciclo de vida de los ítems de tablas sale y
// rent: el estado de alquiler derivado de los flags (used, available), la
// legalidad de cada transición y la numeración por año de los asientos.
package commerce

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// RentState es el estado explícito de un ítem rentable. Los flags booleanos
// (used, available) de la fila se traducen a este enum en el borde y toda la
// legalidad se decide aquí, nunca releyendo los flags en los call sites.
type RentState uint8

const (
	// StateRentable es el estado inicial: (used:false, available:true).
	StateRentable RentState = iota
	// StateRented es un ítem en alquiler: (used:false, available:false).
	StateRented
	// StateReleased es terminal: (used:true, available:false). used es
	// monotónico, nunca vuelve a false.
	StateReleased
)

func (s RentState) String() string {
	switch s {
	case StateRentable:
		return "rentable"
	case StateRented:
		return "rented"
	case StateReleased:
		return "released"
	}
	return "unknown"
}

// StateOf deriva el estado del par de flags. used manda: un ítem usado está
// liberado sin importar available.
func StateOf(used, available bool) RentState {
	switch {
	case used:
		return StateReleased
	case available:
		return StateRentable
	default:
		return StateRented
	}
}

// Flags devuelve el par (used, available) que codifica el estado en la fila.
func (s RentState) Flags() (used, available bool) {
	switch s {
	case StateRentable:
		return false, true
	case StateRented:
		return false, false
	default:
		return true, false
	}
}

// TransitionError es el rechazo de una transición ilegal con mensaje apto
// para el usuario final.
type TransitionError struct {
	Transition string
	From       RentState
	Reason     string
}

func (e *TransitionError) Error() string { return e.Reason }

func (e *TransitionError) Unwrap() error { return domain.ErrIllegalTransition }

// Rent valida y ejecuta la transición de alquiler. Solo es legal desde
// rentable; los rechazos distinguen ítem agotado de ítem ya alquilado.
func Rent(s RentState) (RentState, error) {
	switch s {
	case StateRentable:
		return StateRented, nil
	case StateRented:
		return s, &TransitionError{Transition: "rent", From: s,
			Reason: "Item is currently rented"}
	default:
		return s, &TransitionError{Transition: "rent", From: s,
			Reason: "Item has already been used and cannot be rented again"}
	}
}

// Release valida y ejecuta la devolución. Solo es legal desde rented.
func Release(s RentState) (RentState, error) {
	switch s {
	case StateRented:
		return StateReleased, nil
	case StateReleased:
		return s, &TransitionError{Transition: "release", From: s,
			Reason: "Item has already been released"}
	default:
		return s, &TransitionError{Transition: "release", From: s,
			Reason: "Item is not currently rented"}
	}
}

// CanSell valida la legalidad de una venta: precio positivo, stock positivo y
// cantidad pedida cubierta.
func CanSell(price, qty, requested decimal.Decimal) error {
	if !price.IsPositive() {
		return &TransitionError{Transition: "sale",
			Reason: "Item is not priced for sale"}
	}
	if !qty.IsPositive() {
		return &TransitionError{Transition: "sale",
			Reason: "Item is out of stock"}
	}
	if !requested.IsPositive() {
		return fmt.Errorf("sale quantity must be positive: %w", domain.ErrInvalidInput)
	}
	if requested.GreaterThan(qty) {
		return &TransitionError{Transition: "sale",
			Reason: fmt.Sprintf("Insufficient quantity available: requested %s, in stock %s", requested, qty)}
	}
	return nil
}

// IsTransitionError indica si err es un rechazo de transición.
func IsTransitionError(err error) bool {
	return errors.Is(err, domain.ErrIllegalTransition)
}

// ── lectura y escritura de flags en la fila ───────────────────────────────────

// Nombres de los campos de comercio dentro de la data de una fila. Coinciden
// con las columnas protegidas de los tipos sale y rent.
const (
	FieldPrice     = "price"
	FieldQty       = "qty"
	FieldFee       = "fee"
	FieldUsed      = "used"
	FieldAvailable = "available"
)

// truthy interpreta los literales booleanos tolerados en la data de filas.
func truthy(v entity.Value) bool {
	switch v.Kind {
	case entity.KindBool:
		return v.Bool
	case entity.KindNumber:
		return !v.Num.IsZero()
	case entity.KindString:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "true", "1", "yes", "on":
			return true
		}
	}
	return false
}

// StateFromRow lee (used, available) de la data de una fila. Una fila sin
// flags cuenta como rentable.
func StateFromRow(data *entity.RowData) RentState {
	if data == nil {
		return StateRentable
	}
	used := false
	if v, ok := data.Get(FieldUsed); ok {
		used = truthy(v)
	}
	available := true
	if v, ok := data.Get(FieldAvailable); ok {
		available = truthy(v)
	}
	return StateOf(used, available)
}

// WriteState persiste los flags del estado en la data de la fila.
func WriteState(data *entity.RowData, s RentState) {
	used, available := s.Flags()
	data.Set(FieldUsed, entity.BoolValue(used))
	data.Set(FieldAvailable, entity.BoolValue(available))
}

// NumberFromRow lee un campo numérico de la data (números o strings
// numéricos).
func NumberFromRow(data *entity.RowData, field string) (decimal.Decimal, bool) {
	if data == nil {
		return decimal.Zero, false
	}
	v, ok := data.Get(field)
	if !ok {
		return decimal.Zero, false
	}
	switch v.Kind {
	case entity.KindNumber:
		return v.Num, true
	case entity.KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(v.Str))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}
