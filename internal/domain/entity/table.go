package entity

import (
	"strings"
	"time"
)

// Tipos de tabla. El tipo comercial (sale/rent) activa columnas protegidas
// y habilita el motor de ventas/alquileres sobre las filas.
const (
	TableTypeDefault = "default"
	TableTypeSale    = "sale"
	TableTypeRent    = "rent"
)

// Visibilidad de una tabla para usuarios distintos del dueño.
const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
	VisibilityShared  = "shared"
)

// Períodos de alquiler válidos (solo con TableTypeRent).
const (
	RentalPeriodDaily   = "daily"
	RentalPeriodWeekly  = "weekly"
	RentalPeriodMonthly = "monthly"
)

// Table representa una tabla dinámica definida por el usuario. El dueño es
// único; Visibility gobierna la lectura de terceros y TableType determina el
// conjunto de columnas protegidas.
type Table struct {
	ID           string
	OwnerID      string
	Name         string
	Description  string
	Visibility   string // private, public, shared
	TableType    string // default, sale, rent
	RentalPeriod string // daily, weekly, monthly; vacío salvo TableType rent
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsCommerce indica si la tabla tiene semántica de venta o alquiler.
func (t *Table) IsCommerce() bool {
	return t.TableType == TableTypeSale || t.TableType == TableTypeRent
}

// ValidTableType valida el enum de tipo de tabla.
func ValidTableType(t string) bool {
	return t == TableTypeDefault || t == TableTypeSale || t == TableTypeRent
}

// ValidVisibility valida el enum de visibilidad.
func ValidVisibility(v string) bool {
	return v == VisibilityPrivate || v == VisibilityPublic || v == VisibilityShared
}

// ValidRentalPeriod valida el enum de período de alquiler.
func ValidRentalPeriod(p string) bool {
	return p == RentalPeriodDaily || p == RentalPeriodWeekly || p == RentalPeriodMonthly
}

// ProtectedColumns devuelve los nombres de columnas protegidas según el tipo
// de tabla. Mientras la tabla conserve el tipo, esas columnas rechazan
// rename y cambios de los flags required/allowDuplicates.
func ProtectedColumns(tableType string) []string {
	switch tableType {
	case TableTypeSale:
		return []string{"price", "qty"}
	case TableTypeRent:
		return []string{"price", "fee", "used", "available"}
	}
	return nil
}

// IsProtectedColumn indica si columnName está protegida bajo tableType.
// La comparación ignora mayúsculas: los nombres de columna son una convención
// por nombre, no por ID.
func IsProtectedColumn(tableType, columnName string) bool {
	for _, name := range ProtectedColumns(tableType) {
		if strings.EqualFold(name, columnName) {
			return true
		}
	}
	return false
}
