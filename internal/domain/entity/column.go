package entity

import "time"

// Column pertenece a exactamente una Table. Name es único dentro de la tabla
// y funciona como clave del data de cada fila (convención por nombre, sin FK).
// Position es el orden de despliegue; se renormaliza con recount tras swaps
// o borrados estructurales.
type Column struct {
	ID              string
	TableID         string
	Name            string
	ColumnType      string // id del tipo en el registro; puede llevar namespace de módulo ("@store/phone:did")
	IsRequired      bool
	AllowDuplicates bool
	DefaultValue    string
	Position        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
