package dto

import "time"

// CreateColumnRequest entrada para agregar una columna a una tabla.
type CreateColumnRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=200"`
	ColumnType      string `json:"columnType" validate:"required"`
	IsRequired      bool   `json:"isRequired"`
	AllowDuplicates bool   `json:"allowDuplicates"`
	DefaultValue    string `json:"defaultValue"`
}

// UpdateColumnRequest entrada para actualizar una columna. Sobre columnas
// protegidas, name/isRequired/allowDuplicates rechazan el cambio.
type UpdateColumnRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=200"`
	ColumnType      *string `json:"columnType"`
	IsRequired      *bool   `json:"isRequired"`
	AllowDuplicates *bool   `json:"allowDuplicates"`
	DefaultValue    *string `json:"defaultValue"`
}

// ColumnResponse salida de una columna.
type ColumnResponse struct {
	ID              string    `json:"id"`
	TableID         string    `json:"tableId"`
	Name            string    `json:"name"`
	ColumnType      string    `json:"columnType"`
	IsRequired      bool      `json:"isRequired"`
	AllowDuplicates bool      `json:"allowDuplicates"`
	DefaultValue    string    `json:"defaultValue,omitempty"`
	Position        int       `json:"position"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SwapPositionsRequest entrada para intercambiar posiciones de dos columnas.
type SwapPositionsRequest struct {
	ColumnA string `json:"columnA" validate:"required"`
	ColumnB string `json:"columnB" validate:"required"`
}

// RenameColumnResult resultado del rename: cuántas filas reescribió el
// cascadeo de la clave en la data.
type RenameColumnResult struct {
	Column      ColumnResponse `json:"column"`
	RowsTouched int64          `json:"rowsTouched"`
}
