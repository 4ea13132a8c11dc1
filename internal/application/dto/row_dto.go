package dto

import (
	"encoding/json"
	"time"
)

// CreateRowRequest entrada para insertar una fila. Data es el objeto JSON
// nombre-de-columna → valor; se parsea conservando el orden de claves.
type CreateRowRequest struct {
	Data json.RawMessage `json:"data" validate:"required"`
}

// UpdateRowRequest entrada para actualizar una fila (reemplazo de data).
type UpdateRowRequest struct {
	Data json.RawMessage `json:"data" validate:"required"`
}

// RowResponse salida de una fila.
type RowResponse struct {
	ID        string          `json:"id"`
	TableID   string          `json:"tableId"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// FieldResult veredicto de validación de una celda.
type FieldResult struct {
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// RowWriteResponse salida de una escritura de fila: la fila persistida más
// las advertencias de validación. Las advertencias nunca bloquean.
type RowWriteResponse struct {
	Row      RowResponse            `json:"row"`
	Warnings map[string]FieldResult `json:"warnings,omitempty"`
}

// RowListResponse lista paginada de filas.
type RowListResponse struct {
	Items []RowResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// DeleteRowsRequest entrada del borrado masivo de filas.
type DeleteRowsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// DeleteRowsResponse cuántas filas borró el masivo.
type DeleteRowsResponse struct {
	Deleted int64 `json:"deleted"`
}

// RowValidationReport veredicto de una fila dentro del reporte de dataset.
type RowValidationReport struct {
	RowID        string                 `json:"rowId"`
	IsValid      bool                   `json:"isValid"`
	FieldResults map[string]FieldResult `json:"fieldResults"`
}

// DatasetValidationResponse reporte de validación de todas las filas de una
// tabla: las filas inválidas se reportan, nunca se excluyen.
type DatasetValidationResponse struct {
	TotalRows     int                   `json:"totalRows"`
	InvalidRows   int                   `json:"invalidRows"`
	TotalWarnings int                   `json:"totalWarnings"`
	Rows          []RowValidationReport `json:"rows"`
}

// CleanupResponse resultado de borrar las filas inválidas. FoundInvalid y
// Deleted deberían coincidir; se reportan por separado para detectar filas
// que cambiaron entre el chequeo y el borrado.
type CleanupResponse struct {
	FoundInvalid int   `json:"foundInvalid"`
	Deleted      int64 `json:"deleted"`
}

// TypePreviewResponse resultado de revalidar una columna contra un tipo
// hipotético, sin mutar nada.
type TypePreviewResponse struct {
	IncompatibleRows int                 `json:"incompatibleRows"`
	TotalRows        int                 `json:"totalRows"`
	Samples          []TypePreviewSample `json:"samples"`
}

// TypePreviewSample una celda incompatible del preview.
type TypePreviewSample struct {
	RowID string `json:"rowId"`
	Value string `json:"value"`
	Error string `json:"error"`
}
