package entity

import "time"

// DataRow es una fila de una tabla dinámica. Data es el mapa ordenado
// nombre-de-columna → valor etiquetado; la conformidad de tipos con la
// columna dueña es una restricción blanda (warn, don't block).
type DataRow struct {
	ID        string
	TableID   string
	Data      *RowData
	CreatedAt time.Time
	UpdatedAt time.Time
}
