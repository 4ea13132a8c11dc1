package dto

import "encoding/json"

// Las respuestas de la API pública replican el contrato que consumen las
// tiendas externas: camelCase y conteos explícitos.

// PublicTableDTO tabla visible para un token de la API pública.
type PublicTableDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TableType   string `json:"tableType"`
	RowCount    int64  `json:"rowCount"`
}

// PublicTablesResponse listado de tablas accesibles.
type PublicTablesResponse struct {
	Tables []PublicTableDTO `json:"tables"`
	Count  int              `json:"count"`
}

// PublicSearchResponse tablas que contienen todas las columnas buscadas.
type PublicSearchResponse struct {
	Tables          []PublicTableDTO `json:"tables"`
	Count           int              `json:"count"`
	SearchedColumns []string         `json:"searchedColumns"`
}

// PublicItemsResponse ítems de una tabla. Cada ítem es el objeto anidado
// {id, data, createdAt, updatedAt} o su forma aplanada si flat=true.
type PublicItemsResponse struct {
	Items     []json.RawMessage `json:"items"`
	TableID   string            `json:"tableId"`
	TableName string            `json:"tableName"`
	TableType string            `json:"tableType"`
	Count     int               `json:"count"`
}

// PublicPagination metadatos de paginación de records.
type PublicPagination struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"hasMore"`
}

// PublicRecordsResponse registros aplanados de todas las tablas accesibles.
type PublicRecordsResponse struct {
	Records    []json.RawMessage `json:"records"`
	Count      int               `json:"count"`
	Total      int64             `json:"total"`
	Pagination PublicPagination  `json:"pagination"`
	Filters    map[string]string `json:"filters,omitempty"`
}

// PublicValuesResponse valores distintos de una columna entre las tablas que
// la tienen. TablesSampled lista los nombres de esas tablas.
type PublicValuesResponse struct {
	Column        string            `json:"column"`
	Values        []json.RawMessage `json:"values"`
	Count         int               `json:"count"`
	Filters       map[string]string `json:"filters,omitempty"`
	TablesSampled []string          `json:"tablesSampled"`
}

// PublicAvailabilityResponse disponibilidad de un ítem: qty restante en sale,
// 1 o 0 en rent según el ciclo de vida.
type PublicAvailabilityResponse struct {
	Available    bool  `json:"available"`
	AvailableQty int64 `json:"availableQty"`
	RequestedQty int   `json:"requestedQty"`
}

// PublicRecordsQuery parámetros de la consulta cruzada de registros.
type PublicRecordsQuery struct {
	Where   map[string]string
	Columns []string // proyección de campos; nil = sin proyección
	Limit   int
	Offset  int
}

// PublicErrorResponse error de la API pública.
type PublicErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// PublicHealthResponse estado del servicio con las rutas publicadas.
type PublicHealthResponse struct {
	Status  string   `json:"status"`
	Service string   `json:"service"`
	Routes  []string `json:"routes"`
}
