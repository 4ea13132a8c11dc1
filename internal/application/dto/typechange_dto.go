package dto

// RequiredColumnDTO columna que exige el tipo de tabla destino.
type RequiredColumnDTO struct {
	Name         string `json:"name"`
	ColumnType   string `json:"columnType"`
	Required     bool   `json:"required"`
	DefaultValue string `json:"defaultValue"`
}

// ColumnMappingDTO asignación sugerida o confirmada de una columna requerida
// a una existente. ExistingColumnID null significa crear la columna.
type ColumnMappingDTO struct {
	RequiredColumn     string  `json:"requiredColumn"`
	RequiredType       string  `json:"requiredType"`
	ExistingColumnID   *string `json:"existingColumnId"`
	ExistingColumnName string  `json:"existingColumnName,omitempty"`
	Score              int     `json:"score,omitempty"`
}

// TypeChangePlanResponse plan consultivo de migración a un tipo de comercio.
type TypeChangePlanResponse struct {
	CurrentType       string              `json:"currentType"`
	TargetType        string              `json:"targetType"`
	RequiredColumns   []RequiredColumnDTO `json:"requiredColumns"`
	ExistingColumns   []ColumnResponse    `json:"existingColumns"`
	SuggestedMappings []ColumnMappingDTO  `json:"suggestedMappings"`
	AllMapped         bool                `json:"allMapped"`
}

// ApplyTypeChangeRequest entrada para ejecutar la migración.
type ApplyTypeChangeRequest struct {
	TargetType     string             `json:"targetType" validate:"required,oneof=default sale rent"`
	RentalPeriod   string             `json:"rentalPeriod" validate:"omitempty,oneof=daily weekly monthly"`
	ColumnMappings []ColumnMappingDTO `json:"columnMappings"`
}

// MappingFailureDTO una operación de columna que falló durante la migración.
// La migración continúa con el resto (log and continue).
type MappingFailureDTO struct {
	RequiredColumn string `json:"requiredColumn"`
	Error          string `json:"error"`
}

// ApplyTypeChangeResponse resumen de la migración aplicada.
type ApplyTypeChangeResponse struct {
	TableID      string              `json:"tableId"`
	TableType    string              `json:"tableType"`
	RentalPeriod string              `json:"rentalPeriod,omitempty"`
	Renamed      []string            `json:"renamed"`
	Updated      []string            `json:"updated"`
	Created      []string            `json:"created"`
	Failures     []MappingFailureDTO `json:"failures,omitempty"`
}
