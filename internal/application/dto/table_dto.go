package dto

import "time"

// CreateTableRequest entrada para crear una tabla dinámica.
type CreateTableRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Description  string `json:"description"`
	Visibility   string `json:"visibility" validate:"omitempty,oneof=private public shared"`
	TableType    string `json:"tableType" validate:"omitempty,oneof=default sale rent"`
	RentalPeriod string `json:"rentalPeriod" validate:"omitempty,oneof=daily weekly monthly"`
}

// UpdateTableRequest entrada para actualizar una tabla. El tableType no se
// cambia por aquí: eso pasa por el flujo de cambio de tipo.
type UpdateTableRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Visibility  *string `json:"visibility" validate:"omitempty,oneof=private public shared"`
}

// TableResponse salida de una tabla.
type TableResponse struct {
	ID           string           `json:"id"`
	OwnerID      string           `json:"ownerId"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Visibility   string           `json:"visibility"`
	TableType    string           `json:"tableType"`
	RentalPeriod string           `json:"rentalPeriod,omitempty"`
	RowCount     int64            `json:"rowCount"`
	Columns      []ColumnResponse `json:"columns,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// TableListResponse lista paginada de tablas.
type TableListResponse struct {
	Items []TableResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
