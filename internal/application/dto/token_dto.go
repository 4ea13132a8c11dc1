package dto

import "time"

// CreateTokenRequest entrada para emitir un token de la API pública.
type CreateTokenRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=200"`
	TableAccess []string   `json:"tableAccess"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// TokenResponse salida de un token. El secreto solo se devuelve al crearlo.
type TokenResponse struct {
	ID          string     `json:"id"`
	Token       string     `json:"token,omitempty"`
	Name        string     `json:"name"`
	TableAccess []string   `json:"tableAccess"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TokenListResponse lista de tokens emitidos.
type TokenListResponse struct {
	Items []TokenResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
