package entity

import "time"

// IDs de los tokens con acceso total a la API pública (no restringidos por
// tabla). Se identifican por ID, no por el secreto.
const (
	TokenIDAdmin    = "admin-token"
	TokenIDFrontend = "frontend-token"
)

// AccessToken autoriza lecturas de la API pública. TableAccess vacío con
// token no privilegiado significa sin acceso; los tokens privilegiados ven
// todas las tablas públicas o compartidas.
type AccessToken struct {
	ID          string
	Token       string
	Name        string
	TableAccess []string // ids de tablas visibles para tokens restringidos
	ExpiresAt   *time.Time
	CreatedBy   string
	CreatedAt   time.Time
}

// Unrestricted indica si el token ve todas las tablas sin filtrar por
// TableAccess.
func (t *AccessToken) Unrestricted() bool {
	return t.ID == TokenIDAdmin || t.ID == TokenIDFrontend
}

// Expired indica si el token venció a la hora dada.
func (t *AccessToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}
