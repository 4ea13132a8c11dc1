// Package pubapi implementa la superficie de lectura que consumen las tiendas
// externas con token: listados de tablas, búsqueda por columnas, ítems y
// registros aplanados, valores distintos y disponibilidad. Los mensajes de
// error en inglés son contrato congelado; los clientes hacen matching sobre
// esos textos.
package pubapi

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// contractError congela un mensaje del contrato público sobre un sentinel de
// dominio. El borde HTTP decide el status por el sentinel y publica Error().
type contractError struct {
	reason string
	kind   error
}

func (e *contractError) Error() string { return e.reason }

func (e *contractError) Unwrap() error { return e.kind }

func errUnauthorized(kind error) error {
	return &contractError{reason: "Unauthorized", kind: kind}
}

func errTableNotFound() error {
	return &contractError{reason: "Table not found", kind: domain.ErrNotFound}
}

func errItemNotFound() error {
	return &contractError{reason: "Item not found", kind: domain.ErrNotFound}
}

func errTableNotAccessible() error {
	return &contractError{reason: "Table is not accessible with this token", kind: domain.ErrForbidden}
}

func errNotCommerceTable() error {
	return &contractError{reason: "This endpoint only supports sale and rent tables", kind: domain.ErrForbidden}
}

// UseCase resuelve las consultas de la API pública contra los repos de
// lectura. No escribe nada: las operaciones de compra/alquiler entran por el
// caso de uso de comercio con el token como principal.
type UseCase struct {
	tokenRepo repository.AccessTokenRepository
	tableRepo repository.TableRepository
	colRepo   repository.ColumnRepository
	rowRepo   repository.RowRepository
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tokenRepo repository.AccessTokenRepository,
	tableRepo repository.TableRepository,
	colRepo repository.ColumnRepository,
	rowRepo repository.RowRepository,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		tokenRepo: tokenRepo,
		tableRepo: tableRepo,
		colRepo:   colRepo,
		rowRepo:   rowRepo,
		log:       log,
	}
}

// Authenticate resuelve el secreto Bearer a su token. Secreto desconocido y
// token vencido responden lo mismo hacia afuera; el sentinel los distingue
// para el log.
func (uc *UseCase) Authenticate(secret string) (*entity.AccessToken, error) {
	if secret == "" {
		return nil, errUnauthorized(domain.ErrUnauthorized)
	}
	token, err := uc.tokenRepo.GetByToken(secret)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, errUnauthorized(domain.ErrUnauthorized)
	}
	if token.Expired(time.Now()) {
		uc.log.Warn().Str("token_id", token.ID).Msg("token de la API pública vencido")
		return nil, errUnauthorized(domain.ErrTokenExpired)
	}
	return token, nil
}

// CheckTableAccess corre el chequeo de acceso del token sobre una tabla.
// Las operaciones de escritura (buy/rent/release) lo usan antes de delegar
// al motor de comercio, que no sabe de tokens.
func (uc *UseCase) CheckTableAccess(token *entity.AccessToken, tableID string) error {
	_, err := uc.accessedTable(token, tableID)
	return err
}

// accessibleTables devuelve las tablas comerciales que el token ve, ordenadas
// por nombre. Un token no privilegiado ve exactamente su lista tableAccess
// sin importar la visibilidad; uno privilegiado ve todas las públicas o
// compartidas.
func (uc *UseCase) accessibleTables(token *entity.AccessToken) ([]*entity.Table, error) {
	if token.Unrestricted() {
		return uc.tableRepo.ListPublicCommerce()
	}
	var out []*entity.Table
	for _, id := range token.TableAccess {
		t, err := uc.tableRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if t != nil && t.IsCommerce() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// canAccess decide si el token puede leer la tabla.
func (uc *UseCase) canAccess(token *entity.AccessToken, table *entity.Table) bool {
	if token.Unrestricted() {
		return table.Visibility == entity.VisibilityPublic || table.Visibility == entity.VisibilityShared
	}
	for _, id := range token.TableAccess {
		if id == table.ID {
			return true
		}
	}
	return false
}

// accessedTable trae la tabla y corre el chequeo de acceso del token.
func (uc *UseCase) accessedTable(token *entity.AccessToken, tableID string) (*entity.Table, error) {
	table, err := uc.tableRepo.GetByID(tableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, errTableNotFound()
	}
	if !uc.canAccess(token, table) {
		return nil, errTableNotAccessible()
	}
	return table, nil
}

// splitCSV separa una lista a,b,c descartando entradas vacías.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
