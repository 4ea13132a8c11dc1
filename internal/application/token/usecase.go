// Package token contiene el caso de uso de administración de tokens de la
// API pública: emitir, listar y revocar.
package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// UseCase administra los tokens de acceso de la API pública.
type UseCase struct {
	tokenRepo repository.AccessTokenRepository
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tokenRepo repository.AccessTokenRepository, log zerolog.Logger) *UseCase {
	return &UseCase{tokenRepo: tokenRepo, log: log}
}

// Create emite un token nuevo. Es la única operación que devuelve el secreto;
// después de esta respuesta no hay forma de recuperarlo.
func (uc *UseCase) Create(actorID string, in dto.CreateTokenRequest) (*dto.TokenResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre del token es obligatorio", domain.ErrInvalidInput)
	}
	if in.ExpiresAt != nil && in.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: la fecha de vencimiento ya pasó", domain.ErrInvalidInput)
	}

	tok := &entity.AccessToken{
		ID:          uuid.New().String(),
		Token:       newSecret(),
		Name:        name,
		TableAccess: in.TableAccess,
		ExpiresAt:   in.ExpiresAt,
		CreatedBy:   actorID,
		CreatedAt:   time.Now(),
	}
	if err := uc.tokenRepo.Create(tok); err != nil {
		return nil, fmt.Errorf("crear token: %w", err)
	}

	uc.log.Info().
		Str("token_id", tok.ID).
		Str("name", tok.Name).
		Int("table_access", len(tok.TableAccess)).
		Str("actor", actorID).
		Msg("token de API pública emitido")

	resp := toTokenResponse(tok)
	resp.Token = tok.Token // solo acá viaja el secreto
	return &resp, nil
}

// List devuelve los tokens emitidos, sin secretos.
func (uc *UseCase) List(page dto.PageRequest) (*dto.TokenListResponse, error) {
	page.DefaultPage()
	tokens, err := uc.tokenRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar tokens: %w", err)
	}
	items := make([]dto.TokenResponse, 0, len(tokens))
	for _, t := range tokens {
		items = append(items, toTokenResponse(t))
	}
	return &dto.TokenListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete revoca un token por su ID. Los tokens integrados del sistema no se
// pueden revocar porque el seed y el frontend dependen de ellos.
func (uc *UseCase) Delete(actorID, id string) error {
	if id == entity.TokenIDAdmin || id == entity.TokenIDFrontend {
		return fmt.Errorf("%w: el token %s es del sistema y no se puede revocar", domain.ErrForbidden, id)
	}
	if err := uc.tokenRepo.Delete(id); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	uc.log.Info().Str("token_id", id).Str("actor", actorID).Msg("token de API pública revocado")
	return nil
}

// newSecret genera el secreto del token: 64 caracteres hex, dos UUID sin
// guiones.
func newSecret() string {
	raw := uuid.New().String() + uuid.New().String()
	return strings.ReplaceAll(raw, "-", "")
}

func toTokenResponse(t *entity.AccessToken) dto.TokenResponse {
	access := t.TableAccess
	if access == nil {
		access = []string{}
	}
	return dto.TokenResponse{
		ID:          t.ID,
		Name:        t.Name,
		TableAccess: access,
		ExpiresAt:   t.ExpiresAt,
		CreatedAt:   t.CreatedAt,
	}
}
