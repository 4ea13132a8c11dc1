package token_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablas-api/internal/application/apptest"
	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/application/token"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const actorID = "admin-1"

type fixture struct {
	tokens *apptest.TokenRepo
	uc     *token.UseCase
}

func newFixture() *fixture {
	f := &fixture{tokens: apptest.NewTokenRepo()}
	f.uc = token.NewUseCase(f.tokens, zerolog.Nop())
	return f
}

func timePtr(t time.Time) *time.Time { return &t }

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateToken(t *testing.T) {
	// Caso 1: emisión feliz; el secreto viaja solo en esta respuesta.
	f := newFixture()
	expiry := timePtr(time.Now().Add(30 * 24 * time.Hour))
	resp, err := f.uc.Create(actorID, dto.CreateTokenRequest{
		Name:        "integración tienda",
		TableAccess: []string{"t1", "t2"},
		ExpiresAt:   expiry,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Len(t, resp.Token, 64, "el secreto son dos UUID sin guiones")
	assert.NotContains(t, resp.Token, "-")
	assert.Equal(t, "integración tienda", resp.Name)
	assert.Equal(t, []string{"t1", "t2"}, resp.TableAccess)
	assert.Equal(t, expiry, resp.ExpiresAt)

	stored, err := f.tokens.GetByToken(resp.Token)
	require.NoError(t, err)
	require.NotNil(t, stored, "el secreto emitido debe resolver al token guardado")
	assert.Equal(t, actorID, stored.CreatedBy)

	// Caso 2: sin acceso declarado, la respuesta trae lista vacía, no null.
	open, err := f.uc.Create(actorID, dto.CreateTokenRequest{Name: "sin tablas"})
	require.NoError(t, err)
	assert.NotNil(t, open.TableAccess)
	assert.Empty(t, open.TableAccess)

	// Caso 3: nombre en blanco.
	_, err = f.uc.Create(actorID, dto.CreateTokenRequest{Name: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Caso 4: vencimiento en el pasado.
	_, err = f.uc.Create(actorID, dto.CreateTokenRequest{
		Name:      "vencido",
		ExpiresAt: timePtr(time.Now().Add(-time.Hour)),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestListTokens(t *testing.T) {
	// Caso 1: la lista ordena por nombre y nunca expone secretos.
	f := newFixture()
	_, err := f.uc.Create(actorID, dto.CreateTokenRequest{Name: "zeta"})
	require.NoError(t, err)
	_, err = f.uc.Create(actorID, dto.CreateTokenRequest{Name: "alfa"})
	require.NoError(t, err)

	list, err := f.uc.List(dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "alfa", list.Items[0].Name)
	assert.Equal(t, "zeta", list.Items[1].Name)
	for _, it := range list.Items {
		assert.Empty(t, it.Token, "los secretos no se listan")
	}
	assert.Equal(t, 20, list.Page.Limit)

	// Caso 2: paginación.
	page, err := f.uc.List(dto.PageRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "zeta", page.Items[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteToken(t *testing.T) {
	f := newFixture()
	created, err := f.uc.Create(actorID, dto.CreateTokenRequest{Name: "descartable"})
	require.NoError(t, err)

	// Caso 1: revocación feliz; el secreto deja de resolver.
	require.NoError(t, f.uc.Delete(actorID, created.ID))
	gone, err := f.tokens.GetByToken(created.Token)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Caso 2: los tokens integrados del sistema no se revocan.
	_ = f.tokens.Create(&entity.AccessToken{ID: entity.TokenIDAdmin, Token: "secreto-admin", Name: "admin"})
	for _, id := range []string{entity.TokenIDAdmin, entity.TokenIDFrontend} {
		err := f.uc.Delete(actorID, id)
		require.ErrorIs(t, err, domain.ErrForbidden, "el token %s es del sistema", id)
	}
	still, err := f.tokens.GetByToken("secreto-admin")
	require.NoError(t, err)
	assert.NotNil(t, still, "el token del sistema sigue vigente")
}
