package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tablas-api/internal/application/apptest"
	"github.com/jhoicas/Tablas-api/internal/application/auth"
	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testSecret = "secreto-de-test"

type fixture struct {
	users *apptest.UserRepo
	uc    *auth.UseCase
}

func newFixture() *fixture {
	f := &fixture{users: apptest.NewUserRepo()}
	f.uc = auth.NewUseCase(f.users, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "tablas-api",
	})
	return f
}

// register da de alta un usuario vía el use case, fallando el test si no sale.
func (f *fixture) register(t *testing.T, email, password, name string) *dto.UserResponse {
	t.Helper()
	resp, err := f.uc.Register(dto.RegisterRequest{Email: email, Password: password, Name: name})
	require.NoError(t, err, "el registro de %s debe funcionar", email)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister(t *testing.T) {
	// Caso 1: registro feliz.
	f := newFixture()
	resp := f.register(t, "ana@example.com", "clave-segura", "Ana")

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "ana@example.com", resp.Email)
	assert.Equal(t, "Ana", resp.Name)
	assert.Equal(t, entity.RoleUser, resp.Role, "el registro nunca asigna rol admin")
	assert.Equal(t, "active", resp.Status)

	stored, err := f.users.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "clave-segura", stored.PasswordHash, "la password nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-segura")))

	// Caso 2: sin nombre, el email hace de nombre.
	anon := f.register(t, "sin-nombre@example.com", "clave-segura", "")
	assert.Equal(t, "sin-nombre@example.com", anon.Name)

	// Caso 3: email duplicado, sin importar mayúsculas.
	_, err = f.uc.Register(dto.RegisterRequest{Email: "ANA@example.com", Password: "otra-clave"})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	f := newFixture()
	created := f.register(t, "ana@example.com", "clave-segura", "Ana")

	// Caso 1: login feliz, el JWT trae user_id y rol.
	resp, err := f.uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "clave-segura"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, created.ID, resp.User.ID)
	assert.Equal(t, "Ana", resp.User.Name)

	userID, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err, "el token emitido debe validar con el mismo secreto")
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, entity.RoleUser, role)

	// Caso 2: el token no valida con otro secreto.
	_, _, err = jwt.Parse("otro-secreto", resp.Token)
	require.Error(t, err)

	// Caso 3: password incorrecta.
	_, err = f.uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "no-es"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	// Caso 4: usuario inexistente.
	_, err = f.uc.Login(dto.LoginRequest{Email: "nadie@example.com", Password: "clave-segura"})
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	// Caso 5: usuario suspendido, aun con password correcta.
	stored, err := f.users.GetByID(created.ID)
	require.NoError(t, err)
	stored.Status = "suspended"
	require.NoError(t, f.users.Update(stored))

	_, err = f.uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "clave-segura"})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas de usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestUserQueries(t *testing.T) {
	f := newFixture()
	f.register(t, "zoe@example.com", "clave-segura", "Zoe")
	ana := f.register(t, "ana@example.com", "clave-segura", "Ana")

	// Caso 1: GetUser devuelve nil sin error cuando no existe.
	ghost, err := f.uc.GetUser("fantasma")
	require.NoError(t, err)
	assert.Nil(t, ghost)

	got, err := f.uc.GetUser(ana.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ana@example.com", got.Email)

	// Caso 2: ListUsers ordena por email.
	users, err := f.uc.ListUsers(dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ana@example.com", users[0].Email)
	assert.Equal(t, "zoe@example.com", users[1].Email)
}
