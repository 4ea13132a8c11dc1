package coltype_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablas-api/internal/domain/coltype"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del registro de tipos de columna: resolución por id y por tipo base,
// reglas de validación de cada integrado y estabilidad de format(parse(x)).
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistry_ResuelveIntegrados(t *testing.T) {
	reg := coltype.Builtin()
	for _, id := range []string{
		"text", "textarea", "number", "integer", "float", "boolean",
		"date", "time", "datetime", "email", "url", "phone",
		"country", "currency", "percentage", "rating", "color",
	} {
		h, ok := reg.Resolve(id)
		require.True(t, ok, "el tipo integrado %q debe resolver", id)
		assert.Equal(t, id, h.ID())
	}
}

func TestRegistry_ResuelvePorTipoBase(t *testing.T) {
	reg := coltype.Builtin()

	// un tipo con namespace de módulo resuelve por su base
	h, ok := reg.Resolve("@acme/rating:rating")
	require.True(t, ok, "un id con namespace debe resolver por su tipo base")
	assert.Equal(t, "rating", h.ID())
}

func TestRegistry_RegistroEnCaliente(t *testing.T) {
	reg := coltype.Builtin()

	custom := stubType{id: "@store/phone:did"}
	require.NoError(t, reg.Register(custom))

	h, ok := reg.Resolve("@store/phone:did")
	require.True(t, ok)
	assert.Equal(t, "@store/phone:did", h.ID())

	// la base "did" también queda indexada
	h, ok = reg.Resolve("did")
	require.True(t, ok, "el tipo base del módulo debe quedar indexado")
	assert.Equal(t, "@store/phone:did", h.ID())

	// registrar el mismo id dos veces falla
	assert.Error(t, reg.Register(custom), "registrar un id duplicado debe fallar")
}

func TestBaseType(t *testing.T) {
	assert.Equal(t, "did", coltype.BaseType("@store/phone:did"))
	assert.Equal(t, "text", coltype.BaseType("text"))
}

// ── Validaciones por tipo ─────────────────────────────────────────────────────

func TestPercentage_FueraDeRango(t *testing.T) {
	h := mustResolve(t, "percentage")

	res := h.Validate(entity.IntValue(150), coltype.Options{})
	assert.False(t, res.Valid)
	assert.Equal(t, "Percentage must be between 0 and 100", res.Error)

	res = h.Validate(entity.IntValue(-1), coltype.Options{})
	assert.False(t, res.Valid, "los porcentajes negativos son inválidos")

	assert.True(t, h.Validate(entity.IntValue(0), coltype.Options{}).Valid)
	assert.True(t, h.Validate(entity.IntValue(100), coltype.Options{}).Valid)
}

func TestEmail_FormatoInvalido(t *testing.T) {
	h := mustResolve(t, "email")

	res := h.Validate(entity.StringValue("not-an-email"), coltype.Options{})
	assert.False(t, res.Valid)
	assert.Equal(t, "Invalid email format", res.Error)
	assert.Contains(t, res.Suggestion, "Add @ symbol and domain")

	assert.True(t, h.Validate(entity.StringValue("user@example.com"), coltype.Options{}).Valid)
}

func TestBoolean_LiteralesAceptados(t *testing.T) {
	h := mustResolve(t, "boolean")

	verdaderos := []string{"true", "TRUE", "1", "yes", "Yes", "on", "ON"}
	falsos := []string{"false", "False", "0", "no", "NO", "off", "Off"}

	for _, s := range verdaderos {
		v, err := h.Parse(s, coltype.Options{})
		require.NoError(t, err, "parse(%q) debe aceptarse", s)
		assert.Equal(t, entity.BoolValue(true), v, "parse(%q) debe ser true", s)
	}
	for _, s := range falsos {
		v, err := h.Parse(s, coltype.Options{})
		require.NoError(t, err, "parse(%q) debe aceptarse", s)
		assert.Equal(t, entity.BoolValue(false), v, "parse(%q) debe ser false", s)
	}

	res := h.Validate(entity.StringValue("quizás"), coltype.Options{})
	assert.False(t, res.Valid, "un literal no booleano debe ser inválido")
}

func TestCurrency_RedondeaADosDecimales(t *testing.T) {
	h := mustResolve(t, "currency")

	v, err := h.Parse("$1,234.567", coltype.Options{})
	require.NoError(t, err)
	assert.True(t, v.Num.Equal(decimal.NewFromFloat(1234.57)),
		"el parse debe redondear a 2 decimales, se obtuvo %s", v.Num)

	res := h.Validate(entity.NumberValue(decimal.RequireFromString("9.999")), coltype.Options{})
	assert.False(t, res.Valid, "más de 2 decimales debe ser inválido")
}

func TestPhone_ParseYFormatoUS(t *testing.T) {
	h := mustResolve(t, "phone")

	v, err := h.Parse("5551234567", coltype.Options{Country: "US"})
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", v.Str)

	assert.Equal(t, "+1 (555) 123-4567", h.Format(v, coltype.Options{}))
}

func TestCountry_Canonicaliza(t *testing.T) {
	h := mustResolve(t, "country")

	v, err := h.Parse("us", coltype.Options{})
	require.NoError(t, err)
	assert.Equal(t, "US", v.Str)

	res := h.Validate(entity.StringValue("Colombia"), coltype.Options{})
	assert.False(t, res.Valid, "un nombre completo no es un código de país")
}

func TestColor_ExpandeFormaCorta(t *testing.T) {
	h := mustResolve(t, "color")

	v, err := h.Parse("#f53", coltype.Options{})
	require.NoError(t, err)
	assert.Equal(t, "#FF5533", v.Str)

	assert.False(t, h.Validate(entity.StringValue("rojo"), coltype.Options{}).Valid)
}

func TestRating_RespetaElTope(t *testing.T) {
	h := mustResolve(t, "rating")

	assert.True(t, h.Validate(entity.IntValue(5), coltype.Options{}).Valid)
	assert.False(t, h.Validate(entity.IntValue(6), coltype.Options{}).Valid)
	assert.True(t, h.Validate(entity.IntValue(8), coltype.Options{MaxRating: 10}).Valid,
		"el tope es configurable por columna")
}

func TestInteger_RechazaDecimales(t *testing.T) {
	h := mustResolve(t, "integer")

	assert.True(t, h.Validate(entity.IntValue(42), coltype.Options{}).Valid)
	res := h.Validate(entity.NumberValue(decimal.RequireFromString("4.2")), coltype.Options{})
	assert.False(t, res.Valid)
	assert.Equal(t, "Must be a whole number", res.Error)
}

// ── Estabilidad de format(parse(x)) ───────────────────────────────────────────

// TestRoundTrip_FormatParseEstable verifica que aplicar parse→format dos veces
// da el mismo display que una: el valor almacenado es un punto fijo.
func TestRoundTrip_FormatParseEstable(t *testing.T) {
	reg := coltype.Builtin()
	opts := coltype.Options{}

	casos := []struct {
		tipo    string
		entrada string
	}{
		{"text", "martillo de bola"},
		{"textarea", "línea uno"},
		{"number", "1,234.5"},
		{"integer", "42"},
		{"float", "3.14"},
		{"boolean", "yes"},
		{"date", "2025-03-14"},
		{"time", "14:30"},
		{"datetime", "2025-03-14 09:30"},
		{"email", "User@Example.com"},
		{"url", "example.com"},
		{"phone", "5551234567"},
		{"country", "us"},
		{"currency", "$1,234.5"},
		{"percentage", "25%"},
		{"rating", "4"},
		{"color", "#f53"},
	}

	for _, c := range casos {
		h, ok := reg.Resolve(c.tipo)
		require.True(t, ok, "tipo %q", c.tipo)

		v1, err := h.Parse(c.entrada, opts)
		require.NoError(t, err, "%s: parse(%q)", c.tipo, c.entrada)
		d1 := h.Format(v1, opts)

		v2, err := h.Parse(d1, opts)
		require.NoError(t, err, "%s: parse del display %q", c.tipo, d1)
		d2 := h.Format(v2, opts)

		assert.Equal(t, d1, d2, "%s: format(parse(x)) debe ser estable", c.tipo)
		res := h.Validate(v1, opts)
		assert.True(t, res.Valid, "%s: el valor parseado debe validar, error: %s", c.tipo, res.Error)
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func mustResolve(t *testing.T, id string) coltype.Handler {
	t.Helper()
	h, ok := coltype.Builtin().Resolve(id)
	require.True(t, ok, "el tipo %q debe existir", id)
	return h
}

// stubType es un handler mínimo para probar el registro en caliente.
type stubType struct {
	id string
}

func (s stubType) ID() string { return s.id }

func (s stubType) Validate(entity.Value, coltype.Options) coltype.Result {
	return coltype.OK()
}

func (s stubType) Format(v entity.Value, _ coltype.Options) string { return v.String() }

func (s stubType) Parse(input string, _ coltype.Options) (entity.Value, error) {
	return entity.StringValue(input), nil
}

func (s stubType) DefaultValue(coltype.Options) entity.Value { return entity.StringValue("") }
