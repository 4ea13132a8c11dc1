package pubapi_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablas-api/internal/application/apptest"
	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/application/pubapi"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	tokens *apptest.TokenRepo
	tables *apptest.TableRepo
	cols   *apptest.ColumnRepo
	rows   *apptest.RowRepo
	uc     *pubapi.UseCase
}

func newFixture() *fixture {
	f := &fixture{
		tokens: apptest.NewTokenRepo(),
		tables: apptest.NewTableRepo(),
		cols:   apptest.NewColumnRepo(),
		rows:   apptest.NewRowRepo(),
	}
	f.uc = pubapi.NewUseCase(f.tokens, f.tables, f.cols, f.rows, zerolog.Nop())
	return f
}

// adminToken inserta y devuelve un token privilegiado.
func (f *fixture) adminToken() *entity.AccessToken {
	return f.seedToken(entity.TokenIDAdmin, "secreto-admin", nil, nil)
}

func (f *fixture) seedToken(id, secret string, access []string, expiresAt *time.Time) *entity.AccessToken {
	tok := &entity.AccessToken{
		ID:          id,
		Token:       secret,
		Name:        "token-" + id,
		TableAccess: access,
		ExpiresAt:   expiresAt,
		CreatedAt:   base,
	}
	_ = f.tokens.Create(tok)
	return tok
}

func (f *fixture) seedTable(id, name, visibility, tableType string) *entity.Table {
	t := &entity.Table{
		ID:         id,
		OwnerID:    "owner-1",
		Name:       name,
		Visibility: visibility,
		TableType:  tableType,
		CreatedAt:  base,
		UpdatedAt:  base,
	}
	if tableType == entity.TableTypeRent {
		t.RentalPeriod = entity.RentalPeriodDaily
	}
	_ = f.tables.Create(t)
	return t
}

func (f *fixture) seedColumn(id, tableID, name string, position int) {
	_ = f.cols.Create(&entity.Column{
		ID:         id,
		TableID:    tableID,
		Name:       name,
		ColumnType: "@store/core:text",
		Position:   position,
		CreatedAt:  base,
		UpdatedAt:  base,
	})
}

// seedRow inserta una fila con timestamps controlados para poder afirmar el
// orden de los listados.
func (f *fixture) seedRow(t *testing.T, id, tableID, raw string, created, updated time.Time) *entity.DataRow {
	t.Helper()
	data, err := entity.RowDataFromJSON([]byte(raw))
	require.NoError(t, err, "el literal JSON del test debe parsear")
	row := &entity.DataRow{ID: id, TableID: tableID, Data: data, CreatedAt: created, UpdatedAt: updated}
	_ = f.rows.Create(row)
	return row
}

func rawStrings(values []json.RawMessage) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

func timePtr(t time.Time) *time.Time { return &t }

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación por token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthenticate(t *testing.T) {
	// Caso 1: secreto desconocido, vacío o vencido responden el mismo texto;
	// el sentinel distingue el vencimiento.
	t.Run("rechazos", func(t *testing.T) {
		f := newFixture()
		f.seedToken("tok-1", "vigente", []string{"t1"}, nil)
		f.seedToken("tok-2", "vencido", []string{"t1"}, timePtr(base.Add(-time.Hour)))

		_, err := f.uc.Authenticate("desconocido")
		require.Error(t, err)
		assert.Equal(t, "Unauthorized", err.Error())
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		_, err = f.uc.Authenticate("")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		_, err = f.uc.Authenticate("vencido")
		require.Error(t, err)
		assert.Equal(t, "Unauthorized", err.Error())
		assert.ErrorIs(t, err, domain.ErrTokenExpired)
	})

	// Caso 2: el secreto vigente resuelve a su token. El vencimiento se mide
	// contra el reloj real, por eso la expiración relativa a hoy.
	t.Run("secreto vigente", func(t *testing.T) {
		f := newFixture()
		f.seedToken("tok-1", "vigente", []string{"t1"}, timePtr(time.Now().Add(24*time.Hour)))

		tok, err := f.uc.Authenticate("vigente")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", tok.ID)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tablas visibles
// ──────────────────────────────────────────────────────────────────────────────

func TestPublicTables(t *testing.T) {
	// Caso 1: el token privilegiado ve las tablas comerciales públicas o
	// compartidas, ordenadas por nombre y con su conteo de filas.
	t.Run("token privilegiado", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "zapatos", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedTable("t2", "bicicletas", entity.VisibilityShared, entity.TableTypeRent)
		f.seedTable("t3", "privada", entity.VisibilityPrivate, entity.TableTypeSale)
		f.seedTable("t4", "notas", entity.VisibilityPublic, entity.TableTypeDefault)
		f.seedRow(t, "r1", "t1", `{"nombre":"Bota"}`, base, base)
		f.seedRow(t, "r2", "t1", `{"nombre":"Sandalia"}`, base, base)

		resp, err := f.uc.Tables(admin)
		require.NoError(t, err)
		require.Equal(t, 2, resp.Count)
		assert.Equal(t, "bicicletas", resp.Tables[0].Name)
		assert.Equal(t, "zapatos", resp.Tables[1].Name)
		assert.Equal(t, int64(2), resp.Tables[1].RowCount)
	})

	// Caso 2: el token restringido ve exactamente su lista tableAccess, aun
	// tablas privadas; los ids desconocidos y las tablas default se ignoran.
	t.Run("token restringido", func(t *testing.T) {
		f := newFixture()
		f.seedTable("t1", "zapatos", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedTable("t3", "privada", entity.VisibilityPrivate, entity.TableTypeSale)
		f.seedTable("t4", "notas", entity.VisibilityPublic, entity.TableTypeDefault)
		tok := f.seedToken("tok-1", "s1", []string{"t3", "t4", "fantasma"}, nil)

		resp, err := f.uc.Tables(tok)
		require.NoError(t, err)
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "privada", resp.Tables[0].Name,
			"la lista de acceso del token pesa más que la visibilidad")
	})

	// Caso 3: token restringido sin accesos definidos no ve nada.
	t.Run("sin accesos", func(t *testing.T) {
		f := newFixture()
		f.seedTable("t1", "zapatos", entity.VisibilityPublic, entity.TableTypeSale)
		tok := f.seedToken("tok-1", "s1", nil, nil)

		resp, err := f.uc.Tables(tok)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Count)
		assert.Empty(t, resp.Tables)
	})
}

func TestSearchByColumns(t *testing.T) {
	// Caso 1: sin columnas la búsqueda se rechaza con el texto del contrato.
	t.Run("columnas requeridas", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()

		_, err := f.uc.Search(admin, " , ")
		require.Error(t, err)
		assert.Equal(t, "columns parameter is required", err.Error())
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	// Caso 2: solo sobreviven las tablas que declaran todas las columnas
	// buscadas, sin distinguir mayúsculas.
	t.Run("todas las columnas, sin mayusculas", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "zapatos", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedColumn("c1", "t1", "Nombre", 0)
		f.seedColumn("c2", "t1", "Color", 1)
		f.seedTable("t2", "medias", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedColumn("c3", "t2", "Nombre", 0)

		resp, err := f.uc.Search(admin, "nombre, COLOR")
		require.NoError(t, err)
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "zapatos", resp.Tables[0].Name)
		assert.Equal(t, []string{"nombre", "COLOR"}, resp.SearchedColumns)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Ítems
// ──────────────────────────────────────────────────────────────────────────────

func TestItems(t *testing.T) {
	// Caso 1: el listado anidado sale del más reciente al más viejo.
	t.Run("anidado ordenado por creacion", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "muebles", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedRow(t, "r1", "t1", `{"nombre":"Silla"}`, base, base)
		f.seedRow(t, "r2", "t1", `{"nombre":"Mesa"}`, base.Add(time.Hour), base.Add(time.Hour))

		resp, err := f.uc.Items(admin, "t1", false)
		require.NoError(t, err)
		require.Equal(t, 2, resp.Count)
		assert.Equal(t, "muebles", resp.TableName)
		assert.JSONEq(t,
			`{"id":"r2","data":{"nombre":"Mesa"},"createdAt":"2024-03-01T11:00:00Z","updatedAt":"2024-03-01T11:00:00Z"}`,
			string(resp.Items[0]))
	})

	// Caso 2: el aplanado conserva el orden de metadatos, campos de data y
	// timestamps del contrato.
	t.Run("aplanado conserva el orden", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "muebles", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedRow(t, "r1", "t1", `{"nombre":"Silla","price":10.5}`, base, base.Add(time.Hour))

		resp, err := f.uc.Items(admin, "t1", true)
		require.NoError(t, err)
		require.Equal(t, 1, resp.Count)
		assert.Equal(t,
			`{"id":"r1","tableId":"t1","tableName":"muebles","tableType":"sale","nombre":"Silla","price":10.5,"createdAt":"2024-03-01T10:00:00Z","updatedAt":"2024-03-01T11:00:00Z"}`,
			string(resp.Items[0]))
	})

	// Caso 3: los rechazos del listado llegan con el texto del contrato.
	t.Run("rechazos", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "notas", entity.VisibilityPublic, entity.TableTypeDefault)
		f.seedTable("t2", "privada", entity.VisibilityPublic, entity.TableTypeSale)
		tok := f.seedToken("tok-1", "s1", []string{"t1"}, nil)

		_, err := f.uc.Items(admin, "fantasma", false)
		require.Error(t, err)
		assert.Equal(t, "Table not found", err.Error())
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = f.uc.Items(tok, "t2", false)
		require.Error(t, err)
		assert.Equal(t, "Table is not accessible with this token", err.Error())
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = f.uc.Items(admin, "t1", false)
		require.Error(t, err)
		assert.Equal(t, "This endpoint only supports sale and rent tables", err.Error())
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestSingleItem(t *testing.T) {
	// Caso 1: el ítem puntual se sirve aplanado aun en tablas default; el
	// filtro de tipo comercial es solo del listado.
	t.Run("tabla default accesible", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "notas", entity.VisibilityPublic, entity.TableTypeDefault)
		f.seedRow(t, "r1", "t1", `{"titulo":"Apuntes"}`, base, base)

		item, err := f.uc.Item(admin, "t1", "r1")
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"id":"r1","tableId":"t1","tableName":"notas","tableType":"default","titulo":"Apuntes","createdAt":"2024-03-01T10:00:00Z","updatedAt":"2024-03-01T10:00:00Z"}`,
			string(item))
	})

	// Caso 2: una fila de otra tabla no se expone por esta ruta.
	t.Run("fila de otra tabla", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "notas", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedTable("t2", "otras", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedRow(t, "r1", "t2", `{"x":1}`, base, base)

		_, err := f.uc.Item(admin, "t1", "r1")
		require.Error(t, err)
		assert.Equal(t, "Item not found", err.Error())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAvailability(t *testing.T) {
	// Caso 1: en tablas sale la disponibilidad es el qty vivo contra la
	// cantidad pedida; las fracciones se truncan.
	t.Run("sale por cantidad", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "zapatos", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedRow(t, "r1", "t1", `{"price":10,"qty":5}`, base, base)
		f.seedRow(t, "r2", "t1", `{"price":10,"qty":2.5}`, base, base)

		resp, err := f.uc.Availability(admin, "t1", "r1", 3)
		require.NoError(t, err)
		assert.True(t, resp.Available)
		assert.Equal(t, int64(5), resp.AvailableQty)
		assert.Equal(t, 3, resp.RequestedQty)

		resp, err = f.uc.Availability(admin, "t1", "r1", 6)
		require.NoError(t, err)
		assert.False(t, resp.Available)

		resp, err = f.uc.Availability(admin, "t1", "r2", 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.AvailableQty, "el qty fraccionario se trunca")
		assert.True(t, resp.Available)
	})

	// Caso 2: en tablas rent el ítem vale 1 hasta quedar usado; que esté
	// alquilado no lo descuenta, solo used manda.
	t.Run("rent por ciclo de vida", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "taladros", entity.VisibilityPublic, entity.TableTypeRent)
		f.seedRow(t, "nuevo", "t1", `{"price":15,"fee":2}`, base, base)
		f.seedRow(t, "alquilado", "t1", `{"price":15,"fee":2,"used":false,"available":false}`, base, base)
		f.seedRow(t, "usado", "t1", `{"price":15,"fee":2,"used":true,"available":false}`, base, base)

		resp, err := f.uc.Availability(admin, "t1", "nuevo", 1)
		require.NoError(t, err)
		assert.True(t, resp.Available)
		assert.Equal(t, int64(1), resp.AvailableQty)

		resp, err = f.uc.Availability(admin, "t1", "alquilado", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.AvailableQty)

		resp, err = f.uc.Availability(admin, "t1", "usado", 1)
		require.NoError(t, err)
		assert.False(t, resp.Available)
		assert.Equal(t, int64(0), resp.AvailableQty)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Registros cruzados
// ──────────────────────────────────────────────────────────────────────────────

func TestRecords(t *testing.T) {
	seed := func(t *testing.T) (*fixture, *entity.AccessToken) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "zapatos", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedTable("t2", "medias", entity.VisibilityShared, entity.TableTypeSale)
		f.seedRow(t, "r1", "t1", `{"nombre":"Bota","color":"rojo"}`, base, base.Add(1*time.Hour))
		f.seedRow(t, "r2", "t2", `{"nombre":"Corta","color":"azul"}`, base, base.Add(2*time.Hour))
		f.seedRow(t, "r3", "t1", `{"nombre":"Tenis","color":"ROJO"}`, base, base.Add(3*time.Hour))
		return f, admin
	}

	// Caso 1: los registros salen mezclados entre tablas, del más
	// actualizado al más viejo, con la paginación del contrato.
	t.Run("mezcla y paginacion", func(t *testing.T) {
		f, admin := seed(t)

		resp, err := f.uc.Records(admin, dto.PublicRecordsQuery{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Count)
		assert.Equal(t, int64(3), resp.Total)
		assert.Equal(t, 1, resp.Pagination.Page)
		assert.Equal(t, 2, resp.Pagination.Limit)
		assert.True(t, resp.Pagination.HasMore)
		assert.Contains(t, string(resp.Records[0]), `"id":"r3"`)
		assert.Contains(t, string(resp.Records[1]), `"id":"r2"`)

		resp, err = f.uc.Records(admin, dto.PublicRecordsQuery{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, 2, resp.Pagination.Page)
		assert.False(t, resp.Pagination.HasMore)
		assert.Contains(t, string(resp.Records[0]), `"id":"r1"`)
	})

	// Caso 2: los filtros where igualan sin mayúsculas y se devuelven en la
	// respuesta.
	t.Run("filtros where", func(t *testing.T) {
		f, admin := seed(t)

		resp, err := f.uc.Records(admin, dto.PublicRecordsQuery{Where: map[string]string{"color": "rojo"}})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Count, "ROJO y rojo igualan")
		assert.Equal(t, int64(2), resp.Total)
		assert.Equal(t, map[string]string{"color": "rojo"}, resp.Filters)
	})

	// Caso 3: la proyección de columnas conserva siempre los metadatos de
	// identidad y descarta los timestamps salvo que se pidan.
	t.Run("proyeccion de columnas", func(t *testing.T) {
		f, admin := seed(t)

		resp, err := f.uc.Records(admin, dto.PublicRecordsQuery{Columns: []string{"nombre", "updatedAt"}})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Records)

		var rec map[string]any
		require.NoError(t, json.Unmarshal(resp.Records[0], &rec))
		assert.ElementsMatch(t,
			[]string{"id", "tableId", "tableName", "tableType", "nombre", "updatedAt"},
			keysOf(rec))
	})

	// Caso 4: sin tablas accesibles la respuesta queda vacía con página 1.
	t.Run("sin tablas accesibles", func(t *testing.T) {
		f, _ := seed(t)
		tok := f.seedToken("tok-1", "s1", nil, nil)

		resp, err := f.uc.Records(tok, dto.PublicRecordsQuery{})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Count)
		assert.Equal(t, int64(0), resp.Total)
		assert.Equal(t, 1, resp.Pagination.Page)
		assert.False(t, resp.Pagination.HasMore)
	})

	// Caso 5: el límite se acota al tope del contrato.
	t.Run("limite acotado", func(t *testing.T) {
		f, admin := seed(t)

		resp, err := f.uc.Records(admin, dto.PublicRecordsQuery{Limit: 5000})
		require.NoError(t, err)
		assert.Equal(t, 1000, resp.Pagination.Limit)
	})
}

func keysOf(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Valores distintos
// ──────────────────────────────────────────────────────────────────────────────

func TestValues(t *testing.T) {
	// Caso 1: los valores se deduplican entre tablas que declaran la columna;
	// null y claves ausentes no cuentan, y número y texto son distintos.
	t.Run("distintos entre tablas", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "zapatos", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedColumn("c1", "t1", "color", 0)
		f.seedTable("t2", "medias", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedColumn("c2", "t2", "color", 0)
		f.seedTable("t3", "sueltas", entity.VisibilityPublic, entity.TableTypeSale)

		f.seedRow(t, "r1", "t1", `{"color":"rojo"}`, base, base.Add(1*time.Hour))
		f.seedRow(t, "r2", "t2", `{"color":"azul"}`, base, base.Add(2*time.Hour))
		f.seedRow(t, "r3", "t1", `{"color":"rojo"}`, base, base.Add(3*time.Hour))
		f.seedRow(t, "r4", "t1", `{"color":null}`, base, base.Add(4*time.Hour))
		f.seedRow(t, "r5", "t1", `{"talla":38}`, base, base.Add(5*time.Hour))
		f.seedRow(t, "r6", "t3", `{"color":"verde"}`, base, base.Add(6*time.Hour))

		resp, err := f.uc.Values(admin, "color", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{`"rojo"`, `"azul"`}, rawStrings(resp.Values),
			"verde no cuenta: su tabla no declara la columna")
		assert.Equal(t, 2, resp.Count)
		assert.ElementsMatch(t, []string{"zapatos", "medias"}, resp.TablesSampled)
	})

	// Caso 2: la elegibilidad de la tabla ignora mayúsculas pero la
	// extracción usa la clave exacta pedida.
	t.Run("clave exacta en la extraccion", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "zapatos", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedColumn("c1", "t1", "Color", 0)
		f.seedRow(t, "r1", "t1", `{"Color":"rojo"}`, base, base)

		resp, err := f.uc.Values(admin, "color", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"zapatos"}, resp.TablesSampled)
		assert.Empty(t, resp.Values, "la clave de data es Color, no color")
	})

	// Caso 3: los filtros where acotan las filas muestreadas.
	t.Run("con filtros", func(t *testing.T) {
		f := newFixture()
		admin := f.adminToken()
		f.seedTable("t1", "zapatos", entity.VisibilityPublic, entity.TableTypeSale)
		f.seedColumn("c1", "t1", "color", 0)
		f.seedRow(t, "r1", "t1", `{"color":"rojo","talla":38}`, base, base.Add(1*time.Hour))
		f.seedRow(t, "r2", "t1", `{"color":"azul","talla":40}`, base, base.Add(2*time.Hour))

		resp, err := f.uc.Values(admin, "color", map[string]string{"talla": "38"})
		require.NoError(t, err)
		assert.Equal(t, []string{`"rojo"`}, rawStrings(resp.Values))
		assert.Equal(t, map[string]string{"talla": "38"}, resp.Filters)
	})
}
