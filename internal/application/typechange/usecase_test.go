package typechange_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablas-api/internal/application/apptest"
	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/application/typechange"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const ownerID = "owner-1"

type fixture struct {
	tables *apptest.TableRepo
	cols   *apptest.ColumnRepo
	rows   *apptest.RowRepo
	uc     *typechange.UseCase
}

func newFixture() *fixture {
	f := &fixture{
		tables: apptest.NewTableRepo(),
		cols:   apptest.NewColumnRepo(),
		rows:   apptest.NewRowRepo(),
	}
	tx := &apptest.Tx{Cols: f.cols, Rows: f.rows}
	f.uc = typechange.NewUseCase(f.tables, f.cols, tx, zerolog.Nop())
	return f
}

func (f *fixture) seedTable(id, tableType string) *entity.Table {
	now := time.Now()
	t := &entity.Table{
		ID: id, OwnerID: ownerID, Name: "tabla-" + id,
		Visibility: entity.VisibilityPrivate, TableType: tableType,
		CreatedAt: now, UpdatedAt: now,
	}
	_ = f.tables.Create(t)
	return t
}

func (f *fixture) seedColumn(id, tableID, name, colType string, position int) *entity.Column {
	now := time.Now()
	c := &entity.Column{
		ID: id, TableID: tableID, Name: name, ColumnType: colType,
		Position: position, CreatedAt: now, UpdatedAt: now,
	}
	_ = f.cols.Create(c)
	return c
}

func (f *fixture) seedRow(t *testing.T, id, tableID, raw string) *entity.DataRow {
	t.Helper()
	data, err := entity.RowDataFromJSON([]byte(raw))
	require.NoError(t, err)
	now := time.Now()
	row := &entity.DataRow{ID: id, TableID: tableID, Data: data, CreatedAt: now, UpdatedAt: now}
	_ = f.rows.Create(row)
	return row
}

func strPtr(s string) *string { return &s }

// mapping arma el DTO de asignación confirmada.
func mapping(required string, existingID *string) dto.ColumnMappingDTO {
	return dto.ColumnMappingDTO{RequiredColumn: required, ExistingColumnID: existingID}
}

// ──────────────────────────────────────────────────────────────────────────────
// Preview
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El preview de una tabla con columnas afines sugiere el mapeo
// completo sin mutar nada.
func TestPreview_MapeoSugerido(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", entity.TableTypeDefault)
	f.seedColumn("c1", "t1", "Price ($)", "currency", 0)
	f.seedColumn("c2", "t1", "Qty", "number", 1)

	plan, err := f.uc.Preview(ownerID, false, "t1", entity.TableTypeSale)
	require.NoError(t, err)

	assert.Equal(t, entity.TableTypeDefault, plan.CurrentType)
	assert.Equal(t, entity.TableTypeSale, plan.TargetType)
	require.Len(t, plan.RequiredColumns, 2)
	require.Len(t, plan.SuggestedMappings, 2)
	assert.True(t, plan.AllMapped, "ambas columnas requeridas deben encontrar candidata")

	byReq := make(map[string]dto.ColumnMappingDTO)
	for _, m := range plan.SuggestedMappings {
		byReq[m.RequiredColumn] = m
	}
	require.NotNil(t, byReq["price"].ExistingColumnID)
	assert.Equal(t, "c1", *byReq["price"].ExistingColumnID)
	assert.GreaterOrEqual(t, byReq["price"].Score, 90, "\"Price ($)\" normaliza a price")
	require.NotNil(t, byReq["qty"].ExistingColumnID)
	assert.Equal(t, "c2", *byReq["qty"].ExistingColumnID)

	tbl, _ := f.tables.GetByID("t1")
	assert.Equal(t, entity.TableTypeDefault, tbl.TableType, "el preview nunca muta")
}

// Caso 2: Un tipo destino fuera del enum se rechaza.
func TestPreview_TipoInvalido(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", entity.TableTypeDefault)

	_, err := f.uc.Preview(ownerID, false, "t1", "subasta")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Caso 3: Solo dueño o admin previsualizan la migración.
func TestPreview_SinPermiso(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", entity.TableTypeDefault)

	_, err := f.uc.Preview("intruso", false, "t1", entity.TableTypeSale)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply: validación previa
// ──────────────────────────────────────────────────────────────────────────────

// Caso 4: Un mapping que no cubre todas las requeridas falla antes de mutar.
func TestApply_CoberturaIncompleta(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", entity.TableTypeDefault)
	f.seedColumn("c1", "t1", "precio", "currency", 0)

	_, err := f.uc.Apply(context.Background(), ownerID, false, "t1", dto.ApplyTypeChangeRequest{
		TargetType:     entity.TableTypeSale,
		ColumnMappings: []dto.ColumnMappingDTO{mapping("price", strPtr("c1"))}, // falta qty
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	tbl, _ := f.tables.GetByID("t1")
	assert.Equal(t, entity.TableTypeDefault, tbl.TableType, "nada debe haber mutado")
	col, _ := f.cols.GetByID("c1")
	assert.Equal(t, "precio", col.Name)
}

// Caso 5: Migrar a rent sin rentalPeriod válido se rechaza.
func TestApply_RentExigePeriodo(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", entity.TableTypeDefault)

	_, err := f.uc.Apply(context.Background(), ownerID, false, "t1", dto.ApplyTypeChangeRequest{
		TargetType: entity.TableTypeRent,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply: ejecución
// ──────────────────────────────────────────────────────────────────────────────

// Caso 6: La migración renombra la columna mapeada (cascadeando a la data),
// crea la faltante con salto de posición y cambia el tipo al final.
func TestApply_RenombraActualizaYCrea(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", entity.TableTypeDefault)
	f.seedColumn("c1", "t1", "precio", "currency", 0)
	f.seedRow(t, "r1", "t1", `{"nombre":"Mesa","precio":100}`)
	f.seedRow(t, "r2", "t1", `{"nombre":"Silla"}`)

	res, err := f.uc.Apply(context.Background(), ownerID, false, "t1", dto.ApplyTypeChangeRequest{
		TargetType: entity.TableTypeSale,
		ColumnMappings: []dto.ColumnMappingDTO{
			mapping("price", strPtr("c1")),
			mapping("qty", nil),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"precio → price"}, res.Renamed)
	assert.Equal(t, []string{"qty"}, res.Created)
	assert.Empty(t, res.Updated)
	assert.Empty(t, res.Failures)

	// La columna existente quedó acomodada al template.
	c1, _ := f.cols.GetByID("c1")
	assert.Equal(t, "price", c1.Name)
	assert.True(t, c1.IsRequired)
	assert.True(t, c1.AllowDuplicates)
	assert.Equal(t, "0", c1.DefaultValue, "el default se rellena si la columna no tenía")

	// El rename cascadeó a la data.
	r1, _ := f.rows.GetByID("r1")
	assert.True(t, r1.Data.Has("price"))
	assert.False(t, r1.Data.Has("precio"))

	// La columna nueva saltó de a 10 posiciones.
	qty, _ := f.cols.GetByTableAndName("t1", "qty")
	require.NotNil(t, qty)
	assert.Equal(t, 10, qty.Position)
	assert.Equal(t, "number", qty.ColumnType)

	// El tipo cambió al final.
	tbl, _ := f.tables.GetByID("t1")
	assert.Equal(t, entity.TableTypeSale, tbl.TableType)
}

// Caso 7: Una columna ya llamada como el template solo ajusta flags, y su
// default previo no se pisa.
func TestApply_DefaultNoSobrescrito(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", entity.TableTypeDefault)
	c := f.seedColumn("c1", "t1", "price", "currency", 0)
	c.DefaultValue = "9.99"
	f.seedColumn("c2", "t1", "qty", "number", 1)

	res, err := f.uc.Apply(context.Background(), ownerID, false, "t1", dto.ApplyTypeChangeRequest{
		TargetType: entity.TableTypeSale,
		ColumnMappings: []dto.ColumnMappingDTO{
			mapping("price", strPtr("c1")),
			mapping("qty", strPtr("c2")),
		},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Renamed)
	assert.ElementsMatch(t, []string{"price", "qty"}, res.Updated)

	c1, _ := f.cols.GetByID("c1")
	assert.Equal(t, "9.99", c1.DefaultValue, "el default existente se conserva")
}

// Caso 8: Una falla individual se registra y la migración continúa; el tipo
// cambia igual.
func TestApply_FallaIndividualContinua(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", entity.TableTypeDefault)
	f.seedColumn("c2", "t1", "qty", "number", 0)

	res, err := f.uc.Apply(context.Background(), ownerID, false, "t1", dto.ApplyTypeChangeRequest{
		TargetType: entity.TableTypeSale,
		ColumnMappings: []dto.ColumnMappingDTO{
			mapping("price", strPtr("fantasma")),
			mapping("qty", strPtr("c2")),
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "price", res.Failures[0].RequiredColumn)
	assert.ElementsMatch(t, []string{"qty"}, res.Updated)

	tbl, _ := f.tables.GetByID("t1")
	assert.Equal(t, entity.TableTypeSale, tbl.TableType, "la migración no se abandona por una falla parcial")
}

// Caso 9: Volver a default no exige mappings y libera las columnas protegidas.
func TestApply_VueltaADefault(t *testing.T) {
	f := newFixture()
	tbl := f.seedTable("t1", entity.TableTypeRent)
	tbl.RentalPeriod = entity.RentalPeriodDaily

	res, err := f.uc.Apply(context.Background(), ownerID, false, "t1", dto.ApplyTypeChangeRequest{
		TargetType: entity.TableTypeDefault,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TableTypeDefault, res.TableType)
	assert.Empty(t, res.RentalPeriod)

	got, _ := f.tables.GetByID("t1")
	assert.Equal(t, entity.TableTypeDefault, got.TableType)
	assert.Empty(t, got.RentalPeriod, "el período de alquiler se limpia al salir de rent")
}

// Caso 10: Si las columnas ya cambiaron y el cambio final de tipo falla, el
// error lo distingue para reconciliación manual.
func TestApply_TypeSwitchFailed(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", entity.TableTypeDefault)
	f.seedColumn("c1", "t1", "precio", "currency", 0)

	boom := errors.New("conexión perdida")
	uc := typechange.NewUseCase(
		&failingTypeSwitch{TableRepo: f.tables, err: boom},
		f.cols,
		&apptest.Tx{Cols: f.cols, Rows: f.rows},
		zerolog.Nop(),
	)

	_, err := uc.Apply(context.Background(), ownerID, false, "t1", dto.ApplyTypeChangeRequest{
		TargetType: entity.TableTypeSale,
		ColumnMappings: []dto.ColumnMappingDTO{
			mapping("price", strPtr("c1")),
			mapping("qty", nil),
		},
	})

	var switchErr *domain.TypeSwitchFailedError
	require.ErrorAs(t, err, &switchErr, "la falla tras migrar columnas debe distinguirse")
	assert.Equal(t, "t1", switchErr.TableID)
	assert.ErrorIs(t, err, boom)
}

// failingTypeSwitch fuerza la falla del paso final de la migración.
type failingTypeSwitch struct {
	*apptest.TableRepo
	err error
}

func (f *failingTypeSwitch) UpdateType(tableID, tableType, rentalPeriod string) error {
	return f.err
}
