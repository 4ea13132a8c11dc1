package schema_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Escrituras: defaults, advertencias y nunca bloquear
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: La escritura con datos inválidos persiste igual y devuelve la
// advertencia; los defaults de columna rellenan los valores ausentes.
func TestRowCreate_DefaultsYAdvertencias(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", ownerID, entity.TableTypeDefault)
	f.seedColumn("c1", "t1", "email", "email", 0)
	estado := f.seedColumn("c2", "t1", "estado", "boolean", 1)
	estado.DefaultValue = "true"

	res, err := f.rowUC.Create(context.Background(), ownerID, false, "t1", dto.CreateRowRequest{
		Data: []byte(`{"email":"no-es-un-correo"}`),
	})
	require.NoError(t, err, "los datos inválidos advierten, no bloquean la escritura")
	require.NotNil(t, res)

	warn, ok := res.Warnings["email"]
	require.True(t, ok, "debe advertirse la celda inválida")
	assert.Equal(t, "Invalid email format", warn.Error)
	assert.Contains(t, warn.Suggestion, "Add @ symbol and domain")

	row, _ := f.rows.GetByID(res.Row.ID)
	require.NotNil(t, row, "la fila debe haberse persistido pese a la advertencia")
	v, ok := row.Data.Get("estado")
	require.True(t, ok, "el default de la columna debe rellenar el valor ausente")
	assert.Equal(t, entity.KindBool, v.Kind, "el default se parsea con el handler del tipo")
	assert.True(t, v.Bool)
}

// Caso 2: El data que no es un objeto JSON se rechaza antes de tocar nada.
func TestRowCreate_DataInvalida(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", ownerID, entity.TableTypeDefault)

	_, err := f.rowUC.Create(context.Background(), ownerID, false, "t1", dto.CreateRowRequest{Data: []byte(`[1,2]`)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	n, _ := f.rows.CountByTable("t1")
	assert.Zero(t, n)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial de inventario en tablas comerciales
// ──────────────────────────────────────────────────────────────────────────────

// Caso 3: Insertar en una tabla de venta deja el registro "add" con el
// snapshot y el delta de cantidad.
func TestRowCreate_TablaComercialRegistraAdd(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", ownerID, entity.TableTypeSale)

	res, err := f.rowUC.Create(context.Background(), ownerID, false, "t1", dto.CreateRowRequest{
		Data: []byte(`{"nombre":"Mesa","price":100,"qty":3}`),
	})
	require.NoError(t, err)

	require.Len(t, f.inv.List, 1, "la inserción comercial registra exactamente una transacción")
	tx := f.inv.List[0]
	assert.Equal(t, entity.TxTypeAdd, tx.Type)
	assert.Equal(t, res.Row.ID, tx.RowID)
	assert.True(t, tx.QuantityDelta.Equal(decimal.NewFromInt(3)), "el delta es el qty insertado")
	assert.JSONEq(t, `{"nombre":"Mesa","price":100,"qty":3}`, string(tx.AfterData))
	assert.Equal(t, ownerID, tx.ActorID)
}

// Caso 4: Actualizar una fila de venta registra "update" con antes/después y
// el delta de la diferencia de qty.
func TestRowUpdate_RegistraUpdateConDelta(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", ownerID, entity.TableTypeSale)
	f.seedRow("r1", "t1", rowJSON(t, `{"nombre":"Mesa","price":100,"qty":5}`))

	_, err := f.rowUC.Update(context.Background(), ownerID, false, "r1", dto.UpdateRowRequest{
		Data: []byte(`{"nombre":"Mesa","price":100,"qty":2}`),
	})
	require.NoError(t, err)

	require.Len(t, f.inv.List, 1)
	tx := f.inv.List[0]
	assert.Equal(t, entity.TxTypeUpdate, tx.Type)
	assert.True(t, tx.QuantityDelta.Equal(decimal.NewFromInt(-3)), "delta = qty nuevo - qty anterior")
	assert.JSONEq(t, `{"nombre":"Mesa","price":100,"qty":5}`, string(tx.BeforeData))
	assert.JSONEq(t, `{"nombre":"Mesa","price":100,"qty":2}`, string(tx.AfterData))
}

// Caso 5: Borrar una fila de alquiler registra "remove" con delta -1.
func TestRowDelete_ComercialRegistraRemove(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", ownerID, entity.TableTypeRent)
	f.seedRow("r1", "t1", rowJSON(t, `{"nombre":"Taladro","price":20,"fee":5}`))

	require.NoError(t, f.rowUC.Delete(context.Background(), ownerID, false, "r1"))

	row, _ := f.rows.GetByID("r1")
	assert.Nil(t, row, "la fila debe haberse borrado")
	require.Len(t, f.inv.List, 1)
	tx := f.inv.List[0]
	assert.Equal(t, entity.TxTypeRemove, tx.Type)
	assert.True(t, tx.QuantityDelta.Equal(decimal.NewFromInt(-1)), "en alquiler cada fila vale una unidad")
	assert.JSONEq(t, `{"nombre":"Taladro","price":20,"fee":5}`, string(tx.BeforeData))
}

// Caso 6: El borrado masivo ignora ids de otras tablas y reporta solo lo
// borrado de verdad.
func TestRowDeleteMany_IgnoraAjenos(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", ownerID, entity.TableTypeDefault)
	f.seedTable("t2", ownerID, entity.TableTypeDefault)
	f.seedRow("r1", "t1", rowJSON(t, `{"a":1}`))
	f.seedRow("r2", "t1", rowJSON(t, `{"a":2}`))
	f.seedRow("r3", "t2", rowJSON(t, `{"a":3}`))

	deleted, err := f.rowUC.DeleteMany(context.Background(), ownerID, false, "t1", []string{"r1", "r2", "r3", "fantasma"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted, "solo las filas de la tabla pedida se borran")

	r3, _ := f.rows.GetByID("r3")
	assert.NotNil(t, r3, "la fila de otra tabla debe sobrevivir")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte de validación y limpieza de inválidas
// ──────────────────────────────────────────────────────────────────────────────

// siembra 10 filas de venta, 3 con price inválido.
func seedSaleDataset(t *testing.T, f *fixture) {
	t.Helper()
	f.seedTable("t1", ownerID, entity.TableTypeSale)
	f.seedColumn("c1", "t1", "price", "currency", 0)
	f.seedColumn("c2", "t1", "qty", "number", 1)
	for i := 0; i < 7; i++ {
		f.seedRow(fmt.Sprintf("ok-%d", i), "t1", rowJSON(t, `{"price":10,"qty":1}`))
	}
	for i := 0; i < 3; i++ {
		f.seedRow(fmt.Sprintf("bad-%d", i), "t1", rowJSON(t, `{"price":"gratis","qty":1}`))
	}
}

// Caso 7: El reporte cuenta las inválidas pero devuelve todas las filas.
func TestValidateTable_ReportaSinExcluir(t *testing.T) {
	f := newFixture()
	seedSaleDataset(t, f)

	report, err := f.rowUC.ValidateTable(ownerID, false, "t1")
	require.NoError(t, err)
	assert.Equal(t, 10, report.TotalRows)
	assert.Equal(t, 3, report.InvalidRows)
	assert.Equal(t, 3, report.TotalWarnings)
	assert.Len(t, report.Rows, 10, "las filas inválidas se reportan, nunca se excluyen")

	for _, rr := range report.Rows {
		if !rr.IsValid {
			res := rr.FieldResults["price"]
			assert.False(t, res.Valid)
			assert.NotEmpty(t, res.Error, "la celda inválida debe traer su mensaje")
		}
	}
}

// Caso 8: La limpieza borra exactamente las inválidas y nada más; en tabla
// comercial cada borrado deja su registro "remove".
func TestCleanupInvalid_BorraSoloInvalidas(t *testing.T) {
	f := newFixture()
	seedSaleDataset(t, f)

	res, err := f.rowUC.CleanupInvalid(context.Background(), ownerID, false, "t1")
	require.NoError(t, err)
	assert.Equal(t, 3, res.FoundInvalid)
	assert.Equal(t, int64(3), res.Deleted, "encontradas y borradas deben coincidir")

	n, _ := f.rows.CountByTable("t1")
	assert.Equal(t, int64(7), n, "las filas válidas deben sobrevivir")
	assert.Len(t, f.inv.List, 3, "cada borrado comercial deja su transacción remove")
}

// Caso 9: Con todas las filas válidas la limpieza no borra nada.
func TestCleanupInvalid_SinInvalidas(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", ownerID, entity.TableTypeDefault)
	f.seedColumn("c1", "t1", "nombre", "text", 0)
	f.seedRow("r1", "t1", rowJSON(t, `{"nombre":"ok"}`))

	res, err := f.rowUC.CleanupInvalid(context.Background(), ownerID, false, "t1")
	require.NoError(t, err)
	assert.Zero(t, res.FoundInvalid)
	assert.Zero(t, res.Deleted)
}

// ──────────────────────────────────────────────────────────────────────────────
// Preview de cambio de tipo de columna
// ──────────────────────────────────────────────────────────────────────────────

// Caso 10: El preview revalida contra el tipo hipotético sin mutar la columna
// ni las filas.
func TestPreviewColumnType_NoMuta(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", ownerID, entity.TableTypeDefault)
	f.seedColumn("c1", "t1", "edad", "text", 0)
	f.seedRow("r1", "t1", rowJSON(t, `{"edad":"12"}`))
	f.seedRow("r2", "t1", rowJSON(t, `{"edad":"doce"}`))

	res, err := f.rowUC.PreviewColumnType(ownerID, false, "c1", "number")
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 1, res.IncompatibleRows)
	require.Len(t, res.Samples, 1)
	assert.Equal(t, "r2", res.Samples[0].RowID)
	assert.Equal(t, "doce", res.Samples[0].Value)

	col, _ := f.cols.GetByID("c1")
	assert.Equal(t, "text", col.ColumnType, "el preview no debe cambiar el tipo real")
}

// Caso 11: Un tipo destino desconocido se rechaza.
func TestPreviewColumnType_TipoDesconocido(t *testing.T) {
	f := newFixture()
	f.seedTable("t1", ownerID, entity.TableTypeDefault)
	f.seedColumn("c1", "t1", "edad", "text", 0)

	_, err := f.rowUC.PreviewColumnType(ownerID, false, "c1", "hologram")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
