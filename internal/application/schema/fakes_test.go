package schema_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablas-api/internal/application/apptest"
	"github.com/jhoicas/Tablas-api/internal/application/schema"
	"github.com/jhoicas/Tablas-api/internal/domain/coltype"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/validation"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture compartido por los tests del paquete
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	tables *apptest.TableRepo
	cols   *apptest.ColumnRepo
	rows   *apptest.RowRepo
	inv    *apptest.InvRepo
	types  *coltype.Registry

	tableUC *schema.TableUseCase
	colUC   *schema.ColumnUseCase
	rowUC   *schema.RowUseCase
}

func newFixture() *fixture {
	f := &fixture{
		tables: apptest.NewTableRepo(),
		cols:   apptest.NewColumnRepo(),
		rows:   apptest.NewRowRepo(),
		inv:    apptest.NewInvRepo(),
		types:  coltype.Builtin(),
	}
	tx := &apptest.Tx{Cols: f.cols, Rows: f.rows, Inv: f.inv}
	log := zerolog.Nop()
	f.tableUC = schema.NewTableUseCase(f.tables, f.cols, f.rows)
	f.colUC = schema.NewColumnUseCase(f.tables, f.cols, f.types, tx, log)
	f.rowUC = schema.NewRowUseCase(f.tables, f.cols, f.rows, validation.New(f.types), f.types, tx, log)
	return f
}

// seedTable inserta una tabla directamente en el repo.
func (f *fixture) seedTable(id, ownerID, tableType string) *entity.Table {
	now := time.Now()
	t := &entity.Table{
		ID:         id,
		OwnerID:    ownerID,
		Name:       "tabla-" + id,
		Visibility: entity.VisibilityPrivate,
		TableType:  tableType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if tableType == entity.TableTypeRent {
		t.RentalPeriod = entity.RentalPeriodDaily
	}
	_ = f.tables.Create(t)
	return t
}

// seedColumn inserta una columna directamente en el repo.
func (f *fixture) seedColumn(id, tableID, name, colType string, position int) *entity.Column {
	now := time.Now()
	c := &entity.Column{
		ID:         id,
		TableID:    tableID,
		Name:       name,
		ColumnType: colType,
		Position:   position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_ = f.cols.Create(c)
	return c
}

// seedRow inserta una fila directamente en el repo.
func (f *fixture) seedRow(id, tableID string, data *entity.RowData) *entity.DataRow {
	now := time.Now()
	row := &entity.DataRow{ID: id, TableID: tableID, Data: data, CreatedAt: now, UpdatedAt: now}
	_ = f.rows.Create(row)
	return row
}

// rowJSON arma el data de una fila desde un literal JSON.
func rowJSON(t *testing.T, raw string) *entity.RowData {
	t.Helper()
	data, err := entity.RowDataFromJSON([]byte(raw))
	require.NoError(t, err, "el literal JSON del test debe parsear")
	return data
}
