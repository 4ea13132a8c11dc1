package schema

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/coltype"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// ColumnUseCase casos de uso de columnas: altas con posición, renames con
// cascadeo a la data de filas, swaps y recuento de posiciones densas.
type ColumnUseCase struct {
	tableRepo repository.TableRepository
	colRepo   repository.ColumnRepository
	types     *coltype.Registry
	txRunner  TxRunner
	log       zerolog.Logger
}

// NewColumnUseCase construye el caso de uso.
func NewColumnUseCase(
	tableRepo repository.TableRepository,
	colRepo repository.ColumnRepository,
	types *coltype.Registry,
	txRunner TxRunner,
	log zerolog.Logger,
) *ColumnUseCase {
	return &ColumnUseCase{tableRepo: tableRepo, colRepo: colRepo, types: types, txRunner: txRunner, log: log}
}

// writableTable trae la tabla y valida que el actor pueda modificarla.
func (uc *ColumnUseCase) writableTable(actorID string, isAdmin bool, tableID string) (*entity.Table, error) {
	table, err := uc.tableRepo.GetByID(tableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, domain.ErrNotFound
	}
	if !canWrite(table, actorID, isAdmin) {
		return nil, domain.ErrForbidden
	}
	return table, nil
}

// Add agrega una columna al final (posición max+1).
func (uc *ColumnUseCase) Add(actorID string, isAdmin bool, tableID string, in dto.CreateColumnRequest) (*dto.ColumnResponse, error) {
	if _, err := uc.writableTable(actorID, isAdmin, tableID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || !uc.types.Known(in.ColumnType) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.colRepo.GetByTableAndName(tableID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateColumn
	}
	maxPos, err := uc.colRepo.MaxPosition(tableID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	col := &entity.Column{
		ID:              uuid.New().String(),
		TableID:         tableID,
		Name:            name,
		ColumnType:      in.ColumnType,
		IsRequired:      in.IsRequired,
		AllowDuplicates: in.AllowDuplicates,
		DefaultValue:    in.DefaultValue,
		Position:        maxPos + 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.colRepo.Create(col); err != nil {
		return nil, err
	}
	resp := toColumnResponse(col)
	return &resp, nil
}

// GetByID obtiene una columna.
func (uc *ColumnUseCase) GetByID(actorID string, isAdmin bool, columnID string) (*dto.ColumnResponse, error) {
	col, err := uc.colRepo.GetByID(columnID)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, nil
	}
	table, err := uc.tableRepo.GetByID(col.TableID)
	if err != nil {
		return nil, err
	}
	if table == nil || !canRead(table, actorID, isAdmin) {
		return nil, domain.ErrForbidden
	}
	resp := toColumnResponse(col)
	return &resp, nil
}

// List lista las columnas de una tabla en orden de posición.
func (uc *ColumnUseCase) List(actorID string, isAdmin bool, tableID string) ([]dto.ColumnResponse, error) {
	table, err := uc.tableRepo.GetByID(tableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, domain.ErrNotFound
	}
	if !canRead(table, actorID, isAdmin) {
		return nil, domain.ErrForbidden
	}
	cols, err := uc.colRepo.ListByTable(tableID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ColumnResponse, 0, len(cols))
	for _, c := range cols {
		out = append(out, toColumnResponse(c))
	}
	return out, nil
}

// Update actualiza una columna. Sobre columnas protegidas por el tipo de la
// tabla, los cambios de name/isRequired/allowDuplicates se rechazan con
// ColumnProtectedError; un rename válido reescribe la clave en la data de
// todas las filas dentro de la misma transacción.
func (uc *ColumnUseCase) Update(ctx context.Context, actorID string, isAdmin bool, columnID string, in dto.UpdateColumnRequest) (*dto.RenameColumnResult, error) {
	col, err := uc.colRepo.GetByID(columnID)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, nil
	}
	table, err := uc.writableTable(actorID, isAdmin, col.TableID)
	if err != nil {
		return nil, err
	}

	// ── 1. Chequeo de columnas protegidas ────────────────────────────────
	protected := table.IsCommerce() && entity.IsProtectedColumn(table.TableType, col.Name)
	renaming := in.Name != nil && strings.TrimSpace(*in.Name) != col.Name
	if protected {
		if renaming ||
			(in.IsRequired != nil && *in.IsRequired != col.IsRequired) ||
			(in.AllowDuplicates != nil && *in.AllowDuplicates != col.AllowDuplicates) {
			return nil, &domain.ColumnProtectedError{Column: col.Name, TableType: table.TableType}
		}
	}

	// ── 2. Validaciones de entrada ───────────────────────────────────────
	newName := col.Name
	if renaming {
		newName = strings.TrimSpace(*in.Name)
		if newName == "" {
			return nil, domain.ErrInvalidInput
		}
		dup, err := uc.colRepo.GetByTableAndName(col.TableID, newName)
		if err != nil {
			return nil, err
		}
		if dup != nil && dup.ID != col.ID {
			return nil, domain.ErrDuplicateColumn
		}
	}
	if in.ColumnType != nil && !uc.types.Known(*in.ColumnType) {
		return nil, domain.ErrInvalidInput
	}

	oldName := col.Name
	col.Name = newName
	if in.ColumnType != nil {
		col.ColumnType = *in.ColumnType
	}
	if in.IsRequired != nil {
		col.IsRequired = *in.IsRequired
	}
	if in.AllowDuplicates != nil {
		col.AllowDuplicates = *in.AllowDuplicates
	}
	if in.DefaultValue != nil {
		col.DefaultValue = *in.DefaultValue
	}
	col.UpdatedAt = time.Now()

	// ── 3. Persistencia; el rename cascadea a la data en la misma tx ─────
	var rowsTouched int64
	err = uc.txRunner.Run(ctx, func(
		colRepo repository.ColumnRepository,
		rowRepo repository.RowRepository,
		_ repository.InventoryTransactionRepository,
	) error {
		if err := colRepo.Update(col); err != nil {
			return err
		}
		if renaming {
			n, err := RenameColumnInData(rowRepo, col.TableID, oldName, newName)
			if err != nil {
				return err
			}
			rowsTouched = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if renaming {
		uc.log.Info().
			Str("table_id", col.TableID).
			Str("old_name", oldName).
			Str("new_name", newName).
			Int64("rows_touched", rowsTouched).
			Msg("columna renombrada con reescritura de data")
	}
	return &dto.RenameColumnResult{Column: toColumnResponse(col), RowsTouched: rowsTouched}, nil
}

// Delete elimina una columna no protegida y renormaliza posiciones en la
// misma transacción. Las claves huérfanas en la data de filas se conservan.
func (uc *ColumnUseCase) Delete(ctx context.Context, actorID string, isAdmin bool, columnID string) error {
	col, err := uc.colRepo.GetByID(columnID)
	if err != nil {
		return err
	}
	if col == nil {
		return domain.ErrNotFound
	}
	table, err := uc.writableTable(actorID, isAdmin, col.TableID)
	if err != nil {
		return err
	}
	if table.IsCommerce() && entity.IsProtectedColumn(table.TableType, col.Name) {
		return &domain.ColumnProtectedError{Column: col.Name, TableType: table.TableType}
	}
	return uc.txRunner.Run(ctx, func(
		colRepo repository.ColumnRepository,
		_ repository.RowRepository,
		_ repository.InventoryTransactionRepository,
	) error {
		if err := colRepo.Delete(columnID); err != nil {
			return err
		}
		_, err := recountPositions(colRepo, col.TableID)
		return err
	})
}

// Swap intercambia las posiciones de dos columnas de la tabla, atómicamente.
// Las columnas se leen dentro de la misma transacción que escribe, para que
// un add/delete concurrente no deje posiciones duplicadas.
func (uc *ColumnUseCase) Swap(ctx context.Context, actorID string, isAdmin bool, tableID string, in dto.SwapPositionsRequest) error {
	if _, err := uc.writableTable(actorID, isAdmin, tableID); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		colRepo repository.ColumnRepository,
		_ repository.RowRepository,
		_ repository.InventoryTransactionRepository,
	) error {
		colA, err := colRepo.GetByID(in.ColumnA)
		if err != nil {
			return err
		}
		colB, err := colRepo.GetByID(in.ColumnB)
		if err != nil {
			return err
		}
		if colA == nil || colB == nil || colA.TableID != tableID || colB.TableID != tableID {
			return domain.ErrNotFound
		}
		// Capturar ambas posiciones antes de escribir: la primera escritura no
		// puede contaminar la segunda lectura.
		posA, posB := colA.Position, colB.Position
		if err := colRepo.UpdatePosition(colA.ID, posB); err != nil {
			return err
		}
		return colRepo.UpdatePosition(colB.ID, posA)
	})
}

// Recount renormaliza las posiciones a la secuencia densa 0..n-1 conservando
// el orden relativo. Devuelve las columnas con su posición final.
func (uc *ColumnUseCase) Recount(ctx context.Context, actorID string, isAdmin bool, tableID string) ([]dto.ColumnResponse, error) {
	if _, err := uc.writableTable(actorID, isAdmin, tableID); err != nil {
		return nil, err
	}
	var cols []*entity.Column
	err := uc.txRunner.Run(ctx, func(
		colRepo repository.ColumnRepository,
		_ repository.RowRepository,
		_ repository.InventoryTransactionRepository,
	) error {
		var err error
		cols, err = recountPositions(colRepo, tableID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ColumnResponse, 0, len(cols))
	for _, c := range cols {
		out = append(out, toColumnResponse(c))
	}
	return out, nil
}

// ── helpers transaccionales ───────────────────────────────────────────────────

// recountPositions lee las columnas en orden y escribe posiciones 0..n-1
// donde difieran. Debe correr dentro de una transacción.
func recountPositions(colRepo repository.ColumnRepository, tableID string) ([]*entity.Column, error) {
	cols, err := colRepo.ListByTable(tableID)
	if err != nil {
		return nil, err
	}
	for i, c := range cols {
		if c.Position != i {
			if err := colRepo.UpdatePosition(c.ID, i); err != nil {
				return nil, err
			}
			c.Position = i
		}
	}
	return cols, nil
}

// RenameColumnInData reescribe la clave oldName → newName en la data de cada
// fila de la tabla. Devuelve cuántas filas tocó. Debe correr dentro de una
// transacción: la data referencia columnas por nombre, no por id. También lo
// usa el applier de cambio de tipo cuando un mapping renombra una columna.
func RenameColumnInData(rowRepo repository.RowRepository, tableID, oldName, newName string) (int64, error) {
	rows, err := rowRepo.ListAllByTable(tableID)
	if err != nil {
		return 0, err
	}
	var touched int64
	for _, row := range rows {
		if row.Data == nil || !row.Data.Has(oldName) {
			continue
		}
		row.Data.Rename(oldName, newName)
		row.UpdatedAt = time.Now()
		if err := rowRepo.Update(row); err != nil {
			return touched, err
		}
		touched++
	}
	return touched, nil
}
