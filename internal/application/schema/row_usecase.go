package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/coltype"
	"github.com/jhoicas/Tablas-api/internal/domain/commerce"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
	"github.com/jhoicas/Tablas-api/internal/domain/validation"
)

// RowUseCase casos de uso de filas: escrituras con advertencias de validación
// que nunca bloquean, historial de inventario en tablas comerciales, reporte
// de dataset y limpieza de filas inválidas.
type RowUseCase struct {
	tableRepo repository.TableRepository
	colRepo   repository.ColumnRepository
	rowRepo   repository.RowRepository
	validator *validation.Validator
	types     *coltype.Registry
	txRunner  TxRunner
	log       zerolog.Logger
}

// NewRowUseCase construye el caso de uso.
func NewRowUseCase(
	tableRepo repository.TableRepository,
	colRepo repository.ColumnRepository,
	rowRepo repository.RowRepository,
	validator *validation.Validator,
	types *coltype.Registry,
	txRunner TxRunner,
	log zerolog.Logger,
) *RowUseCase {
	return &RowUseCase{
		tableRepo: tableRepo,
		colRepo:   colRepo,
		rowRepo:   rowRepo,
		validator: validator,
		types:     types,
		txRunner:  txRunner,
		log:       log,
	}
}

func (uc *RowUseCase) writableTable(actorID string, isAdmin bool, tableID string) (*entity.Table, error) {
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

func (uc *RowUseCase) readableTable(actorID string, isAdmin bool, tableID string) (*entity.Table, error) {
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
	return table, nil
}

// Create inserta una fila. Los defaults de columna rellenan valores ausentes,
// la validación devuelve advertencias sin bloquear y, en tablas comerciales,
// la inserción y su registro "add" de inventario van en la misma transacción.
func (uc *RowUseCase) Create(ctx context.Context, actorID string, isAdmin bool, tableID string, in dto.CreateRowRequest) (*dto.RowWriteResponse, error) {
	table, err := uc.writableTable(actorID, isAdmin, tableID)
	if err != nil {
		return nil, err
	}
	data, err := entity.RowDataFromJSON(in.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: data no es un objeto JSON válido", domain.ErrInvalidInput)
	}
	cols, err := uc.colRepo.ListByTable(tableID)
	if err != nil {
		return nil, err
	}
	uc.applyDefaults(data, cols)
	warnings := toFieldResults(uc.validator.ValidateRow(data, derefColumns(cols)))

	now := time.Now()
	row := &entity.DataRow{
		ID:        uuid.New().String(),
		TableID:   tableID,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if table.IsCommerce() {
		err = uc.txRunner.Run(ctx, func(
			_ repository.ColumnRepository,
			rowRepo repository.RowRepository,
			invRepo repository.InventoryTransactionRepository,
		) error {
			if err := rowRepo.Create(row); err != nil {
				return err
			}
			return invRepo.Create(&entity.InventoryTransaction{
				ID:            uuid.New().String(),
				TableID:       tableID,
				RowID:         row.ID,
				Type:          entity.TxTypeAdd,
				AfterData:     snapshot(row.Data),
				QuantityDelta: unitsOf(table, row.Data),
				ActorID:       actorID,
				CreatedAt:     now,
			})
		})
	} else {
		err = uc.rowRepo.Create(row)
	}
	if err != nil {
		return nil, err
	}
	return &dto.RowWriteResponse{Row: toRowResponse(row), Warnings: warnings}, nil
}

// GetByID obtiene una fila, validando acceso de lectura sobre su tabla.
func (uc *RowUseCase) GetByID(actorID string, isAdmin bool, rowID string) (*dto.RowResponse, error) {
	row, err := uc.rowRepo.GetByID(rowID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	if _, err := uc.readableTable(actorID, isAdmin, row.TableID); err != nil {
		return nil, err
	}
	resp := toRowResponse(row)
	return &resp, nil
}

// List lista las filas de una tabla, paginadas.
func (uc *RowUseCase) List(actorID string, isAdmin bool, tableID string, page dto.PageRequest) (*dto.RowListResponse, error) {
	if _, err := uc.readableTable(actorID, isAdmin, tableID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	total, err := uc.rowRepo.CountByTable(tableID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.rowRepo.ListByTable(tableID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RowResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, toRowResponse(r))
	}
	return &dto.RowListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: int(total)},
	}, nil
}

// Update reemplaza el data de una fila. En tablas comerciales registra el
// "update" de inventario con snapshots antes/después y el delta de cantidad.
func (uc *RowUseCase) Update(ctx context.Context, actorID string, isAdmin bool, rowID string, in dto.UpdateRowRequest) (*dto.RowWriteResponse, error) {
	row, err := uc.rowRepo.GetByID(rowID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	table, err := uc.writableTable(actorID, isAdmin, row.TableID)
	if err != nil {
		return nil, err
	}
	data, err := entity.RowDataFromJSON(in.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: data no es un objeto JSON válido", domain.ErrInvalidInput)
	}
	cols, err := uc.colRepo.ListByTable(row.TableID)
	if err != nil {
		return nil, err
	}
	warnings := toFieldResults(uc.validator.ValidateRow(data, derefColumns(cols)))

	before := snapshot(row.Data)
	beforeUnits := unitsOf(table, row.Data)
	row.Data = data
	row.UpdatedAt = time.Now()

	if table.IsCommerce() {
		err = uc.txRunner.Run(ctx, func(
			_ repository.ColumnRepository,
			rowRepo repository.RowRepository,
			invRepo repository.InventoryTransactionRepository,
		) error {
			if err := rowRepo.Update(row); err != nil {
				return err
			}
			return invRepo.Create(&entity.InventoryTransaction{
				ID:            uuid.New().String(),
				TableID:       row.TableID,
				RowID:         row.ID,
				Type:          entity.TxTypeUpdate,
				BeforeData:    before,
				AfterData:     snapshot(row.Data),
				QuantityDelta: unitsOf(table, row.Data).Sub(beforeUnits),
				ActorID:       actorID,
				CreatedAt:     row.UpdatedAt,
			})
		})
	} else {
		err = uc.rowRepo.Update(row)
	}
	if err != nil {
		return nil, err
	}
	return &dto.RowWriteResponse{Row: toRowResponse(row), Warnings: warnings}, nil
}

// Delete borra una fila. En tablas comerciales el borrado y su "remove" de
// inventario van juntos.
func (uc *RowUseCase) Delete(ctx context.Context, actorID string, isAdmin bool, rowID string) error {
	row, err := uc.rowRepo.GetByID(rowID)
	if err != nil {
		return err
	}
	if row == nil {
		return domain.ErrNotFound
	}
	table, err := uc.writableTable(actorID, isAdmin, row.TableID)
	if err != nil {
		return err
	}
	if !table.IsCommerce() {
		return uc.rowRepo.Delete(rowID)
	}
	return uc.txRunner.Run(ctx, func(
		_ repository.ColumnRepository,
		rowRepo repository.RowRepository,
		invRepo repository.InventoryTransactionRepository,
	) error {
		if err := invRepo.Create(removalTx(table, row, actorID)); err != nil {
			return err
		}
		return rowRepo.Delete(rowID)
	})
}

// DeleteMany borra un lote de filas de la tabla. Ignora ids ajenos a la tabla
// y devuelve cuántas filas borró de verdad.
func (uc *RowUseCase) DeleteMany(ctx context.Context, actorID string, isAdmin bool, tableID string, ids []string) (int64, error) {
	table, err := uc.writableTable(actorID, isAdmin, tableID)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	owned, err := uc.ownedRows(tableID, ids)
	if err != nil {
		return 0, err
	}
	if len(owned) == 0 {
		return 0, nil
	}
	return uc.deleteRows(ctx, table, owned, actorID)
}

// ValidateTable corre el reporte de validación de todas las filas. Las filas
// inválidas se reportan completas, nunca se excluyen de la lista.
func (uc *RowUseCase) ValidateTable(actorID string, isAdmin bool, tableID string) (*dto.DatasetValidationResponse, error) {
	if _, err := uc.readableTable(actorID, isAdmin, tableID); err != nil {
		return nil, err
	}
	report, err := uc.datasetReport(tableID)
	if err != nil {
		return nil, err
	}
	resp := &dto.DatasetValidationResponse{
		TotalRows:     report.TotalRows,
		InvalidRows:   report.InvalidRows,
		TotalWarnings: report.TotalWarnings,
		Rows:          make([]dto.RowValidationReport, 0, len(report.Rows)),
	}
	for _, rr := range report.Rows {
		fields := make(map[string]dto.FieldResult, len(rr.FieldResults))
		for name, res := range rr.FieldResults {
			fields[name] = dto.FieldResult{Valid: res.Valid, Error: res.Error, Suggestion: res.Suggestion}
		}
		resp.Rows = append(resp.Rows, dto.RowValidationReport{
			RowID:        rr.RowID,
			IsValid:      rr.IsValid,
			FieldResults: fields,
		})
	}
	return resp, nil
}

// CleanupInvalid borra todas las filas actualmente inválidas. FoundInvalid y
// Deleted se reportan por separado para detectar filas que cambiaron entre el
// chequeo y el borrado.
func (uc *RowUseCase) CleanupInvalid(ctx context.Context, actorID string, isAdmin bool, tableID string) (*dto.CleanupResponse, error) {
	table, err := uc.writableTable(actorID, isAdmin, tableID)
	if err != nil {
		return nil, err
	}
	report, err := uc.datasetReport(tableID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, report.InvalidRows)
	for _, rr := range report.Rows {
		if !rr.IsValid {
			ids = append(ids, rr.RowID)
		}
	}
	resp := &dto.CleanupResponse{FoundInvalid: len(ids)}
	if len(ids) == 0 {
		return resp, nil
	}
	owned, err := uc.ownedRows(tableID, ids)
	if err != nil {
		return nil, err
	}
	deleted, err := uc.deleteRows(ctx, table, owned, actorID)
	if err != nil {
		return nil, err
	}
	resp.Deleted = deleted
	if int64(resp.FoundInvalid) != deleted {
		uc.log.Warn().
			Str("table_id", tableID).
			Int("found_invalid", resp.FoundInvalid).
			Int64("deleted", deleted).
			Msg("limpieza de filas inválidas: el conteo borrado difiere del detectado")
	}
	return resp, nil
}

// PreviewColumnType revalida los valores de una columna contra un tipo
// hipotético, sin mutar nada.
func (uc *RowUseCase) PreviewColumnType(actorID string, isAdmin bool, columnID, newType string) (*dto.TypePreviewResponse, error) {
	col, err := uc.colRepo.GetByID(columnID)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.readableTable(actorID, isAdmin, col.TableID); err != nil {
		return nil, err
	}
	if !uc.types.Known(newType) {
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.rowRepo.ListAllByTable(col.TableID)
	if err != nil {
		return nil, err
	}
	report := uc.validator.PreviewTypeChange(derefRows(rows), col.Name, col.ColumnType, newType)
	resp := &dto.TypePreviewResponse{
		IncompatibleRows: report.IncompatibleRows,
		TotalRows:        report.TotalRows,
		Samples:          make([]dto.TypePreviewSample, 0, len(report.Samples)),
	}
	for _, s := range report.Samples {
		resp.Samples = append(resp.Samples, dto.TypePreviewSample{RowID: s.RowID, Value: s.Value, Error: s.Error})
	}
	return resp, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (uc *RowUseCase) datasetReport(tableID string) (*validation.DatasetReport, error) {
	cols, err := uc.colRepo.ListByTable(tableID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.rowRepo.ListAllByTable(tableID)
	if err != nil {
		return nil, err
	}
	report := uc.validator.ValidateDataset(derefRows(rows), derefColumns(cols))
	return &report, nil
}

// ownedRows filtra los ids pedidos a las filas que efectivamente pertenecen a
// la tabla, devolviéndolas completas para los snapshots de inventario.
func (uc *RowUseCase) ownedRows(tableID string, ids []string) ([]*entity.DataRow, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	all, err := uc.rowRepo.ListAllByTable(tableID)
	if err != nil {
		return nil, err
	}
	owned := make([]*entity.DataRow, 0, len(ids))
	for _, row := range all {
		if _, ok := want[row.ID]; ok {
			owned = append(owned, row)
		}
	}
	return owned, nil
}

// deleteRows borra un lote. En tablas comerciales cada fila deja su registro
// "remove" con snapshot previo, todo en una transacción.
func (uc *RowUseCase) deleteRows(ctx context.Context, table *entity.Table, rows []*entity.DataRow, actorID string) (int64, error) {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	if !table.IsCommerce() {
		return uc.rowRepo.DeleteMany(ids)
	}
	var deleted int64
	err := uc.txRunner.Run(ctx, func(
		_ repository.ColumnRepository,
		rowRepo repository.RowRepository,
		invRepo repository.InventoryTransactionRepository,
	) error {
		for _, row := range rows {
			if err := invRepo.Create(removalTx(table, row, actorID)); err != nil {
				return err
			}
		}
		var err error
		deleted, err = rowRepo.DeleteMany(ids)
		return err
	})
	return deleted, err
}

func removalTx(table *entity.Table, row *entity.DataRow, actorID string) *entity.InventoryTransaction {
	return &entity.InventoryTransaction{
		ID:            uuid.New().String(),
		TableID:       table.ID,
		RowID:         row.ID,
		Type:          entity.TxTypeRemove,
		BeforeData:    snapshot(row.Data),
		QuantityDelta: unitsOf(table, row.Data).Neg(),
		ActorID:       actorID,
		CreatedAt:     time.Now(),
	}
}

// applyDefaults rellena con el default de la columna los valores ausentes o
// vacíos. El default se parsea con el handler del tipo para almacenarlo ya
// normalizado; con tipo irresoluble queda como texto.
func (uc *RowUseCase) applyDefaults(data *entity.RowData, cols []*entity.Column) {
	for _, col := range cols {
		if col.DefaultValue == "" {
			continue
		}
		if v, ok := data.Get(col.Name); ok && !v.IsEmpty() {
			continue
		}
		if h, ok := uc.types.Resolve(col.ColumnType); ok {
			if v, err := h.Parse(col.DefaultValue, coltype.Options{}); err == nil {
				data.Set(col.Name, v)
				continue
			}
		}
		data.Set(col.Name, entity.StringValue(col.DefaultValue))
	}
}

// unitsOf mide las unidades de inventario de una fila: qty en tablas de
// venta, una unidad en tablas de alquiler.
func unitsOf(table *entity.Table, data *entity.RowData) decimal.Decimal {
	switch table.TableType {
	case entity.TableTypeSale:
		if qty, ok := commerce.NumberFromRow(data, commerce.FieldQty); ok {
			return qty
		}
		return decimal.Zero
	case entity.TableTypeRent:
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

func snapshot(data *entity.RowData) json.RawMessage {
	if data == nil {
		return json.RawMessage("{}")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}

// toFieldResults conserva solo las fallas: las advertencias de una escritura.
func toFieldResults(results map[string]coltype.Result) map[string]dto.FieldResult {
	out := make(map[string]dto.FieldResult)
	for name, res := range results {
		if res.Valid {
			continue
		}
		out[name] = dto.FieldResult{Valid: false, Error: res.Error, Suggestion: res.Suggestion}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toRowResponse(row *entity.DataRow) dto.RowResponse {
	return dto.RowResponse{
		ID:        row.ID,
		TableID:   row.TableID,
		Data:      snapshot(row.Data),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func derefColumns(cols []*entity.Column) []entity.Column {
	out := make([]entity.Column, 0, len(cols))
	for _, c := range cols {
		out = append(out, *c)
	}
	return out
}

func derefRows(rows []*entity.DataRow) []entity.DataRow {
	out := make([]entity.DataRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}
