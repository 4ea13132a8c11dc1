// Package typechange implementa el flujo de migración de tipo de tabla: el
// preview consultivo con mapeo sugerido de columnas y el applier que ejecuta
// el plan aprobado por el operador.
package typechange

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/application/schema"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
	planner "github.com/jhoicas/Tablas-api/internal/domain/typechange"
)

// Las columnas nuevas del applier saltan de a 10 posiciones para dejar lugar
// al reordenamiento manual; recount vuelve a densificar después.
const positionStep = 10

// UseCase orquesta el preview y la aplicación del cambio de tipo de tabla.
type UseCase struct {
	tableRepo repository.TableRepository
	colRepo   repository.ColumnRepository
	txRunner  TxRunner
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tableRepo repository.TableRepository,
	colRepo repository.ColumnRepository,
	txRunner TxRunner,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{tableRepo: tableRepo, colRepo: colRepo, txRunner: txRunner, log: log}
}

func (uc *UseCase) writableTable(actorID string, isAdmin bool, tableID string) (*entity.Table, error) {
	table, err := uc.tableRepo.GetByID(tableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, domain.ErrNotFound
	}
	if !isAdmin && table.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}
	return table, nil
}

// Preview arma el plan de migración: columnas requeridas del tipo destino,
// columnas existentes y el mapeo sugerido por la heurística. No muta nada.
func (uc *UseCase) Preview(actorID string, isAdmin bool, tableID, targetType string) (*dto.TypeChangePlanResponse, error) {
	table, err := uc.writableTable(actorID, isAdmin, tableID)
	if err != nil {
		return nil, err
	}
	if !entity.ValidTableType(targetType) {
		return nil, fmt.Errorf("%w: tipo de tabla destino %q", domain.ErrInvalidInput, targetType)
	}

	required := planner.Template(targetType)
	existing, err := uc.colRepo.ListByTable(tableID)
	if err != nil {
		return nil, err
	}
	cols := make([]entity.Column, 0, len(existing))
	for _, c := range existing {
		cols = append(cols, *c)
	}
	mappings := planner.SuggestMappings(required, cols)

	resp := &dto.TypeChangePlanResponse{
		CurrentType:       table.TableType,
		TargetType:        targetType,
		RequiredColumns:   make([]dto.RequiredColumnDTO, 0, len(required)),
		ExistingColumns:   make([]dto.ColumnResponse, 0, len(existing)),
		SuggestedMappings: make([]dto.ColumnMappingDTO, 0, len(mappings)),
		AllMapped:         planner.AllMapped(mappings),
	}
	for _, r := range required {
		resp.RequiredColumns = append(resp.RequiredColumns, dto.RequiredColumnDTO{
			Name: r.Name, ColumnType: r.ColumnType, Required: r.Required, DefaultValue: r.DefaultValue,
		})
	}
	for _, c := range existing {
		resp.ExistingColumns = append(resp.ExistingColumns, toColumnResponse(c))
	}
	for _, m := range mappings {
		resp.SuggestedMappings = append(resp.SuggestedMappings, toMappingDTO(m))
	}
	return resp, nil
}

// Apply ejecuta la migración aprobada. Valida la cobertura del mapping antes
// de mutar nada; después procesa cada mapping por separado (una falla se
// registra y no detiene el resto) y cierra con el cambio de tableType. Si las
// columnas ya cambiaron y el cambio final de tipo falla, el error distingue
// ese estado para que el caller reconcilie.
func (uc *UseCase) Apply(ctx context.Context, actorID string, isAdmin bool, tableID string, in dto.ApplyTypeChangeRequest) (*dto.ApplyTypeChangeResponse, error) {
	table, err := uc.writableTable(actorID, isAdmin, tableID)
	if err != nil {
		return nil, err
	}
	if !entity.ValidTableType(in.TargetType) {
		return nil, fmt.Errorf("%w: tipo de tabla destino %q", domain.ErrInvalidInput, in.TargetType)
	}
	rentalPeriod := ""
	if in.TargetType == entity.TableTypeRent {
		if !entity.ValidRentalPeriod(in.RentalPeriod) {
			return nil, fmt.Errorf("%w: el tipo rent exige un rentalPeriod válido", domain.ErrInvalidInput)
		}
		rentalPeriod = in.RentalPeriod
	}

	// ── 1. Cobertura del mapping antes de mutar ──────────────────────────
	template := planner.Template(in.TargetType)
	byName := make(map[string]planner.TemplateColumn, len(template))
	for _, tmpl := range template {
		byName[tmpl.Name] = tmpl
	}
	if in.TargetType != entity.TableTypeDefault {
		covered := make(map[string]bool, len(in.ColumnMappings))
		for _, m := range in.ColumnMappings {
			covered[m.RequiredColumn] = true
		}
		for _, tmpl := range template {
			if !covered[tmpl.Name] {
				return nil, fmt.Errorf("%w: el mapping no cubre la columna requerida %q", domain.ErrInvalidInput, tmpl.Name)
			}
		}
	}

	// ── 2. Operaciones de columna, una por una ───────────────────────────
	resp := &dto.ApplyTypeChangeResponse{
		TableID:      tableID,
		TableType:    in.TargetType,
		RentalPeriod: rentalPeriod,
		Renamed:      []string{},
		Updated:      []string{},
		Created:      []string{},
	}
	for _, m := range in.ColumnMappings {
		tmpl, ok := byName[m.RequiredColumn]
		if !ok {
			uc.fail(resp, m.RequiredColumn, "la columna requerida no pertenece al tipo destino")
			continue
		}
		if m.ExistingColumnID != nil && *m.ExistingColumnID != "" {
			uc.applyToExisting(ctx, resp, table, tmpl, *m.ExistingColumnID)
			continue
		}
		uc.createFromTemplate(resp, table, tmpl)
	}

	// ── 3. Cambio final de tipo ──────────────────────────────────────────
	if err := uc.tableRepo.UpdateType(tableID, in.TargetType, rentalPeriod); err != nil {
		if len(resp.Renamed)+len(resp.Updated)+len(resp.Created) > 0 {
			uc.log.Error().Err(err).
				Str("table_id", tableID).
				Str("target_type", in.TargetType).
				Msg("columnas migradas pero el cambio de tipo falló")
			return nil, &domain.TypeSwitchFailedError{TableID: tableID, Err: err}
		}
		return nil, err
	}
	uc.log.Info().
		Str("table_id", tableID).
		Str("from", table.TableType).
		Str("to", in.TargetType).
		Int("renamed", len(resp.Renamed)).
		Int("updated", len(resp.Updated)).
		Int("created", len(resp.Created)).
		Int("failures", len(resp.Failures)).
		Msg("cambio de tipo de tabla aplicado")
	return resp, nil
}

// applyToExisting acomoda una columna existente al template: rename con
// cascadeo a la data cuando el nombre difiere, o ajuste de flags. El default
// se rellena solo si la columna no tenía.
func (uc *UseCase) applyToExisting(ctx context.Context, resp *dto.ApplyTypeChangeResponse, table *entity.Table, tmpl planner.TemplateColumn, columnID string) {
	col, err := uc.colRepo.GetByID(columnID)
	if err != nil {
		uc.fail(resp, tmpl.Name, err.Error())
		return
	}
	if col == nil || col.TableID != table.ID {
		uc.fail(resp, tmpl.Name, "la columna mapeada no existe en la tabla")
		return
	}

	oldName := col.Name
	renaming := col.Name != tmpl.Name
	col.Name = tmpl.Name
	col.IsRequired = tmpl.Required
	col.AllowDuplicates = tmpl.AllowDuplicates
	if col.DefaultValue == "" {
		col.DefaultValue = tmpl.DefaultValue
	}
	col.UpdatedAt = time.Now()

	err = uc.txRunner.RunTypeChange(ctx, func(colRepo repository.ColumnRepository, rowRepo repository.RowRepository) error {
		if err := colRepo.Update(col); err != nil {
			return err
		}
		if !renaming {
			return nil
		}
		_, err := schema.RenameColumnInData(rowRepo, table.ID, oldName, tmpl.Name)
		return err
	})
	if err != nil {
		uc.fail(resp, tmpl.Name, err.Error())
		return
	}
	if renaming {
		resp.Renamed = append(resp.Renamed, fmt.Sprintf("%s → %s", oldName, tmpl.Name))
		return
	}
	resp.Updated = append(resp.Updated, tmpl.Name)
}

// createFromTemplate crea la columna requerida desde cero, al final y con
// salto de posición.
func (uc *UseCase) createFromTemplate(resp *dto.ApplyTypeChangeResponse, table *entity.Table, tmpl planner.TemplateColumn) {
	maxPos, err := uc.colRepo.MaxPosition(table.ID)
	if err != nil {
		uc.fail(resp, tmpl.Name, err.Error())
		return
	}
	now := time.Now()
	col := &entity.Column{
		ID:              uuid.New().String(),
		TableID:         table.ID,
		Name:            tmpl.Name,
		ColumnType:      tmpl.ColumnType,
		IsRequired:      tmpl.Required,
		AllowDuplicates: tmpl.AllowDuplicates,
		DefaultValue:    tmpl.DefaultValue,
		Position:        maxPos + positionStep,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.colRepo.Create(col); err != nil {
		uc.fail(resp, tmpl.Name, err.Error())
		return
	}
	resp.Created = append(resp.Created, tmpl.Name)
}

// fail registra la falla en el log y en el resumen; la migración sigue.
func (uc *UseCase) fail(resp *dto.ApplyTypeChangeResponse, requiredColumn, reason string) {
	uc.log.Warn().
		Str("table_id", resp.TableID).
		Str("required_column", requiredColumn).
		Str("reason", reason).
		Msg("operación de columna fallida durante el cambio de tipo")
	resp.Failures = append(resp.Failures, dto.MappingFailureDTO{RequiredColumn: requiredColumn, Error: reason})
}

// ── mapeo a DTO ───────────────────────────────────────────────────────────────

func toColumnResponse(c *entity.Column) dto.ColumnResponse {
	return dto.ColumnResponse{
		ID:              c.ID,
		TableID:         c.TableID,
		Name:            c.Name,
		ColumnType:      c.ColumnType,
		IsRequired:      c.IsRequired,
		AllowDuplicates: c.AllowDuplicates,
		DefaultValue:    c.DefaultValue,
		Position:        c.Position,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toMappingDTO(m planner.Mapping) dto.ColumnMappingDTO {
	out := dto.ColumnMappingDTO{
		RequiredColumn:     m.RequiredColumn,
		RequiredType:       m.RequiredType,
		ExistingColumnName: m.ExistingName,
		Score:              m.Score,
	}
	if m.ExistingColumnID != "" {
		id := m.ExistingColumnID
		out.ExistingColumnID = &id
	}
	return out
}
