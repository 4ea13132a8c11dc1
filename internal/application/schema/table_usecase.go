// Package schema implementa los casos de uso del esquema dinámico: tablas,
// columnas con posiciones densas y filas con validación warn-don't-block.
package schema

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// TableUseCase casos de uso CRUD para tablas dinámicas. El tableType no se
// toca aquí: eso es del flujo de cambio de tipo.
type TableUseCase struct {
	tableRepo repository.TableRepository
	colRepo   repository.ColumnRepository
	rowRepo   repository.RowRepository
}

// NewTableUseCase construye el caso de uso.
func NewTableUseCase(
	tableRepo repository.TableRepository,
	colRepo repository.ColumnRepository,
	rowRepo repository.RowRepository,
) *TableUseCase {
	return &TableUseCase{tableRepo: tableRepo, colRepo: colRepo, rowRepo: rowRepo}
}

// Create crea una tabla. Nace con el tipo pedido pero sin columnas; las
// columnas protegidas de sale/rent las crea el flujo de cambio de tipo.
func (uc *TableUseCase) Create(ownerID string, in dto.CreateTableRequest) (*dto.TableResponse, error) {
	if in.Visibility == "" {
		in.Visibility = entity.VisibilityPrivate
	}
	if in.TableType == "" {
		in.TableType = entity.TableTypeDefault
	}
	if !entity.ValidVisibility(in.Visibility) || !entity.ValidTableType(in.TableType) {
		return nil, domain.ErrInvalidInput
	}
	if in.TableType == entity.TableTypeRent && in.RentalPeriod != "" && !entity.ValidRentalPeriod(in.RentalPeriod) {
		return nil, domain.ErrInvalidInput
	}
	if in.TableType != entity.TableTypeRent {
		in.RentalPeriod = ""
	}

	now := time.Now()
	table := &entity.Table{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Name:         in.Name,
		Description:  in.Description,
		Visibility:   in.Visibility,
		TableType:    in.TableType,
		RentalPeriod: in.RentalPeriod,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.tableRepo.Create(table); err != nil {
		return nil, err
	}
	return toTableResponse(table, nil, 0), nil
}

// GetByID obtiene una tabla con sus columnas y el conteo de filas. Devuelve
// nil si no existe; ErrForbidden si el actor no puede leerla.
func (uc *TableUseCase) GetByID(actorID string, isAdmin bool, tableID string) (*dto.TableResponse, error) {
	table, err := uc.tableRepo.GetByID(tableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, nil
	}
	if !canRead(table, actorID, isAdmin) {
		return nil, domain.ErrForbidden
	}
	cols, err := uc.colRepo.ListByTable(tableID)
	if err != nil {
		return nil, err
	}
	count, err := uc.rowRepo.CountByTable(tableID)
	if err != nil {
		return nil, err
	}
	return toTableResponse(table, cols, count), nil
}

// List lista las tablas del dueño con paginación.
func (uc *TableUseCase) List(ownerID string, limit, offset int) (*dto.TableListResponse, error) {
	list, err := uc.tableRepo.ListByOwner(ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TableResponse, 0, len(list))
	for _, t := range list {
		count, err := uc.rowRepo.CountByTable(t.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *toTableResponse(t, nil, count))
	}
	return &dto.TableListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update actualiza nombre, descripción o visibilidad.
func (uc *TableUseCase) Update(actorID string, isAdmin bool, tableID string, in dto.UpdateTableRequest) (*dto.TableResponse, error) {
	table, err := uc.tableRepo.GetByID(tableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, nil
	}
	if !canWrite(table, actorID, isAdmin) {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		table.Name = *in.Name
	}
	if in.Description != nil {
		table.Description = *in.Description
	}
	if in.Visibility != nil {
		if !entity.ValidVisibility(*in.Visibility) {
			return nil, domain.ErrInvalidInput
		}
		table.Visibility = *in.Visibility
	}
	table.UpdatedAt = time.Now()
	if err := uc.tableRepo.Update(table); err != nil {
		return nil, err
	}
	count, err := uc.rowRepo.CountByTable(tableID)
	if err != nil {
		return nil, err
	}
	return toTableResponse(table, nil, count), nil
}

// Delete elimina la tabla con sus columnas y filas (cascada en la BD).
func (uc *TableUseCase) Delete(actorID string, isAdmin bool, tableID string) error {
	table, err := uc.tableRepo.GetByID(tableID)
	if err != nil {
		return err
	}
	if table == nil {
		return domain.ErrNotFound
	}
	if !canWrite(table, actorID, isAdmin) {
		return domain.ErrForbidden
	}
	return uc.tableRepo.Delete(tableID)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// canRead: dueño, admin, o tabla visible para terceros.
func canRead(t *entity.Table, actorID string, isAdmin bool) bool {
	if isAdmin || t.OwnerID == actorID {
		return true
	}
	return t.Visibility == entity.VisibilityPublic || t.Visibility == entity.VisibilityShared
}

// canWrite: solo dueño o admin.
func canWrite(t *entity.Table, actorID string, isAdmin bool) bool {
	return isAdmin || t.OwnerID == actorID
}

func toTableResponse(t *entity.Table, cols []*entity.Column, rowCount int64) *dto.TableResponse {
	if t == nil {
		return nil
	}
	resp := &dto.TableResponse{
		ID:           t.ID,
		OwnerID:      t.OwnerID,
		Name:         t.Name,
		Description:  t.Description,
		Visibility:   t.Visibility,
		TableType:    t.TableType,
		RentalPeriod: t.RentalPeriod,
		RowCount:     rowCount,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	for _, c := range cols {
		resp.Columns = append(resp.Columns, toColumnResponse(c))
	}
	return resp
}

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
