package pubapi

import (
	"strings"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// Tables lista las tablas comerciales visibles para el token con su conteo
// de filas, ordenadas por nombre.
func (uc *UseCase) Tables(token *entity.AccessToken) (*dto.PublicTablesResponse, error) {
	tables, err := uc.accessibleTables(token)
	if err != nil {
		return nil, err
	}
	out := &dto.PublicTablesResponse{Tables: make([]dto.PublicTableDTO, 0, len(tables))}
	for _, t := range tables {
		item, err := uc.toPublicTable(t)
		if err != nil {
			return nil, err
		}
		out.Tables = append(out.Tables, item)
	}
	out.Count = len(out.Tables)
	return out, nil
}

// Search devuelve las tablas visibles que contienen todas las columnas
// pedidas, sin distinguir mayúsculas. columnsParam es la lista a,b,c cruda
// del query string.
func (uc *UseCase) Search(token *entity.AccessToken, columnsParam string) (*dto.PublicSearchResponse, error) {
	searched := splitCSV(columnsParam)
	if len(searched) == 0 {
		return nil, &contractError{reason: "columns parameter is required", kind: domain.ErrInvalidInput}
	}

	tables, err := uc.accessibleTables(token)
	if err != nil {
		return nil, err
	}
	out := &dto.PublicSearchResponse{
		Tables:          make([]dto.PublicTableDTO, 0, len(tables)),
		SearchedColumns: searched,
	}
	for _, t := range tables {
		ok, err := uc.hasAllColumns(t.ID, searched)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		item, err := uc.toPublicTable(t)
		if err != nil {
			return nil, err
		}
		out.Tables = append(out.Tables, item)
	}
	out.Count = len(out.Tables)
	return out, nil
}

func (uc *UseCase) toPublicTable(t *entity.Table) (dto.PublicTableDTO, error) {
	n, err := uc.rowRepo.CountByTable(t.ID)
	if err != nil {
		return dto.PublicTableDTO{}, err
	}
	return dto.PublicTableDTO{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		TableType:   t.TableType,
		RowCount:    n,
	}, nil
}

// hasAllColumns indica si la tabla tiene todas las columnas buscadas.
func (uc *UseCase) hasAllColumns(tableID string, searched []string) (bool, error) {
	cols, err := uc.colRepo.ListByTable(tableID)
	if err != nil {
		return false, err
	}
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[strings.ToLower(c.Name)] = true
	}
	for _, want := range searched {
		if !present[strings.ToLower(want)] {
			return false, nil
		}
	}
	return true, nil
}
