package pubapi

import (
	"encoding/json"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

const (
	defaultRecordsLimit = 100
	maxRecordsLimit     = 1000
)

// Records consulta registros aplanados a través de todas las tablas que el
// token ve, con filtros de igualdad sin mayúsculas sobre los campos de data,
// proyección opcional de columnas y paginación.
func (uc *UseCase) Records(token *entity.AccessToken, q dto.PublicRecordsQuery) (*dto.PublicRecordsResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultRecordsLimit
	}
	if limit > maxRecordsLimit {
		limit = maxRecordsLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	tables, err := uc.accessibleTables(token)
	if err != nil {
		return nil, err
	}
	out := &dto.PublicRecordsResponse{
		Records:    []json.RawMessage{},
		Pagination: dto.PublicPagination{Page: 1, Limit: limit},
	}
	if len(q.Where) > 0 {
		out.Filters = q.Where
	}
	if len(tables) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(tables))
	byID := make(map[string]*entity.Table, len(tables))
	for _, t := range tables {
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}

	rows, total, err := uc.rowRepo.SearchAcrossTables(ids, q.Where, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t := byID[row.TableID]
		rec, err := flatRecord(row, t.Name, t.TableType, q.Columns)
		if err != nil {
			return nil, err
		}
		out.Records = append(out.Records, rec)
	}

	out.Count = len(out.Records)
	out.Total = total
	out.Pagination = dto.PublicPagination{
		Total:   total,
		Page:    offset/limit + 1,
		Limit:   limit,
		HasMore: int64(offset+limit) < total,
	}
	return out, nil
}

// Values lista los valores distintos de una columna entre las tablas
// accesibles que la declaran (sin mayúsculas), aplicando los mismos filtros
// where de records. La extracción del dato usa la clave exacta pedida.
func (uc *UseCase) Values(token *entity.AccessToken, column string, where map[string]string) (*dto.PublicValuesResponse, error) {
	tables, err := uc.accessibleTables(token)
	if err != nil {
		return nil, err
	}
	out := &dto.PublicValuesResponse{
		Column:        column,
		Values:        []json.RawMessage{},
		TablesSampled: []string{},
	}
	if len(where) > 0 {
		out.Filters = where
	}

	var ids []string
	for _, t := range tables {
		col, err := uc.colRepo.GetByTableAndName(t.ID, column)
		if err != nil {
			return nil, err
		}
		if col == nil {
			continue
		}
		ids = append(ids, t.ID)
		out.TablesSampled = append(out.TablesSampled, t.Name)
	}
	if len(ids) == 0 {
		return out, nil
	}

	rows, _, err := uc.rowRepo.SearchAcrossTables(ids, where, 0, 0)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, row := range rows {
		if row.Data == nil {
			continue
		}
		v, ok := row.Data.Get(column)
		if !ok || v.Kind == entity.KindNull {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if seen[string(b)] {
			continue
		}
		seen[string(b)] = true
		out.Values = append(out.Values, json.RawMessage(b))
	}
	out.Count = len(out.Values)
	return out, nil
}
