package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

var _ repository.RowRepository = (*RowRepo)(nil)

// RowRepo implementación del puerto RowRepository sobre PostgreSQL (usable con pool o tx).
//
// La columna data es de tipo json (no jsonb): jsonb reordena las claves y el
// orden de inserción es parte del contrato de la fila.
type RowRepo struct {
	q Querier
}

// NewRowRepository construye el adaptador de persistencia para filas. Pasar pool o tx (Querier).
func NewRowRepository(q Querier) *RowRepo {
	return &RowRepo{q: q}
}

// Create persiste una fila nueva.
func (r *RowRepo) Create(row *entity.DataRow) error {
	data, err := rowDataJSON(row)
	if err != nil {
		return fmt.Errorf("serializar data: %w", err)
	}
	query := `
		INSERT INTO data_rows (id, table_id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err = r.q.Exec(context.Background(), query,
		row.ID, row.TableID, string(data), row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert row: %w", err)
	}
	return nil
}

// GetByID obtiene una fila por ID, o nil si no existe.
func (r *RowRepo) GetByID(id string) (*entity.DataRow, error) {
	query := `
		SELECT id, table_id, data, created_at, updated_at
		FROM data_rows WHERE id = $1`
	row, err := scanRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get row: %w", err)
	}
	return row, nil
}

// GetForUpdate obtiene una fila y la bloquea (SELECT FOR UPDATE). Solo tiene
// sentido dentro de una transacción; devuelve nil si la fila no existe.
func (r *RowRepo) GetForUpdate(id string) (*entity.DataRow, error) {
	query := `
		SELECT id, table_id, data, created_at, updated_at
		FROM data_rows WHERE id = $1
		FOR UPDATE`
	row, err := scanRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get row for update: %w", err)
	}
	return row, nil
}

// ListByTable lista filas de una tabla con paginación, más recientes primero.
func (r *RowRepo) ListByTable(tableID string, limit, offset int) ([]*entity.DataRow, error) {
	query := `
		SELECT id, table_id, data, created_at, updated_at
		FROM data_rows WHERE table_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryRows(query, tableID, limit, offset)
}

// ListAllByTable trae todas las filas de una tabla sin paginar, para barridos
// de validación y reescrituras de rename.
func (r *RowRepo) ListAllByTable(tableID string) ([]*entity.DataRow, error) {
	query := `
		SELECT id, table_id, data, created_at, updated_at
		FROM data_rows WHERE table_id = $1 ORDER BY created_at DESC`
	return r.queryRows(query, tableID)
}

// SearchAcrossTables trae filas de varias tablas cuyos campos de data igualan
// los filtros where sin distinguir mayúsculas, ordenadas por updatedAt
// descendente. limit <= 0 trae todo. Devuelve además el total sin paginar.
func (r *RowRepo) SearchAcrossTables(tableIDs []string, where map[string]string, limit, offset int) ([]*entity.DataRow, int64, error) {
	if len(tableIDs) == 0 {
		return nil, 0, nil
	}

	args := []any{tableIDs}
	cond := "table_id = ANY($1)"

	// Claves en orden estable para que el SQL generado sea determinista.
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k, where[k])
		cond += fmt.Sprintf(" AND LOWER(data->>$%d::text) = LOWER($%d)", len(args)-1, len(args))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM data_rows WHERE ` + cond
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count rows across tables: %w", err)
	}

	query := `
		SELECT id, table_id, data, created_at, updated_at
		FROM data_rows WHERE ` + cond + ` ORDER BY updated_at DESC`
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	} else if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	list, err := r.queryRows(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// CountByTable cuenta las filas de una tabla.
func (r *RowRepo) CountByTable(tableID string) (int64, error) {
	var count int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM data_rows WHERE table_id = $1`, tableID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return count, nil
}

// Update reescribe el data completo de una fila.
func (r *RowRepo) Update(row *entity.DataRow) error {
	data, err := rowDataJSON(row)
	if err != nil {
		return fmt.Errorf("serializar data: %w", err)
	}
	query := `
		UPDATE data_rows SET data = $2, updated_at = $3
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query, row.ID, string(data), row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update row: %w", err)
	}
	return nil
}

// Delete elimina una fila por ID.
func (r *RowRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM data_rows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	return nil
}

// DeleteMany elimina un lote de filas y devuelve cuántas borró.
func (r *RowRepo) DeleteMany(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM data_rows WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return 0, fmt.Errorf("delete rows: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *RowRepo) queryRows(query string, args ...any) ([]*entity.DataRow, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer rows.Close()
	var list []*entity.DataRow
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

func scanRow(s pgxScanner) (*entity.DataRow, error) {
	var (
		row  entity.DataRow
		data []byte
	)
	if err := s.Scan(&row.ID, &row.TableID, &data, &row.CreatedAt, &row.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := entity.RowDataFromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parsear data: %w", err)
	}
	row.Data = parsed
	return &row, nil
}

func rowDataJSON(row *entity.DataRow) ([]byte, error) {
	data := row.Data
	if data == nil {
		data = entity.NewRowData()
	}
	return json.Marshal(data)
}
