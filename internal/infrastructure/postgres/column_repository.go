package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

var _ repository.ColumnRepository = (*ColumnRepo)(nil)

// ColumnRepo implementación del puerto ColumnRepository sobre PostgreSQL (usable con pool o tx).
type ColumnRepo struct {
	q Querier
}

// NewColumnRepository construye el adaptador de persistencia para columnas. Pasar pool o tx (Querier).
func NewColumnRepository(q Querier) *ColumnRepo {
	return &ColumnRepo{q: q}
}

// Create persiste una columna nueva.
func (r *ColumnRepo) Create(col *entity.Column) error {
	query := `
		INSERT INTO columns (id, table_id, name, column_type, is_required, allow_duplicates, default_value, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		col.ID, col.TableID, col.Name, col.ColumnType,
		col.IsRequired, col.AllowDuplicates, col.DefaultValue, col.Position,
		col.CreatedAt, col.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert column: %w", err)
	}
	return nil
}

// GetByID obtiene una columna por ID, o nil si no existe.
func (r *ColumnRepo) GetByID(id string) (*entity.Column, error) {
	query := `
		SELECT id, table_id, name, column_type, is_required, allow_duplicates, default_value, position, created_at, updated_at
		FROM columns WHERE id = $1`
	c, err := scanColumn(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get column: %w", err)
	}
	return c, nil
}

// GetByTableAndName obtiene una columna por tabla y nombre sin distinguir
// mayúsculas, o nil si no existe. El data de las filas referencia columnas
// por nombre, así que la búsqueda debe ser tan laxa como esa convención.
func (r *ColumnRepo) GetByTableAndName(tableID, name string) (*entity.Column, error) {
	query := `
		SELECT id, table_id, name, column_type, is_required, allow_duplicates, default_value, position, created_at, updated_at
		FROM columns WHERE table_id = $1 AND LOWER(name) = LOWER($2)`
	c, err := scanColumn(r.q.QueryRow(context.Background(), query, tableID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get column by name: %w", err)
	}
	return c, nil
}

// ListByTable lista las columnas de una tabla en orden de posición ascendente.
func (r *ColumnRepo) ListByTable(tableID string) ([]*entity.Column, error) {
	query := `
		SELECT id, table_id, name, column_type, is_required, allow_duplicates, default_value, position, created_at, updated_at
		FROM columns WHERE table_id = $1 ORDER BY position ASC, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, tableID)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer rows.Close()
	var list []*entity.Column
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza una columna existente (nombre, tipo, flags, default).
// La posición se maneja aparte con UpdatePosition.
func (r *ColumnRepo) Update(col *entity.Column) error {
	query := `
		UPDATE columns SET name = $2, column_type = $3, is_required = $4, allow_duplicates = $5, default_value = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		col.ID, col.Name, col.ColumnType, col.IsRequired,
		col.AllowDuplicates, col.DefaultValue, col.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update column: %w", err)
	}
	return nil
}

// UpdatePosition cambia solo la posición de una columna (swaps y recount).
func (r *ColumnRepo) UpdatePosition(columnID string, position int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE columns SET position = $2, updated_at = now() WHERE id = $1`,
		columnID, position,
	)
	if err != nil {
		return fmt.Errorf("update column position: %w", err)
	}
	return nil
}

// MaxPosition devuelve la posición más alta de la tabla, 0 si no hay columnas.
func (r *ColumnRepo) MaxPosition(tableID string) (int, error) {
	var max int
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(MAX(position), 0) FROM columns WHERE table_id = $1`,
		tableID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max column position: %w", err)
	}
	return max, nil
}

// Delete elimina una columna por ID.
func (r *ColumnRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM columns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete column: %w", err)
	}
	return nil
}

func scanColumn(row pgxScanner) (*entity.Column, error) {
	var c entity.Column
	err := row.Scan(
		&c.ID, &c.TableID, &c.Name, &c.ColumnType, &c.IsRequired,
		&c.AllowDuplicates, &c.DefaultValue, &c.Position, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
