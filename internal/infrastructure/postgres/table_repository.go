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

var _ repository.TableRepository = (*TableRepo)(nil)

// TableRepo implementación del puerto TableRepository sobre PostgreSQL (usable con pool o tx).
type TableRepo struct {
	q Querier
}

// NewTableRepository construye el adaptador de persistencia para tablas. Pasar pool o tx (Querier).
func NewTableRepository(q Querier) *TableRepo {
	return &TableRepo{q: q}
}

// Create persiste una tabla nueva.
func (r *TableRepo) Create(table *entity.Table) error {
	query := `
		INSERT INTO tables (id, owner_id, name, description, visibility, table_type, rental_period, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		table.ID, table.OwnerID, table.Name, table.Description,
		table.Visibility, table.TableType, table.RentalPeriod,
		table.CreatedAt, table.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert table: %w", err)
	}
	return nil
}

// GetByID obtiene una tabla por ID, o nil si no existe.
func (r *TableRepo) GetByID(id string) (*entity.Table, error) {
	query := `
		SELECT id, owner_id, name, description, visibility, table_type, rental_period, created_at, updated_at
		FROM tables WHERE id = $1`
	t, err := scanTable(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get table: %w", err)
	}
	return t, nil
}

// Update actualiza nombre, descripción y visibilidad. El tipo se cambia solo
// vía UpdateType para que el applier de cambio de tipo sea el único camino.
func (r *TableRepo) Update(table *entity.Table) error {
	query := `
		UPDATE tables SET name = $2, description = $3, visibility = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		table.ID, table.Name, table.Description, table.Visibility, table.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update table: %w", err)
	}
	return nil
}

// UpdateType cambia solo tableType y rentalPeriod (paso final del applier).
func (r *TableRepo) UpdateType(tableID, tableType, rentalPeriod string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE tables SET table_type = $2, rental_period = $3, updated_at = now() WHERE id = $1`,
		tableID, tableType, rentalPeriod,
	)
	if err != nil {
		return fmt.Errorf("update table type: %w", err)
	}
	return nil
}

// ListByOwner lista las tablas de un dueño con paginación.
func (r *TableRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Table, error) {
	query := `
		SELECT id, owner_id, name, description, visibility, table_type, rental_period, created_at, updated_at
		FROM tables WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()
	var list []*entity.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ListPublicCommerce devuelve las tablas public o shared de tipo sale o rent,
// ordenadas por nombre. Es la vista de la API pública con token no restringido.
func (r *TableRepo) ListPublicCommerce() ([]*entity.Table, error) {
	query := `
		SELECT id, owner_id, name, description, visibility, table_type, rental_period, created_at, updated_at
		FROM tables
		WHERE visibility IN ('public', 'shared') AND table_type IN ('sale', 'rent')
		ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list public commerce tables: %w", err)
	}
	defer rows.Close()
	var list []*entity.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Delete elimina una tabla por ID. Columnas, filas e historial caen por
// ON DELETE CASCADE.
func (r *TableRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	return nil
}

func scanTable(row pgxScanner) (*entity.Table, error) {
	var t entity.Table
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Name, &t.Description, &t.Visibility,
		&t.TableType, &t.RentalPeriod, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
