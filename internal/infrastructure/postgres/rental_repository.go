package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

var _ repository.RentalRepository = (*RentalRepo)(nil)

// RentalRepo implementación del puerto RentalRepository sobre PostgreSQL (usable con pool o tx).
type RentalRepo struct {
	q Querier
}

// NewRentalRepository construye el adaptador de persistencia para alquileres. Pasar pool o tx (Querier).
func NewRentalRepository(q Querier) *RentalRepo {
	return &RentalRepo{q: q}
}

// Create persiste un asiento de alquiler.
func (r *RentalRepo) Create(rental *entity.Rental) error {
	query := `
		INSERT INTO rentals (id, rental_number, table_id, row_id, item_snapshot, customer_name, customer_email, unit_price, fee, status, rented_at, released_at, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		rental.ID, rental.RentalNumber, rental.TableID, rental.RowID, string(rental.ItemSnapshot),
		rental.CustomerName, rental.CustomerEmail, rental.UnitPrice, rental.Fee,
		rental.Status, rental.RentedAt, rental.ReleasedAt, rental.Notes, rental.CreatedBy,
		rental.CreatedAt, rental.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert rental: %w", err)
	}
	return nil
}

// GetByID obtiene un alquiler por ID, o nil si no existe.
func (r *RentalRepo) GetByID(id string) (*entity.Rental, error) {
	query := rentalSelect + ` WHERE id = $1`
	rental, err := scanRental(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rental: %w", err)
	}
	return rental, nil
}

// GetActiveByRow devuelve el alquiler activo de una fila, o nil si no hay.
// A lo sumo hay uno: el motor no permite rentar una fila ya rentada.
func (r *RentalRepo) GetActiveByRow(rowID string) (*entity.Rental, error) {
	query := rentalSelect + ` WHERE row_id = $1 AND status = 'active' ORDER BY rented_at DESC LIMIT 1`
	rental, err := scanRental(r.q.QueryRow(context.Background(), query, rowID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active rental: %w", err)
	}
	return rental, nil
}

// ListByTable lista alquileres de una tabla con paginación, más recientes primero.
func (r *RentalRepo) ListByTable(tableID string, limit, offset int) ([]*entity.Rental, error) {
	query := rentalSelect + ` WHERE table_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryRentals(query, tableID, limit, offset)
}

// List lista todos los alquileres con paginación, más recientes primero.
func (r *RentalRepo) List(limit, offset int) ([]*entity.Rental, error) {
	query := rentalSelect + ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.queryRentals(query, limit, offset)
}

// MarkReleased cierra un alquiler: status released y released_at con la hora
// de la devolución.
func (r *RentalRepo) MarkReleased(id string, releasedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE rentals SET status = 'released', released_at = $2, updated_at = now() WHERE id = $1`,
		id, releasedAt,
	)
	if err != nil {
		return fmt.Errorf("mark rental released: %w", err)
	}
	return nil
}

// UpdateStatus actualiza solo status y notes. Las tarifas y el snapshot son
// inmutables.
func (r *RentalRepo) UpdateStatus(id, status, notes string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE rentals SET status = $2, notes = $3, updated_at = now() WHERE id = $1`,
		id, status, notes,
	)
	if err != nil {
		return fmt.Errorf("update rental status: %w", err)
	}
	return nil
}

const rentalSelect = `
	SELECT id, rental_number, table_id, row_id, item_snapshot, customer_name, customer_email, unit_price, fee, status, rented_at, released_at, notes, created_by, created_at, updated_at
	FROM rentals`

func (r *RentalRepo) queryRentals(query string, args ...any) ([]*entity.Rental, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rental: %w", err)
		}
		list = append(list, rental)
	}
	return list, rows.Err()
}

func scanRental(row pgxScanner) (*entity.Rental, error) {
	var (
		rental   entity.Rental
		snapshot []byte
	)
	err := row.Scan(
		&rental.ID, &rental.RentalNumber, &rental.TableID, &rental.RowID, &snapshot,
		&rental.CustomerName, &rental.CustomerEmail, &rental.UnitPrice, &rental.Fee,
		&rental.Status, &rental.RentedAt, &rental.ReleasedAt, &rental.Notes, &rental.CreatedBy,
		&rental.CreatedAt, &rental.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rental.ItemSnapshot = snapshot
	return &rental, nil
}
