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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste un asiento de venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, sale_number, table_id, row_id, item_snapshot, customer_name, customer_email, quantity, unit_price, total, status, payment_method, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.SaleNumber, sale.TableID, sale.RowID, string(sale.ItemSnapshot),
		sale.CustomerName, sale.CustomerEmail, sale.Quantity, sale.UnitPrice, sale.Total,
		sale.Status, sale.PaymentMethod, sale.Notes, sale.CreatedBy,
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID, o nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := saleSelect + ` WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// ListByTable lista ventas de una tabla con paginación, más recientes primero.
func (r *SaleRepo) ListByTable(tableID string, limit, offset int) ([]*entity.Sale, error) {
	query := saleSelect + ` WHERE table_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.querySales(query, tableID, limit, offset)
}

// List lista todas las ventas con paginación, más recientes primero.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	query := saleSelect + ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.querySales(query, limit, offset)
}

// UpdateStatus actualiza solo status y notes. El resto del asiento es
// inmutable: snapshot, cantidades y totales quedan como se vendieron.
func (r *SaleRepo) UpdateStatus(id, status, notes string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales SET status = $2, notes = $3, updated_at = now() WHERE id = $1`,
		id, status, notes,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	return nil
}

const saleSelect = `
	SELECT id, sale_number, table_id, row_id, item_snapshot, customer_name, customer_email, quantity, unit_price, total, status, payment_method, notes, created_by, created_at, updated_at
	FROM sales`

func (r *SaleRepo) querySales(query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSale(row pgxScanner) (*entity.Sale, error) {
	var (
		s        entity.Sale
		snapshot []byte
	)
	err := row.Scan(
		&s.ID, &s.SaleNumber, &s.TableID, &s.RowID, &snapshot,
		&s.CustomerName, &s.CustomerEmail, &s.Quantity, &s.UnitPrice, &s.Total,
		&s.Status, &s.PaymentMethod, &s.Notes, &s.CreatedBy,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.ItemSnapshot = snapshot
	return &s, nil
}
