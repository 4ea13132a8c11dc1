// Package apptest provee implementaciones en memoria de los puertos de
// persistencia para los tests de los casos de uso. La atomicidad real de las
// transacciones la cubren los repositorios de postgres; acá Run ejecuta la
// función directamente sobre los repos.
package apptest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// ── tablas ────────────────────────────────────────────────────────────────────

type TableRepo struct {
	Tables map[string]*entity.Table
}

func NewTableRepo() *TableRepo {
	return &TableRepo{Tables: make(map[string]*entity.Table)}
}

func (r *TableRepo) Create(t *entity.Table) error {
	r.Tables[t.ID] = t
	return nil
}

func (r *TableRepo) GetByID(id string) (*entity.Table, error) {
	return r.Tables[id], nil
}

func (r *TableRepo) Update(t *entity.Table) error {
	r.Tables[t.ID] = t
	return nil
}

func (r *TableRepo) UpdateType(tableID, tableType, rentalPeriod string) error {
	t, ok := r.Tables[tableID]
	if !ok {
		return nil
	}
	t.TableType = tableType
	t.RentalPeriod = rentalPeriod
	return nil
}

func (r *TableRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Table, error) {
	var out []*entity.Table
	for _, t := range r.Tables {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return pageSlice(out, limit, offset), nil
}

func (r *TableRepo) ListPublicCommerce() ([]*entity.Table, error) {
	var out []*entity.Table
	for _, t := range r.Tables {
		if (t.Visibility == entity.VisibilityPublic || t.Visibility == entity.VisibilityShared) && t.IsCommerce() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TableRepo) Delete(id string) error {
	delete(r.Tables, id)
	return nil
}

// ── columnas ──────────────────────────────────────────────────────────────────

type ColumnRepo struct {
	Cols map[string]*entity.Column
}

func NewColumnRepo() *ColumnRepo {
	return &ColumnRepo{Cols: make(map[string]*entity.Column)}
}

func (r *ColumnRepo) Create(c *entity.Column) error {
	r.Cols[c.ID] = c
	return nil
}

// GetByID devuelve una copia, como los repos reales devuelven scans frescos:
// mutar el resultado sin llamar Update no toca lo almacenado.
func (r *ColumnRepo) GetByID(id string) (*entity.Column, error) {
	c, ok := r.Cols[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ColumnRepo) GetByTableAndName(tableID, name string) (*entity.Column, error) {
	for _, c := range r.Cols {
		if c.TableID == tableID && strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ColumnRepo) ListByTable(tableID string) ([]*entity.Column, error) {
	var out []*entity.Column
	for _, c := range r.Cols {
		if c.TableID == tableID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ColumnRepo) Update(c *entity.Column) error {
	r.Cols[c.ID] = c
	return nil
}

func (r *ColumnRepo) UpdatePosition(columnID string, position int) error {
	if c, ok := r.Cols[columnID]; ok {
		c.Position = position
	}
	return nil
}

func (r *ColumnRepo) MaxPosition(tableID string) (int, error) {
	max := -1
	for _, c := range r.Cols {
		if c.TableID == tableID && c.Position > max {
			max = c.Position
		}
	}
	return max, nil
}

func (r *ColumnRepo) Delete(id string) error {
	delete(r.Cols, id)
	return nil
}

// ── filas ─────────────────────────────────────────────────────────────────────

type RowRepo struct {
	Rows  map[string]*entity.DataRow
	order []string // orden de inserción para listados deterministas
}

func NewRowRepo() *RowRepo {
	return &RowRepo{Rows: make(map[string]*entity.DataRow)}
}

func (r *RowRepo) Create(row *entity.DataRow) error {
	r.Rows[row.ID] = row
	r.order = append(r.order, row.ID)
	return nil
}

func (r *RowRepo) GetByID(id string) (*entity.DataRow, error) {
	return r.Rows[id], nil
}

func (r *RowRepo) GetForUpdate(id string) (*entity.DataRow, error) {
	return r.Rows[id], nil
}

func (r *RowRepo) ListByTable(tableID string, limit, offset int) ([]*entity.DataRow, error) {
	all, _ := r.ListAllByTable(tableID)
	return pageSlice(all, limit, offset), nil
}

func (r *RowRepo) ListAllByTable(tableID string) ([]*entity.DataRow, error) {
	var out []*entity.DataRow
	for _, id := range r.order {
		if row, ok := r.Rows[id]; ok && row.TableID == tableID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *RowRepo) CountByTable(tableID string) (int64, error) {
	all, _ := r.ListAllByTable(tableID)
	return int64(len(all)), nil
}

func (r *RowRepo) SearchAcrossTables(tableIDs []string, where map[string]string, limit, offset int) ([]*entity.DataRow, int64, error) {
	wanted := make(map[string]bool, len(tableIDs))
	for _, id := range tableIDs {
		wanted[id] = true
	}
	var out []*entity.DataRow
	for _, id := range r.order {
		row, ok := r.Rows[id]
		if !ok || !wanted[row.TableID] {
			continue
		}
		if rowMatches(row, where) {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	total := int64(len(out))
	return pageSlice(out, limit, offset), total, nil
}

// rowMatches replica la igualdad textual sin mayúsculas de los filtros where
// de la API pública: clave exacta, valor comparado como texto; null o clave
// ausente nunca igualan.
func rowMatches(row *entity.DataRow, where map[string]string) bool {
	for col, want := range where {
		if row.Data == nil {
			return false
		}
		v, ok := row.Data.Get(col)
		if !ok || v.Kind == entity.KindNull {
			return false
		}
		if !strings.EqualFold(v.String(), want) {
			return false
		}
	}
	return true
}

func (r *RowRepo) Update(row *entity.DataRow) error {
	r.Rows[row.ID] = row
	return nil
}

func (r *RowRepo) Delete(id string) error {
	delete(r.Rows, id)
	return nil
}

func (r *RowRepo) DeleteMany(ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := r.Rows[id]; ok {
			delete(r.Rows, id)
			n++
		}
	}
	return n, nil
}

// ── ventas ────────────────────────────────────────────────────────────────────

type SaleRepo struct {
	Sales []*entity.Sale
}

func NewSaleRepo() *SaleRepo { return &SaleRepo{} }

func (r *SaleRepo) Create(sale *entity.Sale) error {
	r.Sales = append(r.Sales, sale)
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	for _, s := range r.Sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *SaleRepo) ListByTable(tableID string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.Sales {
		if s.TableID == tableID {
			out = append(out, s)
		}
	}
	return pageSlice(out, limit, offset), nil
}

func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	return pageSlice(r.Sales, limit, offset), nil
}

func (r *SaleRepo) UpdateStatus(id, status, notes string) error {
	for _, s := range r.Sales {
		if s.ID == id {
			s.Status = status
			if notes != "" {
				s.Notes = notes
			}
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

// ── alquileres ────────────────────────────────────────────────────────────────

type RentalRepo struct {
	Rentals []*entity.Rental
}

func NewRentalRepo() *RentalRepo { return &RentalRepo{} }

func (r *RentalRepo) Create(rental *entity.Rental) error {
	r.Rentals = append(r.Rentals, rental)
	return nil
}

func (r *RentalRepo) GetByID(id string) (*entity.Rental, error) {
	for _, rr := range r.Rentals {
		if rr.ID == id {
			return rr, nil
		}
	}
	return nil, nil
}

func (r *RentalRepo) GetActiveByRow(rowID string) (*entity.Rental, error) {
	for _, rr := range r.Rentals {
		if rr.RowID == rowID && rr.Status == entity.RentalStatusActive {
			return rr, nil
		}
	}
	return nil, nil
}

func (r *RentalRepo) ListByTable(tableID string, limit, offset int) ([]*entity.Rental, error) {
	var out []*entity.Rental
	for _, rr := range r.Rentals {
		if rr.TableID == tableID {
			out = append(out, rr)
		}
	}
	return pageSlice(out, limit, offset), nil
}

func (r *RentalRepo) List(limit, offset int) ([]*entity.Rental, error) {
	return pageSlice(r.Rentals, limit, offset), nil
}

func (r *RentalRepo) MarkReleased(id string, releasedAt time.Time) error {
	for _, rr := range r.Rentals {
		if rr.ID == id {
			rr.Status = entity.RentalStatusReleased
			rr.ReleasedAt = &releasedAt
			rr.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (r *RentalRepo) UpdateStatus(id, status, notes string) error {
	for _, rr := range r.Rentals {
		if rr.ID == id {
			rr.Status = status
			if notes != "" {
				rr.Notes = notes
			}
			rr.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

// ── historial de inventario ───────────────────────────────────────────────────

type InvRepo struct {
	List []*entity.InventoryTransaction
}

func NewInvRepo() *InvRepo { return &InvRepo{} }

func (r *InvRepo) Create(tx *entity.InventoryTransaction) error {
	r.List = append(r.List, tx)
	return nil
}

func (r *InvRepo) ListByRow(rowID string, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, tx := range r.List {
		if tx.RowID == rowID {
			out = append(out, tx)
		}
	}
	return pageSlice(out, limit, offset), nil
}

func (r *InvRepo) ListByTable(tableID string, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, tx := range r.List {
		if tx.TableID == tableID {
			out = append(out, tx)
		}
	}
	return pageSlice(out, limit, offset), nil
}

// ── consecutivos ──────────────────────────────────────────────────────────────

// SequenceRepo replica el contrato del asignador real: Next es atómico por sí
// mismo frente a asignadores concurrentes.
type SequenceRepo struct {
	mu       sync.Mutex
	Counters map[string]int64
}

func NewSequenceRepo() *SequenceRepo {
	return &SequenceRepo{Counters: make(map[string]int64)}
}

func (r *SequenceRepo) Next(kind string, year int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%s-%d", kind, year)
	r.Counters[key]++
	return r.Counters[key], nil
}

// ── tokens de la API pública ──────────────────────────────────────────────────

type TokenRepo struct {
	Tokens map[string]*entity.AccessToken // clave: el secreto
}

func NewTokenRepo() *TokenRepo {
	return &TokenRepo{Tokens: make(map[string]*entity.AccessToken)}
}

func (r *TokenRepo) Create(t *entity.AccessToken) error {
	r.Tokens[t.Token] = t
	return nil
}

func (r *TokenRepo) GetByToken(token string) (*entity.AccessToken, error) {
	return r.Tokens[token], nil
}

func (r *TokenRepo) List(limit, offset int) ([]*entity.AccessToken, error) {
	var out []*entity.AccessToken
	for _, t := range r.Tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return pageSlice(out, limit, offset), nil
}

func (r *TokenRepo) Delete(id string) error {
	for k, t := range r.Tokens {
		if t.ID == id {
			delete(r.Tokens, k)
			return nil
		}
	}
	return nil
}

// ── usuarios ──────────────────────────────────────────────────────────────────

type UserRepo struct {
	Users map[string]*entity.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{Users: make(map[string]*entity.User)}
}

func (r *UserRepo) Create(u *entity.User) error {
	r.Users[u.ID] = u
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	return r.Users[id], nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.Users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(u *entity.User) error {
	r.Users[u.ID] = u
	return nil
}

func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.Users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return pageSlice(out, limit, offset), nil
}

func (r *UserRepo) Delete(id string) error {
	delete(r.Users, id)
	return nil
}

// ── transacciones ─────────────────────────────────────────────────────────────

// Tx cumple los puertos TxRunner de schema, typechange y commerce ejecutando
// la función directo contra los repos en memoria.
type Tx struct {
	Cols    *ColumnRepo
	Rows    *RowRepo
	Inv     *InvRepo
	Sales   *SaleRepo
	Rentals *RentalRepo
	Seq     *SequenceRepo
}

func (tx *Tx) Run(_ context.Context, fn func(
	colRepo repository.ColumnRepository,
	rowRepo repository.RowRepository,
	invRepo repository.InventoryTransactionRepository,
) error) error {
	return fn(tx.Cols, tx.Rows, tx.Inv)
}

func (tx *Tx) RunTypeChange(_ context.Context, fn func(
	colRepo repository.ColumnRepository,
	rowRepo repository.RowRepository,
) error) error {
	return fn(tx.Cols, tx.Rows)
}

func (tx *Tx) RunCommerce(_ context.Context, fn func(
	rowRepo repository.RowRepository,
	saleRepo repository.SaleRepository,
	rentalRepo repository.RentalRepository,
	seqRepo repository.SequenceRepository,
	invRepo repository.InventoryTransactionRepository,
) error) error {
	return fn(tx.Rows, tx.Sales, tx.Rentals, tx.Seq, tx.Inv)
}

func pageSlice[T any](s []T, limit, offset int) []T {
	if offset >= len(s) {
		return nil
	}
	s = s[offset:]
	if limit > 0 && limit < len(s) {
		s = s[:limit]
	}
	return s
}

// Verificación de que los fakes cumplen los puertos.
var (
	_ repository.TableRepository                = (*TableRepo)(nil)
	_ repository.ColumnRepository               = (*ColumnRepo)(nil)
	_ repository.RowRepository                  = (*RowRepo)(nil)
	_ repository.SaleRepository                 = (*SaleRepo)(nil)
	_ repository.RentalRepository               = (*RentalRepo)(nil)
	_ repository.InventoryTransactionRepository = (*InvRepo)(nil)
	_ repository.SequenceRepository             = (*SequenceRepo)(nil)
	_ repository.AccessTokenRepository          = (*TokenRepo)(nil)
	_ repository.UserRepository                 = (*UserRepo)(nil)
)
