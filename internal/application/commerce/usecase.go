// Package commerce implementa las operaciones de venta, alquiler y devolución
// sobre filas de tablas comerciales, y la consulta de sus libros. Cada
// operación valida el tipo de tabla, que el actor pueda operar sobre ella y
// la legalidad de la transición.
package commerce

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// UseCase orquesta el motor de comercio: cada operación corre dentro de una
// transacción que serializa el acceso a la fila.
type UseCase struct {
	tableRepo  repository.TableRepository
	rowRepo    repository.RowRepository
	saleRepo   repository.SaleRepository
	rentalRepo repository.RentalRepository
	invRepo    repository.InventoryTransactionRepository
	txRunner   TxRunner
	log        zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tableRepo repository.TableRepository,
	rowRepo repository.RowRepository,
	saleRepo repository.SaleRepository,
	rentalRepo repository.RentalRepository,
	invRepo repository.InventoryTransactionRepository,
	txRunner TxRunner,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		tableRepo:  tableRepo,
		rowRepo:    rowRepo,
		saleRepo:   saleRepo,
		rentalRepo: rentalRepo,
		invRepo:    invRepo,
		txRunner:   txRunner,
		log:        log,
	}
}

// Actor es el principal de una operación de comercio: un usuario autenticado
// (con o sin rol admin) o un token de la API pública cuyo alcance sobre la
// tabla ya verificó el caso de uso público.
type Actor struct {
	ID          string
	IsAdmin     bool
	tokenScoped bool
}

// UserActor construye el actor de un usuario autenticado.
func UserActor(id string, isAdmin bool) Actor { return Actor{ID: id, IsAdmin: isAdmin} }

// TokenActor construye el actor de un token de la API pública. El alcance del
// token sobre la tabla debe venir ya verificado (CheckTableAccess); acá no se
// vuelve a pedir dueño ni admin.
func TokenActor(tokenID string) Actor { return Actor{ID: "token:" + tokenID, tokenScoped: true} }

// canWrite: dueño, admin o token con alcance verificado.
func (a Actor) canWrite(t *entity.Table) bool {
	return a.tokenScoped || a.IsAdmin || t.OwnerID == a.ID
}

// canRead: quien puede escribir, o tabla visible para terceros.
func (a Actor) canRead(t *entity.Table) bool {
	if a.canWrite(t) {
		return true
	}
	return t.Visibility == entity.VisibilityPublic || t.Visibility == entity.VisibilityShared
}

// writableTable trae la tabla y exige que el actor pueda operarla y, si
// wantType no es vacío, que sea de ese tipo.
func (uc *UseCase) writableTable(actor Actor, tableID, wantType string) (*entity.Table, error) {
	table, err := uc.tableRepo.GetByID(tableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.canWrite(table) {
		return nil, domain.ErrForbidden
	}
	if wantType != "" && table.TableType != wantType {
		return nil, fmt.Errorf("%w: la tabla no es de tipo %s", domain.ErrInvalidInput, wantType)
	}
	return table, nil
}

// readableTable trae la tabla y exige lectura.
func (uc *UseCase) readableTable(actor Actor, tableID string) (*entity.Table, error) {
	table, err := uc.tableRepo.GetByID(tableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.canRead(table) {
		return nil, domain.ErrForbidden
	}
	return table, nil
}

// lockedRow trae la fila bloqueada (FOR UPDATE) validando que pertenezca a la
// tabla. Debe llamarse dentro de la transacción.
func lockedRow(rowRepo repository.RowRepository, tableID, rowID string) (*entity.DataRow, error) {
	row, err := rowRepo.GetForUpdate(rowID)
	if err != nil {
		return nil, err
	}
	if row == nil || row.TableID != tableID {
		return nil, domain.ErrNotFound
	}
	return row, nil
}

func snapshotData(data *entity.RowData) json.RawMessage {
	if data == nil {
		return json.RawMessage("{}")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}

// ── mapeo a DTO ───────────────────────────────────────────────────────────────

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:            s.ID,
		SaleNumber:    s.SaleNumber,
		TableID:       s.TableID,
		RowID:         s.RowID,
		ItemSnapshot:  s.ItemSnapshot,
		CustomerName:  s.CustomerName,
		CustomerEmail: s.CustomerEmail,
		Quantity:      s.Quantity,
		UnitPrice:     s.UnitPrice,
		Total:         s.Total,
		Status:        s.Status,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toRentalResponse(r *entity.Rental) dto.RentalResponse {
	return dto.RentalResponse{
		ID:            r.ID,
		RentalNumber:  r.RentalNumber,
		TableID:       r.TableID,
		RowID:         r.RowID,
		ItemSnapshot:  r.ItemSnapshot,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		UnitPrice:     r.UnitPrice,
		Fee:           r.Fee,
		Status:        r.Status,
		RentedAt:      r.RentedAt,
		ReleasedAt:    r.ReleasedAt,
		Notes:         r.Notes,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toTransactionResponse(tx *entity.InventoryTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            tx.ID,
		TableID:       tx.TableID,
		RowID:         tx.RowID,
		Type:          tx.Type,
		BeforeData:    tx.BeforeData,
		AfterData:     tx.AfterData,
		QuantityDelta: tx.QuantityDelta,
		ReferenceID:   tx.ReferenceID,
		ActorID:       tx.ActorID,
		CreatedAt:     tx.CreatedAt,
	}
}
