package commerce

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/commerce"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// GetSale obtiene un asiento de venta. Exige lectura sobre la tabla del
// asiento.
func (uc *UseCase) GetSale(actor Actor, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	if _, err := uc.readableTable(actor, sale.TableID); err != nil {
		return nil, err
	}
	resp := toSaleResponse(sale)
	return &resp, nil
}

// ListSales lista las ventas de una tabla legible por el actor; el listado de
// toda la plataforma (tableID vacío) es solo para admins.
func (uc *UseCase) ListSales(actor Actor, tableID string, page dto.PageRequest) (*dto.SaleListResponse, error) {
	if tableID == "" {
		if !actor.IsAdmin {
			return nil, domain.ErrForbidden
		}
	} else if _, err := uc.readableTable(actor, tableID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	var (
		sales []*entity.Sale
		err   error
	)
	if tableID != "" {
		sales, err = uc.saleRepo.ListByTable(tableID, page.Limit, page.Offset)
	} else {
		sales, err = uc.saleRepo.List(page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(sales)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, s := range sales {
		out.Items = append(out.Items, toSaleResponse(s))
	}
	return out, nil
}

// UpdateSaleStatus cambia status y notes de una venta; solo el dueño de la
// tabla o un admin. Los campos financieros del asiento son inmutables.
func (uc *UseCase) UpdateSaleStatus(actor Actor, saleID string, in dto.UpdateLedgerStatusRequest) (*dto.SaleResponse, error) {
	if !validSaleStatus(in.Status) {
		return nil, fmt.Errorf("%w: status de venta %q", domain.ErrInvalidInput, in.Status)
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	if _, err := uc.writableTable(actor, sale.TableID, ""); err != nil {
		return nil, err
	}
	if err := uc.saleRepo.UpdateStatus(saleID, in.Status, in.Notes); err != nil {
		return nil, err
	}
	sale.Status = in.Status
	if in.Notes != "" {
		sale.Notes = in.Notes
	}
	resp := toSaleResponse(sale)
	return &resp, nil
}

// GetRental obtiene un asiento de alquiler. Exige lectura sobre la tabla del
// asiento.
func (uc *UseCase) GetRental(actor Actor, rentalID string) (*dto.RentalResponse, error) {
	rental, err := uc.rentalRepo.GetByID(rentalID)
	if err != nil {
		return nil, err
	}
	if rental == nil {
		return nil, nil
	}
	if _, err := uc.readableTable(actor, rental.TableID); err != nil {
		return nil, err
	}
	resp := toRentalResponse(rental)
	return &resp, nil
}

// ListRentals lista los alquileres de una tabla legible por el actor; el
// listado de toda la plataforma (tableID vacío) es solo para admins.
func (uc *UseCase) ListRentals(actor Actor, tableID string, page dto.PageRequest) (*dto.RentalListResponse, error) {
	if tableID == "" {
		if !actor.IsAdmin {
			return nil, domain.ErrForbidden
		}
	} else if _, err := uc.readableTable(actor, tableID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	var (
		rentals []*entity.Rental
		err     error
	)
	if tableID != "" {
		rentals, err = uc.rentalRepo.ListByTable(tableID, page.Limit, page.Offset)
	} else {
		rentals, err = uc.rentalRepo.List(page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := &dto.RentalListResponse{
		Items: make([]dto.RentalResponse, 0, len(rentals)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, r := range rentals {
		out.Items = append(out.Items, toRentalResponse(r))
	}
	return out, nil
}

// UpdateRentalStatus cambia status y notes de un alquiler; solo el dueño de
// la tabla o un admin. La devolución no pasa por acá: released solo lo
// escribe el flujo de release, que además libera la fila.
func (uc *UseCase) UpdateRentalStatus(actor Actor, rentalID string, in dto.UpdateLedgerStatusRequest) (*dto.RentalResponse, error) {
	if !validRentalStatus(in.Status) || in.Status == entity.RentalStatusReleased {
		return nil, fmt.Errorf("%w: status de alquiler %q", domain.ErrInvalidInput, in.Status)
	}
	rental, err := uc.rentalRepo.GetByID(rentalID)
	if err != nil {
		return nil, err
	}
	if rental == nil {
		return nil, nil
	}
	if _, err := uc.writableTable(actor, rental.TableID, ""); err != nil {
		return nil, err
	}
	if err := uc.rentalRepo.UpdateStatus(rentalID, in.Status, in.Notes); err != nil {
		return nil, err
	}
	rental.Status = in.Status
	if in.Notes != "" {
		rental.Notes = in.Notes
	}
	resp := toRentalResponse(rental)
	return &resp, nil
}

// ListTransactionsByTable lista el historial de inventario de una tabla
// legible por el actor.
func (uc *UseCase) ListTransactionsByTable(actor Actor, tableID string, page dto.PageRequest) (*dto.TransactionListResponse, error) {
	if _, err := uc.readableTable(actor, tableID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	txs, err := uc.invRepo.ListByTable(tableID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toTransactionList(txs, page), nil
}

// ListTransactionsByRow lista el historial de inventario de una fila. La
// lectura se autoriza contra la tabla dueña de la fila.
func (uc *UseCase) ListTransactionsByRow(actor Actor, rowID string, page dto.PageRequest) (*dto.TransactionListResponse, error) {
	row, err := uc.rowRepo.GetByID(rowID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.readableTable(actor, row.TableID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	txs, err := uc.invRepo.ListByRow(rowID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toTransactionList(txs, page), nil
}

func toTransactionList(txs []*entity.InventoryTransaction, page dto.PageRequest) *dto.TransactionListResponse {
	out := &dto.TransactionListResponse{
		Items: make([]dto.TransactionResponse, 0, len(txs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, tx := range txs {
		out.Items = append(out.Items, toTransactionResponse(tx))
	}
	return out
}

// AdjustQuantity corrige el stock de un ítem de venta en un delta (positivo o
// negativo) y deja el registro "adjust". Es una corrección directa del dueño
// o de un admin; el stock nunca queda negativo.
func (uc *UseCase) AdjustQuantity(ctx context.Context, actor Actor, tableID, rowID string, delta decimal.Decimal, note string) (*dto.RowResponse, error) {
	if _, err := uc.writableTable(actor, tableID, entity.TableTypeSale); err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return nil, fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
	}

	var out dto.RowResponse
	err := uc.txRunner.RunCommerce(ctx, func(
		rowRepo repository.RowRepository,
		_ repository.SaleRepository,
		_ repository.RentalRepository,
		_ repository.SequenceRepository,
		invRepo repository.InventoryTransactionRepository,
	) error {
		row, err := lockedRow(rowRepo, tableID, rowID)
		if err != nil {
			return err
		}
		qty, _ := commerce.NumberFromRow(row.Data, commerce.FieldQty)
		newQty := qty.Add(delta)
		if newQty.IsNegative() {
			return fmt.Errorf("%w: el ajuste dejaría el stock en %s", domain.ErrInvalidInput, newQty)
		}

		now := time.Now()
		before := snapshotData(row.Data)
		row.Data.Set(commerce.FieldQty, entity.NumberValue(newQty))
		row.UpdatedAt = now
		if err := rowRepo.Update(row); err != nil {
			return err
		}
		out = dto.RowResponse{
			ID: row.ID, TableID: row.TableID, Data: snapshotData(row.Data),
			CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
		}
		return invRepo.Create(&entity.InventoryTransaction{
			ID:            uuid.New().String(),
			TableID:       tableID,
			RowID:         row.ID,
			Type:          entity.TxTypeAdjust,
			BeforeData:    before,
			AfterData:     snapshotData(row.Data),
			QuantityDelta: delta,
			ReferenceID:   "",
			ActorID:       actor.ID,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}
	if note != "" {
		uc.log.Info().Str("row_id", rowID).Str("delta", delta.String()).Str("note", note).Msg("stock ajustado")
	}
	return &out, nil
}

func validSaleStatus(s string) bool {
	switch s {
	case entity.SaleStatusPending, entity.SaleStatusCompleted, entity.SaleStatusCancelled, entity.SaleStatusRefunded:
		return true
	}
	return false
}

func validRentalStatus(s string) bool {
	switch s {
	case entity.RentalStatusActive, entity.RentalStatusReleased, entity.RentalStatusCancelled:
		return true
	}
	return false
}
