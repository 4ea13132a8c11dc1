package commerce

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain/commerce"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// Sell vende cantidad de un ítem de una tabla sale. En una sola transacción:
// bloquea la fila, valida la legalidad, asigna el consecutivo del año, crea
// el asiento con el snapshot previo, descuenta el qty vivo y registra la
// transacción de inventario. Dos ventas concurrentes del mismo ítem se
// serializan en el bloqueo: la perdedora revalida contra el stock ya
// descontado.
func (uc *UseCase) Sell(ctx context.Context, actor Actor, in dto.SellItemRequest) (*dto.SaleResponse, error) {
	if _, err := uc.writableTable(actor, in.TableID, entity.TableTypeSale); err != nil {
		return nil, err
	}
	requested := in.Quantity
	if requested.IsZero() {
		requested = decimal.NewFromInt(1)
	}

	var sale *entity.Sale
	err := uc.txRunner.RunCommerce(ctx, func(
		rowRepo repository.RowRepository,
		saleRepo repository.SaleRepository,
		_ repository.RentalRepository,
		seqRepo repository.SequenceRepository,
		invRepo repository.InventoryTransactionRepository,
	) error {
		row, err := lockedRow(rowRepo, in.TableID, in.ItemID)
		if err != nil {
			return err
		}

		// ── 1. Legalidad contra el estado vivo ───────────────────────
		price, _ := commerce.NumberFromRow(row.Data, commerce.FieldPrice)
		qty, _ := commerce.NumberFromRow(row.Data, commerce.FieldQty)
		if err := commerce.CanSell(price, qty, requested); err != nil {
			return err
		}

		// ── 2. Consecutivo y asiento con snapshot previo ─────────────
		now := time.Now()
		seq, err := seqRepo.Next("sale", now.Year())
		if err != nil {
			return err
		}
		before := snapshotData(row.Data)
		sale = &entity.Sale{
			ID:            uuid.New().String(),
			SaleNumber:    commerce.SequenceNumber(commerce.SalePrefix, now.Year(), seq),
			TableID:       in.TableID,
			RowID:         row.ID,
			ItemSnapshot:  before,
			CustomerName:  in.CustomerName,
			CustomerEmail: in.CustomerEmail,
			Quantity:      requested,
			UnitPrice:     price,
			Total:         price.Mul(requested),
			Status:        entity.SaleStatusCompleted,
			PaymentMethod: in.PaymentMethod,
			Notes:         in.Notes,
			CreatedBy:     actor.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		// ── 3. Descuento del stock vivo ──────────────────────────────
		row.Data.Set(commerce.FieldQty, entity.NumberValue(qty.Sub(requested)))
		row.UpdatedAt = now
		if err := rowRepo.Update(row); err != nil {
			uc.log.Error().Err(err).
				Str("item_id", row.ID).
				Str("transition", "sale").
				Str("sale_number", sale.SaleNumber).
				Str("failed_step", "row_update").
				Msg("el asiento de venta existe pero la mutación de la fila falló; la transacción revierte")
			return err
		}

		// ── 4. Registro de inventario ligado al asiento ──────────────
		return invRepo.Create(&entity.InventoryTransaction{
			ID:            uuid.New().String(),
			TableID:       in.TableID,
			RowID:         row.ID,
			Type:          entity.TxTypeSale,
			BeforeData:    before,
			AfterData:     snapshotData(row.Data),
			QuantityDelta: requested.Neg(),
			ReferenceID:   sale.ID,
			ActorID:       actor.ID,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("sale_number", sale.SaleNumber).
		Str("table_id", sale.TableID).
		Str("row_id", sale.RowID).
		Str("total", sale.Total.String()).
		Msg("venta registrada")
	resp := toSaleResponse(sale)
	return &resp, nil
}
