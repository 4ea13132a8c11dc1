package commerce

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain/commerce"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// Rent alquila un ítem rentable. La transacción bloquea la fila, valida la
// transición rentable → rented, asigna el consecutivo, crea el asiento
// active con el snapshot previo y persiste los flags del estado nuevo. De dos
// alquileres concurrentes del mismo ítem solo uno ve rentable; el otro recibe
// el rechazo de ítem ya alquilado.
func (uc *UseCase) Rent(ctx context.Context, actor Actor, in dto.RentItemRequest) (*dto.RentalResponse, error) {
	if _, err := uc.writableTable(actor, in.TableID, entity.TableTypeRent); err != nil {
		return nil, err
	}

	var rental *entity.Rental
	err := uc.txRunner.RunCommerce(ctx, func(
		rowRepo repository.RowRepository,
		_ repository.SaleRepository,
		rentalRepo repository.RentalRepository,
		seqRepo repository.SequenceRepository,
		invRepo repository.InventoryTransactionRepository,
	) error {
		row, err := lockedRow(rowRepo, in.TableID, in.ItemID)
		if err != nil {
			return err
		}

		// ── 1. Transición legal desde el estado vivo ─────────────────
		state := commerce.StateFromRow(row.Data)
		next, err := commerce.Rent(state)
		if err != nil {
			return err
		}

		// ── 2. Consecutivo y asiento con snapshot previo ─────────────
		now := time.Now()
		seq, err := seqRepo.Next("rent", now.Year())
		if err != nil {
			return err
		}
		price, _ := commerce.NumberFromRow(row.Data, commerce.FieldPrice)
		fee, _ := commerce.NumberFromRow(row.Data, commerce.FieldFee)
		before := snapshotData(row.Data)
		rental = &entity.Rental{
			ID:            uuid.New().String(),
			RentalNumber:  commerce.SequenceNumber(commerce.RentPrefix, now.Year(), seq),
			TableID:       in.TableID,
			RowID:         row.ID,
			ItemSnapshot:  before,
			CustomerName:  in.CustomerName,
			CustomerEmail: in.CustomerEmail,
			UnitPrice:     price,
			Fee:           fee,
			Status:        entity.RentalStatusActive,
			RentedAt:      now,
			Notes:         in.Notes,
			CreatedBy:     actor.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := rentalRepo.Create(rental); err != nil {
			return err
		}

		// ── 3. Estado nuevo en la fila viva ──────────────────────────
		commerce.WriteState(row.Data, next)
		row.UpdatedAt = now
		if err := rowRepo.Update(row); err != nil {
			uc.log.Error().Err(err).
				Str("item_id", row.ID).
				Str("transition", "rent").
				Str("rental_number", rental.RentalNumber).
				Str("failed_step", "row_update").
				Msg("el asiento de alquiler existe pero la mutación de la fila falló; la transacción revierte")
			return err
		}

		// ── 4. Registro de inventario ligado al asiento ──────────────
		return invRepo.Create(&entity.InventoryTransaction{
			ID:          uuid.New().String(),
			TableID:     in.TableID,
			RowID:       row.ID,
			Type:        entity.TxTypeRent,
			BeforeData:  before,
			AfterData:   snapshotData(row.Data),
			ReferenceID: rental.ID,
			ActorID:     actor.ID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("rental_number", rental.RentalNumber).
		Str("table_id", rental.TableID).
		Str("row_id", rental.RowID).
		Msg("alquiler registrado")
	resp := toRentalResponse(rental)
	return &resp, nil
}

// Release devuelve un ítem alquilado: transición rented → released, cierre
// del asiento activo y flags terminales en la fila (used queda en true para
// siempre). Si no hay asiento activo que cerrar, la devolución procede igual
// y la inconsistencia se deja registrada en el log.
func (uc *UseCase) Release(ctx context.Context, actor Actor, in dto.ReleaseItemRequest) (*dto.RentalResponse, error) {
	if _, err := uc.writableTable(actor, in.TableID, entity.TableTypeRent); err != nil {
		return nil, err
	}

	var rental *entity.Rental
	err := uc.txRunner.RunCommerce(ctx, func(
		rowRepo repository.RowRepository,
		_ repository.SaleRepository,
		rentalRepo repository.RentalRepository,
		_ repository.SequenceRepository,
		invRepo repository.InventoryTransactionRepository,
	) error {
		row, err := lockedRow(rowRepo, in.TableID, in.ItemID)
		if err != nil {
			return err
		}

		// ── 1. Transición legal desde el estado vivo ─────────────────
		state := commerce.StateFromRow(row.Data)
		next, err := commerce.Release(state)
		if err != nil {
			return err
		}

		// ── 2. Cierre del asiento activo ─────────────────────────────
		now := time.Now()
		referenceID := ""
		rental, err = rentalRepo.GetActiveByRow(row.ID)
		if err != nil {
			return err
		}
		if rental != nil {
			if err := rentalRepo.MarkReleased(rental.ID, now); err != nil {
				return err
			}
			rental.Status = entity.RentalStatusReleased
			rental.ReleasedAt = &now
			if in.Notes != "" {
				if err := rentalRepo.UpdateStatus(rental.ID, entity.RentalStatusReleased, in.Notes); err != nil {
					return err
				}
				rental.Notes = in.Notes
			}
			referenceID = rental.ID
		} else {
			uc.log.Warn().
				Str("item_id", row.ID).
				Str("table_id", in.TableID).
				Msg("devolución sin asiento de alquiler activo; el estado de la fila se libera igual")
		}

		// ── 3. Estado terminal en la fila viva ───────────────────────
		before := snapshotData(row.Data)
		commerce.WriteState(row.Data, next)
		row.UpdatedAt = now
		if err := rowRepo.Update(row); err != nil {
			uc.log.Error().Err(err).
				Str("item_id", row.ID).
				Str("transition", "release").
				Str("failed_step", "row_update").
				Msg("el asiento quedó cerrado pero la mutación de la fila falló; la transacción revierte")
			return err
		}

		// ── 4. Registro de inventario ────────────────────────────────
		return invRepo.Create(&entity.InventoryTransaction{
			ID:          uuid.New().String(),
			TableID:     in.TableID,
			RowID:       row.ID,
			Type:        entity.TxTypeRelease,
			BeforeData:  before,
			AfterData:   snapshotData(row.Data),
			ReferenceID: referenceID,
			ActorID:     actor.ID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	if rental == nil {
		return nil, nil
	}
	resp := toRentalResponse(rental)
	return &resp, nil
}
