package commerce_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablas-api/internal/application/commerce"
	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// receiptStub registra lo que recibe y devuelve bytes enlatados.
type receiptStub struct {
	gotSale  *entity.Sale
	gotTable *entity.Table
	out      []byte
	err      error
}

func (s *receiptStub) GenerateSaleReceipt(_ context.Context, sale *entity.Sale, table *entity.Table) ([]byte, error) {
	s.gotSale, s.gotTable = sale, table
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func newReceiptFixture() (*fixture, *receiptStub, *commerce.ReceiptUseCase) {
	f := newFixture()
	stub := &receiptStub{out: []byte("%PDF-recibo")}
	uc := commerce.NewReceiptUseCase(f.sales, f.tables, stub)
	return f, stub, uc
}

// ──────────────────────────────────────────────────────────────────────────────
// Recibo de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestDownloadSaleReceipt(t *testing.T) {
	ctx := context.Background()

	// Caso 1: una venta hecha por el flujo real tiene recibo; el generador
	// recibe el asiento y su tabla y los bytes pasan tal cual.
	t.Run("venta completada genera el recibo", func(t *testing.T) {
		f, stub, uc := newReceiptFixture()
		f.seedTable("t1", entity.TableTypeSale)
		f.seedRow(t, "r1", "t1", `{"nombre":"Silla","price":120.50,"qty":10}`)
		sale, err := f.uc.Sell(ctx, owner, sellReq("t1", "r1", 2))
		require.NoError(t, err)

		pdf, filename, err := uc.DownloadSaleReceipt(ctx, owner, sale.ID)

		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-recibo"), pdf, "los bytes del generador pasan tal cual")
		assert.Equal(t, "venta_"+sale.SaleNumber+".pdf", filename)
		require.NotNil(t, stub.gotSale)
		assert.Equal(t, sale.ID, stub.gotSale.ID)
		require.NotNil(t, stub.gotTable)
		assert.Equal(t, "t1", stub.gotTable.ID)
	})

	// Caso 2: venta inexistente.
	t.Run("venta inexistente", func(t *testing.T) {
		_, _, uc := newReceiptFixture()

		_, _, err := uc.DownloadSaleReceipt(ctx, owner, "no-existe")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	// Caso 3: una venta cancelada no tiene recibo; una reembolsada sí,
	// como constancia de la transacción original.
	t.Run("cancelada se rechaza, reembolsada imprime", func(t *testing.T) {
		f, _, uc := newReceiptFixture()
		f.seedTable("t1", entity.TableTypeSale)
		f.seedRow(t, "r1", "t1", `{"price":5,"qty":4}`)
		sale, err := f.uc.Sell(ctx, owner, sellReq("t1", "r1", 1))
		require.NoError(t, err)

		_, err = f.uc.UpdateSaleStatus(owner, sale.ID, dto.UpdateLedgerStatusRequest{Status: entity.SaleStatusCancelled})
		require.NoError(t, err)
		_, _, err = uc.DownloadSaleReceipt(ctx, owner, sale.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = f.uc.UpdateSaleStatus(owner, sale.ID, dto.UpdateLedgerStatusRequest{Status: entity.SaleStatusRefunded})
		require.NoError(t, err)
		_, _, err = uc.DownloadSaleReceipt(ctx, owner, sale.ID)
		assert.NoError(t, err, "la venta reembolsada conserva su recibo")
	})

	// Caso 4: la tabla del asiento ya no existe.
	t.Run("tabla del asiento borrada", func(t *testing.T) {
		f, _, uc := newReceiptFixture()
		require.NoError(t, f.sales.Create(&entity.Sale{
			ID:         "s-huerfana",
			SaleNumber: "SALE-2026-009",
			TableID:    "tabla-borrada",
			Status:     entity.SaleStatusCompleted,
		}))

		_, _, err := uc.DownloadSaleReceipt(ctx, owner, "s-huerfana")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	// Caso 5: la falla del generador se propaga envuelta.
	t.Run("falla del generador", func(t *testing.T) {
		f, stub, uc := newReceiptFixture()
		stub.err = assert.AnError
		f.seedTable("t1", entity.TableTypeSale)
		f.seedRow(t, "r1", "t1", `{"price":5,"qty":4}`)
		sale, err := f.uc.Sell(ctx, owner, sellReq("t1", "r1", 1))
		require.NoError(t, err)

		_, _, err = uc.DownloadSaleReceipt(ctx, owner, sale.ID)

		assert.ErrorIs(t, err, assert.AnError)
	})
}
