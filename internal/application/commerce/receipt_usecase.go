package commerce

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// ReceiptUseCase genera el recibo (PDF) de una venta.
type ReceiptUseCase struct {
	saleRepo  repository.SaleRepository
	tableRepo repository.TableRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	tableRepo repository.TableRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{saleRepo: saleRepo, tableRepo: tableRepo, generator: generator}
}

// DownloadSaleReceipt carga la venta y su tabla y genera el PDF del recibo.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la venta no existe.
//   - domain.ErrForbidden        si el actor no puede leer la tabla.
//   - domain.ErrInvalidInput     si la venta está cancelada.
func (uc *ReceiptUseCase) DownloadSaleReceipt(
	ctx context.Context,
	actor Actor,
	saleID string,
) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	if sale.Status == entity.SaleStatusCancelled {
		return nil, "", fmt.Errorf("%w: la venta está cancelada, no tiene recibo", domain.ErrInvalidInput)
	}

	table, err := uc.tableRepo.GetByID(sale.TableID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener tabla: %w", err)
	}
	if table == nil {
		return nil, "", domain.ErrNotFound
	}
	if !actor.canRead(table) {
		return nil, "", domain.ErrForbidden
	}

	pdfBytes, err = uc.generator.GenerateSaleReceipt(ctx, sale, table)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("venta_%s.pdf", sale.SaleNumber)
	return pdfBytes, filename, nil
}
