package commerce

import (
	"context"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repos
// del motor de comercio. Cada operación de venta, alquiler o devolución corre
// completa en una transacción: bloqueo de fila, consecutivo, asiento,
// mutación de estado y registro de inventario, o nada.
type TxRunner interface {
	RunCommerce(ctx context.Context, fn func(
		rowRepo repository.RowRepository,
		saleRepo repository.SaleRepository,
		rentalRepo repository.RentalRepository,
		seqRepo repository.SequenceRepository,
		invRepo repository.InventoryTransactionRepository,
	) error) error
}

// ReceiptGenerator produce el PDF del recibo de una venta a partir del
// asiento y de la tabla a la que pertenece el ítem.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, sale *entity.Sale, table *entity.Table) ([]byte, error)
}
