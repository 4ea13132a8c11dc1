package typechange

import (
	"context"

	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repos
// que necesita el applier. Cada operación de columna corre en su propia
// transacción pequeña: una falla no abandona el resto de la migración.
type TxRunner interface {
	RunTypeChange(ctx context.Context, fn func(
		colRepo repository.ColumnRepository,
		rowRepo repository.RowRepository,
	) error) error
}
