package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo asigna consecutivos por (clase, año) sobre PostgreSQL. El
// incremento es un solo UPSERT atómico, seguro frente a asignadores
// concurrentes: nunca leer-luego-escribir.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el asignador de consecutivos. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente consecutivo de la clase en el año dado.
func (r *SequenceRepo) Next(kind string, year int) (int64, error) {
	query := `
		INSERT INTO sequences (kind, year, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, year)
		DO UPDATE SET value = sequences.value + 1
		RETURNING value`
	var value int64
	if err := r.q.QueryRow(context.Background(), query, kind, year).Scan(&value); err != nil {
		return 0, fmt.Errorf("next sequence %s-%d: %w", kind, year, err)
	}
	return value, nil
}
