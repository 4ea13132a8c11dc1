package repository

// SequenceRepository asigna consecutivos por (clase, año) para la numeración
// de asientos. Next debe ser atómico frente a asignadores concurrentes:
// incremento transaccional, nunca leer-luego-escribir.
type SequenceRepository interface {
	Next(kind string, year int) (int64, error)
}
