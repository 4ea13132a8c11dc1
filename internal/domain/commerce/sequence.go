package commerce

import "fmt"

// Prefijos de numeración de asientos por año.
const (
	SalePrefix = "SALE"
	RentPrefix = "RENT"
)

// SequenceNumber arma el número visible de un asiento: SALE-2025-001. El
// consecutivo viene del asignador atómico de la persistencia; aquí solo se
// formatea, con padding a 3 dígitos que crece si el año supera 999 asientos.
func SequenceNumber(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, n)
}
