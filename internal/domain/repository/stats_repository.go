package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TableActivityResult resultado crudo de la consulta de actividad por tabla.
// Lo produce la DB; el use case lo convierte en DTO.
type TableActivityResult struct {
	TableID      string
	TableName    string
	TableType    string // sale o rent
	Transactions int64
	Revenue      decimal.Decimal
}

// StatsRepository define las consultas de lectura para el dashboard.
// Las implementaciones son read-only (no modifican datos).
type StatsRepository interface {
	// GetPlatformCounts devuelve los totales globales de la plataforma.
	GetPlatformCounts(ctx context.Context) (tables, rows, users int64, err error)

	// GetSalesMetrics devuelve cantidad de ventas y revenue del período.
	// Usa COALESCE para devolver cero si no hay ventas en el rango.
	GetSalesMetrics(ctx context.Context, startDate, endDate time.Time) (count int64, revenue decimal.Decimal, err error)

	// GetRentalMetrics devuelve alquileres activos, liberados en el período y
	// el total de tarifas cobradas.
	GetRentalMetrics(ctx context.Context, startDate, endDate time.Time) (active, released int64, fees decimal.Decimal, err error)

	// GetTopTables devuelve las `limit` tablas de comercio con más
	// transacciones en el período.
	GetTopTables(ctx context.Context, startDate, endDate time.Time, limit int) ([]TableActivityResult, error)
}
