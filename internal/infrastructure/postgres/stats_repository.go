package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de solo lectura para el dashboard de la plataforma.
type StatsRepo struct {
	pool *pgxpool.Pool
}

// NewStatsRepository construye el adaptador de métricas.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// GetPlatformCounts devuelve los totales globales de tablas, filas y usuarios.
func (r *StatsRepo) GetPlatformCounts(ctx context.Context) (tables, rows, users int64, err error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM tables)     AS tables,
	    (SELECT COUNT(*) FROM data_rows)  AS rows,
	    (SELECT COUNT(*) FROM users)      AS users`

	err = r.pool.QueryRow(ctx, query).Scan(&tables, &rows, &users)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("stats.GetPlatformCounts: %w", err)
	}
	return tables, rows, users, nil
}

// GetSalesMetrics devuelve cantidad de ventas y revenue del período.
// Excluye ventas canceladas o reembolsadas.
// Usa COALESCE para devolver cero si no hay filas (período sin ventas).
func (r *StatsRepo) GetSalesMetrics(
	ctx context.Context,
	startDate, endDate time.Time,
) (count int64, revenue decimal.Decimal, err error) {
	const query = `
	SELECT
	    COUNT(*)                 AS sale_count,
	    COALESCE(SUM(total), 0)  AS revenue
	FROM sales
	WHERE created_at BETWEEN $1 AND $2
	  AND status NOT IN ('cancelled', 'refunded')`

	err = r.pool.QueryRow(ctx, query, startDate, endDate).Scan(&count, &revenue)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("stats.GetSalesMetrics: %w", err)
	}
	return count, revenue, nil
}

// GetRentalMetrics devuelve alquileres activos (snapshot actual), liberados
// en el período y el total de tarifas de los alquileres abiertos en el
// período que no fueron cancelados.
func (r *StatsRepo) GetRentalMetrics(
	ctx context.Context,
	startDate, endDate time.Time,
) (active, released int64, fees decimal.Decimal, err error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE status = 'active')                                              AS active,
	    COUNT(*) FILTER (WHERE status = 'released' AND released_at BETWEEN $1 AND $2)          AS released,
	    COALESCE(SUM(fee) FILTER (WHERE status <> 'cancelled' AND rented_at BETWEEN $1 AND $2), 0) AS fees
	FROM rentals`

	err = r.pool.QueryRow(ctx, query, startDate, endDate).Scan(&active, &released, &fees)
	if err != nil {
		return 0, 0, decimal.Zero, fmt.Errorf("stats.GetRentalMetrics: %w", err)
	}
	return active, released, fees, nil
}

// GetTopTables devuelve las `limit` tablas de comercio con más transacciones
// en el período. El revenue suma totales de venta y tarifas de alquiler;
// ventas canceladas o reembolsadas y alquileres cancelados no cuentan.
func (r *StatsRepo) GetTopTables(
	ctx context.Context,
	startDate, endDate time.Time,
	limit int,
) ([]repository.TableActivityResult, error) {
	const query = `
	SELECT
	    t.id                      AS table_id,
	    t.name                    AS table_name,
	    t.table_type,
	    COUNT(x.id)               AS transactions,
	    COALESCE(SUM(x.amount), 0) AS revenue
	FROM (
	    SELECT id, table_id, total AS amount, created_at
	    FROM sales
	    WHERE status NOT IN ('cancelled', 'refunded')
	    UNION ALL
	    SELECT id, table_id, fee AS amount, created_at
	    FROM rentals
	    WHERE status <> 'cancelled'
	) x
	JOIN tables t ON t.id = x.table_id
	WHERE x.created_at BETWEEN $1 AND $2
	GROUP BY t.id, t.name, t.table_type
	ORDER BY transactions DESC, revenue DESC
	LIMIT $3`

	rows, err := r.pool.Query(ctx, query, startDate, endDate, limit)
	if err != nil {
		return nil, fmt.Errorf("stats.GetTopTables: %w", err)
	}
	defer rows.Close()

	var results []repository.TableActivityResult
	for rows.Next() {
		var row repository.TableActivityResult
		if err := rows.Scan(
			&row.TableID,
			&row.TableName,
			&row.TableType,
			&row.Transactions,
			&row.Revenue,
		); err != nil {
			return nil, fmt.Errorf("stats.GetTopTables scan: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats.GetTopTables rows: %w", err)
	}
	if results == nil {
		results = []repository.TableActivityResult{}
	}
	return results, nil
}
