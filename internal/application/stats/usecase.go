// Package stats contiene el caso de uso del dashboard de la plataforma.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

const dashboardTopTables = 5 // número de tablas en el widget de actividad

// UseCase genera el resumen de actividad de la plataforma.
//
// Fuente de datos: StatsRepository (consultas read-only).
// No accede directamente a las tablas del ledger; delega todo en el repositorio.
type UseCase struct {
	statsRepo repository.StatsRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(statsRepo repository.StatsRepository) *UseCase {
	return &UseCase{statsRepo: statsRepo}
}

// Dashboard construye el DashboardResponse de toda la plataforma.
//
// Cuatro llamadas en paralelo:
//  1. GetPlatformCounts           → TotalTables + TotalRows + TotalUsers
//  2. GetSalesMetrics(año)        → Sales
//  3. GetRentalMetrics(año)       → Rentals
//  4. GetTopTables(año, top 5)    → TopTables
func (uc *UseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := time.Now()

	// ── Rango de fechas ────────────────────────────────────────────────────────
	// Año en curso: 1 de enero a las 00:00 – 31 de diciembre a las 23:59:59
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	yearEnd := time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location()).Add(-time.Nanosecond)

	// ── Goroutines para paralelizar las 4 consultas DB ────────────────────────
	type countsResult struct {
		tables int64
		rows   int64
		users  int64
		err    error
	}
	type salesResult struct {
		count   int64
		revenue decimal.Decimal
		err     error
	}
	type rentalsResult struct {
		active   int64
		released int64
		fees     decimal.Decimal
		err      error
	}
	type topTablesResult struct {
		tables []repository.TableActivityResult
		err    error
	}

	countsCh := make(chan countsResult, 1)
	salesCh := make(chan salesResult, 1)
	rentalsCh := make(chan rentalsResult, 1)
	topCh := make(chan topTablesResult, 1)

	go func() {
		tables, rows, users, err := uc.statsRepo.GetPlatformCounts(ctx)
		countsCh <- countsResult{tables, rows, users, err}
	}()
	go func() {
		count, revenue, err := uc.statsRepo.GetSalesMetrics(ctx, yearStart, yearEnd)
		salesCh <- salesResult{count, revenue, err}
	}()
	go func() {
		active, released, fees, err := uc.statsRepo.GetRentalMetrics(ctx, yearStart, yearEnd)
		rentalsCh <- rentalsResult{active, released, fees, err}
	}()
	go func() {
		tables, err := uc.statsRepo.GetTopTables(ctx, yearStart, yearEnd, dashboardTopTables)
		topCh <- topTablesResult{tables, err}
	}()

	counts := <-countsCh
	sales := <-salesCh
	rentals := <-rentalsCh
	top := <-topCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: conteos de plataforma: %w", counts.err)
	}
	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de ventas: %w", sales.err)
	}
	if rentals.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de alquileres: %w", rentals.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: tablas con más actividad: %w", top.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	topTables := make([]dto.TableActivityDTO, 0, len(top.tables))
	for _, t := range top.tables {
		topTables = append(topTables, dto.TableActivityDTO{
			TableID:      t.TableID,
			TableName:    t.TableName,
			TableType:    t.TableType,
			Transactions: t.Transactions,
			Revenue:      t.Revenue.Round(2),
		})
	}

	return &dto.DashboardResponse{
		TotalTables: counts.tables,
		TotalRows:   counts.rows,
		TotalUsers:  counts.users,
		Sales: dto.SalesStatsDTO{
			Count:   sales.count,
			Revenue: sales.revenue.Round(2),
		},
		Rentals: dto.RentalStatsDTO{
			Active:   rentals.active,
			Released: rentals.released,
			Fees:     rentals.fees.Round(2),
		},
		TopTables: topTables,
	}, nil
}
