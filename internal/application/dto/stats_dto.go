package dto

import "github.com/shopspring/decimal"

// SalesStatsDTO métricas de ventas del período.
type SalesStatsDTO struct {
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RentalStatsDTO métricas de alquileres del período.
type RentalStatsDTO struct {
	Active   int64           `json:"active"`
	Released int64           `json:"released"`
	Fees     decimal.Decimal `json:"fees"`
}

// TableActivityDTO actividad de una tabla de comercio en el período.
type TableActivityDTO struct {
	TableID      string          `json:"tableId"`
	TableName    string          `json:"tableName"`
	TableType    string          `json:"tableType"`
	Transactions int64           `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DashboardResponse resumen del dashboard de la plataforma.
type DashboardResponse struct {
	TotalTables int64              `json:"totalTables"`
	TotalRows   int64              `json:"totalRows"`
	TotalUsers  int64              `json:"totalUsers"`
	Sales       SalesStatsDTO      `json:"sales"`
	Rentals     RentalStatsDTO     `json:"rentals"`
	TopTables   []TableActivityDTO `json:"topTables"`
}
