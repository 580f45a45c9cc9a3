package dto

import "github.com/shopspring/decimal"

// MovementTypeCountsDTO conteo histórico de movimientos por tipo.
type MovementTypeCountsDTO struct {
	In     int64 `json:"in"`
	Out    int64 `json:"out"`
	Damage int64 `json:"damage"`
}

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TotalProducts    int64                 `json:"total_products"`
	ActiveProducts   int64                 `json:"active_products"`
	LowStockProducts int64                 `json:"low_stock_products"`
	TotalValue       decimal.Decimal       `json:"total_value"` // Σ quantity × unit_price (activos)
	RecentMovements  int64                 `json:"recent_movements"` // últimos 7 días
	MovementTypes    MovementTypeCountsDTO `json:"movement_types"`
}

// TrendPointDTO agregado de movimientos de un día y tipo.
type TrendPointDTO struct {
	Date          string `json:"date"` // YYYY-MM-DD
	Type          string `json:"type"`
	Count         int64  `json:"count"`
	TotalQuantity int64  `json:"total_quantity"`
}

// TopSKUDTO SKU activo rankeado por unidades salidas.
type TopSKUDTO struct {
	ProductID     string `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Quantity      int64  `json:"quantity"`
	TotalQuantity int64  `json:"total_quantity"`
	Movements     int64  `json:"movements"`
}
