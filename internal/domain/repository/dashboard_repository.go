package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProductCounts conteos del catálogo para el dashboard.
type ProductCounts struct {
	Total    int64
	Active   int64
	LowStock int64
}

// MovementTypeCounts conteo histórico de movimientos por tipo.
type MovementTypeCounts struct {
	In     int64
	Out    int64
	Damage int64
}

// TrendBucket agregado de movimientos por día y tipo.
type TrendBucket struct {
	Day           time.Time
	Type          string
	Count         int64
	TotalQuantity int64
}

// TopSKUResult SKU activo rankeado por unidades salidas (type = out).
type TopSKUResult struct {
	ProductID     string
	SKU           string
	Name          string
	Category      string
	Quantity      int64
	TotalQuantity int64 // suma de cantidades "out"
	Movements     int64 // número de movimientos "out"
}

// DashboardRepository consultas read-only de agregación sobre catálogo y libro.
// Son proyecciones derivadas: no imponen invariantes propios.
type DashboardRepository interface {
	CountProducts(ctx context.Context) (ProductCounts, error)
	TotalInventoryValue(ctx context.Context) (decimal.Decimal, error)
	CountMovementsSince(ctx context.Context, since time.Time) (int64, error)
	CountMovementsByType(ctx context.Context) (MovementTypeCounts, error)
	GetTrends(ctx context.Context, from time.Time) ([]TrendBucket, error)
	GetTopSKUs(ctx context.Context) ([]TopSKUResult, error)
}
