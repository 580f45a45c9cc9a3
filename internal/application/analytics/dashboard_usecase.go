// Package analytics contiene los casos de uso read-only del dashboard:
// agregados derivados del catálogo y del libro de movimientos.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventorysync-api/internal/application/dto"
	"github.com/jhoicas/inventorysync-api/internal/domain/repository"
)

const (
	recentMovementsDays = 7 // ventana de "movimientos recientes" en stats
	defaultTrendDays    = 7
	maxTrendDays        = 90
)

// DashboardUseCase genera estadísticas, tendencias y ranking de SKUs.
// Fuente de datos: DashboardRepository (consultas read-only); no accede
// a las tablas directamente.
type DashboardUseCase struct {
	repo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// GetStats construye el DashboardStatsDTO.
//
// Cuatro consultas en paralelo:
//  1. CountProducts        → total, activos, bajo stock
//  2. TotalInventoryValue  → Σ quantity × unit_price (activos)
//  3. CountMovementsSince  → movimientos de los últimos 7 días
//  4. CountMovementsByType → conteo histórico in/out/damage
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	type countsResult struct {
		counts repository.ProductCounts
		err    error
	}
	type valueResult struct {
		value decimal.Decimal
		err   error
	}
	type recentResult struct {
		n   int64
		err error
	}
	type typesResult struct {
		counts repository.MovementTypeCounts
		err    error
	}

	countsCh := make(chan countsResult, 1)
	valueCh := make(chan valueResult, 1)
	recentCh := make(chan recentResult, 1)
	typesCh := make(chan typesResult, 1)

	since := time.Now().AddDate(0, 0, -recentMovementsDays)

	go func() {
		c, err := uc.repo.CountProducts(ctx)
		countsCh <- countsResult{c, err}
	}()
	go func() {
		v, err := uc.repo.TotalInventoryValue(ctx)
		valueCh <- valueResult{v, err}
	}()
	go func() {
		n, err := uc.repo.CountMovementsSince(ctx, since)
		recentCh <- recentResult{n, err}
	}()
	go func() {
		c, err := uc.repo.CountMovementsByType(ctx)
		typesCh <- typesResult{c, err}
	}()

	counts := <-countsCh
	value := <-valueCh
	recent := <-recentCh
	types := <-typesCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: conteo de productos: %w", counts.err)
	}
	if value.err != nil {
		return nil, fmt.Errorf("dashboard: valor del inventario: %w", value.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos recientes: %w", recent.err)
	}
	if types.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos por tipo: %w", types.err)
	}

	return &dto.DashboardStatsDTO{
		TotalProducts:    counts.counts.Total,
		ActiveProducts:   counts.counts.Active,
		LowStockProducts: counts.counts.LowStock,
		TotalValue:       value.value.Round(2),
		RecentMovements:  recent.n,
		MovementTypes: dto.MovementTypeCountsDTO{
			In:     types.counts.In,
			Out:    types.counts.Out,
			Damage: types.counts.Damage,
		},
	}, nil
}

// GetTrends agregados por día y tipo de los últimos `days` días (por defecto 7,
// máximo 90), ordenados por fecha ascendente.
func (uc *DashboardUseCase) GetTrends(ctx context.Context, days int) ([]dto.TrendPointDTO, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}
	from := time.Now().AddDate(0, 0, -days)
	buckets, err := uc.repo.GetTrends(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("dashboard: tendencias: %w", err)
	}
	points := make([]dto.TrendPointDTO, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, dto.TrendPointDTO{
			Date:          b.Day.Format("2006-01-02"),
			Type:          b.Type,
			Count:         b.Count,
			TotalQuantity: b.TotalQuantity,
		})
	}
	return points, nil
}

// GetTopSKUs productos activos ordenados por unidades salidas (type = out),
// de mayor a menor.
func (uc *DashboardUseCase) GetTopSKUs(ctx context.Context) ([]dto.TopSKUDTO, error) {
	results, err := uc.repo.GetTopSKUs(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: top SKUs: %w", err)
	}
	skus := make([]dto.TopSKUDTO, 0, len(results))
	for _, r := range results {
		skus = append(skus, dto.TopSKUDTO{
			ProductID:     r.ProductID,
			SKU:           r.SKU,
			Name:          r.Name,
			Category:      r.Category,
			Quantity:      r.Quantity,
			TotalQuantity: r.TotalQuantity,
			Movements:     r.Movements,
		})
	}
	return skus, nil
}
