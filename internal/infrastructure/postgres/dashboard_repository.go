package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventorysync-api/internal/domain/entity"
	"github.com/jhoicas/inventorysync-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el dashboard.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador de agregaciones.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

// CountProducts conteos del catálogo: total, activos y bajo stock (activos con
// quantity <= reorder_level) en una sola pasada.
func (r *DashboardRepo) CountProducts(ctx context.Context) (repository.ProductCounts, error) {
	const query = `
	SELECT
	    COUNT(*)                                                            AS total,
	    COUNT(*) FILTER (WHERE status = 'active')                           AS active,
	    COUNT(*) FILTER (WHERE status = 'active'
	                       AND quantity <= reorder_level)                   AS low_stock
	FROM products`
	var c repository.ProductCounts
	if err := r.pool.QueryRow(ctx, query).Scan(&c.Total, &c.Active, &c.LowStock); err != nil {
		return repository.ProductCounts{}, fmt.Errorf("dashboard.CountProducts: %w", err)
	}
	return c, nil
}

// TotalInventoryValue Σ quantity × unit_price sobre productos activos.
// Productos sin precio cuentan como 0.
func (r *DashboardRepo) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(quantity * COALESCE(unit_price, 0)), 0)
	FROM products
	WHERE status = 'active'`
	var v decimal.Decimal
	if err := r.pool.QueryRow(ctx, query).Scan(&v); err != nil {
		return decimal.Zero, fmt.Errorf("dashboard.TotalInventoryValue: %w", err)
	}
	return v, nil
}

// CountMovementsSince número de movimientos registrados desde `since`.
func (r *DashboardRepo) CountMovementsSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM stock_movements WHERE created_at >= $1`, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("dashboard.CountMovementsSince: %w", err)
	}
	return n, nil
}

// CountMovementsByType conteo histórico de movimientos in/out/damage.
func (r *DashboardRepo) CountMovementsByType(ctx context.Context) (repository.MovementTypeCounts, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE type = 'in')     AS ins,
	    COUNT(*) FILTER (WHERE type = 'out')    AS outs,
	    COUNT(*) FILTER (WHERE type = 'damage') AS damages
	FROM stock_movements`
	var c repository.MovementTypeCounts
	if err := r.pool.QueryRow(ctx, query).Scan(&c.In, &c.Out, &c.Damage); err != nil {
		return repository.MovementTypeCounts{}, fmt.Errorf("dashboard.CountMovementsByType: %w", err)
	}
	return c, nil
}

// GetTrends movimientos desde `from` agrupados por día y tipo: número de
// movimientos y unidades totales, en orden cronológico.
func (r *DashboardRepo) GetTrends(ctx context.Context, from time.Time) ([]repository.TrendBucket, error) {
	const query = `
	SELECT
	    date_trunc('day', date) AS day,
	    type,
	    COUNT(*)                AS movement_count,
	    SUM(quantity)           AS total_quantity
	FROM stock_movements
	WHERE date >= $1
	GROUP BY day, type
	ORDER BY day ASC, type ASC`
	rows, err := r.pool.Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("dashboard.GetTrends: %w", err)
	}
	defer rows.Close()

	var buckets []repository.TrendBucket
	for rows.Next() {
		var b repository.TrendBucket
		if err := rows.Scan(&b.Day, &b.Type, &b.Count, &b.TotalQuantity); err != nil {
			return nil, fmt.Errorf("dashboard.GetTrends scan: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// GetTopSKUs productos activos ordenados por unidades salidas (type = out).
// Productos sin salidas aparecen al final con 0.
func (r *DashboardRepo) GetTopSKUs(ctx context.Context) ([]repository.TopSKUResult, error) {
	const query = `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    p.category,
	    p.quantity,
	    COALESCE(SUM(m.quantity), 0) AS total_quantity,
	    COUNT(m.id)                  AS movements
	FROM products p
	LEFT JOIN stock_movements m ON m.product_id = p.id AND m.type = $1
	WHERE p.status = 'active'
	GROUP BY p.id, p.sku, p.name, p.category, p.quantity
	ORDER BY total_quantity DESC, p.sku ASC`
	rows, err := r.pool.Query(ctx, query, entity.MovementTypeOut)
	if err != nil {
		return nil, fmt.Errorf("dashboard.GetTopSKUs: %w", err)
	}
	defer rows.Close()

	var results []repository.TopSKUResult
	for rows.Next() {
		var t repository.TopSKUResult
		if err := rows.Scan(&t.ProductID, &t.SKU, &t.Name, &t.Category, &t.Quantity,
			&t.TotalQuantity, &t.Movements); err != nil {
			return nil, fmt.Errorf("dashboard.GetTopSKUs scan: %w", err)
		}
		results = append(results, t)
	}
	return results, rows.Err()
}
