package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventorysync-api/internal/domain/entity"
	"github.com/jhoicas/inventorysync-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// Columnas del movimiento más producto y actor resueltos por join. Los LEFT JOIN
// toleran productos borrados del catálogo y actores desconocidos: el libro nunca
// pierde filas por eso.
const enrichedMovementQuery = `
	SELECT m.id, m.product_id, m.type, m.quantity, m.reason, m.reference, m.notes,
		m.performed_by, m.date, m.previous_stock, m.new_stock, m.created_at,
		COALESCE(p.sku, ''), COALESCE(p.name, ''), COALESCE(p.category, ''),
		COALESCE(u.name, ''), COALESCE(u.email, '')
	FROM stock_movements m
	LEFT JOIN products p ON p.id = m.product_id
	LEFT JOIN users u ON u.id = m.performed_by`

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Append-only: solo Create y lecturas.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste una entrada del libro. Inmutable después de esto.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, reason, reference,
			notes, performed_by, date, previous_stock, new_stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.Reason, movement.Reference, movement.Notes, movement.PerformedBy,
		movement.Date, movement.PreviousStock, movement.NewStock, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento con producto y actor resueltos. nil, nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.EnrichedMovement, error) {
	query := enrichedMovementQuery + ` WHERE m.id = $1`
	var m entity.EnrichedMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Reason, &m.Reference, &m.Notes,
		&m.PerformedBy, &m.Date, &m.PreviousStock, &m.NewStock, &m.CreatedAt,
		&m.Product.SKU, &m.Product.Name, &m.Product.Category,
		&m.Actor.Name, &m.Actor.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	m.Product.ID = m.ProductID
	m.Actor.ID = m.PerformedBy
	return &m, nil
}

// List lista movimientos filtrables por tipo, producto y rango de fechas,
// del más reciente al más antiguo.
func (r *StockMovementRepo) List(filter repository.MovementFilter) ([]*entity.EnrichedMovement, error) {
	query := enrichedMovementQuery + ` WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Type != "" {
		query += fmt.Sprintf(" AND m.type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND m.product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND m.date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND m.date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY m.date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return r.scanMany(rows)
}

// ListByProduct historial de un producto, del más reciente al más antiguo.
func (r *StockMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.EnrichedMovement, error) {
	query := enrichedMovementQuery + ` WHERE m.product_id = $1 ORDER BY m.date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	return r.scanMany(rows)
}

func (r *StockMovementRepo) scanMany(rows pgx.Rows) ([]*entity.EnrichedMovement, error) {
	defer rows.Close()
	var list []*entity.EnrichedMovement
	for rows.Next() {
		var m entity.EnrichedMovement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Reason, &m.Reference, &m.Notes,
			&m.PerformedBy, &m.Date, &m.PreviousStock, &m.NewStock, &m.CreatedAt,
			&m.Product.SKU, &m.Product.Name, &m.Product.Category,
			&m.Actor.Name, &m.Actor.Email,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Product.ID = m.ProductID
		m.Actor.ID = m.PerformedBy
		list = append(list, &m)
	}
	return list, rows.Err()
}
