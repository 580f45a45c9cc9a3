package repository

import (
	"time"

	"github.com/jhoicas/inventorysync-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos del libro.
type MovementFilter struct {
	Type      string
	ProductID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository define el puerto de persistencia del libro de movimientos (DIP).
// El libro es append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.EnrichedMovement, error)
	List(filter MovementFilter) ([]*entity.EnrichedMovement, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.EnrichedMovement, error)
}
