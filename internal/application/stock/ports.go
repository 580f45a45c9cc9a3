package stock

import (
	"context"

	"github.com/jhoicas/inventorysync-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. La entrada del libro y la actualización del producto se vuelven
// visibles juntas o no se vuelven visibles: es el contrato de atomicidad del protocolo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
