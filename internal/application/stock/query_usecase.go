package stock

import (
	"time"

	"github.com/jhoicas/inventorysync-api/internal/application/dto"
	"github.com/jhoicas/inventorysync-api/internal/domain/repository"
)

// MovementQueryUseCase proyecciones de solo lectura sobre el libro de movimientos.
// Lecturas repetidas sin movimientos intermedios devuelven resultados idénticos.
type MovementQueryUseCase struct {
	movRepo repository.StockMovementRepository
}

// NewMovementQueryUseCase construye el caso de uso de consulta.
func NewMovementQueryUseCase(movRepo repository.StockMovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movRepo: movRepo}
}

// ListFilter filtros de listado expuestos al handler.
type ListFilter struct {
	Type      string
	ProductID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// List lista movimientos filtrables por tipo, producto y rango de fechas,
// del más reciente al más antiguo.
func (uc *MovementQueryUseCase) List(filter ListFilter) (*dto.MovementListResponse, error) {
	list, err := uc.movRepo.List(repository.MovementFilter{
		Type:      filter.Type,
		ProductID: filter.ProductID,
		From:      filter.From,
		To:        filter.To,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Get obtiene una entrada del libro por ID. Devuelve nil si no existe.
func (uc *MovementQueryUseCase) Get(id string) (*dto.MovementResponse, error) {
	m, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	return toMovementResponse(m), nil
}

// ListByProduct historial de movimientos de un producto, del más reciente al más antiguo.
func (uc *MovementQueryUseCase) ListByProduct(productID string, limit, offset int) (*dto.MovementListResponse, error) {
	list, err := uc.movRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}
