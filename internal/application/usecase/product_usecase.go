package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventorysync-api/internal/application/dto"
	"github.com/jhoicas/inventorysync-api/internal/domain"
	"github.com/jhoicas/inventorysync-api/internal/domain/entity"
	"github.com/jhoicas/inventorysync-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD del catálogo. Quantity, TotalIn, TotalOut y
// LastMovementDate no se editan aquí: los muta solo el protocolo de movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// NormalizeSKU normaliza un SKU: sin espacios alrededor y en mayúsculas.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// Create crea un producto nuevo. El SKU se normaliza y debe ser único;
// los contadores inician en 0 y la cantidad inicial puede ser > 0.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := NormalizeSKU(in.SKU)
	if sku == "" {
		return nil, domain.MissingField("sku")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.MissingField("name")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, domain.MissingField("category")
	}
	if in.Quantity < 0 {
		return nil, &domain.ValidationError{Field: "quantity", Detail: "no puede ser negativa"}
	}
	reorderLevel := entity.DefaultReorderLevel
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, &domain.ValidationError{Field: "reorder_level", Detail: "no puede ser negativo"}
		}
		reorderLevel = *in.ReorderLevel
	}
	if in.UnitPrice != nil && in.UnitPrice.LessThan(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "unit_price", Detail: "no puede ser negativo"}
	}
	if in.WeightValue != nil && in.WeightValue.LessThan(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "weight_value", Detail: "no puede ser negativo"}
	}
	weightUnit := in.WeightUnit
	if weightUnit == "" {
		weightUnit = "kg"
	}
	if !entity.ValidWeightUnit(weightUnit) {
		return nil, &domain.ValidationError{Field: "weight_unit", Detail: "unidad no permitida"}
	}

	existing, err := uc.repo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateSKU
	}

	now := time.Now()
	product := &entity.Product{
		ID:               uuid.New().String(),
		SKU:              sku,
		Name:             strings.TrimSpace(in.Name),
		Description:      strings.TrimSpace(in.Description),
		Category:         strings.TrimSpace(in.Category),
		Quantity:         in.Quantity,
		ReorderLevel:     reorderLevel,
		TotalIn:          0,
		TotalOut:         0,
		LastMovementDate: now,
		UnitPrice:        in.UnitPrice,
		Supplier:         strings.TrimSpace(in.Supplier),
		Location:         strings.TrimSpace(in.Location),
		WeightValue:      in.WeightValue,
		WeightUnit:       weightUnit,
		Status:           entity.ProductStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos descriptivos y el estado de un producto.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, &domain.ValidationError{Field: "reorder_level", Detail: "no puede ser negativo"}
		}
		product.ReorderLevel = *in.ReorderLevel
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.LessThan(decimal.Zero) {
			return nil, &domain.ValidationError{Field: "unit_price", Detail: "no puede ser negativo"}
		}
		product.UnitPrice = in.UnitPrice
	}
	if in.Supplier != nil {
		product.Supplier = strings.TrimSpace(*in.Supplier)
	}
	if in.Location != nil {
		product.Location = strings.TrimSpace(*in.Location)
	}
	if in.WeightValue != nil {
		if in.WeightValue.LessThan(decimal.Zero) {
			return nil, &domain.ValidationError{Field: "weight_value", Detail: "no puede ser negativo"}
		}
		product.WeightValue = in.WeightValue
	}
	if in.WeightUnit != nil {
		if !entity.ValidWeightUnit(*in.WeightUnit) {
			return nil, &domain.ValidationError{Field: "weight_unit", Detail: "unidad no permitida"}
		}
		product.WeightUnit = *in.WeightUnit
	}
	if in.Status != nil {
		if !entity.ValidStatus(*in.Status) {
			return nil, &domain.ValidationError{Field: "status", Detail: "debe ser active, inactive o discontinued"}
		}
		product.Status = *in.Status
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos del más reciente al más antiguo.
func (uc *ProductUseCase) List(limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListLowStock productos activos con cantidad en o por debajo del nivel de reorden.
func (uc *ProductUseCase) ListLowStock() ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete elimina un producto por ID (gestión de catálogo; el libro conserva
// sus movimientos históricos). Devuelve ErrProductNotFound si no existe.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:               p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		Description:      p.Description,
		Category:         p.Category,
		Quantity:         p.Quantity,
		ReorderLevel:     p.ReorderLevel,
		TotalIn:          p.TotalIn,
		TotalOut:         p.TotalOut,
		LastMovementDate: p.LastMovementDate,
		UnitPrice:        p.UnitPrice,
		Supplier:         p.Supplier,
		Location:         p.Location,
		WeightValue:      p.WeightValue,
		WeightUnit:       p.WeightUnit,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
