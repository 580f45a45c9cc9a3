package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Category     string           `json:"category"`
	Quantity     int64            `json:"quantity,omitempty"`
	ReorderLevel *int64           `json:"reorder_level,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Supplier     string           `json:"supplier,omitempty"`
	Location     string           `json:"location,omitempty"`
	WeightValue  *decimal.Decimal `json:"weight_value,omitempty"`
	WeightUnit   string           `json:"weight_unit,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/{id}.
// No expone quantity, total_in, total_out ni last_movement_date:
// esos campos solo los muta el protocolo de movimientos.
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Category     *string          `json:"category,omitempty"`
	ReorderLevel *int64           `json:"reorder_level,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Supplier     *string          `json:"supplier,omitempty"`
	Location     *string          `json:"location,omitempty"`
	WeightValue  *decimal.Decimal `json:"weight_value,omitempty"`
	WeightUnit   *string          `json:"weight_unit,omitempty"`
	Status       *string          `json:"status,omitempty"`
}

// ProductResponse representación completa de un producto.
type ProductResponse struct {
	ID               string           `json:"id"`
	SKU              string           `json:"sku"`
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	Category         string           `json:"category"`
	Quantity         int64            `json:"quantity"`
	ReorderLevel     int64            `json:"reorder_level"`
	TotalIn          int64            `json:"total_in"`
	TotalOut         int64            `json:"total_out"`
	LastMovementDate time.Time        `json:"last_movement_date"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	Supplier         string           `json:"supplier,omitempty"`
	Location         string           `json:"location,omitempty"`
	WeightValue      *decimal.Decimal `json:"weight_value,omitempty"`
	WeightUnit       string           `json:"weight_unit,omitempty"`
	Status           string           `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
