package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para Product.
const (
	ProductStatusActive       = "active"
	ProductStatusInactive     = "inactive"
	ProductStatusDiscontinued = "discontinued"
)

// Unidades de peso/dimensión aceptadas.
var WeightUnits = []string{"kg", "g", "mg", "lb", "oz", "ton", "mm", "cm", "m", "in", "ft"}

// DefaultReorderLevel nivel de reorden por defecto al crear un producto.
const DefaultReorderLevel int64 = 10

// Product representa un SKU del catálogo con su saldo actual y contadores acumulados.
// Quantity, TotalIn, TotalOut y LastMovementDate solo los muta el protocolo de movimientos;
// el invariante Quantity = cantidad_inicial + TotalIn - TotalOut se mantiene siempre y
// Quantity nunca baja de cero.
type Product struct {
	ID               string
	SKU              string // único, en mayúsculas y sin espacios alrededor
	Name             string
	Description      string
	Category         string
	Quantity         int64
	ReorderLevel     int64
	TotalIn          int64
	TotalOut         int64 // acumula salidas y daños
	LastMovementDate time.Time
	UnitPrice        *decimal.Decimal // opcional, >= 0
	Supplier         string
	Location         string
	WeightValue      *decimal.Decimal // opcional, >= 0
	WeightUnit       string           // ver WeightUnits; por defecto kg
	Status           string           // active, inactive, discontinued
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsLowStock indica si el producto está en o por debajo de su nivel de reorden.
func (p *Product) IsLowStock() bool {
	return p.Status == ProductStatusActive && p.Quantity <= p.ReorderLevel
}

// ValidStatus verifica que el estado sea uno de los permitidos.
func ValidStatus(s string) bool {
	return s == ProductStatusActive || s == ProductStatusInactive || s == ProductStatusDiscontinued
}

// ValidWeightUnit verifica que la unidad sea una de las permitidas.
func ValidWeightUnit(u string) bool {
	for _, w := range WeightUnits {
		if u == w {
			return true
		}
	}
	return false
}
