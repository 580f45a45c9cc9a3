package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIn     = "in"     // entrada
	MovementTypeOut    = "out"    // salida
	MovementTypeDamage = "damage" // baja por daño (acumula en TotalOut)
)

// ValidMovementType verifica que el tipo sea in, out o damage.
func ValidMovementType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeOut || t == MovementTypeDamage
}

// StockMovement es una entrada del libro de movimientos: inmutable una vez creada,
// no existe operación de actualización ni borrado. PreviousStock/NewStock son
// instantáneas del saldo del producto al momento del movimiento, de modo que el
// libro se puede auditar por replay sin consultar la fila viva del producto.
type StockMovement struct {
	ID            string
	ProductID     string // referencia débil al producto (se resuelve por join en lectura)
	Type          string // in, out, damage
	Quantity      int64  // >= 1
	Reason        string
	Reference     string
	Notes         string
	PerformedBy   string // ID del principal autenticado
	Date          time.Time
	PreviousStock int64
	NewStock      int64
	CreatedAt     time.Time
}

// MovementProduct resumen del producto resuelto para mostrar junto al movimiento.
type MovementProduct struct {
	ID       string
	SKU      string
	Name     string
	Category string
}

// MovementActor resumen del usuario que ejecutó el movimiento.
type MovementActor struct {
	ID    string
	Name  string
	Email string
}

// EnrichedMovement movimiento con producto y actor resueltos (proyección de lectura).
type EnrichedMovement struct {
	StockMovement
	Product MovementProduct
	Actor   MovementActor
}
