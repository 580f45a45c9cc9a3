package dto

import "time"

// CreateMovementRequest body para POST /api/stock-movements y las rutas
// /api/stock/{in,out,damage} (en esas rutas el type lo fija la ruta).
// No acepta fecha: el servidor captura un único "ahora" por operación.
type CreateMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type,omitempty"`
	Quantity  int64  `json:"quantity"`
	Reason    string `json:"reason"`
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// MovementProductDTO resumen del producto resuelto para mostrar.
type MovementProductDTO struct {
	ID       string `json:"id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// MovementActorDTO resumen del usuario que ejecutó el movimiento.
type MovementActorDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// MovementResponse una entrada del libro con producto y actor resueltos.
type MovementResponse struct {
	ID            string             `json:"id"`
	Product       MovementProductDTO `json:"product"`
	Type          string             `json:"type"`
	Quantity      int64              `json:"quantity"`
	Reason        string             `json:"reason"`
	Reference     string             `json:"reference,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	PerformedBy   MovementActorDTO   `json:"performed_by"`
	Date          time.Time          `json:"date"`
	PreviousStock int64              `json:"previous_stock"`
	NewStock      int64              `json:"new_stock"`
	CreatedAt     time.Time          `json:"created_at"`
}

// UpdatedProductDTO resumen del producto tras aplicar un movimiento.
// Solo se incluye el contador que cambió (total_in para entradas,
// total_out para salidas y daños).
type UpdatedProductDTO struct {
	ID               string    `json:"id"`
	SKU              string    `json:"sku"`
	Name             string    `json:"name"`
	Quantity         int64     `json:"quantity"`
	TotalIn          *int64    `json:"total_in,omitempty"`
	TotalOut         *int64    `json:"total_out,omitempty"`
	LastMovementDate time.Time `json:"last_movement_date"`
}

// ApplyMovementResponse respuesta de las rutas /api/stock/{in,out,damage}.
type ApplyMovementResponse struct {
	Success        bool              `json:"success"`
	Message        string            `json:"message"`
	Movement       MovementResponse  `json:"movement"`
	UpdatedProduct UpdatedProductDTO `json:"updated_product"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
