package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicateSKU       = errors.New("ya existe un producto con ese SKU")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// ValidationError indica un campo faltante o con valor fuera de rango.
// Satisface errors.Is(err, ErrInvalidInput) para que los handlers mapeen a 400.
type ValidationError struct {
	Field  string // campo que falló (product_id, type, quantity, reason...)
	Detail string // motivo legible
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: campo %s: %s", e.Field, e.Detail)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// MissingField construye el error de campo requerido ausente.
func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Detail: "es requerido"}
}

// InsufficientStockError lleva el detalle disponible/solicitado para que el caller
// pueda mostrar un mensaje preciso. Satisface errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
