package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrConcurrentUpdate   = errors.New("conflicto de actualización concurrente")
	ErrInactiveProduct    = errors.New("producto inactivo")
	ErrMirrorPending      = errors.New("réplica a caja general pendiente")
)

// InsufficientStockError detalla cuánto stock hay y cuánto se pidió.
// Envuelve ErrInsufficientStock para que errors.Is siga funcionando en los handlers.
type InsufficientStockError struct {
	ProductID string
	Have      int64
	Need      int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: hay %d, se necesitan %d", e.Have, e.Need)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
