package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientSupply = errors.New("cantidad disponible insuficiente")

	// ErrInvalidQuery es un caso particular de ErrInvalidInput: criterio de orden o filtro desconocido.
	ErrInvalidQuery = fmt.Errorf("consulta inválida: %w", ErrInvalidInput)
)
