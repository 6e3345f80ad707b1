package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// El handler HTTP los traduce a códigos de respuesta; los casos de uso los
// retornan sin dejar efectos secundarios parciales.
var (
	ErrUnauthorized      = errors.New("no autorizado")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidState      = errors.New("transición de estado no permitida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
)
