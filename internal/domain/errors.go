package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrQuotaExceeded el plan del tenant no permite crear más registros de este tipo.
	ErrQuotaExceeded   = errors.New("límite del plan alcanzado")
	ErrFeatureDisabled = errors.New("función no incluida en el plan")
	ErrNothingToPay    = errors.New("la factura no tiene saldo pendiente")
)
