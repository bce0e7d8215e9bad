package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrInvalidDateRange = errors.New("la fecha inicial es posterior a la fecha final")
	ErrNilInput         = errors.New("datos requeridos ausentes")
)
