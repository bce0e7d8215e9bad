package repository

import (
	"context"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

// ConfigRepository puerto de lectura de la configuración financiera del tenant.
type ConfigRepository interface {
	// Get devuelve la configuración viva. Si la empresa nunca configuró nada
	// devuelve un CompanyConfig con los tres valores inválidos (no un error).
	Get(ctx context.Context, companyID string) (*entity.CompanyConfig, error)
	// GetHistory devuelve todos los snapshots de configuración de la empresa.
	GetHistory(ctx context.Context, companyID string) ([]entity.ConfigSnapshot, error)
}
