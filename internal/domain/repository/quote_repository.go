package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

// QuoteRepository define el puerto de lectura de cotizaciones para reportes.
// El motor de reportes solo necesita el conjunto del período, con sus líneas.
type QuoteRepository interface {
	// GetByPeriod devuelve las cotizaciones emitidas en [start, end] (inclusive),
	// con líneas cargadas, sin filtrar por estado — el reporte agrupa por estado.
	GetByPeriod(ctx context.Context, companyID string, start, end time.Time) ([]*entity.Quote, error)
}
