package repository

import (
	"context"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

// CatalogRepository puerto de lectura del catálogo de ítems (registros vivos).
type CatalogRepository interface {
	// ListByCompany devuelve el catálogo completo de la empresa.
	// El motor lo indexa en memoria; los catálogos son chicos.
	ListByCompany(ctx context.Context, companyID string) ([]entity.CatalogItem, error)
}

// ItemHistoryRepository puerto de lectura del historial de valuación de ítems.
type ItemHistoryRepository interface {
	// ListByCompany devuelve todos los snapshots de la empresa, sin filtrar
	// por fecha — el resolver punto-en-el-tiempo filtra en memoria.
	ListByCompany(ctx context.Context, companyID string) ([]entity.ItemSnapshot, error)
}
