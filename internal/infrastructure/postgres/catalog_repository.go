package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura del catálogo de ítems (registros vivos).
type CatalogRepo struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository construye el adaptador de catálogo.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// ListByCompany devuelve el catálogo completo de la empresa.
func (r *CatalogRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.CatalogItem, error) {
	const query = `
	SELECT id, company_id, COALESCE(category_id, ''), description,
	       unit_sale_price, unit_sale_labor_price,
	       unit_material_cost, unit_labor_cost,
	       created_at, updated_at
	FROM catalog_items
	WHERE company_id = $1
	ORDER BY id`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("catalog.ListByCompany: %w", err)
	}
	defer rows.Close()

	var items []entity.CatalogItem
	for rows.Next() {
		var it entity.CatalogItem
		if err := rows.Scan(
			&it.ID, &it.CompanyID, &it.CategoryID, &it.Description,
			&it.UnitSalePrice, &it.UnitSaleLaborPrice,
			&it.UnitMaterialCost, &it.UnitLaborCost,
			&it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("catalog.ListByCompany scan: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
