package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

var _ repository.ItemHistoryRepository = (*ItemHistoryRepo)(nil)

// ItemHistoryRepo lectura del historial de valuación de ítems.
// La tabla es append-only: acá no hay INSERT ni UPDATE, las escrituras las
// hace el editor de catálogo al cambiar un precio o costo.
type ItemHistoryRepo struct {
	pool *pgxpool.Pool
}

// NewItemHistoryRepository construye el adaptador de historial.
func NewItemHistoryRepository(pool *pgxpool.Pool) *ItemHistoryRepo {
	return &ItemHistoryRepo{pool: pool}
}

// ListByCompany devuelve todos los snapshots de ítems de la empresa, sin
// filtrar por fecha: el resolver punto-en-el-tiempo filtra en memoria.
func (r *ItemHistoryRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.ItemSnapshot, error) {
	const query = `
	SELECT id, company_id, item_id, effective_date, created_at,
	       unit_sale_price, unit_sale_labor_price,
	       unit_material_cost, unit_labor_cost
	FROM item_valuation_history
	WHERE company_id = $1`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("itemHistory.ListByCompany: %w", err)
	}
	defer rows.Close()

	var snaps []entity.ItemSnapshot
	for rows.Next() {
		var s entity.ItemSnapshot
		if err := rows.Scan(
			&s.ID, &s.CompanyID, &s.ItemID, &s.EffectiveDate, &s.CreatedAt,
			&s.UnitSalePrice, &s.UnitSaleLaborPrice,
			&s.UnitMaterialCost, &s.UnitLaborCost,
		); err != nil {
			return nil, fmt.Errorf("itemHistory.ListByCompany scan: %w", err)
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
