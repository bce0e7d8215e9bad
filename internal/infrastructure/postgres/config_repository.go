package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

var _ repository.ConfigRepository = (*ConfigRepo)(nil)

// ConfigRepo lectura de la configuración financiera del tenant y su historial.
type ConfigRepo struct {
	pool *pgxpool.Pool
}

// NewConfigRepository construye el adaptador de configuración.
func NewConfigRepository(pool *pgxpool.Pool) *ConfigRepo {
	return &ConfigRepo{pool: pool}
}

// Get devuelve la configuración viva. Una empresa que nunca configuró nada
// obtiene un CompanyConfig con los tres valores inválidos, no un error.
func (r *ConfigRepo) Get(ctx context.Context, companyID string) (*entity.CompanyConfig, error) {
	const query = `
	SELECT company_id, material_tax_rate, service_tax_rate, fixed_monthly_cost, updated_at
	FROM company_configs
	WHERE company_id = $1`

	var c entity.CompanyConfig
	err := r.pool.QueryRow(ctx, query, companyID).Scan(
		&c.CompanyID, &c.MaterialTaxRate, &c.ServiceTaxRate, &c.FixedMonthlyCost, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.CompanyConfig{CompanyID: companyID}, nil
		}
		return nil, fmt.Errorf("config.Get: %w", err)
	}
	return &c, nil
}

// GetHistory devuelve todos los snapshots de configuración de la empresa.
func (r *ConfigRepo) GetHistory(ctx context.Context, companyID string) ([]entity.ConfigSnapshot, error) {
	const query = `
	SELECT id, company_id, effective_date, created_at,
	       material_tax_rate, service_tax_rate, fixed_monthly_cost
	FROM company_config_history
	WHERE company_id = $1`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("config.GetHistory: %w", err)
	}
	defer rows.Close()

	var snaps []entity.ConfigSnapshot
	for rows.Next() {
		var s entity.ConfigSnapshot
		if err := rows.Scan(
			&s.ID, &s.CompanyID, &s.EffectiveDate, &s.CreatedAt,
			&s.MaterialTaxRate, &s.ServiceTaxRate, &s.FixedMonthlyCost,
		); err != nil {
			return nil, fmt.Errorf("config.GetHistory scan: %w", err)
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
