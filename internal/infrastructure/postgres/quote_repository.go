package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo lectura de cotizaciones sobre PostgreSQL (solo consultas de reporte).
type QuoteRepo struct {
	pool *pgxpool.Pool
}

// NewQuoteRepository construye el adaptador de cotizaciones.
func NewQuoteRepository(pool *pgxpool.Pool) *QuoteRepo {
	return &QuoteRepo{pool: pool}
}

// GetByPeriod devuelve las cotizaciones emitidas en [start, end] con sus
// líneas. Dos consultas: cabeceras y luego líneas por lote; los catálogos de
// un tenant son chicos y el motor necesita todo en memoria de todos modos.
func (r *QuoteRepo) GetByPeriod(
	ctx context.Context,
	companyID string,
	start, end time.Time,
) ([]*entity.Quote, error) {
	const headQuery = `
	SELECT id, company_id, client_id, client_name, type, status,
	       emission_date, total_value, created_at, updated_at
	FROM quotes
	WHERE company_id = $1
	  AND emission_date >= $2
	  AND emission_date < $3::date + 1
	ORDER BY emission_date, id`

	rows, err := r.pool.Query(ctx, headQuery, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("quotes.GetByPeriod: %w", err)
	}
	defer rows.Close()

	var quotes []*entity.Quote
	byID := make(map[string]*entity.Quote)
	ids := make([]string, 0, 64)
	for rows.Next() {
		var q entity.Quote
		if err := rows.Scan(
			&q.ID, &q.CompanyID, &q.ClientID, &q.ClientName, &q.Type, &q.Status,
			&q.EmissionDate, &q.TotalValue, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("quotes.GetByPeriod scan: %w", err)
		}
		quotes = append(quotes, &q)
		byID[q.ID] = &q
		ids = append(ids, q.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quotes.GetByPeriod: %w", err)
	}
	if len(quotes) == 0 {
		return quotes, nil
	}

	const lineQuery = `
	SELECT id, quote_id, COALESCE(item_id, ''), COALESCE(category_id, ''),
	       description, quantity, unit_price, unit_sale_price,
	       unit_sale_labor_price, line_total
	FROM quote_lines
	WHERE quote_id = ANY($1)
	ORDER BY quote_id, id`

	lineRows, err := r.pool.Query(ctx, lineQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("quotes.GetByPeriod líneas: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var l entity.QuoteLine
		if err := lineRows.Scan(
			&l.ID, &l.QuoteID, &l.ItemID, &l.CategoryID,
			&l.Description, &l.Quantity, &l.UnitPrice, &l.UnitSalePrice,
			&l.UnitSaleLaborPrice, &l.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("quotes.GetByPeriod scan línea: %w", err)
		}
		if q, ok := byID[l.QuoteID]; ok {
			q.Lines = append(q.Lines, l)
		}
	}
	return quotes, lineRows.Err()
}
