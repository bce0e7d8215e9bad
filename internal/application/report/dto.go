package report

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
)

// ToDTO convierte el reporte al shape de respuesta HTTP.
// El redondeo a 2 decimales ocurre solo acá, en el borde: los cálculos
// internos conservan toda la precisión.
func ToDTO(r *PeriodReport) *dto.PeriodReportDTO {
	out := &dto.PeriodReportDTO{
		Period: dto.PeriodDTO{
			StartDate: r.StartDate.Format("2006-01-02"),
			EndDate:   r.EndDate.Format("2006-01-02"),
		},
		ConversionRate: r.ConversionRate.Round(4),
		AverageTicket:  r.AverageTicket.Round(2),
		Notes:          r.Notes,
	}

	out.StatusTotals = make([]dto.StatusTotalDTO, 0, len(r.StatusTotals))
	for _, st := range r.StatusTotals {
		out.StatusTotals = append(out.StatusTotals, dto.StatusTotalDTO{
			Status:     st.Status,
			Count:      st.Count,
			TotalValue: st.TotalValue.Round(2),
		})
	}

	out.TimeSeries = make([]dto.DailyPointDTO, 0, len(r.TimeSeries))
	for _, p := range r.TimeSeries {
		out.TimeSeries = append(out.TimeSeries, dto.DailyPointDTO{
			Date:     p.Date.Format("2006-01-02"),
			Open:     p.Open.Round(2),
			Accepted: p.Accepted.Round(2),
			Rejected: p.Rejected.Round(2),
			Expired:  p.Expired.Round(2),
		})
	}

	out.ClientRanking = make([]dto.ClientRankDTO, 0, len(r.ClientRanking))
	for i, c := range r.ClientRanking {
		out.ClientRanking = append(out.ClientRanking, dto.ClientRankDTO{
			Rank:       i + 1,
			ClientID:   c.ClientID,
			ClientName: c.ClientName,
			Count:      c.Count,
			TotalValue: c.TotalValue.Round(2),
		})
	}

	out.ProductRanking = make([]dto.ProductRankDTO, 0, len(r.ProductRanking))
	for i, p := range r.ProductRanking {
		out.ProductRanking = append(out.ProductRanking, dto.ProductRankDTO{
			Rank:        i + 1,
			Description: p.Description,
			Quantity:    p.Quantity,
			TotalValue:  p.TotalValue.Round(2),
		})
	}

	if r.Profitability != nil {
		p := r.Profitability
		out.Profitability = &dto.ProfitabilityDTO{
			EligibleQuotes:  p.EligibleQuotes,
			MaterialRevenue: p.MaterialRevenue.Round(2),
			LaborRevenue:    p.LaborRevenue.Round(2),
			MaterialCost:    p.MaterialCost.Round(2),
			LaborCost:       p.LaborCost.Round(2),
			MaterialTax:     p.MaterialTax.Round(2),
			LaborTax:        p.LaborTax.Round(2),
			MaterialMargin:  p.MaterialMargin.Round(2),
			LaborMargin:     p.LaborMargin.Round(2),
			TotalMargin:     p.TotalMargin.Round(2),
		}
	}

	if r.NetProfit != nil {
		n := r.NetProfit
		out.NetProfit = &dto.NetProfitDTO{
			RevenueAccepted:   n.RevenueAccepted.Round(2),
			Taxes:             n.Taxes.Round(2),
			ApproximateTaxes:  n.ApproximateTaxes,
			CostOfGoods:       roundedPtr(n.CostOfGoods),
			ProratedFixedCost: roundedPtr(n.ProratedFixedCost),
			NetProfit:         n.NetProfit.Round(2),
		}
	}

	return out
}

func roundedPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal.Round(2)
	return &v
}
