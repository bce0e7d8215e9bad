package dto

import "github.com/shopspring/decimal"

// ── Query parameters ──────────────────────────────────────────────────────────

// PeriodReportRequest parámetros para GET /api/reports/period.
type PeriodReportRequest struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD; por defecto primer día del mes actual
	EndDate   string `query:"end_date"`   // YYYY-MM-DD; por defecto hoy
}

// ── Reporte de período ────────────────────────────────────────────────────────

// PeriodDTO rango de fechas del reporte.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// StatusTotalDTO conteo y suma por estado de cotización.
type StatusTotalDTO struct {
	Status     string          `json:"status"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// DailyPointDTO sumas por estado de un día calendario (para graficar).
type DailyPointDTO struct {
	Date     string          `json:"date"` // YYYY-MM-DD
	Open     decimal.Decimal `json:"open"`
	Accepted decimal.Decimal `json:"accepted"`
	Rejected decimal.Decimal `json:"rejected"`
	Expired  decimal.Decimal `json:"expired"`
}

// ClientRankDTO posición en el ranking de clientes por valor aceptado.
type ClientRankDTO struct {
	Rank       int             `json:"rank"`
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ProductRankDTO posición en el ranking de productos/servicios.
type ProductRankDTO struct {
	Rank        int             `json:"rank"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// ProfitabilityDTO rentabilidad agregada de las aceptadas con análisis detallado.
type ProfitabilityDTO struct {
	EligibleQuotes  int             `json:"eligible_quotes"`
	MaterialRevenue decimal.Decimal `json:"material_revenue"`
	LaborRevenue    decimal.Decimal `json:"labor_revenue"`
	MaterialCost    decimal.Decimal `json:"material_cost"`
	LaborCost       decimal.Decimal `json:"labor_cost"`
	MaterialTax     decimal.Decimal `json:"material_tax"`
	LaborTax        decimal.Decimal `json:"labor_tax"`
	MaterialMargin  decimal.Decimal `json:"material_margin"`
	LaborMargin     decimal.Decimal `json:"labor_margin"`
	TotalMargin     decimal.Decimal `json:"total_margin"`
}

// NetProfitDTO utilidad neta de la empresa en el período.
// CostOfGoods y ProratedFixedCost son punteros: null significa "no disponible"
// o "no configurado", nunca cero.
type NetProfitDTO struct {
	RevenueAccepted   decimal.Decimal  `json:"revenue_accepted"`
	CostOfGoods       *decimal.Decimal `json:"cost_of_goods,omitempty"`
	Taxes             decimal.Decimal  `json:"taxes"`
	ApproximateTaxes  bool             `json:"approximate_taxes"`
	ProratedFixedCost *decimal.Decimal `json:"prorated_fixed_cost,omitempty"`
	NetProfit         decimal.Decimal  `json:"net_profit"`
}

// PeriodReportDTO respuesta completa de GET /api/reports/period.
// Profitability y NetProfit se omiten (null) cuando no aplican, en lugar de
// mostrarse en cero.
type PeriodReportDTO struct {
	Period         PeriodDTO         `json:"period"`
	StatusTotals   []StatusTotalDTO  `json:"status_totals"`
	ConversionRate decimal.Decimal   `json:"conversion_rate"`
	AverageTicket  decimal.Decimal   `json:"average_ticket"`
	TimeSeries     []DailyPointDTO   `json:"time_series"`
	ClientRanking  []ClientRankDTO   `json:"client_ranking"`
	ProductRanking []ProductRankDTO  `json:"product_ranking"`
	Profitability  *ProfitabilityDTO `json:"profitability,omitempty"`
	NetProfit      *NetProfitDTO     `json:"net_profit,omitempty"`
	Notes          []string          `json:"notes,omitempty"`
}
