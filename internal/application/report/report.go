// Package report construye el reporte de rentabilidad de un período:
// totales por estado, serie diaria, rankings y utilidad de la empresa,
// reconstruyendo costos e impuestos a la fecha de emisión de cada cotización.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

// PeriodReport reporte de un período. Objeto de valor derivado: se construye
// fresco en cada consulta y nunca se cachea, para que siempre refleje las
// últimas ediciones del catálogo y las correcciones históricas.
type PeriodReport struct {
	CompanyID string
	StartDate time.Time
	EndDate   time.Time

	StatusTotals   []StatusTotal   // orden fijo: ABIERTA, ACEPTADA, RECHAZADA, VENCIDA
	ConversionRate decimal.Decimal // aceptadas / total; 0 si el período está vacío
	AverageTicket  decimal.Decimal // ingreso aceptado / cant. aceptadas; 0 si no hay

	TimeSeries []DailyPoint // un punto por día calendario, sin huecos

	ClientRanking  []ClientRank  // top N por valor aceptado
	ProductRanking []ProductRank // top N por valor de línea aceptado

	// Profitability solo presente cuando al menos una cotización aceptada fue
	// elegible para análisis detallado; nil en lugar de ceros.
	Profitability *ProfitabilityBlock

	// NetProfit solo presente cuando el tenant configuró impuestos o costo
	// fijo; sin eso no hay nada que mostrar más allá del ingreso bruto.
	NetProfit *NetProfitBlock

	// Notes avisos de precisión reducida (ej. impuestos aproximados por
	// promedio de tasas cuando faltan costos por línea).
	Notes []string

	// Rows una fila por cotización del período, en orden de emisión;
	// insumo directo del exportador CSV/XLSX.
	Rows []QuoteRow
}

// StatusTotal conteo y suma de valores por estado.
type StatusTotal struct {
	Status     string
	Count      int
	TotalValue decimal.Decimal
}

// DailyPoint sumas por estado de un día calendario.
type DailyPoint struct {
	Date     time.Time // 00:00 del día
	Open     decimal.Decimal
	Accepted decimal.Decimal
	Rejected decimal.Decimal
	Expired  decimal.Decimal
}

// ClientRank posición de un cliente en el ranking de valor aceptado.
type ClientRank struct {
	ClientID   string
	ClientName string
	Count      int
	TotalValue decimal.Decimal
}

// ProductRank posición de un producto/servicio en el ranking de líneas aceptadas.
// La agrupación es por descripción normalizada; Description conserva la
// primera forma vista para mostrar.
type ProductRank struct {
	Description string
	Quantity    decimal.Decimal
	TotalValue  decimal.Decimal
}

// ProfitabilityBlock sumas de rentabilidad sobre las cotizaciones aceptadas
// elegibles para análisis detallado (todas sus líneas con costo resuelto).
type ProfitabilityBlock struct {
	EligibleQuotes  int
	MaterialRevenue decimal.Decimal
	LaborRevenue    decimal.Decimal
	MaterialCost    decimal.Decimal
	LaborCost       decimal.Decimal
	MaterialTax     decimal.Decimal
	LaborTax        decimal.Decimal
	MaterialMargin  decimal.Decimal
	LaborMargin     decimal.Decimal
	TotalMargin     decimal.Decimal
}

// NetProfitBlock utilidad neta de la empresa en el período.
// Fórmula: ingreso aceptado − costo de ventas (si se conoce) − impuestos −
// costo fijo prorrateado (si está configurado).
type NetProfitBlock struct {
	RevenueAccepted decimal.Decimal
	// CostOfGoods válido solo cuando todas las cotizaciones aceptadas
	// resolvieron costos por línea; si no, la utilidad se calcula sin costo
	// de ventas y con impuestos aproximados (ver ApproximateTaxes).
	CostOfGoods decimal.NullDecimal
	Taxes       decimal.Decimal
	// ApproximateTaxes true cuando los impuestos se estimaron aplicando el
	// promedio de las tasas configuradas sobre el ingreso total aceptado.
	ApproximateTaxes bool
	// ProratedFixedCost costo fijo mensual repartido por días del período;
	// si la configuración cambió dentro del período, cada subintervalo se
	// prorratea contra su costo fijo históricamente vigente.
	ProratedFixedCost decimal.NullDecimal
	NetProfit         decimal.Decimal
}

// QuoteRow fila plana de una cotización para exportación.
type QuoteRow struct {
	QuoteID      string
	EmissionDate time.Time
	ClientName   string
	Status       string
	TotalValue   decimal.Decimal
	// HasMargins true solo para cotizaciones con desglose detallado completo;
	// cuando es false las columnas de margen se exportan vacías, no en cero.
	HasMargins     bool
	MaterialMargin decimal.Decimal
	LaborMargin    decimal.Decimal
	TotalMargin    decimal.Decimal
}

// statusOrder orden estable de los estados en totales y series.
var statusOrder = []string{
	entity.QuoteStatusOpen,
	entity.QuoteStatusAccepted,
	entity.QuoteStatusRejected,
	entity.QuoteStatusExpired,
}
