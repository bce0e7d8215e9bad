package report_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador-api/internal/application/report"
	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func nullDec(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

// quoteWith cotización DETALLADA con una sola línea, para armar escenarios.
func quoteWith(id, clientID, status, emission string, total int64, line entity.QuoteLine) *entity.Quote {
	return &entity.Quote{
		ID:           id,
		ClientID:     clientID,
		ClientName:   "Cliente " + clientID,
		Type:         entity.QuoteTypeDetailed,
		Status:       status,
		EmissionDate: day(emission),
		TotalValue:   dec(total),
		Lines:        []entity.QuoteLine{line},
	}
}

func TestBuildPeriodReport_RangoInvalido(t *testing.T) {
	_, err := report.BuildPeriodReport(report.Input{
		StartDate: day("2024-02-01"),
		EndDate:   day("2024-01-01"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestBuildPeriodReport_CotizacionNula(t *testing.T) {
	_, err := report.BuildPeriodReport(report.Input{
		Quotes:    []*entity.Quote{nil},
		StartDate: day("2024-01-01"),
		EndDate:   day("2024-01-31"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNilInput)
}

func TestBuildPeriodReport_PeriodoVacio(t *testing.T) {
	// Sin cotizaciones no hay error: reporte con ceros y secciones omitidas.
	r, err := report.BuildPeriodReport(report.Input{
		StartDate: day("2024-01-01"),
		EndDate:   day("2024-01-07"),
	})
	require.NoError(t, err)

	assert.True(t, r.ConversionRate.IsZero(), "conversión 0, nunca división por cero")
	assert.True(t, r.AverageTicket.IsZero())
	assert.Len(t, r.TimeSeries, 7, "un punto por día aunque no haya datos")
	assert.Nil(t, r.Profitability)
	assert.Nil(t, r.NetProfit, "sin configuración no hay utilidad neta que mostrar")
	assert.Empty(t, r.ClientRanking)
	assert.Empty(t, r.Rows)
}

func TestBuildPeriodReport_TotalesPorEstado(t *testing.T) {
	line := entity.QuoteLine{Description: "x", Quantity: dec(1), UnitSalePrice: dec(10), LineTotal: dec(10)}
	quotes := []*entity.Quote{
		quoteWith("q1", "c1", entity.QuoteStatusAccepted, "2024-05-02", 100, line),
		quoteWith("q2", "c1", entity.QuoteStatusAccepted, "2024-05-03", 300, line),
		quoteWith("q3", "c2", entity.QuoteStatusRejected, "2024-05-03", 50, line),
		quoteWith("q4", "c3", entity.QuoteStatusOpen, "2024-05-05", 80, line),
	}

	r, err := report.BuildPeriodReport(report.Input{
		Quotes:    quotes,
		StartDate: day("2024-05-01"),
		EndDate:   day("2024-05-07"),
	})
	require.NoError(t, err)

	byStatus := make(map[string]report.StatusTotal)
	for _, st := range r.StatusTotals {
		byStatus[st.Status] = st
	}
	assert.Equal(t, 2, byStatus[entity.QuoteStatusAccepted].Count)
	assert.True(t, byStatus[entity.QuoteStatusAccepted].TotalValue.Equal(dec(400)))
	assert.Equal(t, 1, byStatus[entity.QuoteStatusRejected].Count)
	assert.Equal(t, 0, byStatus[entity.QuoteStatusExpired].Count)

	// 2 aceptadas de 4 => 0.5
	assert.True(t, r.ConversionRate.Equal(decimal.NewFromFloat(0.5)), "conversión: %s", r.ConversionRate)
	// ticket promedio = 400 / 2
	assert.True(t, r.AverageTicket.Equal(dec(200)))
}

func TestBuildPeriodReport_SerieDiariaSinHuecos(t *testing.T) {
	line := entity.QuoteLine{Description: "x", Quantity: dec(1), UnitSalePrice: dec(10), LineTotal: dec(10)}
	quotes := []*entity.Quote{
		quoteWith("q1", "c1", entity.QuoteStatusAccepted, "2024-05-02", 100, line),
		quoteWith("q2", "c1", entity.QuoteStatusOpen, "2024-05-02", 40, line),
	}

	r, err := report.BuildPeriodReport(report.Input{
		Quotes:    quotes,
		StartDate: day("2024-05-01"),
		EndDate:   day("2024-05-04"),
	})
	require.NoError(t, err)

	require.Len(t, r.TimeSeries, 4)
	assert.Equal(t, day("2024-05-01"), r.TimeSeries[0].Date)
	assert.True(t, r.TimeSeries[0].Accepted.IsZero(), "día sin cotizaciones aparece en cero")
	assert.True(t, r.TimeSeries[1].Accepted.Equal(dec(100)))
	assert.True(t, r.TimeSeries[1].Open.Equal(dec(40)))
	assert.True(t, r.TimeSeries[3].Accepted.IsZero())
}

func TestBuildPeriodReport_SerieDiariaZonasMixtas(t *testing.T) {
	// En producción las fechas de emisión llegan del repositorio en UTC y el
	// rango puede venir en la zona local del servidor: la cotización debe caer
	// en el bucket de su día calendario de todos modos.
	bogota := time.FixedZone("America/Bogota", -5*3600)
	q := &entity.Quote{
		ID: "q1", ClientID: "c1", ClientName: "Cliente c1",
		Type: entity.QuoteTypeDetailed, Status: entity.QuoteStatusAccepted,
		EmissionDate: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC),
		TotalValue:   dec(100),
		Lines: []entity.QuoteLine{
			{Description: "x", Quantity: dec(1), UnitSalePrice: dec(100), LineTotal: dec(100)},
		},
	}

	r, err := report.BuildPeriodReport(report.Input{
		Quotes:    []*entity.Quote{q},
		StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, bogota),
		EndDate:   time.Date(2024, 5, 7, 0, 0, 0, 0, bogota),
	})
	require.NoError(t, err)

	require.Len(t, r.TimeSeries, 7)
	var total decimal.Decimal
	for _, p := range r.TimeSeries {
		total = total.Add(p.Accepted)
	}
	assert.True(t, total.Equal(dec(100)), "la serie diaria pierde la cotización: suma=%s", total)
	assert.True(t, r.TimeSeries[1].Accepted.Equal(dec(100)), "debe caer en el 2024-05-02")
}

func TestBuildPeriodReport_RankingClientesEmpateEstable(t *testing.T) {
	line := entity.QuoteLine{Description: "x", Quantity: dec(1), UnitSalePrice: dec(10), LineTotal: dec(10)}
	quotes := []*entity.Quote{
		quoteWith("q1", "beta", entity.QuoteStatusAccepted, "2024-05-02", 500, line),
		quoteWith("q2", "alfa", entity.QuoteStatusAccepted, "2024-05-03", 500, line),
		quoteWith("q3", "gama", entity.QuoteStatusAccepted, "2024-05-04", 900, line),
		quoteWith("q4", "otro", entity.QuoteStatusRejected, "2024-05-04", 9999, line),
	}

	in := report.Input{
		Quotes:    quotes,
		StartDate: day("2024-05-01"),
		EndDate:   day("2024-05-07"),
	}

	first, err := report.BuildPeriodReport(in)
	require.NoError(t, err)
	second, err := report.BuildPeriodReport(in)
	require.NoError(t, err)

	require.Len(t, first.ClientRanking, 3, "las rechazadas no entran al ranking")
	assert.Equal(t, "gama", first.ClientRanking[0].ClientID)
	// Empate en 500: desempate por menor ClientID, reproducible entre corridas.
	assert.Equal(t, "alfa", first.ClientRanking[1].ClientID)
	assert.Equal(t, "beta", first.ClientRanking[2].ClientID)
	assert.Equal(t, first.ClientRanking, second.ClientRanking)
}

func TestBuildPeriodReport_RankingProductosNormaliza(t *testing.T) {
	simple := &entity.Quote{
		ID: "qs", ClientID: "c9", Type: entity.QuoteTypeSimple,
		Status: entity.QuoteStatusAccepted, EmissionDate: day("2024-05-03"),
		TotalValue: dec(200),
		Lines: []entity.QuoteLine{
			{Description: "pintura latex", Quantity: dec(2), UnitPrice: dec(100), LineTotal: dec(200)},
		},
	}
	detailed := quoteWith("qd", "c1", entity.QuoteStatusAccepted, "2024-05-02", 300, entity.QuoteLine{
		Description: "Pintura Látex", Quantity: dec(3), UnitSalePrice: dec(100), LineTotal: dec(300),
	})

	r, err := report.BuildPeriodReport(report.Input{
		Quotes:    []*entity.Quote{simple, detailed},
		StartDate: day("2024-05-01"),
		EndDate:   day("2024-05-07"),
	})
	require.NoError(t, err)

	// Ambas variantes de la descripción se agrupan en una sola entrada.
	require.Len(t, r.ProductRanking, 1)
	assert.True(t, r.ProductRanking[0].TotalValue.Equal(dec(500)))
	assert.True(t, r.ProductRanking[0].Quantity.Equal(dec(5)))
}

func TestBuildPeriodReport_TopNTrunca(t *testing.T) {
	line := entity.QuoteLine{Description: "x", Quantity: dec(1), UnitSalePrice: dec(10), LineTotal: dec(10)}
	var quotes []*entity.Quote
	for _, c := range []string{"c1", "c2", "c3", "c4"} {
		quotes = append(quotes, quoteWith("q-"+c, c, entity.QuoteStatusAccepted, "2024-05-02", 100, line))
	}

	r, err := report.BuildPeriodReport(report.Input{
		Quotes:    quotes,
		StartDate: day("2024-05-01"),
		EndDate:   day("2024-05-07"),
		TopN:      2,
	})
	require.NoError(t, err)
	assert.Len(t, r.ClientRanking, 2)
}

// Escenario de punta a punta: ítem X con historial de costos
// [2024-01-01: 100, 2024-06-01: 150], venta 300 x 2, impuestos en cero.
func TestBuildPeriodReport_ValuacionHistorica(t *testing.T) {
	catalog := []entity.CatalogItem{{ID: "x", Description: "Item X"}}
	history := []entity.ItemSnapshot{
		{ItemID: "x", EffectiveDate: day("2024-01-01"), CreatedAt: day("2024-01-01"), UnitMaterialCost: dec(100)},
		{ItemID: "x", EffectiveDate: day("2024-06-01"), CreatedAt: day("2024-06-01"), UnitMaterialCost: dec(150)},
	}
	cfg := entity.CompanyConfig{
		MaterialTaxRate: nullDec(0),
		ServiceTaxRate:  nullDec(0),
	}
	line := entity.QuoteLine{
		ItemID: "x", Description: "Item X",
		Quantity: dec(2), UnitSalePrice: dec(300), LineTotal: dec(600),
	}

	// Emitida el 15 de marzo: rige el costo 100.
	r, err := report.BuildPeriodReport(report.Input{
		Quotes:      []*entity.Quote{quoteWith("q1", "c1", entity.QuoteStatusAccepted, "2024-03-15", 600, line)},
		Catalog:     catalog,
		ItemHistory: history,
		ConfigLive:  cfg,
		StartDate:   day("2024-03-01"),
		EndDate:     day("2024-03-31"),
	})
	require.NoError(t, err)
	require.NotNil(t, r.Profitability)
	assert.True(t, r.Profitability.MaterialCost.Equal(dec(200)), "costo resuelto 100 x 2")
	assert.True(t, r.Profitability.TotalMargin.Equal(dec(400)), "600 - 200")

	// Emitida el 1 de julio: ya rige el costo 150.
	r, err = report.BuildPeriodReport(report.Input{
		Quotes:      []*entity.Quote{quoteWith("q2", "c1", entity.QuoteStatusAccepted, "2024-07-01", 600, line)},
		Catalog:     catalog,
		ItemHistory: history,
		ConfigLive:  cfg,
		StartDate:   day("2024-07-01"),
		EndDate:     day("2024-07-31"),
	})
	require.NoError(t, err)
	require.NotNil(t, r.Profitability)
	assert.True(t, r.Profitability.TotalMargin.Equal(dec(300)), "600 - 300")
}

// Escenario de punta a punta: cotización que antecede a todo el historial y
// sin registro vivo (el ítem no está en el catálogo).
func TestBuildPeriodReport_DegradacionSinCosto(t *testing.T) {
	history := []entity.ItemSnapshot{
		{ItemID: "x", EffectiveDate: day("2024-01-01"), CreatedAt: day("2024-01-01"), UnitMaterialCost: dec(100)},
	}
	line := entity.QuoteLine{
		ItemID: "x", Description: "Item X",
		Quantity: dec(2), UnitSalePrice: dec(300), LineTotal: dec(600),
	}

	r, err := report.BuildPeriodReport(report.Input{
		Quotes: []*entity.Quote{
			quoteWith("q1", "c1", entity.QuoteStatusAccepted, "2023-01-01", 600, line),
		},
		ItemHistory: history,
		ConfigLive:  entity.CompanyConfig{MaterialTaxRate: nullDec(0)},
		StartDate:   day("2023-01-01"),
		EndDate:     day("2023-01-31"),
	})
	require.NoError(t, err)

	// Excluida del análisis detallado...
	assert.Nil(t, r.Profitability)
	// ...pero presente en totales por estado e ingresos.
	byStatus := make(map[string]report.StatusTotal)
	for _, st := range r.StatusTotals {
		byStatus[st.Status] = st
	}
	assert.Equal(t, 1, byStatus[entity.QuoteStatusAccepted].Count)
	assert.True(t, byStatus[entity.QuoteStatusAccepted].TotalValue.Equal(dec(600)))

	// La utilidad neta degrada a la vía aproximada y lo anota.
	require.NotNil(t, r.NetProfit)
	assert.True(t, r.NetProfit.ApproximateTaxes)
	assert.False(t, r.NetProfit.CostOfGoods.Valid, "sin costos por línea no se inventa un costo de ventas")
	assert.NotEmpty(t, r.Notes)
}

func TestBuildPeriodReport_DegradacionParcial(t *testing.T) {
	// Una aceptada elegible y otra con una línea sin costo: la primera entra a
	// rentabilidad, la segunda solo a totales, ingresos y utilidad aproximada.
	catalog := []entity.CatalogItem{{ID: "i1", Description: "Conocido", UnitMaterialCost: dec(40)}}
	ok := quoteWith("q1", "c1", entity.QuoteStatusAccepted, "2024-05-02", 100, entity.QuoteLine{
		ItemID: "i1", Description: "Conocido", Quantity: dec(1), UnitSalePrice: dec(100), LineTotal: dec(100),
	})
	unknown := quoteWith("q2", "c2", entity.QuoteStatusAccepted, "2024-05-03", 200, entity.QuoteLine{
		Description: "Nunca visto", Quantity: dec(1), UnitSalePrice: dec(200), LineTotal: dec(200),
	})

	r, err := report.BuildPeriodReport(report.Input{
		Quotes:     []*entity.Quote{ok, unknown},
		Catalog:    catalog,
		ConfigLive: entity.CompanyConfig{MaterialTaxRate: nullDec(10), ServiceTaxRate: nullDec(20)},
		StartDate:  day("2024-05-01"),
		EndDate:    day("2024-05-07"),
	})
	require.NoError(t, err)

	require.NotNil(t, r.Profitability)
	assert.Equal(t, 1, r.Profitability.EligibleQuotes)
	assert.True(t, r.Profitability.MaterialRevenue.Equal(dec(100)))

	require.NotNil(t, r.NetProfit)
	assert.True(t, r.NetProfit.RevenueAccepted.Equal(dec(300)), "el ingreso incluye ambas")
	assert.True(t, r.NetProfit.ApproximateTaxes)
	// promedio de tasas (10 + 20) / 2 = 15% sobre 300 = 45
	assert.True(t, r.NetProfit.Taxes.Equal(dec(45)), "impuestos: %s", r.NetProfit.Taxes)
}

func TestBuildPeriodReport_SinTasasNoPrometeAproximacion(t *testing.T) {
	// Tenant con solo costo fijo configurado y una aceptada sin costos por
	// línea: no hay tasas que promediar, los impuestos quedan en cero y la
	// nota no debe afirmar una aproximación que nunca ocurrió.
	q := quoteWith("q1", "c1", entity.QuoteStatusAccepted, "2024-05-02", 200, entity.QuoteLine{
		Description: "Nunca visto", Quantity: dec(1), UnitSalePrice: dec(200), LineTotal: dec(200),
	})

	r, err := report.BuildPeriodReport(report.Input{
		Quotes:     []*entity.Quote{q},
		ConfigLive: entity.CompanyConfig{FixedMonthlyCost: nullDec(3000)},
		StartDate:  day("2024-05-01"),
		EndDate:    day("2024-05-07"),
	})
	require.NoError(t, err)

	require.NotNil(t, r.NetProfit)
	assert.True(t, r.NetProfit.Taxes.IsZero())
	assert.True(t, r.NetProfit.ApproximateTaxes)
	require.Len(t, r.Notes, 1)
	assert.NotContains(t, r.Notes[0], "promedio de tasas")
	assert.Contains(t, r.Notes[0], "ninguna tasa configurada")
}

func TestBuildPeriodReport_UtilidadNetaExacta(t *testing.T) {
	catalog := []entity.CatalogItem{{ID: "i1", Description: "Conocido", UnitMaterialCost: dec(40)}}
	q := quoteWith("q1", "c1", entity.QuoteStatusAccepted, "2024-05-02", 100, entity.QuoteLine{
		ItemID: "i1", Description: "Conocido", Quantity: dec(1), UnitSalePrice: dec(100), LineTotal: dec(100),
	})

	r, err := report.BuildPeriodReport(report.Input{
		Quotes:        []*entity.Quote{q},
		Catalog:       catalog,
		ConfigLive:    entity.CompanyConfig{MaterialTaxRate: nullDec(10), FixedMonthlyCost: nullDec(300)},
		StartDate:     day("2024-05-01"),
		EndDate:       day("2024-05-15"), // 15 días
		ProrationDays: 30,
	})
	require.NoError(t, err)

	n := r.NetProfit
	require.NotNil(t, n)
	assert.False(t, n.ApproximateTaxes)
	require.True(t, n.CostOfGoods.Valid)
	assert.True(t, n.CostOfGoods.Decimal.Equal(dec(40)))
	assert.True(t, n.Taxes.Equal(dec(10)), "10% de 100")
	require.True(t, n.ProratedFixedCost.Valid)
	assert.True(t, n.ProratedFixedCost.Decimal.Equal(dec(150)), "300 * 15/30")
	// 100 - 40 - 10 - 150 = -100: la utilidad puede ser negativa
	assert.True(t, n.NetProfit.Equal(dec(-100)), "utilidad: %s", n.NetProfit)
	assert.Empty(t, r.Notes)
}

func TestBuildPeriodReport_ProrrateoConCambioDeConfig(t *testing.T) {
	// El costo fijo cambió de 3000 a 6000 con vigencia 16 de marzo: cada
	// subintervalo se prorratea contra su valor históricamente vigente.
	cfgHistory := []entity.ConfigSnapshot{
		{
			EffectiveDate: day("2024-01-01"), CreatedAt: day("2024-01-01"),
			FixedMonthlyCost: nullDec(3000),
		},
		{
			EffectiveDate: day("2024-03-16"), CreatedAt: day("2024-03-16"),
			FixedMonthlyCost: nullDec(6000),
		},
	}

	r, err := report.BuildPeriodReport(report.Input{
		ConfigLive:    entity.CompanyConfig{FixedMonthlyCost: nullDec(6000)},
		ConfigHistory: cfgHistory,
		StartDate:     day("2024-03-01"),
		EndDate:       day("2024-03-30"),
		ProrationDays: 30,
	})
	require.NoError(t, err)

	n := r.NetProfit
	require.NotNil(t, n)
	require.True(t, n.ProratedFixedCost.Valid)
	// 15 días a 3000/30 + 15 días a 6000/30 = 1500 + 3000
	assert.True(t, n.ProratedFixedCost.Decimal.Equal(dec(4500)),
		"prorrateo: %s", n.ProratedFixedCost.Decimal)
}

func TestBuildPeriodReport_FilasParaExportar(t *testing.T) {
	catalog := []entity.CatalogItem{{ID: "i1", Description: "Conocido", UnitMaterialCost: dec(40)}}
	withMargin := quoteWith("q2", "c1", entity.QuoteStatusAccepted, "2024-05-03", 100, entity.QuoteLine{
		ItemID: "i1", Description: "Conocido", Quantity: dec(1), UnitSalePrice: dec(100), LineTotal: dec(100),
	})
	withoutMargin := quoteWith("q1", "c2", entity.QuoteStatusOpen, "2024-05-02", 200, entity.QuoteLine{
		Description: "Desconocido", Quantity: dec(1), UnitSalePrice: dec(200), LineTotal: dec(200),
	})

	r, err := report.BuildPeriodReport(report.Input{
		Quotes:    []*entity.Quote{withMargin, withoutMargin},
		Catalog:   catalog,
		StartDate: day("2024-05-01"),
		EndDate:   day("2024-05-07"),
	})
	require.NoError(t, err)

	require.Len(t, r.Rows, 2)
	assert.Equal(t, "q1", r.Rows[0].QuoteID, "orden por fecha de emisión")
	assert.False(t, r.Rows[0].HasMargins)
	assert.True(t, r.Rows[1].HasMargins)
	assert.True(t, r.Rows[1].TotalMargin.Equal(dec(60)), "100 - 40")
}
