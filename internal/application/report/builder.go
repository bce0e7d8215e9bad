package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/valuation"
)

const (
	defaultProrationDays = 30
	defaultTopN          = 10
)

var hundred = decimal.NewFromInt(100)

// Input insumos congelados de una corrida de reporte. Toda la I/O ocurre
// antes, en los colaboradores; el builder es cómputo puro y determinista.
type Input struct {
	CompanyID     string
	Quotes        []*entity.Quote
	Catalog       []entity.CatalogItem
	ItemHistory   []entity.ItemSnapshot
	ConfigLive    entity.CompanyConfig
	ConfigHistory []entity.ConfigSnapshot
	StartDate     time.Time
	EndDate       time.Time
	// ProrationDays denominador del prorrateo del costo fijo mensual (default 30).
	ProrationDays int
	// TopN tamaño de los rankings de clientes y productos (default 10).
	TopN int
}

// BuildPeriodReport construye el reporte del período [StartDate, EndDate]
// (inclusive). Un rango inválido es error duro; un período sin cotizaciones
// no lo es: produce un reporte con totales en cero y secciones omitidas.
func BuildPeriodReport(in Input) (*PeriodReport, error) {
	start := dayOf(in.StartDate)
	end := dayOf(in.EndDate)
	if start.After(end) {
		return nil, fmt.Errorf("reporte %s..%s: %w",
			in.StartDate.Format("2006-01-02"), in.EndDate.Format("2006-01-02"), domain.ErrInvalidDateRange)
	}
	for i, q := range in.Quotes {
		if q == nil {
			return nil, fmt.Errorf("cotización en posición %d: %w", i, domain.ErrNilInput)
		}
	}
	if in.ProrationDays <= 0 {
		in.ProrationDays = defaultProrationDays
	}
	if in.TopN <= 0 {
		in.TopN = defaultTopN
	}

	engine := valuation.NewEngine(in.Catalog, in.ItemHistory, in.ConfigHistory, in.ConfigLive)

	r := &PeriodReport{
		CompanyID: in.CompanyID,
		StartDate: start,
		EndDate:   end,
	}

	breakdowns := make(map[string]valuation.QuoteBreakdown, len(in.Quotes))
	for _, q := range in.Quotes {
		breakdowns[q.ID] = engine.ValuateQuote(q)
	}

	buildStatusTotals(r, in.Quotes)
	buildTimeSeries(r, in.Quotes, start, end)
	buildClientRanking(r, in.Quotes, in.TopN)
	buildProductRanking(r, in.Quotes, in.TopN)
	buildProfitability(r, in.Quotes, breakdowns)
	buildNetProfit(r, in, engine, breakdowns, start, end)
	buildRows(r, in.Quotes, breakdowns)

	return r, nil
}

// buildStatusTotals conteos y sumas por estado, tasa de conversión y ticket promedio.
func buildStatusTotals(r *PeriodReport, quotes []*entity.Quote) {
	counts := make(map[string]int, len(statusOrder))
	sums := make(map[string]decimal.Decimal, len(statusOrder))
	var acceptedSum decimal.Decimal
	acceptedCount := 0

	for _, q := range quotes {
		counts[q.Status]++
		sums[q.Status] = sums[q.Status].Add(q.TotalValue)
		if q.IsAccepted() {
			acceptedCount++
			acceptedSum = acceptedSum.Add(q.TotalValue)
		}
	}

	r.StatusTotals = make([]StatusTotal, 0, len(statusOrder))
	for _, st := range statusOrder {
		r.StatusTotals = append(r.StatusTotals, StatusTotal{
			Status:     st,
			Count:      counts[st],
			TotalValue: sums[st],
		})
	}

	// Nunca dividir por cero: período vacío => conversión 0 y ticket 0.
	if total := len(quotes); total > 0 {
		r.ConversionRate = decimal.NewFromInt(int64(acceptedCount)).
			Div(decimal.NewFromInt(int64(total)))
	}
	if acceptedCount > 0 {
		r.AverageTicket = acceptedSum.Div(decimal.NewFromInt(int64(acceptedCount)))
	}
}

// buildTimeSeries un punto por día calendario del rango; los días sin
// cotizaciones también aparecen, con valores en cero (sin huecos para graficar).
// La clave del bucket es la fecha calendario como string: las fechas de
// emisión llegan del repositorio en UTC y el rango puede venir en zona local,
// y dos time.Time con distinta Location nunca son iguales como clave de mapa.
func buildTimeSeries(r *PeriodReport, quotes []*entity.Quote, start, end time.Time) {
	byDay := make(map[string]*DailyPoint)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		byDay[d.Format("2006-01-02")] = &DailyPoint{Date: d}
	}

	for _, q := range quotes {
		p, ok := byDay[q.EmissionDate.Format("2006-01-02")]
		if !ok {
			continue // emitida fuera del rango; el repo no debería entregarla
		}
		switch q.Status {
		case entity.QuoteStatusOpen:
			p.Open = p.Open.Add(q.TotalValue)
		case entity.QuoteStatusAccepted:
			p.Accepted = p.Accepted.Add(q.TotalValue)
		case entity.QuoteStatusRejected:
			p.Rejected = p.Rejected.Add(q.TotalValue)
		case entity.QuoteStatusExpired:
			p.Expired = p.Expired.Add(q.TotalValue)
		}
	}

	r.TimeSeries = make([]DailyPoint, 0, len(byDay))
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		r.TimeSeries = append(r.TimeSeries, *byDay[d.Format("2006-01-02")])
	}
}

// buildClientRanking agrupa las aceptadas por cliente y devuelve el top N por
// valor. Empates por menor ClientID: orden fijo y reproducible entre corridas.
func buildClientRanking(r *PeriodReport, quotes []*entity.Quote, topN int) {
	type acc struct {
		name  string
		count int
		total decimal.Decimal
	}
	byClient := make(map[string]*acc)
	for _, q := range quotes {
		if !q.IsAccepted() {
			continue
		}
		a, ok := byClient[q.ClientID]
		if !ok {
			a = &acc{name: q.ClientName}
			byClient[q.ClientID] = a
		}
		a.count++
		a.total = a.total.Add(q.TotalValue)
	}

	ranking := make([]ClientRank, 0, len(byClient))
	for id, a := range byClient {
		ranking = append(ranking, ClientRank{
			ClientID:   id,
			ClientName: a.name,
			Count:      a.count,
			TotalValue: a.total,
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if !ranking[i].TotalValue.Equal(ranking[j].TotalValue) {
			return ranking[i].TotalValue.GreaterThan(ranking[j].TotalValue)
		}
		return ranking[i].ClientID < ranking[j].ClientID
	})
	if len(ranking) > topN {
		ranking = ranking[:topN]
	}
	r.ClientRanking = ranking
}

// buildProductRanking aplana las líneas de las aceptadas (simples y
// detalladas), agrupa por descripción normalizada y devuelve el top N por
// valor de línea. Empates por menor clave normalizada.
func buildProductRanking(r *PeriodReport, quotes []*entity.Quote, topN int) {
	type acc struct {
		display string
		qty     decimal.Decimal
		total   decimal.Decimal
	}
	byDesc := make(map[string]*acc)
	for _, q := range quotes {
		if !q.IsAccepted() {
			continue
		}
		for i := range q.Lines {
			line := &q.Lines[i]
			if line.IsEmpty() {
				continue
			}
			key := valuation.NormalizeDescription(line.Description)
			a, ok := byDesc[key]
			if !ok {
				a = &acc{display: line.Description}
				byDesc[key] = a
			}
			a.qty = a.qty.Add(line.Quantity)
			a.total = a.total.Add(line.LineTotal)
		}
	}

	keys := make([]string, 0, len(byDesc))
	for k := range byDesc {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ti, tj := byDesc[keys[i]].total, byDesc[keys[j]].total
		if !ti.Equal(tj) {
			return ti.GreaterThan(tj)
		}
		return keys[i] < keys[j]
	})

	if len(keys) > topN {
		keys = keys[:topN]
	}
	ranking := make([]ProductRank, 0, len(keys))
	for _, k := range keys {
		a := byDesc[k]
		ranking = append(ranking, ProductRank{
			Description: a.display,
			Quantity:    a.qty,
			TotalValue:  a.total,
		})
	}
	r.ProductRanking = ranking
}

// buildProfitability suma el desglose de las aceptadas elegibles.
// Sin elegibles la sección se omite por completo, no se muestra en cero.
func buildProfitability(r *PeriodReport, quotes []*entity.Quote, breakdowns map[string]valuation.QuoteBreakdown) {
	var block ProfitabilityBlock
	for _, q := range quotes {
		if !q.IsAccepted() {
			continue
		}
		bd := breakdowns[q.ID]
		if !bd.Eligible {
			continue
		}
		block.EligibleQuotes++
		block.MaterialRevenue = block.MaterialRevenue.Add(bd.MaterialRevenue)
		block.LaborRevenue = block.LaborRevenue.Add(bd.LaborRevenue)
		block.MaterialCost = block.MaterialCost.Add(bd.MaterialCost)
		block.LaborCost = block.LaborCost.Add(bd.LaborCost)
		block.MaterialTax = block.MaterialTax.Add(bd.MaterialTax)
		block.LaborTax = block.LaborTax.Add(bd.LaborTax)
		block.MaterialMargin = block.MaterialMargin.Add(bd.MaterialMargin)
		block.LaborMargin = block.LaborMargin.Add(bd.LaborMargin)
		block.TotalMargin = block.TotalMargin.Add(bd.TotalMargin)
	}
	if block.EligibleQuotes > 0 {
		r.Profitability = &block
	}
}

// buildNetProfit utilidad neta de la empresa:
//
//	ingreso aceptado − costo de ventas (si se conoce) − impuestos − costo fijo prorrateado.
//
// Cuando alguna aceptada no resolvió costos por línea, los impuestos se
// aproximan con el promedio de las tasas configuradas sobre el ingreso total,
// se omite el costo de ventas y se anota la precisión reducida. Si el tenant
// no configuró ni impuestos ni costo fijo, la sección entera se omite.
func buildNetProfit(
	r *PeriodReport,
	in Input,
	engine *valuation.Engine,
	breakdowns map[string]valuation.QuoteBreakdown,
	start, end time.Time,
) {
	if !tenantHasConfig(in.ConfigLive, in.ConfigHistory) {
		return
	}

	var block NetProfitBlock
	allCostsKnown := true
	var cogs, exactTaxes decimal.Decimal

	for _, q := range in.Quotes {
		if !q.IsAccepted() {
			continue
		}
		block.RevenueAccepted = block.RevenueAccepted.Add(q.TotalValue)
		bd := breakdowns[q.ID]
		if !bd.Eligible {
			allCostsKnown = false
			continue
		}
		cogs = cogs.Add(bd.MaterialCost).Add(bd.LaborCost)
		exactTaxes = exactTaxes.Add(bd.MaterialTax).Add(bd.LaborTax)
	}

	if allCostsKnown {
		block.CostOfGoods = decimal.NullDecimal{Decimal: cogs, Valid: true}
		block.Taxes = exactTaxes
	} else {
		// Sin costos por línea no se inventan costos unitarios: los impuestos
		// se estiman con el promedio de las tasas configuradas sobre el
		// ingreso total aceptado. La nota solo promete la aproximación que
		// efectivamente se aplicó.
		if avg, ok := averageConfiguredRate(engine.ConfigAt(end)); ok {
			block.Taxes = block.RevenueAccepted.Mul(avg).Div(hundred)
			r.Notes = append(r.Notes,
				"impuestos aproximados por promedio de tasas: hay cotizaciones aceptadas sin costos por línea")
		} else {
			r.Notes = append(r.Notes,
				"hay cotizaciones aceptadas sin costos por línea y ninguna tasa configurada: la utilidad se calculó sin impuestos")
		}
		block.ApproximateTaxes = true
	}

	block.ProratedFixedCost = prorateFixedCost(engine, start, end, in.ProrationDays)

	block.NetProfit = block.RevenueAccepted.Sub(block.Taxes)
	if block.CostOfGoods.Valid {
		block.NetProfit = block.NetProfit.Sub(block.CostOfGoods.Decimal)
	}
	if block.ProratedFixedCost.Valid {
		block.NetProfit = block.NetProfit.Sub(block.ProratedFixedCost.Decimal)
	}
	r.NetProfit = &block
}

// prorateFixedCost reparte el costo fijo mensual por días del período contra
// el denominador configurable. Si la configuración cambió dentro del período,
// cada subintervalo se prorratea contra su costo fijo históricamente vigente y
// se suman las contribuciones.
func prorateFixedCost(engine *valuation.Engine, start, end time.Time, prorationDays int) decimal.NullDecimal {
	boundaries := []time.Time{start}
	seen := map[time.Time]bool{start: true}
	for _, d := range engine.ConfigEffectiveDates() {
		day := dayOf(d)
		if day.After(start) && !day.After(end) && !seen[day] {
			boundaries = append(boundaries, day)
			seen[day] = true
		}
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })

	denom := decimal.NewFromInt(int64(prorationDays))
	var total decimal.Decimal
	found := false
	for i, b := range boundaries {
		subEnd := end
		if i+1 < len(boundaries) {
			subEnd = boundaries[i+1].AddDate(0, 0, -1)
		}
		fixed := engine.ConfigAt(b).FixedMonthlyCost
		if !fixed.Valid {
			continue
		}
		found = true
		days := daysInclusive(b, subEnd)
		total = total.Add(fixed.Decimal.Mul(decimal.NewFromInt(int64(days))).Div(denom))
	}
	if !found {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: total, Valid: true}
}

// buildRows una fila por cotización, ordenadas por emisión (desempate por ID).
func buildRows(r *PeriodReport, quotes []*entity.Quote, breakdowns map[string]valuation.QuoteBreakdown) {
	rows := make([]QuoteRow, 0, len(quotes))
	for _, q := range quotes {
		row := QuoteRow{
			QuoteID:      q.ID,
			EmissionDate: q.EmissionDate,
			ClientName:   q.ClientName,
			Status:       q.Status,
			TotalValue:   q.TotalValue,
		}
		if bd := breakdowns[q.ID]; bd.Eligible {
			row.HasMargins = true
			row.MaterialMargin = bd.MaterialMargin
			row.LaborMargin = bd.LaborMargin
			row.TotalMargin = bd.TotalMargin
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].EmissionDate.Equal(rows[j].EmissionDate) {
			return rows[i].EmissionDate.Before(rows[j].EmissionDate)
		}
		return rows[i].QuoteID < rows[j].QuoteID
	})
	r.Rows = rows
}

// tenantHasConfig indica si hay algo configurado, vivo o histórico.
func tenantHasConfig(live entity.CompanyConfig, history []entity.ConfigSnapshot) bool {
	if live.HasAnyValue() {
		return true
	}
	for _, s := range history {
		if s.MaterialTaxRate.Valid || s.ServiceTaxRate.Valid || s.FixedMonthlyCost.Valid {
			return true
		}
	}
	return false
}

// averageConfiguredRate promedio de las tasas configuradas (material y/o
// servicios). ok = false cuando no hay ninguna tasa configurada.
func averageConfiguredRate(cfg valuation.ResolvedConfig) (decimal.Decimal, bool) {
	var sum decimal.Decimal
	n := 0
	if cfg.MaterialTaxRate.Valid {
		sum = sum.Add(cfg.MaterialTaxRate.Decimal)
		n++
	}
	if cfg.ServiceTaxRate.Valid {
		sum = sum.Add(cfg.ServiceTaxRate.Decimal)
		n++
	}
	if n == 0 {
		return decimal.Zero, false
	}
	return sum.Div(decimal.NewFromInt(int64(n))), true
}

// dayOf trunca al inicio del día calendario conservando la zona horaria.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysInclusive días calendario entre a y b, ambos incluidos.
// Se compara en UTC para que los cambios de horario no descuenten días.
func daysInclusive(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours()/24) + 1
}
