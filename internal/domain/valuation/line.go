package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// LineBreakdown desglose financiero de una línea, con costos e impuestos
// reconstruidos a la fecha de emisión de la cotización.
type LineBreakdown struct {
	Description string
	Quantity    decimal.Decimal

	// CostUnknown true cuando no se pudo resolver base de costo alguna
	// (ni histórica ni viva). La línea queda fuera del cálculo de costo y
	// margen pero conserva sus ingresos.
	CostUnknown bool

	// Valores unitarios resueltos a la fecha de emisión.
	UnitMaterialCost decimal.Decimal
	UnitLaborCost    decimal.Decimal
	MaterialTaxRate  decimal.Decimal // % vigente a la emisión (0 si no configurado)
	LaborTaxRate     decimal.Decimal

	MaterialRevenue decimal.Decimal
	LaborRevenue    decimal.Decimal
	MaterialCost    decimal.Decimal
	LaborCost       decimal.Decimal
	MaterialTax     decimal.Decimal
	LaborTax        decimal.Decimal

	// Márgenes = ingreso − costo − impuesto por pata. Pueden ser negativos;
	// nunca se recortan a cero.
	MaterialMargin decimal.Decimal
	LaborMargin    decimal.Decimal
	TotalMargin    decimal.Decimal
}

// QuoteBreakdown desglose de rentabilidad de una cotización completa.
type QuoteBreakdown struct {
	QuoteID string

	// Eligible true solo si la cotización es DETALLADA y todas sus líneas no
	// vacías resolvieron costo. Las no elegibles quedan fuera del análisis por
	// línea pero siguen aportando a ingresos, totales por estado y utilidad
	// neta simplificada.
	Eligible bool

	Lines []LineBreakdown

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

// ResolvedConfig configuración financiera vigente en una fecha dada.
type ResolvedConfig struct {
	MaterialTaxRate  decimal.NullDecimal
	ServiceTaxRate   decimal.NullDecimal
	FixedMonthlyCost decimal.NullDecimal
}

// Engine motor de valuación de líneas. Se construye una vez por corrida de
// reporte con insumos congelados (catálogo, historiales, configuración viva) y
// no realiza I/O: cómputo puro, seguro ante invocaciones concurrentes.
type Engine struct {
	matcher       ItemMatcher
	itemHistory   map[string][]entity.ItemSnapshot
	configHistory []entity.ConfigSnapshot
	configLive    entity.CompanyConfig
}

// NewEngine indexa catálogo e historial y deja el motor listo para valuar.
func NewEngine(
	catalog []entity.CatalogItem,
	itemHistory []entity.ItemSnapshot,
	configHistory []entity.ConfigSnapshot,
	configLive entity.CompanyConfig,
) *Engine {
	hist := make(map[string][]entity.ItemSnapshot, len(catalog))
	for _, s := range itemHistory {
		hist[s.ItemID] = append(hist[s.ItemID], s)
	}
	return &Engine{
		matcher:       NewDefaultMatcher(catalog),
		itemHistory:   hist,
		configHistory: configHistory,
		configLive:    configLive,
	}
}

// ConfigAt devuelve la configuración financiera que regía en la fecha dada:
// el snapshot vigente o, si el historial no alcanza esa fecha, el registro vivo.
func (e *Engine) ConfigAt(date time.Time) ResolvedConfig {
	if snap, ok := ResolveAt(e.configHistory, date); ok {
		return ResolvedConfig{
			MaterialTaxRate:  snap.MaterialTaxRate,
			ServiceTaxRate:   snap.ServiceTaxRate,
			FixedMonthlyCost: snap.FixedMonthlyCost,
		}
	}
	return ResolvedConfig{
		MaterialTaxRate:  e.configLive.MaterialTaxRate,
		ServiceTaxRate:   e.configLive.ServiceTaxRate,
		FixedMonthlyCost: e.configLive.FixedMonthlyCost,
	}
}

// ConfigEffectiveDates fechas de vigencia presentes en el historial de
// configuración; el prorrateo del costo fijo parte el período en estas fechas.
func (e *Engine) ConfigEffectiveDates() []time.Time {
	dates := make([]time.Time, 0, len(e.configHistory))
	for _, s := range e.configHistory {
		dates = append(dates, s.EffectiveDate)
	}
	return dates
}

// ValuateQuote produce el desglose de rentabilidad de una cotización.
// Las SIMPLE no llevan desglose material/mano de obra: se marcan no elegibles
// y participan solo por la vía simplificada (ingresos + impuestos promedio).
func (e *Engine) ValuateQuote(q *entity.Quote) QuoteBreakdown {
	bd := QuoteBreakdown{QuoteID: q.ID}
	if q.Type != entity.QuoteTypeDetailed {
		return bd
	}

	cfg := e.ConfigAt(q.EmissionDate)
	bd.Eligible = true

	for i := range q.Lines {
		line := &q.Lines[i]
		if line.IsEmpty() {
			continue
		}
		lb := e.valuateLine(line, q.EmissionDate, cfg)
		if lb.CostUnknown {
			bd.Eligible = false
		}
		bd.Lines = append(bd.Lines, lb)
	}
	if len(bd.Lines) == 0 {
		bd.Eligible = false
		return bd
	}

	for _, lb := range bd.Lines {
		bd.MaterialRevenue = bd.MaterialRevenue.Add(lb.MaterialRevenue)
		bd.LaborRevenue = bd.LaborRevenue.Add(lb.LaborRevenue)
		bd.MaterialCost = bd.MaterialCost.Add(lb.MaterialCost)
		bd.LaborCost = bd.LaborCost.Add(lb.LaborCost)
		bd.MaterialTax = bd.MaterialTax.Add(lb.MaterialTax)
		bd.LaborTax = bd.LaborTax.Add(lb.LaborTax)
		bd.MaterialMargin = bd.MaterialMargin.Add(lb.MaterialMargin)
		bd.LaborMargin = bd.LaborMargin.Add(lb.LaborMargin)
		bd.TotalMargin = bd.TotalMargin.Add(lb.TotalMargin)
	}
	return bd
}

// valuateLine aplica las fórmulas por línea con los valores vigentes a la emisión.
func (e *Engine) valuateLine(line *entity.QuoteLine, emission time.Time, cfg ResolvedConfig) LineBreakdown {
	lb := LineBreakdown{
		Description:     line.Description,
		Quantity:        line.Quantity,
		MaterialTaxRate: rateOrZero(cfg.MaterialTaxRate),
		LaborTaxRate:    rateOrZero(cfg.ServiceTaxRate),
	}

	lb.MaterialRevenue = line.UnitSalePrice.Mul(line.Quantity)
	lb.LaborRevenue = line.UnitSaleLaborPrice.Mul(line.Quantity)
	lb.MaterialTax = lb.MaterialRevenue.Mul(lb.MaterialTaxRate).Div(hundred)
	lb.LaborTax = lb.LaborRevenue.Mul(lb.LaborTaxRate).Div(hundred)

	unitMaterial, unitLabor, ok := e.resolveUnitCosts(line, emission)
	if !ok {
		lb.CostUnknown = true
		return lb
	}
	lb.UnitMaterialCost = unitMaterial
	lb.UnitLaborCost = unitLabor
	lb.MaterialCost = unitMaterial.Mul(line.Quantity)
	lb.LaborCost = unitLabor.Mul(line.Quantity)
	lb.MaterialMargin = lb.MaterialRevenue.Sub(lb.MaterialCost).Sub(lb.MaterialTax)
	lb.LaborMargin = lb.LaborRevenue.Sub(lb.LaborCost).Sub(lb.LaborTax)
	lb.TotalMargin = lb.MaterialMargin.Add(lb.LaborMargin)
	return lb
}

// resolveUnitCosts reconstruye los costos unitarios vigentes a la emisión.
// Cadena de resolución:
//  1. Ítem localizado en el catálogo (por ID o descripción): snapshot vigente
//     o, sin historial que alcance la fecha, el registro vivo del ítem.
//  2. Ítem fuera del catálogo pero con historial (fue eliminado): solo el
//     snapshot vigente; sin registro vivo no hay fallback.
//  3. Nada de lo anterior: costo desconocido.
func (e *Engine) resolveUnitCosts(line *entity.QuoteLine, emission time.Time) (material, labor decimal.Decimal, ok bool) {
	if item, matched := e.matcher.Match(*line); matched {
		if snap, found := ResolveAt(e.itemHistory[item.ID], emission); found {
			return snap.UnitMaterialCost, snap.UnitLaborCost, true
		}
		// Registro vivo: único valor conocido, válido desde siempre.
		return item.UnitMaterialCost, item.UnitLaborCost, true
	}
	if line.ItemID != "" {
		if snap, found := ResolveAt(e.itemHistory[line.ItemID], emission); found {
			return snap.UnitMaterialCost, snap.UnitLaborCost, true
		}
	}
	return decimal.Zero, decimal.Zero, false
}

func rateOrZero(r decimal.NullDecimal) decimal.Decimal {
	if r.Valid {
		return r.Decimal
	}
	return decimal.Zero
}
