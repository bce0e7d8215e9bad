package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshots de valuación: registros append-only que se crean cada vez que un
// editor cambia un valor rastreado (precios/costos de un ítem o la
// configuración financiera de la empresa). Nunca se modifican ni se eliminan.

// ItemSnapshot fotografía de los valores de un CatalogItem con fecha de vigencia.
type ItemSnapshot struct {
	ID        string
	CompanyID string
	ItemID    string
	// EffectiveDate fecha desde la que estos valores rigen (fecha de vigencia).
	EffectiveDate time.Time
	// CreatedAt instante de inserción; solo se usa como desempate cuando dos
	// snapshots comparten EffectiveDate (gana el último escrito).
	CreatedAt time.Time

	UnitSalePrice      decimal.Decimal
	UnitSaleLaborPrice decimal.Decimal
	UnitMaterialCost   decimal.Decimal
	UnitLaborCost      decimal.Decimal
}

// EffectiveAt implementa valuation.Snapshot.
func (s ItemSnapshot) EffectiveAt() time.Time { return s.EffectiveDate }

// RecordedAt implementa valuation.Snapshot.
func (s ItemSnapshot) RecordedAt() time.Time { return s.CreatedAt }

// ConfigSnapshot fotografía de la configuración financiera de la empresa.
type ConfigSnapshot struct {
	ID            string
	CompanyID     string
	EffectiveDate time.Time
	CreatedAt     time.Time

	MaterialTaxRate  decimal.NullDecimal
	ServiceTaxRate   decimal.NullDecimal
	FixedMonthlyCost decimal.NullDecimal
}

// EffectiveAt implementa valuation.Snapshot.
func (s ConfigSnapshot) EffectiveAt() time.Time { return s.EffectiveDate }

// RecordedAt implementa valuation.Snapshot.
func (s ConfigSnapshot) RecordedAt() time.Time { return s.CreatedAt }
