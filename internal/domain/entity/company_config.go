package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanyConfig configuración financiera global de la empresa (singleton por tenant).
// Los tres valores son opcionales: NullDecimal distingue "configurado en 0"
// de "nunca configurado", distinción que los reportes respetan.
type CompanyConfig struct {
	CompanyID        string
	MaterialTaxRate  decimal.NullDecimal // % de impuesto sobre ventas de material
	ServiceTaxRate   decimal.NullDecimal // % de impuesto sobre mano de obra / servicios
	FixedMonthlyCost decimal.NullDecimal // costo fijo mensual de operación
	UpdatedAt        time.Time
}

// HasAnyValue indica si hay al menos un valor configurado.
// Sin impuestos ni costo fijo no hay nada que mostrar en la utilidad neta.
func (c *CompanyConfig) HasAnyValue() bool {
	return c.MaterialTaxRate.Valid || c.ServiceTaxRate.Valid || c.FixedMonthlyCost.Valid
}
