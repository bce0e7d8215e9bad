package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem representa un ítem del catálogo de la empresa (multi-tenant).
// Los cuatro valores unitarios son el "registro vivo": el vigente hoy.
// Cada edición de precios/costos genera además un ItemSnapshot en el historial;
// el registro vivo actúa como único valor conocido cuando el historial está vacío.
type CatalogItem struct {
	ID          string
	CompanyID   string
	CategoryID  string
	Description string
	// Valores vivos (vigentes hoy).
	UnitSalePrice      decimal.Decimal // precio de venta de material
	UnitSaleLaborPrice decimal.Decimal // precio de venta de mano de obra
	UnitMaterialCost   decimal.Decimal // costo unitario de material
	UnitLaborCost      decimal.Decimal // costo unitario de mano de obra
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
