package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una cotización.
// Una vez emitida, la cotización es inmutable salvo la transición de estado.
const (
	QuoteStatusOpen     = "ABIERTA"   // Emitida, esperando respuesta del cliente
	QuoteStatusAccepted = "ACEPTADA"  // Aprobada por el cliente; cuenta para ingresos
	QuoteStatusRejected = "RECHAZADA" // Descartada por el cliente
	QuoteStatusExpired  = "VENCIDA"   // Superó su fecha de validez sin respuesta
)

// Tipos de cotización.
const (
	// QuoteTypeSimple una sola cifra de venta por línea, sin desglose
	// material / mano de obra. No participa del análisis de margen por línea.
	QuoteTypeSimple = "SIMPLE"
	// QuoteTypeDetailed cada línea separa precio de material y de mano de obra.
	QuoteTypeDetailed = "DETALLADA"
)

// Quote representa la cabecera de una cotización emitida a un cliente.
type Quote struct {
	ID           string
	CompanyID    string
	ClientID     string
	ClientName   string
	Type         string // SIMPLE | DETALLADA
	Status       string
	EmissionDate time.Time       // fecha de emisión; ancla de toda la valuación histórica
	TotalValue   decimal.Decimal // total de venta almacenado al emitir (inmutable)
	Lines        []QuoteLine
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAccepted indica si la cotización cuenta para ingresos y rankings.
func (q *Quote) IsAccepted() bool {
	return q.Status == QuoteStatusAccepted
}

// QuoteLine representa una línea de una cotización.
// Los precios de venta quedan congelados al emitir; los costos NO se guardan
// en la línea y se reconstruyen desde el historial de valuación del ítem.
type QuoteLine struct {
	ID          string
	QuoteID     string
	ItemID      string // vacío en líneas legadas; se resuelve por descripción normalizada
	CategoryID  string
	Description string
	Quantity    decimal.Decimal
	// UnitPrice precio unitario combinado (solo cotizaciones SIMPLE).
	UnitPrice decimal.Decimal
	// UnitSalePrice / UnitSaleLaborPrice desglose material / mano de obra
	// (solo cotizaciones DETALLADA).
	UnitSalePrice      decimal.Decimal
	UnitSaleLaborPrice decimal.Decimal
	LineTotal          decimal.Decimal
}

// IsEmpty indica si la línea no aporta nada al reporte (sin descripción ni valores).
func (l *QuoteLine) IsEmpty() bool {
	return l.Description == "" && l.Quantity.IsZero() && l.LineTotal.IsZero()
}
