// Package export serializa un PeriodReport a formatos tabulares planos para
// descarga. Sin lógica de negocio: una fila por cotización, formateo y nada
// más. Si la exportación falla, el reporte ya fue computable y visible — el
// error nunca afecta la generación del reporte.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jhoicas/cotizador-api/internal/application/report"
)

// csvHeader orden de columnas estable; los consumidores (planillas, scripts)
// dependen de este orden.
var csvHeader = []string{
	"id",
	"fecha_emision",
	"cliente",
	"estado",
	"valor_total",
	"margen_material",
	"margen_mano_obra",
	"margen_total",
}

// CSVExporter exporta el reporte como CSV.
type CSVExporter struct{}

// NewCSVExporter construye el exportador.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export devuelve el CSV del reporte: una fila por cotización del período.
// Las columnas de margen quedan vacías (no en cero) para cotizaciones sin
// desglose detallado: vacío significa "sin dato", cero significa "margen $0".
func (e *CSVExporter) Export(r *report.PeriodReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("export csv: encabezado: %w", err)
	}
	for _, row := range r.Rows {
		record := []string{
			row.QuoteID,
			row.EmissionDate.Format("2006-01-02"),
			row.ClientName,
			row.Status,
			row.TotalValue.Round(2).String(),
			"", "", "",
		}
		if row.HasMargins {
			record[5] = row.MaterialMargin.Round(2).String()
			record[6] = row.LaborMargin.Round(2).String()
			record[7] = row.TotalMargin.Round(2).String()
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("export csv: fila %s: %w", row.QuoteID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}
	return buf.Bytes(), nil
}
