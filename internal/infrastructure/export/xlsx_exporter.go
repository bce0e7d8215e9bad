package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/cotizador-api/internal/application/report"
)

const xlsxSheet = "Cotizaciones"

// XLSXExporter exporta el reporte como planilla XLSX, misma tabla que el CSV.
type XLSXExporter struct{}

// NewXLSXExporter construye el exportador.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Export devuelve el XLSX del reporte. Mismo orden de columnas que el CSV;
// los márgenes sin dato quedan como celdas vacías.
func (e *XLSXExporter) Export(r *report.PeriodReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("export xlsx: hoja: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("export xlsx: %w", err)
	}

	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("export xlsx: encabezado: %w", err)
	}

	for i, row := range r.Rows {
		values := []interface{}{
			row.QuoteID,
			row.EmissionDate.Format("2006-01-02"),
			row.ClientName,
			row.Status,
			row.TotalValue.Round(2).InexactFloat64(),
			nil, nil, nil,
		}
		if row.HasMargins {
			values[5] = row.MaterialMargin.Round(2).InexactFloat64()
			values[6] = row.LaborMargin.Round(2).InexactFloat64()
			values[7] = row.TotalMargin.Round(2).InexactFloat64()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("export xlsx: fila %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("export xlsx: fila %s: %w", row.QuoteID, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
