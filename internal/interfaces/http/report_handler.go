package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/report"
	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/export"
	"github.com/jhoicas/cotizador-api/pkg/logger"
)

// GetCompanyID extrae el tenant del request. La autenticación y el ruteo de
// tenants viven en el gateway que antecede a este servicio; acá solo se
// propaga el header que el gateway ya validó.
func GetCompanyID(c *fiber.Ctx) string {
	return c.Get("X-Company-ID")
}

// ReportHandler maneja los endpoints de reportes de rentabilidad.
type ReportHandler struct {
	uc   *report.UseCase
	csv  *export.CSVExporter
	xlsx *export.XLSXExporter
	log  *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		uc:   uc,
		csv:  export.NewCSVExporter(),
		xlsx: export.NewXLSXExporter(),
		log:  log.Component("reports"),
	}
}

// GetPeriodReport godoc
// @Summary      Reporte de rentabilidad del período
// @Description  Totales por estado, serie diaria, rankings y utilidad neta,
//               con costos e impuestos reconstruidos a la fecha de emisión de
//               cada cotización.
// @Tags         reports
// @Produce      json
// @Param        X-Company-ID  header  string  true   "Tenant"
// @Param        start_date    query   string  false  "Inicio del período (YYYY-MM-DD). Default: primer día del mes."
// @Param        end_date      query   string  false  "Fin del período (YYYY-MM-DD). Default: hoy."
// @Success      200  {object}  dto.PeriodReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/period [get]
func (h *ReportHandler) GetPeriodReport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "MISSING_TENANT", Message: "header X-Company-ID requerido",
		})
	}

	var req dto.PeriodReportRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}

	r, err := h.buildReport(c, companyID, req)
	if err != nil {
		return h.reportError(c, err)
	}
	return c.JSON(report.ToDTO(r))
}

// ExportPeriodReport godoc
// @Summary      Exportar el reporte del período (CSV o XLSX)
// @Tags         reports
// @Produce      octet-stream
// @Param        X-Company-ID  header  string  true   "Tenant"
// @Param        start_date    query   string  false  "Inicio del período (YYYY-MM-DD)."
// @Param        end_date      query   string  false  "Fin del período (YYYY-MM-DD)."
// @Param        format        query   string  false  "csv (default) | xlsx"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/period/export [get]
func (h *ReportHandler) ExportPeriodReport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "MISSING_TENANT", Message: "header X-Company-ID requerido",
		})
	}

	var req dto.PeriodReportRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}
	format := c.Query("format", "csv")

	r, err := h.buildReport(c, companyID, req)
	if err != nil {
		return h.reportError(c, err)
	}

	// El reporte ya se computó; un fallo de formateo no lo invalida,
	// solo frustra la descarga.
	var payload []byte
	var contentType, filename string
	switch format {
	case "csv":
		payload, err = h.csv.Export(r)
		contentType, filename = "text/csv", "reporte_periodo.csv"
	case "xlsx":
		payload, err = h.xlsx.Export(r)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "reporte_periodo.xlsx"
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_FORMAT", Message: "format debe ser csv o xlsx",
		})
	}
	if err != nil {
		h.log.Error().Err(err).Str("format", format).Msg("exportación fallida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "EXPORT_FAILED", Message: "no se pudo generar el archivo",
		})
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(payload)
}

func (h *ReportHandler) buildReport(c *fiber.Ctx, companyID string, req dto.PeriodReportRequest) (*report.PeriodReport, error) {
	start, end, err := report.ParsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	return h.uc.BuildReport(c.Context(), companyID, start, end)
}

// reportError distingue errores del cliente (rango inválido, fechas mal
// formadas) de fallas internas.
func (h *ReportHandler) reportError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidDateRange) || errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "BAD_REQUEST", Message: err.Error(),
		})
	}
	h.log.Error().Err(err).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Msg("reporte de período fallido")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: "INTERNAL", Message: "no se pudo generar el reporte",
	})
}
