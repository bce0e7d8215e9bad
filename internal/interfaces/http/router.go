package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador-api/internal/application/report"
	"github.com/jhoicas/cotizador-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReportUC *report.UseCase
	Log      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Reportes de rentabilidad
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, deps.Log)
	reports.Get("/period", reportHandler.GetPeriodReport)
	reports.Get("/period/export", reportHandler.ExportPeriodReport)
}
