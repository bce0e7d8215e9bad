package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

// Options parámetros de construcción inyectados desde la configuración.
type Options struct {
	ProrationDays int
	TopN          int
}

// UseCase orquesta la consulta de reportes de período: trae los insumos de los
// repositorios (una sola vez, en paralelo) y delega todo el cálculo en el
// builder puro. No cachea nada: cada consulta recalcula contra los datos
// vigentes, incluidas correcciones históricas.
type UseCase struct {
	quoteRepo   repository.QuoteRepository
	catalogRepo repository.CatalogRepository
	historyRepo repository.ItemHistoryRepository
	configRepo  repository.ConfigRepository
	opts        Options
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	quoteRepo repository.QuoteRepository,
	catalogRepo repository.CatalogRepository,
	historyRepo repository.ItemHistoryRepository,
	configRepo repository.ConfigRepository,
	opts Options,
) *UseCase {
	return &UseCase{
		quoteRepo:   quoteRepo,
		catalogRepo: catalogRepo,
		historyRepo: historyRepo,
		configRepo:  configRepo,
		opts:        opts,
	}
}

// BuildReport trae los insumos y construye el reporte del período.
// Las cuatro consultas son independientes y corren en paralelo.
func (uc *UseCase) BuildReport(
	ctx context.Context,
	companyID string,
	start, end time.Time,
) (*PeriodReport, error) {
	type quotesResult struct {
		quotes []*entity.Quote
		err    error
	}
	type catalogResult struct {
		items []entity.CatalogItem
		err   error
	}
	type historyResult struct {
		snaps []entity.ItemSnapshot
		err   error
	}
	type configResult struct {
		live    *entity.CompanyConfig
		history []entity.ConfigSnapshot
		err     error
	}

	quotesCh := make(chan quotesResult, 1)
	catalogCh := make(chan catalogResult, 1)
	historyCh := make(chan historyResult, 1)
	configCh := make(chan configResult, 1)

	go func() {
		quotes, err := uc.quoteRepo.GetByPeriod(ctx, companyID, start, end)
		quotesCh <- quotesResult{quotes, err}
	}()
	go func() {
		items, err := uc.catalogRepo.ListByCompany(ctx, companyID)
		catalogCh <- catalogResult{items, err}
	}()
	go func() {
		snaps, err := uc.historyRepo.ListByCompany(ctx, companyID)
		historyCh <- historyResult{snaps, err}
	}()
	go func() {
		live, err := uc.configRepo.Get(ctx, companyID)
		if err != nil {
			configCh <- configResult{err: err}
			return
		}
		history, err := uc.configRepo.GetHistory(ctx, companyID)
		configCh <- configResult{live: live, history: history, err: err}
	}()

	quotes := <-quotesCh
	catalog := <-catalogCh
	history := <-historyCh
	config := <-configCh

	if quotes.err != nil {
		return nil, fmt.Errorf("reporte: cotizaciones: %w", quotes.err)
	}
	if catalog.err != nil {
		return nil, fmt.Errorf("reporte: catálogo: %w", catalog.err)
	}
	if history.err != nil {
		return nil, fmt.Errorf("reporte: historial de ítems: %w", history.err)
	}
	if config.err != nil {
		return nil, fmt.Errorf("reporte: configuración: %w", config.err)
	}

	live := entity.CompanyConfig{CompanyID: companyID}
	if config.live != nil {
		live = *config.live
	}

	return BuildPeriodReport(Input{
		CompanyID:     companyID,
		Quotes:        quotes.quotes,
		Catalog:       catalog.items,
		ItemHistory:   history.snaps,
		ConfigLive:    live,
		ConfigHistory: config.history,
		StartDate:     start,
		EndDate:       end,
		ProrationDays: uc.opts.ProrationDays,
		TopN:          uc.opts.TopN,
	})
}

// ParsePeriod convierte los strings de fecha en time.Time; aplica valores por
// defecto si están vacíos (primer día del mes actual / hoy).
func ParsePeriod(startStr, endStr string) (start, end time.Time, err error) {
	now := time.Now()

	if endStr == "" {
		end = now
	} else {
		end, err = time.ParseInLocation("2006-01-02", endStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date %q: %w", endStr, domain.ErrInvalidInput)
		}
	}

	if startStr == "" {
		// Primer día del mes actual
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		start, err = time.ParseInLocation("2006-01-02", startStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_date %q: %w", startStr, domain.ErrInvalidInput)
		}
	}

	return start, end, nil
}
