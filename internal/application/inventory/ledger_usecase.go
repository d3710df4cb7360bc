package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/intelligence"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/stock"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const reportTitle = "Estado de stock"

// Settings valores por defecto de las consultas de inteligencia (vienen de config).
type Settings struct {
	Thresholds intelligence.Thresholds
	WindowDays int
	TopN       int
}

// DefaultSettings low=20, critical=5, ventana 30 días, top 5.
func DefaultSettings() Settings {
	return Settings{
		Thresholds: intelligence.DefaultThresholds(),
		WindowDays: intelligence.DefaultWindowDays,
		TopN:       intelligence.DefaultTopN,
	}
}

// LedgerUseCase reconstruye el ledger desde el log completo en cada consulta y
// calcula las vistas de inteligencia. No guarda estado derivado.
type LedgerUseCase struct {
	repo     repository.StockEventRepository
	reports  ReportGenerator
	settings Settings
	log      *logger.Logger
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso. reports puede ser nil si no se expone el PDF.
func NewLedgerUseCase(repo repository.StockEventRepository, reports ReportGenerator, settings Settings, log *logger.Logger) *LedgerUseCase {
	return &LedgerUseCase{
		repo:     repo,
		reports:  reports,
		settings: settings,
		log:      log.Component("ledger"),
		now:      time.Now,
	}
}

// snapshot lee el historial una sola vez y lo pliega.
func (uc *LedgerUseCase) snapshot(ctx context.Context) ([]entity.StockEvent, *stock.Ledger, error) {
	events, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("leer historial: %w", err)
	}
	ledger := stock.Aggregate(events)
	uc.logReplay(ledger)
	return events, ledger, nil
}

func (uc *LedgerUseCase) logReplay(ledger *stock.Ledger) {
	for _, a := range ledger.Anomalies() {
		uc.log.Warn().
			Str("event_id", a.EventID).
			Str("item_id", a.ItemID).
			Str("reason", string(a.Reason)).
			Msg("registro histórico omitido o contado como cero")
	}
	uc.log.Debug().
		Int("events", ledger.Events()).
		Int("items", ledger.Len()).
		Int("anomalies", len(ledger.Anomalies())).
		Msg("ledger reconstruido")
}

// Events lista el historial, completo o de un ítem.
func (uc *LedgerUseCase) Events(ctx context.Context, itemID string) ([]dto.StockEventDTO, error) {
	var events []entity.StockEvent
	var err error
	if itemID == "" {
		events, err = uc.repo.ListAll(ctx)
	} else {
		events, err = uc.repo.ListByItem(ctx, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("listar eventos: %w", err)
	}
	return toEventDTOs(events), nil
}

// Ledger devuelve el estado de todos los ítems.
func (uc *LedgerUseCase) Ledger(ctx context.Context) (*dto.LedgerDTO, error) {
	_, ledger, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := toLedgerDTO(ledger)
	return &out, nil
}

// Item devuelve el estado y el historial de un ítem; ErrNotFound si no tiene eventos.
func (uc *LedgerUseCase) Item(ctx context.Context, itemID string) (*dto.ItemDetailDTO, error) {
	events, err := uc.repo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("listar eventos del ítem: %w", err)
	}
	if len(events) == 0 {
		return nil, domain.ErrNotFound
	}
	ledger := stock.Aggregate(events)
	uc.logReplay(ledger)
	state, ok := ledger.Item(itemID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &dto.ItemDetailDTO{
		LedgerItemDTO: toLedgerItemDTO(itemID, state),
		Events:        toEventDTOs(events),
	}, nil
}

// AlertsQuery umbrales pedidos por el cliente; nil significa "no enviado".
// Cero es un umbral válido.
type AlertsQuery struct {
	Low      *int64
	Critical *int64
}

// Alerts clasifica los ítems por umbral. Solo los umbrales ausentes toman el valor configurado.
func (uc *LedgerUseCase) Alerts(ctx context.Context, q AlertsQuery) (*dto.AlertsDTO, error) {
	th, err := uc.thresholds(q)
	if err != nil {
		return nil, err
	}
	_, ledger, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := toAlertsDTO(intelligence.Alerts(ledger, th), th)
	return &out, nil
}

// FastMovers ranking de entregas en la ventana. Valores <= 0 toman los configurados.
func (uc *LedgerUseCase) FastMovers(ctx context.Context, windowDays, topN int) (*dto.FastMoversDTO, error) {
	windowDays, topN = uc.window(windowDays), uc.top(topN)
	events, _, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := toFastMoversDTO(intelligence.FastMovers(events, uc.now(), windowDays, topN), windowDays)
	return &out, nil
}

// ReorderRisk proyección de agotamiento por ítem.
func (uc *LedgerUseCase) ReorderRisk(ctx context.Context, windowDays int) (*dto.ReorderRiskDTO, error) {
	windowDays = uc.window(windowDays)
	events, ledger, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := toReorderRiskDTO(intelligence.ReorderRisk(events, ledger, uc.now(), windowDays), windowDays)
	return &out, nil
}

// Summary calcula alertas, fast movers y riesgo sobre una única lectura del log.
//
// Tres cálculos en paralelo sobre el mismo snapshot:
//  1. Alerts(ledger, umbrales)
//  2. FastMovers(eventos, ventana, top)
//  3. ReorderRisk(eventos, ledger, ventana)
func (uc *LedgerUseCase) Summary(ctx context.Context) (*dto.SummaryDTO, error) {
	events, ledger, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return uc.summarize(events, ledger), nil
}

func (uc *LedgerUseCase) summarize(events []entity.StockEvent, ledger *stock.Ledger) *dto.SummaryDTO {
	now := uc.now()
	s := uc.settings
	windowDays, topN := uc.window(0), uc.top(0)

	alertsCh := make(chan dto.AlertsDTO, 1)
	moversCh := make(chan dto.FastMoversDTO, 1)
	riskCh := make(chan dto.ReorderRiskDTO, 1)

	go func() {
		alertsCh <- toAlertsDTO(intelligence.Alerts(ledger, s.Thresholds), s.Thresholds)
	}()
	go func() {
		moversCh <- toFastMoversDTO(intelligence.FastMovers(events, now, windowDays, topN), windowDays)
	}()
	go func() {
		riskCh <- toReorderRiskDTO(intelligence.ReorderRisk(events, ledger, now, windowDays), windowDays)
	}()

	return &dto.SummaryDTO{
		GeneratedAt: now,
		Items:       ledger.Len(),
		Events:      ledger.Events(),
		Anomalies:   len(ledger.Anomalies()),
		Alerts:      <-alertsCh,
		FastMovers:  <-moversCh,
		ReorderRisk: <-riskCh,
	}
}

// Report genera el PDF de estado de stock.
func (uc *LedgerUseCase) Report(ctx context.Context) ([]byte, error) {
	if uc.reports == nil {
		return nil, fmt.Errorf("reporte PDF no configurado")
	}
	data, err := uc.StockReport(ctx)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.reports.GenerateStockReport(ctx, *data)
	if err != nil {
		return nil, fmt.Errorf("generar reporte: %w", err)
	}
	return pdf, nil
}

// StockReport arma ledger e inteligencia desde una sola lectura del log.
func (uc *LedgerUseCase) StockReport(ctx context.Context) (*dto.StockReportData, error) {
	events, ledger, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	summary := uc.summarize(events, ledger)
	return &dto.StockReportData{
		Title:       reportTitle,
		GeneratedAt: summary.GeneratedAt,
		Ledger:      toLedgerDTO(ledger),
		Alerts:      summary.Alerts,
		FastMovers:  summary.FastMovers,
		ReorderRisk: summary.ReorderRisk,
	}, nil
}

// thresholds completa los umbrales ausentes. Un valor por defecto nunca invalida
// el que envió el cliente: critical ausente se acota a low y low ausente sube hasta critical.
func (uc *LedgerUseCase) thresholds(q AlertsQuery) (intelligence.Thresholds, error) {
	th := uc.settings.Thresholds
	switch {
	case q.Low != nil && q.Critical != nil:
		th = intelligence.Thresholds{Low: *q.Low, Critical: *q.Critical}
	case q.Low != nil:
		th.Low = *q.Low
		th.Critical = min(th.Critical, th.Low)
	case q.Critical != nil:
		th.Critical = *q.Critical
		th.Low = max(th.Low, th.Critical)
	}
	if th.Low < 0 || th.Critical < 0 || th.Critical > th.Low {
		return th, fmt.Errorf("umbrales inválidos (low=%d, critical=%d): %w", th.Low, th.Critical, domain.ErrInvalidInput)
	}
	return th, nil
}

func (uc *LedgerUseCase) window(days int) int {
	if days > 0 {
		return days
	}
	if uc.settings.WindowDays > 0 {
		return uc.settings.WindowDays
	}
	return intelligence.DefaultWindowDays
}

func (uc *LedgerUseCase) top(n int) int {
	if n > 0 {
		return n
	}
	if uc.settings.TopN > 0 {
		return uc.settings.TopN
	}
	return intelligence.DefaultTopN
}
