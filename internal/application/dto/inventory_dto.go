package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordEventRequest body para POST /api/inventory/events.
// performed_by no viaja en el body: se toma del token.
type RecordEventRequest struct {
	ItemID       string          `json:"item_id"`
	EventType    string          `json:"event_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	FromLocation string          `json:"from_location,omitempty"`
	ToLocation   string          `json:"to_location,omitempty"`
	Note         string          `json:"note,omitempty"`
}

// StockEventDTO evento almacenado. Quantity es null si el registro histórico era ilegible.
type StockEventDTO struct {
	ID           string           `json:"id"`
	ItemID       string           `json:"item_id"`
	EventType    string           `json:"event_type"`
	Quantity     *decimal.Decimal `json:"quantity"`
	FromLocation string           `json:"from_location,omitempty"`
	ToLocation   string           `json:"to_location,omitempty"`
	Timestamp    time.Time        `json:"timestamp"`
	PerformedBy  string           `json:"performed_by,omitempty"`
	Note         string           `json:"note,omitempty"`
}

// EventTypeDTO fila de la tabla de tipos de evento.
type EventTypeDTO struct {
	Type         string `json:"type"`
	Label        string `json:"label"`
	Effect       string `json:"effect"`
	RequiresFrom bool   `json:"requires_from"`
	RequiresTo   bool   `json:"requires_to"`
}

// LedgerItemDTO estado derivado de un ítem.
type LedgerItemDTO struct {
	ItemID    string           `json:"item_id"`
	Total     int64            `json:"total"`
	OnRoad    int64            `json:"on_road"`
	Locations map[string]int64 `json:"locations"`
}

// AnomalyDTO registro histórico ignorado o contado como cero durante la reconstrucción.
type AnomalyDTO struct {
	EventID string `json:"event_id"`
	ItemID  string `json:"item_id,omitempty"`
	Reason  string `json:"reason"`
}

// LedgerDTO respuesta de GET /api/inventory/ledger.
type LedgerDTO struct {
	Items     []LedgerItemDTO `json:"items"`
	Events    int             `json:"events"`
	Anomalies []AnomalyDTO    `json:"anomalies"`
}

// ItemDetailDTO estado de un ítem junto con su historial.
type ItemDetailDTO struct {
	LedgerItemDTO
	Events []StockEventDTO `json:"events"`
}

// AlertItemDTO ítem en una banda de alerta.
type AlertItemDTO struct {
	ItemID string `json:"item_id"`
	Total  int64  `json:"total"`
}

// AlertsDTO respuesta de GET /api/inventory/alerts.
type AlertsDTO struct {
	LowThreshold      int64          `json:"low_threshold"`
	CriticalThreshold int64          `json:"critical_threshold"`
	Critical          []AlertItemDTO `json:"critical"`
	Low               []AlertItemDTO `json:"low"`
}

// FastMoverDTO ítem con más unidades entregadas en la ventana.
type FastMoverDTO struct {
	ItemID            string `json:"item_id"`
	DeliveredInWindow int64  `json:"delivered_in_window"`
}

// FastMoversDTO respuesta de GET /api/inventory/fast-movers.
type FastMoversDTO struct {
	WindowDays int            `json:"window_days"`
	Items      []FastMoverDTO `json:"items"`
}

// ReorderRiskItemDTO proyección de agotamiento. days_to_zero es null cuando no hubo entregas.
type ReorderRiskItemDTO struct {
	ItemID            string           `json:"item_id"`
	Total             int64            `json:"total"`
	DeliveredInWindow int64            `json:"delivered_in_window"`
	AvgDaily          decimal.Decimal  `json:"avg_daily"`
	DaysToZero        *decimal.Decimal `json:"days_to_zero"`
	Risk              string           `json:"risk"`
}

// ReorderRiskDTO respuesta de GET /api/inventory/reorder-risk.
type ReorderRiskDTO struct {
	WindowDays int                  `json:"window_days"`
	Items      []ReorderRiskItemDTO `json:"items"`
}

// SummaryDTO las tres vistas de inteligencia calculadas sobre la misma reconstrucción.
type SummaryDTO struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Items       int            `json:"items"`
	Events      int            `json:"events"`
	Anomalies   int            `json:"anomalies"`
	Alerts      AlertsDTO      `json:"alerts"`
	FastMovers  FastMoversDTO  `json:"fast_movers"`
	ReorderRisk ReorderRiskDTO `json:"reorder_risk"`
}

// ImportLineError línea rechazada durante una importación.
type ImportLineError struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResultDTO resultado de una importación NDJSON.
type ImportResultDTO struct {
	Mode     string            `json:"mode"`
	Read     int               `json:"read"`
	Imported int               `json:"imported"`
	Rejected int               `json:"rejected"`
	Errors   []ImportLineError `json:"errors"`
}

// StockReportData datos del reporte PDF de estado de stock.
type StockReportData struct {
	Title       string
	GeneratedAt time.Time
	Ledger      LedgerDTO
	Alerts      AlertsDTO
	FastMovers  FastMoversDTO
	ReorderRisk ReorderRiskDTO
}
