package inventory

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/intelligence"
	"github.com/jhoicas/inventario-ledger/internal/domain/stock"
)

func toEventDTO(e entity.StockEvent) dto.StockEventDTO {
	out := dto.StockEventDTO{
		ID:           e.ID,
		ItemID:       e.ItemID,
		EventType:    string(e.Type),
		FromLocation: e.FromLocation,
		ToLocation:   e.ToLocation,
		Timestamp:    e.Timestamp,
		PerformedBy:  e.PerformedBy,
		Note:         e.Note,
	}
	if e.Quantity.Valid {
		q := e.Quantity.Decimal
		out.Quantity = &q
	}
	return out
}

func toEventDTOs(events []entity.StockEvent) []dto.StockEventDTO {
	out := make([]dto.StockEventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, toEventDTO(e))
	}
	return out
}

func toLedgerItemDTO(itemID string, s stock.ItemState) dto.LedgerItemDTO {
	locations := s.Locations
	if locations == nil {
		locations = map[string]int64{}
	}
	return dto.LedgerItemDTO{ItemID: itemID, Total: s.Total, OnRoad: s.OnRoad, Locations: locations}
}

func toLedgerDTO(l *stock.Ledger) dto.LedgerDTO {
	out := dto.LedgerDTO{
		Items:     make([]dto.LedgerItemDTO, 0, l.Len()),
		Events:    l.Events(),
		Anomalies: make([]dto.AnomalyDTO, 0),
	}
	for _, id := range l.ItemIDs() {
		s, _ := l.Item(id)
		out.Items = append(out.Items, toLedgerItemDTO(id, s))
	}
	for _, a := range l.Anomalies() {
		out.Anomalies = append(out.Anomalies, dto.AnomalyDTO{EventID: a.EventID, ItemID: a.ItemID, Reason: string(a.Reason)})
	}
	return out
}

func toAlertsDTO(a intelligence.StockAlerts, th intelligence.Thresholds) dto.AlertsDTO {
	conv := func(items []intelligence.AlertItem) []dto.AlertItemDTO {
		out := make([]dto.AlertItemDTO, 0, len(items))
		for _, it := range items {
			out = append(out, dto.AlertItemDTO{ItemID: it.ItemID, Total: it.Total})
		}
		return out
	}
	return dto.AlertsDTO{
		LowThreshold:      th.Low,
		CriticalThreshold: th.Critical,
		Critical:          conv(a.Critical),
		Low:               conv(a.Low),
	}
}

func toFastMoversDTO(items []intelligence.FastMover, windowDays int) dto.FastMoversDTO {
	out := dto.FastMoversDTO{WindowDays: windowDays, Items: make([]dto.FastMoverDTO, 0, len(items))}
	for _, f := range items {
		out.Items = append(out.Items, dto.FastMoverDTO{ItemID: f.ItemID, DeliveredInWindow: f.DeliveredInWindow})
	}
	return out
}

// toReorderRiskDTO redondea avg_daily a 2 decimales y days_to_zero a 1; +Inf pasa a null.
func toReorderRiskDTO(items []intelligence.ItemRisk, windowDays int) dto.ReorderRiskDTO {
	out := dto.ReorderRiskDTO{WindowDays: windowDays, Items: make([]dto.ReorderRiskItemDTO, 0, len(items))}
	for _, r := range items {
		row := dto.ReorderRiskItemDTO{
			ItemID:            r.ItemID,
			Total:             r.Total,
			DeliveredInWindow: r.DeliveredInWindow,
			AvgDaily:          decimal.NewFromFloat(r.AvgDaily).Round(2),
			Risk:              string(r.Risk),
		}
		if !math.IsInf(r.DaysToZero, 0) && !math.IsNaN(r.DaysToZero) {
			d := decimal.NewFromFloat(r.DaysToZero).Round(1)
			row.DaysToZero = &d
		}
		out.Items = append(out.Items, row)
	}
	return out
}
