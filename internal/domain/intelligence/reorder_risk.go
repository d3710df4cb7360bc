package intelligence

import (
	"math"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/stock"
)

// RiskLevel nivel de riesgo de quedarse sin stock.
type RiskLevel string

const (
	RiskHigh RiskLevel = "HIGH"
	RiskMed  RiskLevel = "MED"
	RiskLow  RiskLevel = "LOW"
)

// Rank 0 = más urgente.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 0
	case RiskMed:
		return 1
	default:
		return 2
	}
}

// Días hasta agotar stock que marcan cada nivel (inclusive).
const (
	highRiskDays = 7
	medRiskDays  = 21
)

// ItemRisk proyección de agotamiento de un ítem al ritmo reciente de entregas.
// DaysToZero es +Inf cuando no hubo entregas en la ventana.
type ItemRisk struct {
	ItemID            string
	Total             int64
	DeliveredInWindow int64
	AvgDaily          float64
	DaysToZero        float64
	Risk              RiskLevel
}

// ReorderRisk estima para cada ítem del ledger cuántos días faltan para llegar a
// cero si las entregas siguen al promedio diario de la ventana:
//
//	avgDaily   = entregado / windowDays
//	daysToZero = total / avgDaily   (+Inf si avgDaily <= 0)
//	HIGH si daysToZero <= 7, MED si <= 21, LOW en otro caso
//
// El resultado se ordena HIGH, MED, LOW; dentro de cada nivel se respeta el
// orden del ledger (los consumidores muestran solo el principio de la lista).
func ReorderRisk(events []entity.StockEvent, ledger *stock.Ledger, now time.Time, windowDays int) []ItemRisk {
	days := normalizeWindow(windowDays)
	delivered, _ := deliveredTotals(events, now, days)

	out := make([]ItemRisk, 0, ledger.Len())
	for _, id := range ledger.ItemIDs() {
		item, _ := ledger.Item(id)
		r := ItemRisk{
			ItemID:            id,
			Total:             item.Total,
			DeliveredInWindow: delivered[id],
			AvgDaily:          float64(delivered[id]) / float64(days),
		}
		if r.AvgDaily <= 0 {
			r.AvgDaily = 0
			r.DaysToZero = math.Inf(1)
			r.Risk = RiskLow
		} else {
			r.DaysToZero = float64(r.Total) / r.AvgDaily
			r.Risk = classify(r.DaysToZero)
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Risk.Rank() < out[j].Risk.Rank()
	})
	return out
}

func classify(daysToZero float64) RiskLevel {
	switch {
	case daysToZero <= highRiskDays:
		return RiskHigh
	case daysToZero <= medRiskDays:
		return RiskMed
	default:
		return RiskLow
	}
}
