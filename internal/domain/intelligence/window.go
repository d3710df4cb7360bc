// Package intelligence implementa las consultas analíticas sobre el historial
// de eventos y el ledger reconstruido: alertas de stock, ítems de alta
// rotación y riesgo de reposición. Todas son funciones puras; la hora de
// referencia se recibe como argumento.
package intelligence

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/stock"
)

// Valores por defecto de las consultas.
const (
	DefaultWindowDays = 30
	DefaultTopN       = 5
)

const day = 24 * time.Hour

func normalizeWindow(days int) int {
	if days <= 0 {
		return DefaultWindowDays
	}
	return days
}

// inWindow indica si ts cae en [now - days, now]. Un timestamp vacío nunca cae.
func inWindow(ts, now time.Time, days int) bool {
	if ts.IsZero() || ts.After(now) {
		return false
	}
	return !ts.Before(now.Add(-time.Duration(days) * day))
}

// deliveredTotals suma las cantidades entregadas (DELIVER) dentro de la ventana
// por ítem. order conserva la primera aparición de cada ítem.
func deliveredTotals(events []entity.StockEvent, now time.Time, days int) (totals map[string]int64, order []string) {
	totals = make(map[string]int64)
	for _, e := range events {
		if e.Type != entity.EventTypeDeliver || !inWindow(e.Timestamp, now, days) {
			continue
		}
		qty, _ := stock.Magnitude(e.Quantity)
		if _, seen := totals[e.ItemID]; !seen {
			order = append(order, e.ItemID)
		}
		totals[e.ItemID] += qty
	}
	return totals, order
}
