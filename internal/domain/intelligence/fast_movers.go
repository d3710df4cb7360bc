package intelligence

import (
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// FastMover cantidad entregada de un ítem dentro de la ventana.
type FastMover struct {
	ItemID            string
	DeliveredInWindow int64
}

// FastMovers devuelve los ítems con más unidades entregadas en los últimos
// windowDays días (respecto a now), de mayor a menor, limitado a topN.
// topN <= 0 no limita. Los ítems sin entregas en la ventana no aparecen.
func FastMovers(events []entity.StockEvent, now time.Time, windowDays, topN int) []FastMover {
	totals, order := deliveredTotals(events, now, normalizeWindow(windowDays))

	out := make([]FastMover, 0, len(order))
	for _, id := range order {
		out = append(out, FastMover{ItemID: id, DeliveredInWindow: totals[id]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DeliveredInWindow > out[j].DeliveredInWindow
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
