package intelligence

import (
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain/stock"
)

// Thresholds umbrales de alerta sobre el stock total.
type Thresholds struct {
	Low      int64
	Critical int64
}

// DefaultThresholds low=20, critical=5.
func DefaultThresholds() Thresholds {
	return Thresholds{Low: 20, Critical: 5}
}

// AlertItem ítem en alerta con su stock total.
type AlertItem struct {
	ItemID string
	Total  int64
}

// StockAlerts ítems en estado crítico y bajo, del más urgente al menos urgente.
type StockAlerts struct {
	Critical []AlertItem
	Low      []AlertItem
}

// Alerts clasifica cada ítem del ledger por su total:
// total <= Critical → crítico; Critical < total <= Low → bajo; el resto no aparece.
// Empates en el total conservan el orden del ledger.
func Alerts(ledger *stock.Ledger, th Thresholds) StockAlerts {
	out := StockAlerts{Critical: []AlertItem{}, Low: []AlertItem{}}

	for _, id := range ledger.ItemIDs() {
		item, _ := ledger.Item(id)
		switch {
		case item.Total <= th.Critical:
			out.Critical = append(out.Critical, AlertItem{ItemID: id, Total: item.Total})
		case item.Total <= th.Low:
			out.Low = append(out.Low, AlertItem{ItemID: id, Total: item.Total})
		}
	}

	byTotal := func(list []AlertItem) func(i, j int) bool {
		return func(i, j int) bool { return list[i].Total < list[j].Total }
	}
	sort.SliceStable(out.Critical, byTotal(out.Critical))
	sort.SliceStable(out.Low, byTotal(out.Low))
	return out
}
