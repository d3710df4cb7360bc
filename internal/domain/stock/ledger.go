package stock

import (
	"maps"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ItemState stock actual de un ítem, derivado del historial (nunca se persiste).
type ItemState struct {
	Total     int64            // stock disponible en todas las ubicaciones
	OnRoad    int64            // entregado y aún no devuelto
	Locations map[string]int64 // ubicación -> cantidad
}

// LocationSum suma las cantidades de todas las ubicaciones.
func (s ItemState) LocationSum() int64 {
	var sum int64
	for _, q := range s.Locations {
		sum += q
	}
	return sum
}

// Reconciles verifica Total == suma(ubicaciones) + OnRoad.
// Se cumple siempre que el historial esté bien formado.
func (s ItemState) Reconciles() bool {
	return s.Total == s.LocationSum()+s.OnRoad
}

func (s ItemState) clone() ItemState {
	s.Locations = maps.Clone(s.Locations)
	return s
}

// AnomalyReason motivo por el que un registro histórico no sumó lo esperado.
type AnomalyReason string

const (
	AnomalyUnknownType     AnomalyReason = "unknown_event_type"
	AnomalyInvalidQuantity AnomalyReason = "invalid_quantity"
	AnomalyMissingItem     AnomalyReason = "missing_item"
)

// Anomaly registro del historial que se ignoró o se contó como cero.
type Anomaly struct {
	EventID string
	ItemID  string
	Reason  AnomalyReason
}

// Ledger resultado de una reconstrucción completa. Los ítems se recorren en el
// orden en que aparecieron por primera vez en el historial.
type Ledger struct {
	items     map[string]*ItemState
	order     []string
	events    int
	anomalies []Anomaly
}

// Aggregate reconstruye el stock de cada ítem plegando todos los eventos:
//
//	RECEIVE  total += q; loc[to] += q
//	MOVE     loc[from] -= q; loc[to] += q
//	DELIVER  total -= q; onRoad += q; loc[from] -= q
//	RETURN   total += q; onRoad -= q; loc[to] += q
//
// Los totales no dependen del orden de los eventos. Nunca falla: los tipos
// desconocidos se saltan y las cantidades ilegibles cuentan como cero; ambos
// casos quedan en Anomalies. No impide stock negativo.
func Aggregate(events []entity.StockEvent) *Ledger {
	l := &Ledger{items: make(map[string]*ItemState)}

	for _, e := range events {
		l.events++
		if e.ItemID == "" {
			l.anomalies = append(l.anomalies, Anomaly{EventID: e.ID, Reason: AnomalyMissingItem})
			continue
		}
		item := l.state(e.ItemID)

		if !e.Type.Valid() {
			l.anomalies = append(l.anomalies, Anomaly{EventID: e.ID, ItemID: e.ItemID, Reason: AnomalyUnknownType})
			continue
		}

		qty, ok := Magnitude(e.Quantity)
		if !ok {
			l.anomalies = append(l.anomalies, Anomaly{EventID: e.ID, ItemID: e.ItemID, Reason: AnomalyInvalidQuantity})
		}

		switch e.Type {
		case entity.EventTypeReceive:
			item.Total += qty
			item.add(e.ToLocation, qty)
		case entity.EventTypeMove:
			item.add(e.FromLocation, -qty)
			item.add(e.ToLocation, qty)
		case entity.EventTypeDeliver:
			item.Total -= qty
			item.OnRoad += qty
			item.add(e.FromLocation, -qty)
		case entity.EventTypeReturn:
			item.Total += qty
			item.OnRoad -= qty
			item.add(e.ToLocation, qty)
		}
	}
	return l
}

func (l *Ledger) state(itemID string) *ItemState {
	s, ok := l.items[itemID]
	if !ok {
		s = &ItemState{Locations: make(map[string]int64)}
		l.items[itemID] = s
		l.order = append(l.order, itemID)
	}
	return s
}

func (s *ItemState) add(location string, qty int64) {
	if location == "" {
		return
	}
	s.Locations[location] += qty
}

// Magnitude devuelve el valor absoluto entero de la cantidad almacenada.
// Los registros antiguos guardaban MOVE/DELIVER con signo negativo.
// Una cantidad nula o fuera de int64 no es legible: (0, false).
func Magnitude(q decimal.NullDecimal) (int64, bool) {
	if !q.Valid {
		return 0, false
	}
	abs := q.Decimal.Abs()
	if abs.GreaterThan(maxQuantity) {
		return 0, false
	}
	return abs.IntPart(), true
}

// Len número de ítems en el ledger.
func (l *Ledger) Len() int { return len(l.order) }

// Events número de eventos plegados, incluidos los ignorados.
func (l *Ledger) Events() int { return l.events }

// ItemIDs ítems en orden de primera aparición.
func (l *Ledger) ItemIDs() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Item devuelve una copia del estado del ítem.
func (l *Ledger) Item(itemID string) (ItemState, bool) {
	s, ok := l.items[itemID]
	if !ok {
		return ItemState{}, false
	}
	return s.clone(), true
}

// State devuelve una copia del ledger como mapa ítem -> estado.
func (l *Ledger) State() map[string]ItemState {
	out := make(map[string]ItemState, len(l.items))
	for id, s := range l.items {
		out[id] = s.clone()
	}
	return out
}

// Anomalies registros ignorados o contados como cero durante la reconstrucción.
func (l *Ledger) Anomalies() []Anomaly {
	out := make([]Anomaly, len(l.anomalies))
	copy(out, l.anomalies)
	return out
}
