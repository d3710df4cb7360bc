package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EventType tipo de evento de stock.
type EventType string

// Tipos de evento soportados por el ledger.
const (
	EventTypeReceive EventType = "RECEIVE" // entrada de mercancía
	EventTypeMove    EventType = "MOVE"    // traslado entre ubicaciones
	EventTypeDeliver EventType = "DELIVER" // entrega a cliente (queda en ruta)
	EventTypeReturn  EventType = "RETURN"  // devolución de mercancía en ruta
)

// StockEffect efecto de un tipo de evento sobre el stock total.
type StockEffect string

const (
	StockEffectIn       StockEffect = "IN"
	StockEffectOut      StockEffect = "OUT"
	StockEffectTransfer StockEffect = "TRANSFER"
)

// EventTypeMeta metadatos fijos de cada tipo de evento (no editables por el usuario).
type EventTypeMeta struct {
	Type         EventType   `json:"type"`
	Label        string      `json:"label"`
	Effect       StockEffect `json:"effect"`
	RequiresFrom bool        `json:"requires_from"`
	RequiresTo   bool        `json:"requires_to"`
}

var eventTypes = []EventTypeMeta{
	{Type: EventTypeReceive, Label: "Recibir stock", Effect: StockEffectIn, RequiresTo: true},
	{Type: EventTypeMove, Label: "Trasladar stock", Effect: StockEffectTransfer, RequiresFrom: true, RequiresTo: true},
	{Type: EventTypeDeliver, Label: "Entregar a cliente", Effect: StockEffectOut, RequiresFrom: true},
	{Type: EventTypeReturn, Label: "Devolución de stock", Effect: StockEffectIn, RequiresTo: true},
}

// EventTypes devuelve la tabla de tipos de evento en orden de presentación.
func EventTypes() []EventTypeMeta {
	out := make([]EventTypeMeta, len(eventTypes))
	copy(out, eventTypes)
	return out
}

// Meta devuelve los metadatos del tipo; ok es false para tipos desconocidos.
func (t EventType) Meta() (meta EventTypeMeta, ok bool) {
	for _, m := range eventTypes {
		if m.Type == t {
			return m, true
		}
	}
	return EventTypeMeta{}, false
}

// Valid indica si t es uno de los cuatro tipos conocidos.
func (t EventType) Valid() bool {
	_, ok := t.Meta()
	return ok
}

// ParseEventType normaliza la representación textual ("deliver", " MOVE ").
// No valida: un valor desconocido se devuelve tal cual en mayúsculas.
func ParseEventType(s string) EventType {
	return EventType(strings.ToUpper(strings.TrimSpace(s)))
}

// StockEvent representa un evento del log de inventario (inmutable una vez aceptado).
// Quantity es nulo cuando el registro histórico tenía una cantidad ilegible;
// el ledger lo cuenta como cero.
type StockEvent struct {
	ID           string
	ItemID       string
	Type         EventType
	Quantity     decimal.NullDecimal
	FromLocation string
	ToLocation   string
	Timestamp    time.Time // asignado por el store al escribir
	PerformedBy  string
	Note         string
}
