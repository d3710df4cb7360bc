// Package stock contiene el núcleo del ledger de inventario: la validación de
// eventos en el momento de registrarlos y la reconstrucción del estado actual
// a partir del historial completo.
package stock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Metadata datos opacos del evento; el ledger no los interpreta.
type Metadata struct {
	PerformedBy string
	Note        string
}

// ValidatedEvent es un evento que ya pasó Validate. Solo existen cuatro
// implementaciones (Receive, Move, Deliver, Return) y cada una lleva
// únicamente los campos legales para su tipo.
type ValidatedEvent interface {
	Type() entity.EventType
	Item() string
	Units() int64
	// Record convierte el evento al registro persistible. ID y Timestamp
	// quedan vacíos: los asigna el store al escribir.
	Record() entity.StockEvent
	validated()
}

// Receive entrada de mercancía en una ubicación.
type Receive struct {
	ItemID   string
	Quantity int64
	To       string
	Metadata
}

// Move traslado entre dos ubicaciones distintas.
type Move struct {
	ItemID   string
	Quantity int64
	From     string
	To       string
	Metadata
}

// Deliver salida hacia un cliente desde una ubicación; la cantidad queda en ruta.
type Deliver struct {
	ItemID   string
	Quantity int64
	From     string
	Metadata
}

// Return devolución de mercancía en ruta hacia una ubicación.
type Return struct {
	ItemID   string
	Quantity int64
	To       string
	Metadata
}

func (Receive) Type() entity.EventType { return entity.EventTypeReceive }
func (Move) Type() entity.EventType    { return entity.EventTypeMove }
func (Deliver) Type() entity.EventType { return entity.EventTypeDeliver }
func (Return) Type() entity.EventType  { return entity.EventTypeReturn }

func (e Receive) Item() string { return e.ItemID }
func (e Move) Item() string    { return e.ItemID }
func (e Deliver) Item() string { return e.ItemID }
func (e Return) Item() string  { return e.ItemID }

func (e Receive) Units() int64 { return e.Quantity }
func (e Move) Units() int64    { return e.Quantity }
func (e Deliver) Units() int64 { return e.Quantity }
func (e Return) Units() int64  { return e.Quantity }

func (Receive) validated() {}
func (Move) validated()    {}
func (Deliver) validated() {}
func (Return) validated()  {}

func (e Receive) Record() entity.StockEvent {
	return newRecord(e, "", e.To, e.Metadata)
}

func (e Move) Record() entity.StockEvent {
	return newRecord(e, e.From, e.To, e.Metadata)
}

func (e Deliver) Record() entity.StockEvent {
	return newRecord(e, e.From, "", e.Metadata)
}

func (e Return) Record() entity.StockEvent {
	return newRecord(e, "", e.To, e.Metadata)
}

func newRecord(e ValidatedEvent, from, to string, md Metadata) entity.StockEvent {
	return entity.StockEvent{
		ItemID:       e.Item(),
		Type:         e.Type(),
		Quantity:     decimal.NewNullDecimal(decimal.NewFromInt(e.Units())),
		FromLocation: from,
		ToLocation:   to,
		PerformedBy:  md.PerformedBy,
		Note:         md.Note,
	}
}
