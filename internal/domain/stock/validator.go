package stock

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

// Candidate evento propuesto por el usuario, antes de validar.
// Type se recibe como texto para poder reportar tipos desconocidos.
type Candidate struct {
	ItemID       string
	Type         string
	Quantity     decimal.Decimal
	FromLocation string
	ToLocation   string
	PerformedBy  string
	Note         string
}

// Validate aplica las reglas de registro en orden y se detiene en el primer fallo:
//  1. item_id presente
//  2. tipo de evento conocido
//  3. cantidad entera mayor que cero
//  4. origen presente si el tipo lo exige
//  5. destino presente si el tipo lo exige
//  6. origen y destino distintos si ambos vienen informados
//
// Los errores son *domain.ValidationError y envuelven los sentinelas de domain.
func Validate(c Candidate) (ValidatedEvent, error) {
	itemID := strings.TrimSpace(c.ItemID)
	if itemID == "" {
		return nil, invalid("item_id", domain.ErrMissingItem)
	}

	eventType := entity.ParseEventType(c.Type)
	meta, ok := eventType.Meta()
	if !ok {
		return nil, invalid("event_type", domain.ErrUnknownEventType)
	}

	q := c.Quantity
	if !q.IsPositive() || !q.IsInteger() || q.GreaterThan(maxQuantity) {
		return nil, invalid("quantity", domain.ErrInvalidQuantity)
	}

	from := strings.TrimSpace(c.FromLocation)
	to := strings.TrimSpace(c.ToLocation)
	if meta.RequiresFrom && from == "" {
		return nil, invalid("from_location", domain.ErrMissingFromLocation)
	}
	if meta.RequiresTo && to == "" {
		return nil, invalid("to_location", domain.ErrMissingToLocation)
	}
	if from != "" && to != "" && from == to {
		return nil, invalid("to_location", domain.ErrSameFromAndTo)
	}

	qty := q.Abs().IntPart()
	md := Metadata{PerformedBy: strings.TrimSpace(c.PerformedBy), Note: c.Note}

	switch eventType {
	case entity.EventTypeReceive:
		return Receive{ItemID: itemID, Quantity: qty, To: to, Metadata: md}, nil
	case entity.EventTypeMove:
		return Move{ItemID: itemID, Quantity: qty, From: from, To: to, Metadata: md}, nil
	case entity.EventTypeDeliver:
		return Deliver{ItemID: itemID, Quantity: qty, From: from, Metadata: md}, nil
	default:
		return Return{ItemID: itemID, Quantity: qty, To: to, Metadata: md}, nil
	}
}

func invalid(field string, err error) error {
	return &domain.ValidationError{Field: field, Err: err}
}
