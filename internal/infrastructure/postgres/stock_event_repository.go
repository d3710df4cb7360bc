package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockEventRepository = (*StockEventRepo)(nil)

const selectEvents = `
	SELECT id, item_id, event_type, quantity, from_location, to_location, occurred_at, performed_by, note
	FROM stock_events`

// StockEventRepo implementación del log de eventos sobre PostgreSQL.
type StockEventRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewStockEventRepository construye el adaptador.
func NewStockEventRepository(pool *pgxpool.Pool) *StockEventRepo {
	return &StockEventRepo{pool: pool, tx: NewTxRunner(pool)}
}

// Append persiste un evento. occurred_at = max(clock_timestamp(), último occurred_at),
// calculado bajo el lock de escritura.
func (r *StockEventRepo) Append(ctx context.Context, event entity.StockEvent) (*entity.StockEvent, error) {
	event.ID = uuid.New().String()

	query := `
		INSERT INTO stock_events (id, item_id, event_type, quantity, from_location, to_location, occurred_at, performed_by, note)
		SELECT $1, $2, $3, $4, $5, $6,
			GREATEST(clock_timestamp(), COALESCE((SELECT MAX(occurred_at) FROM stock_events), '-infinity'::timestamptz)),
			$7, $8
		RETURNING occurred_at`

	err := r.tx.Run(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			event.ID, event.ItemID, string(event.Type), quantityArg(event.Quantity),
			nullable(event.FromLocation), nullable(event.ToLocation),
			nullable(event.PerformedBy), nullable(event.Note),
		).Scan(&event.Timestamp)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("append stock event: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("append stock event: %w", err)
	}
	return &event, nil
}

// Import carga eventos históricos con COPY dentro de una transacción.
func (r *StockEventRepo) Import(ctx context.Context, events []entity.StockEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	columns := []string{"id", "item_id", "event_type", "quantity", "from_location", "to_location", "occurred_at", "performed_by", "note"}

	var copied int64
	err := r.tx.Run(ctx, func(tx pgx.Tx) error {
		var err error
		copied, err = tx.CopyFrom(ctx, pgx.Identifier{"stock_events"}, columns,
			pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
				e := events[i]
				if e.ID == "" {
					e.ID = uuid.New().String()
				}
				ts := e.Timestamp
				if ts.IsZero() {
					ts = now
				}
				return []any{
					e.ID, e.ItemID, string(e.Type), quantityArg(e.Quantity),
					nullable(e.FromLocation), nullable(e.ToLocation), ts,
					nullable(e.PerformedBy), nullable(e.Note),
				}, nil
			}))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("import stock events: %w", err)
	}
	return int(copied), nil
}

// ListAll devuelve el historial completo.
func (r *StockEventRepo) ListAll(ctx context.Context) ([]entity.StockEvent, error) {
	rows, err := r.pool.Query(ctx, selectEvents+` ORDER BY occurred_at, seq`)
	if err != nil {
		return nil, fmt.Errorf("list stock events: %w", err)
	}
	return scanEvents(rows)
}

// ListByItem devuelve el historial de un ítem.
func (r *StockEventRepo) ListByItem(ctx context.Context, itemID string) ([]entity.StockEvent, error) {
	rows, err := r.pool.Query(ctx, selectEvents+` WHERE item_id = $1 ORDER BY occurred_at, seq`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list stock events by item: %w", err)
	}
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]entity.StockEvent, error) {
	defer rows.Close()
	list := []entity.StockEvent{}
	for rows.Next() {
		var e entity.StockEvent
		var eventType string
		var from, to, performedBy, note *string
		if err := rows.Scan(&e.ID, &e.ItemID, &eventType, &e.Quantity, &from, &to,
			&e.Timestamp, &performedBy, &note); err != nil {
			return nil, fmt.Errorf("scan stock event: %w", err)
		}
		e.Type = entity.EventType(eventType)
		e.FromLocation = deref(from)
		e.ToLocation = deref(to)
		e.PerformedBy = deref(performedBy)
		e.Note = deref(note)
		list = append(list, e)
	}
	return list, rows.Err()
}

func quantityArg(q decimal.NullDecimal) any {
	if !q.Valid {
		return nil
	}
	return q.Decimal
}
