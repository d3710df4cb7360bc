package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockEventRepository = (*StockEventRepo)(nil)

const (
	selectEvents = `
		SELECT id, item_id, event_type, quantity, from_location, to_location, occurred_at, performed_by, note
		FROM stock_events`
	insertEvent = `
		INSERT INTO stock_events (id, item_id, event_type, quantity, from_location, to_location, occurred_at, performed_by, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// StockEventRepo log de eventos sobre SQLite. occurred_at se guarda en nanosegundos UTC.
type StockEventRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewStockEventRepository construye el adaptador.
func NewStockEventRepository(db *sql.DB) *StockEventRepo {
	return &StockEventRepo{db: db, now: time.Now}
}

// Append persiste un evento con un timestamp estrictamente mayor que el último del log.
func (r *StockEventRepo) Append(ctx context.Context, event entity.StockEvent) (*entity.StockEvent, error) {
	event.ID = uuid.New().String()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var last int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(occurred_at), 0) FROM stock_events`).Scan(&last); err != nil {
		return nil, fmt.Errorf("append stock event: %w", err)
	}
	ts := r.now().UTC().UnixNano()
	if ts <= last {
		ts = last + 1
	}
	event.Timestamp = time.Unix(0, ts).UTC()

	if _, err := tx.ExecContext(ctx, insertEvent, args(event)...); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("append stock event: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("append stock event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &event, nil
}

// Import inserta eventos históricos conservando su timestamp, todo o nada.
func (r *StockEventRepo) Import(ctx context.Context, events []entity.StockEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	now := r.now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertEvent)
	if err != nil {
		return 0, fmt.Errorf("import stock events: %w", err)
	}
	defer stmt.Close()

	for i, e := range events {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = now
		}
		if _, err := stmt.ExecContext(ctx, args(e)...); err != nil {
			return 0, fmt.Errorf("import stock events: row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return len(events), nil
}

// ListAll devuelve el historial completo.
func (r *StockEventRepo) ListAll(ctx context.Context) ([]entity.StockEvent, error) {
	rows, err := r.db.QueryContext(ctx, selectEvents+` ORDER BY occurred_at, seq`)
	if err != nil {
		return nil, fmt.Errorf("list stock events: %w", err)
	}
	return scanEvents(rows)
}

// ListByItem devuelve el historial de un ítem.
func (r *StockEventRepo) ListByItem(ctx context.Context, itemID string) ([]entity.StockEvent, error) {
	rows, err := r.db.QueryContext(ctx, selectEvents+` WHERE item_id = ? ORDER BY occurred_at, seq`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list stock events by item: %w", err)
	}
	return scanEvents(rows)
}

func args(e entity.StockEvent) []any {
	var qty any
	if e.Quantity.Valid {
		qty = e.Quantity.Decimal.String()
	}
	return []any{
		e.ID, e.ItemID, string(e.Type), qty,
		nullString(e.FromLocation), nullString(e.ToLocation),
		e.Timestamp.UTC().UnixNano(),
		nullString(e.PerformedBy), nullString(e.Note),
	}
}

func scanEvents(rows *sql.Rows) ([]entity.StockEvent, error) {
	defer rows.Close()
	list := []entity.StockEvent{}
	for rows.Next() {
		var e entity.StockEvent
		var eventType string
		var occurred int64
		var qty, from, to, performedBy, note sql.NullString
		if err := rows.Scan(&e.ID, &e.ItemID, &eventType, &qty, &from, &to,
			&occurred, &performedBy, &note); err != nil {
			return nil, fmt.Errorf("scan stock event: %w", err)
		}
		e.Type = entity.EventType(eventType)
		if qty.Valid {
			if d, err := decimal.NewFromString(qty.String); err == nil {
				e.Quantity = decimal.NewNullDecimal(d)
			}
		}
		e.FromLocation = from.String
		e.ToLocation = to.String
		e.Timestamp = time.Unix(0, occurred).UTC()
		e.PerformedBy = performedBy.String
		e.Note = note.String
		list = append(list, e)
	}
	return list, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
