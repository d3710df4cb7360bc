package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seq fija el orden de escritura; occurred_at es el timestamp del evento.
// quantity admite NULL para registros históricos con cantidad ilegible.
const schema = `
CREATE TABLE IF NOT EXISTS stock_events (
	seq           BIGSERIAL PRIMARY KEY,
	id            TEXT NOT NULL UNIQUE,
	item_id       TEXT NOT NULL,
	event_type    TEXT NOT NULL,
	quantity      NUMERIC NULL,
	from_location TEXT NULL,
	to_location   TEXT NULL,
	occurred_at   TIMESTAMPTZ NOT NULL,
	performed_by  TEXT NULL,
	note          TEXT NULL
);
CREATE INDEX IF NOT EXISTS idx_stock_events_occurred ON stock_events (occurred_at, seq);
CREATE INDEX IF NOT EXISTS idx_stock_events_item ON stock_events (item_id, occurred_at, seq);
`

// EnsureSchema crea la tabla del log de eventos si no existe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear esquema stock_events: %w", err)
	}
	return nil
}
