// Package sqlite implementa el log de eventos de stock sobre SQLite (modernc, sin cgo)
// para despliegues de una sola instancia y para pruebas.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS stock_events (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT NOT NULL UNIQUE,
	item_id       TEXT NOT NULL,
	event_type    TEXT NOT NULL,
	quantity      TEXT,
	from_location TEXT,
	to_location   TEXT,
	occurred_at   INTEGER NOT NULL,
	performed_by  TEXT,
	note          TEXT
);
CREATE INDEX IF NOT EXISTS idx_stock_events_occurred ON stock_events (occurred_at, seq);
CREATE INDEX IF NOT EXISTS idx_stock_events_item ON stock_events (item_id, occurred_at, seq);
`

// Open abre la base en path (":memory:" para pruebas) y crea el esquema.
// Una sola conexión: SQLite serializa las escrituras y ":memory:" vive en la conexión.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("crear esquema stock_events: %w", err)
	}
	return tx.Commit()
}
