// Package store abre el log de eventos según STORE_DRIVER.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

// Open conecta el backend configurado, crea el esquema y devuelve el repositorio
// junto con la función que libera la conexión.
func Open(ctx context.Context, cfg *config.Config) (repository.StockEventRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewStockEventRepository(db), func() { _ = db.Close() }, nil

	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewStockEventRepository(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("store: driver no soportado %q", cfg.Store.Driver)
}
