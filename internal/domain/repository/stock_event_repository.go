package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockEventRepository define el puerto de persistencia del log de eventos (DIP).
// El log es de solo anexado: no hay Update ni Delete.
type StockEventRepository interface {
	// Append persiste un evento validado. El store asigna ID y Timestamp; el
	// timestamp nunca es anterior al último evento almacenado.
	Append(ctx context.Context, event entity.StockEvent) (*entity.StockEvent, error)
	// Import carga eventos históricos conservando su Timestamp (si viene vacío
	// se usa la hora de escritura). Devuelve cuántos se guardaron.
	Import(ctx context.Context, events []entity.StockEvent) (int, error)
	// ListAll devuelve el historial completo ordenado por timestamp.
	ListAll(ctx context.Context) ([]entity.StockEvent, error)
	// ListByItem devuelve el historial de un ítem ordenado por timestamp.
	ListByItem(ctx context.Context, itemID string) ([]entity.StockEvent, error)
}
