package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newTestRepo(t *testing.T) *StockEventRepo {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStockEventRepository(db)
}

func qty(n int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(n))
}

// ──────────────────────────────────────────────────────────────────────────────
// Append
// ──────────────────────────────────────────────────────────────────────────────

func TestAppend_AsignaIDYTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	saved, err := repo.Append(ctx, entity.StockEvent{
		ItemID:      "ITM-0001",
		Type:        entity.EventTypeReceive,
		Quantity:    qty(120),
		ToLocation:  "LOC-AECI",
		PerformedBy: "ana@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.Timestamp.IsZero())

	list, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, entity.EventTypeReceive, got.Type)
	assert.True(t, got.Quantity.Valid)
	assert.True(t, got.Quantity.Decimal.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, "LOC-AECI", got.ToLocation)
	assert.Empty(t, got.FromLocation)
	assert.Equal(t, "ana@example.com", got.PerformedBy)
	assert.True(t, saved.Timestamp.Equal(got.Timestamp))
}

func TestAppend_TimestampsMonotonosConRelojCongelado(t *testing.T) {
	repo := newTestRepo(t)
	frozen := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return frozen }
	ctx := context.Background()

	var prev time.Time
	for i := 0; i < 5; i++ {
		saved, err := repo.Append(ctx, entity.StockEvent{
			ItemID: "ITM-0001", Type: entity.EventTypeReceive, Quantity: qty(1), ToLocation: "LOC-AECI",
		})
		require.NoError(t, err)
		assert.True(t, saved.Timestamp.After(prev), "cada timestamp debe superar al anterior")
		prev = saved.Timestamp
	}
}

func TestAppend_RelojAtrasadoNoRetrocede(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.now = func() time.Time { return time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC) }
	first, err := repo.Append(ctx, entity.StockEvent{ItemID: "A", Type: entity.EventTypeReceive, Quantity: qty(1), ToLocation: "L"})
	require.NoError(t, err)

	repo.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	second, err := repo.Append(ctx, entity.StockEvent{ItemID: "A", Type: entity.EventTypeReceive, Quantity: qty(1), ToLocation: "L"})
	require.NoError(t, err)

	assert.True(t, second.Timestamp.After(first.Timestamp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Import y consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_ConservaTimestampsYCantidadNula(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

	n, err := repo.Import(ctx, []entity.StockEvent{
		{ID: "legacy-2", ItemID: "ITM-0002", Type: entity.EventTypeDeliver, Quantity: qty(-4), FromLocation: "LOC-OFFICE", Timestamp: base.Add(time.Hour)},
		{ID: "legacy-1", ItemID: "ITM-0001", Type: entity.EventTypeReceive, Quantity: qty(50), ToLocation: "LOC-AECI", Timestamp: base},
		{ID: "legacy-3", ItemID: "ITM-0001", Type: entity.EventType("ADJUST"), Timestamp: base.Add(2 * time.Hour)},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "legacy-1", list[0].ID, "ordenado por occurred_at")
	assert.Equal(t, "legacy-2", list[1].ID)
	assert.True(t, list[1].Quantity.Decimal.Equal(decimal.NewFromInt(-4)), "la cantidad con signo se guarda tal cual")
	assert.False(t, list[2].Quantity.Valid)
	assert.Equal(t, entity.EventType("ADJUST"), list[2].Type)
	assert.True(t, list[0].Timestamp.Equal(base))
}

func TestImport_IDDuplicadoRevierteTodo(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Import(ctx, []entity.StockEvent{
		{ID: "dup", ItemID: "A", Type: entity.EventTypeReceive, Quantity: qty(1), ToLocation: "L"},
		{ID: "dup", ItemID: "A", Type: entity.EventTypeReceive, Quantity: qty(1), ToLocation: "L"},
	})
	require.Error(t, err)

	list, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListByItem_FiltraPorItem(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, item := range []string{"ITM-0001", "ITM-0002", "ITM-0001"} {
		_, err := repo.Append(ctx, entity.StockEvent{ItemID: item, Type: entity.EventTypeReceive, Quantity: qty(3), ToLocation: "LOC-AECI"})
		require.NoError(t, err)
	}

	list, err := repo.ListByItem(ctx, "ITM-0001")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, e := range list {
		assert.Equal(t, "ITM-0001", e.ItemID)
	}

	empty, err := repo.ListByItem(ctx, "ITM-9999")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
