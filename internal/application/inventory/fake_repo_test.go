package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// memoryRepo log en memoria con timestamps monótonos a partir de base.
type memoryRepo struct {
	mu        sync.Mutex
	events    []entity.StockEvent
	base      time.Time
	appendErr error
	appends   int
	reads     int
}

func newMemoryRepo(base time.Time) *memoryRepo {
	return &memoryRepo{base: base}
}

func (r *memoryRepo) Append(_ context.Context, e entity.StockEvent) (*entity.StockEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appends++
	if r.appendErr != nil {
		return nil, r.appendErr
	}
	e.ID = fmt.Sprintf("evt-%d", len(r.events)+1)
	e.Timestamp = r.base.Add(time.Duration(len(r.events)) * time.Second)
	r.events = append(r.events, e)
	return &e, nil
}

func (r *memoryRepo) Import(_ context.Context, events []entity.StockEvent) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range events {
		if e.ID == "" {
			e.ID = fmt.Sprintf("imp-%d", len(r.events)+1)
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = r.base
		}
		r.events = append(r.events, e)
	}
	return len(events), nil
}

func (r *memoryRepo) ListAll(_ context.Context) ([]entity.StockEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	out := append([]entity.StockEvent(nil), r.events...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *memoryRepo) ListByItem(ctx context.Context, itemID string) ([]entity.StockEvent, error) {
	all, _ := r.ListAll(ctx)
	out := []entity.StockEvent{}
	for _, e := range all {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	return out, nil
}

// captureReports guarda el último StockReportData recibido.
type captureReports struct {
	last *dto.StockReportData
}

func (c *captureReports) GenerateStockReport(_ context.Context, data dto.StockReportData) ([]byte, error) {
	c.last = &data
	return []byte("%PDF-fake"), nil
}
