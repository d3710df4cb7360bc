package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// ReportGenerator genera el PDF de estado de stock (implementado en infrastructure/pdf).
type ReportGenerator interface {
	GenerateStockReport(ctx context.Context, data dto.StockReportData) ([]byte, error)
}
