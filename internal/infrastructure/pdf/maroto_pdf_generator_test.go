package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

func TestGenerateStockReport_DevuelvePDF(t *testing.T) {
	days := decimal.NewFromFloat(5)
	data := dto.StockReportData{
		Title:       "Estado de stock",
		GeneratedAt: time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC),
		Ledger: dto.LedgerDTO{
			Items: []dto.LedgerItemDTO{
				{ItemID: "ITM-0001", Total: 115, OnRoad: 5, Locations: map[string]int64{"LOC-AECI": 90, "LOC-OFFICE": 25}},
			},
			Events:    4,
			Anomalies: []dto.AnomalyDTO{{EventID: "legacy-1", Reason: "invalid_quantity"}},
		},
		Alerts: dto.AlertsDTO{
			LowThreshold: 20, CriticalThreshold: 5,
			Critical: []dto.AlertItemDTO{{ItemID: "ITM-0002", Total: 3}},
			Low:      []dto.AlertItemDTO{},
		},
		FastMovers: dto.FastMoversDTO{WindowDays: 30, Items: []dto.FastMoverDTO{{ItemID: "ITM-0001", DeliveredInWindow: 10}}},
		ReorderRisk: dto.ReorderRiskDTO{WindowDays: 30, Items: []dto.ReorderRiskItemDTO{
			{ItemID: "ITM-0002", Total: 10, DeliveredInWindow: 60, AvgDaily: decimal.NewFromInt(2), DaysToZero: &days, Risk: "HIGH"},
			{ItemID: "ITM-0001", Total: 115, AvgDaily: decimal.Zero, Risk: "LOW"},
		}},
	}

	out, err := NewMarotoPDFGenerator("inventario-ledger").GenerateStockReport(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateStockReport_LedgerVacio(t *testing.T) {
	out, err := NewMarotoPDFGenerator("").GenerateStockReport(context.Background(), dto.StockReportData{Title: "Vacío"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "0", formatUnits(0))
	assert.Equal(t, "999", formatUnits(999))
	assert.Equal(t, "25.000", formatUnits(25000))
	assert.Equal(t, "1.000.000", formatUnits(1000000))
	assert.Equal(t, "-1.200", formatUnits(-1200))
}

func TestLocationsLabel_OrdenAlfabetico(t *testing.T) {
	assert.Equal(t, "LOC-AECI: 90 · LOC-OFFICE: 25", locationsLabel(map[string]int64{"LOC-OFFICE": 25, "LOC-AECI": 90}))
	assert.Equal(t, "—", locationsLabel(nil))
}
