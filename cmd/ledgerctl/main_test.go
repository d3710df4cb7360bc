package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

func TestDecodeCharset_Latin1(t *testing.T) {
	// "Bogotá" en ISO-8859-1: á = 0xE1
	in := bytes.NewReader([]byte{'B', 'o', 'g', 'o', 't', 0xE1})
	r, err := decodeCharset(in, "latin1")
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Bogotá", string(out))

	_, err = decodeCharset(in, "ebcdic")
	assert.Error(t, err)
}

func TestRunToken_GeneraTokenValido(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "s3cret", Issuer: "ledgerctl", Expiration: 5}}
	var out bytes.Buffer

	require.NoError(t, runToken(cfg, []string{"-user", "u-1", "-email", "ana@example.com"}, &out))

	userID, email, err := jwt.Parse("s3cret", strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "ana@example.com", email)

	assert.Error(t, runToken(cfg, nil, &out))
}

func TestPrintReport_IncluyeSecciones(t *testing.T) {
	days := decimal.NewFromInt(5)
	var out bytes.Buffer
	printReport(&out,
		&dto.StockReportData{
			Ledger:      dto.LedgerDTO{Items: []dto.LedgerItemDTO{{ItemID: "X", Total: 10, OnRoad: 60, Locations: map[string]int64{"LOC-B": 4, "LOC-A": 6}}}, Events: 2},
			Alerts:      dto.AlertsDTO{LowThreshold: 20, CriticalThreshold: 5, Low: []dto.AlertItemDTO{{ItemID: "X", Total: 10}}},
			FastMovers:  dto.FastMoversDTO{WindowDays: 30, Items: []dto.FastMoverDTO{{ItemID: "X", DeliveredInWindow: 60}}},
			ReorderRisk: dto.ReorderRiskDTO{WindowDays: 30, Items: []dto.ReorderRiskItemDTO{{ItemID: "X", Total: 10, AvgDaily: decimal.NewFromInt(2), DaysToZero: &days, Risk: "HIGH"}}},
		})

	s := out.String()
	assert.Contains(t, s, "LOC-A=6 LOC-B=4")
	assert.Contains(t, s, "BAJO")
	assert.Contains(t, s, "5.0")
	assert.Contains(t, s, "HIGH")
}
