package features

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/intelligence"
	"github.com/jhoicas/inventario-ledger/internal/domain/stock"
)

var referenceNow = time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)

type ledgerTestContext struct {
	events     []entity.StockEvent
	ledger     *stock.Ledger
	alerts     intelligence.StockAlerts
	risks      []intelligence.ItemRisk
	fastMovers []intelligence.FastMover
	submitErr  error
}

func (c *ledgerTestContext) reset() {
	*c = ledgerTestContext{}
}

func (c *ledgerTestContext) anEmptyEventLog() error {
	c.events = nil
	return nil
}

func (c *ledgerTestContext) theFollowingEvents(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return errors.New("event table needs a header and at least one row")
	}
	cols := make(map[string]int)
	for i, cell := range table.Rows[0].Cells {
		cols[cell.Value] = i
	}
	get := func(row int, name string) string {
		i, ok := cols[name]
		if !ok {
			return ""
		}
		return table.Rows[row].Cells[i].Value
	}

	for row := 1; row < len(table.Rows); row++ {
		daysAgo, err := strconv.Atoi(get(row, "days_ago"))
		if err != nil {
			return fmt.Errorf("row %d: days_ago: %w", row, err)
		}
		// Una cantidad ilegible queda nula, como en los registros históricos corruptos.
		var qty decimal.NullDecimal
		if d, err := decimal.NewFromString(get(row, "quantity")); err == nil {
			qty = decimal.NewNullDecimal(d)
		}
		c.events = append(c.events, entity.StockEvent{
			ID:           fmt.Sprintf("evt-%d", len(c.events)+1),
			ItemID:       get(row, "item"),
			Type:         entity.ParseEventType(get(row, "type")),
			Quantity:     qty,
			FromLocation: get(row, "from"),
			ToLocation:   get(row, "to"),
			Timestamp:    referenceNow.AddDate(0, 0, -daysAgo),
		})
	}
	return nil
}

func (c *ledgerTestContext) iSubmit(eventType string, qty int, itemID, from, to string) error {
	validated, err := stock.Validate(stock.Candidate{
		ItemID:       itemID,
		Type:         eventType,
		Quantity:     decimal.NewFromInt(int64(qty)),
		FromLocation: from,
		ToLocation:   to,
	})
	c.submitErr = err
	if err != nil {
		return nil
	}
	rec := validated.Record()
	rec.ID = fmt.Sprintf("evt-%d", len(c.events)+1)
	rec.Timestamp = referenceNow
	c.events = append(c.events, rec)
	return nil
}

func (c *ledgerTestContext) theSubmissionFailsWith(code string) error {
	if c.submitErr == nil {
		return errors.New("expected submission to fail but it succeeded")
	}
	if got := domain.ValidationCode(c.submitErr); got != code {
		return fmt.Errorf("expected code %s, got %s (%v)", code, got, c.submitErr)
	}
	return nil
}

func (c *ledgerTestContext) theSubmissionSucceeds() error {
	if c.submitErr != nil {
		return fmt.Errorf("expected submission to succeed: %w", c.submitErr)
	}
	return nil
}

func (c *ledgerTestContext) theEventLogHasEvents(n int) error {
	if len(c.events) != n {
		return fmt.Errorf("expected %d events in log, got %d", n, len(c.events))
	}
	return nil
}

func (c *ledgerTestContext) iRebuildTheLedger() error {
	c.ledger = stock.Aggregate(c.events)
	return nil
}

func (c *ledgerTestContext) item(itemID string) (stock.ItemState, error) {
	if c.ledger == nil {
		return stock.ItemState{}, errors.New("ledger not rebuilt")
	}
	s, ok := c.ledger.Item(itemID)
	if !ok {
		return stock.ItemState{}, fmt.Errorf("item %s not in ledger", itemID)
	}
	return s, nil
}

func (c *ledgerTestContext) itemHasTotalAndOnRoad(itemID string, total, onRoad int) error {
	s, err := c.item(itemID)
	if err != nil {
		return err
	}
	if s.Total != int64(total) || s.OnRoad != int64(onRoad) {
		return fmt.Errorf("item %s: expected total=%d on_road=%d, got total=%d on_road=%d",
			itemID, total, onRoad, s.Total, s.OnRoad)
	}
	return nil
}

func (c *ledgerTestContext) itemHasAtLocation(itemID string, qty int, location string) error {
	s, err := c.item(itemID)
	if err != nil {
		return err
	}
	if got := s.Locations[location]; got != int64(qty) {
		return fmt.Errorf("item %s at %s: expected %d, got %d", itemID, location, qty, got)
	}
	return nil
}

func (c *ledgerTestContext) everyItemReconciles() error {
	for id, s := range c.ledger.State() {
		if !s.Reconciles() {
			return fmt.Errorf("item %s does not reconcile: total=%d locations=%d on_road=%d",
				id, s.Total, s.LocationSum(), s.OnRoad)
		}
	}
	return nil
}

func (c *ledgerTestContext) theReplayReportsAnomalies(n int) error {
	if got := len(c.ledger.Anomalies()); got != n {
		return fmt.Errorf("expected %d anomalies, got %d", n, got)
	}
	return nil
}

func (c *ledgerTestContext) iRequestStockAlerts(low, critical int) error {
	c.alerts = intelligence.Alerts(c.ledger, intelligence.Thresholds{Low: int64(low), Critical: int64(critical)})
	return nil
}

func alertIDs(items []intelligence.AlertItem) string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ItemID)
	}
	return strings.Join(ids, ",")
}

func (c *ledgerTestContext) theAlertsAre(bucket, want string) error {
	got := alertIDs(c.alerts.Low)
	if bucket == "critical" {
		got = alertIDs(c.alerts.Critical)
	}
	if got != want {
		return fmt.Errorf("%s alerts: expected %q, got %q", bucket, want, got)
	}
	return nil
}

func (c *ledgerTestContext) iRequestReorderRisk(days int) error {
	c.risks = intelligence.ReorderRisk(c.events, c.ledger, referenceNow, days)
	return nil
}

func (c *ledgerTestContext) itemHasRisk(itemID, risk string, avgDaily, daysToZero float64) error {
	for _, r := range c.risks {
		if r.ItemID != itemID {
			continue
		}
		if string(r.Risk) != risk {
			return fmt.Errorf("item %s: expected risk %s, got %s", itemID, risk, r.Risk)
		}
		if got := math.Round(r.AvgDaily*100) / 100; got != avgDaily {
			return fmt.Errorf("item %s: expected avg_daily %.2f, got %.2f", itemID, avgDaily, got)
		}
		if got := math.Round(r.DaysToZero*10) / 10; got != daysToZero {
			return fmt.Errorf("item %s: expected days_to_zero %.1f, got %.1f", itemID, daysToZero, got)
		}
		return nil
	}
	return fmt.Errorf("item %s not in reorder risk", itemID)
}

func (c *ledgerTestContext) theFirstRiskRowIs(itemID string) error {
	if len(c.risks) == 0 || c.risks[0].ItemID != itemID {
		return fmt.Errorf("expected %s first, got %+v", itemID, c.risks)
	}
	return nil
}

func (c *ledgerTestContext) iRequestFastMovers(topN, days int) error {
	c.fastMovers = intelligence.FastMovers(c.events, referenceNow, days, topN)
	return nil
}

func (c *ledgerTestContext) theFastMoversAre(want string) error {
	parts := make([]string, 0, len(c.fastMovers))
	for _, f := range c.fastMovers {
		parts = append(parts, fmt.Sprintf("%s:%d", f.ItemID, f.DeliveredInWindow))
	}
	if got := strings.Join(parts, ","); got != want {
		return fmt.Errorf("fast movers: expected %q, got %q", want, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &ledgerTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given
	ctx.Step(`^an empty event log$`, tc.anEmptyEventLog)
	ctx.Step(`^the following events:$`, tc.theFollowingEvents)

	// When
	ctx.Step(`^I submit a ([A-Z]+) of (\d+) "([^"]*)" from "([^"]*)" to "([^"]*)"$`, tc.iSubmit)
	ctx.Step(`^I rebuild the ledger$`, tc.iRebuildTheLedger)
	ctx.Step(`^I request stock alerts with low (\d+) and critical (\d+)$`, tc.iRequestStockAlerts)
	ctx.Step(`^I request reorder risk over (\d+) days$`, tc.iRequestReorderRisk)
	ctx.Step(`^I request the top (\d+) fast movers over (\d+) days$`, tc.iRequestFastMovers)

	// Then
	ctx.Step(`^the submission fails with "([^"]*)"$`, tc.theSubmissionFailsWith)
	ctx.Step(`^the submission succeeds$`, tc.theSubmissionSucceeds)
	ctx.Step(`^the event log has (\d+) events$`, tc.theEventLogHasEvents)
	ctx.Step(`^item "([^"]*)" has total (-?\d+) and on_road (-?\d+)$`, tc.itemHasTotalAndOnRoad)
	ctx.Step(`^item "([^"]*)" has (-?\d+) at "([^"]*)"$`, tc.itemHasAtLocation)
	ctx.Step(`^every item reconciles$`, tc.everyItemReconciles)
	ctx.Step(`^the replay reports (\d+) anomalies$`, tc.theReplayReportsAnomalies)
	ctx.Step(`^the (critical|low) alerts are "([^"]*)"$`, tc.theAlertsAre)
	ctx.Step(`^item "([^"]*)" has risk "([^"]*)" with avg_daily ([\d.]+) and days_to_zero ([\d.]+)$`, tc.itemHasRisk)
	ctx.Step(`^the first risk row is "([^"]*)"$`, tc.theFirstRiskRowIs)
	ctx.Step(`^the fast movers are "([^"]*)"$`, tc.theFastMoversAre)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"ledger.feature", "intelligence.feature", "validation.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
