package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sinaleiro/internal/models"
	"sinaleiro/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeExchange struct {
	positions    []models.Position
	positionsErr error

	leverageCalls []int
	leverageErr   error

	marketIntent *models.OrderIntent
	marketRes    *models.OrderResult
	marketErr    error

	tpIntent *models.TakeProfitIntent
	tpErr    error
}

func (f *fakeExchange) Positions(context.Context, string) ([]models.Position, error) {
	return f.positions, f.positionsErr
}

func (f *fakeExchange) SetLeverage(_ context.Context, _ string, lev int) error {
	f.leverageCalls = append(f.leverageCalls, lev)
	return f.leverageErr
}

func (f *fakeExchange) PlaceMarket(_ context.Context, intent models.OrderIntent) (*models.OrderResult, error) {
	f.marketIntent = &intent
	return f.marketRes, f.marketErr
}

func (f *fakeExchange) PlaceTakeProfit(_ context.Context, tp models.TakeProfitIntent) (*models.OrderResult, error) {
	f.tpIntent = &tp
	if f.tpErr != nil {
		return nil, f.tpErr
	}
	return &models.OrderResult{OrderID: 99, Status: "NEW"}, nil
}

func buySignal() models.SignalEvent {
	return models.SignalEvent{
		Exchange:  "BINANCE",
		Symbol:    "XRPUSDT",
		RawSignal: "compra",
		Direction: models.DirectionBuy,
		Timeframe: "15 minutos",
	}
}

func newExecutor(f *fakeExchange) *Executor {
	return New(f, nil, Config{Quantity: 10, Leverage: 10, PricePrecision: 4})
}

func TestTakeProfitPrice(t *testing.T) {
	assert.InDelta(t, 105.0, TakeProfitPrice(100, 10, models.PositionLong, 4), 1e-9)
	assert.InDelta(t, 95.0, TakeProfitPrice(100, 10, models.PositionShort, 4), 1e-9)

	// 50% return on margin holds at any leverage.
	assert.InDelta(t, 102.5, TakeProfitPrice(100, 20, models.PositionLong, 4), 1e-9)

	// Rounded to the configured precision.
	assert.InDelta(t, 1.2654, TakeProfitPrice(1.2345, 20, models.PositionLong, 4), 1e-9)
	assert.InDelta(t, 1.2036, TakeProfitPrice(1.2345, 20, models.PositionShort, 4), 1e-9)
}

func TestExecutePlacesEntryAndTakeProfit(t *testing.T) {
	f := &fakeExchange{
		marketRes: &models.OrderResult{OrderID: 7, Status: "FILLED", AvgPrice: 1.2, ExecutedQty: 10},
	}
	e := newExecutor(f)

	res := e.Execute(context.Background(), buySignal())
	require.Equal(t, OutcomePlaced, res.Outcome)

	assert.Equal(t, []int{10}, f.leverageCalls)

	require.NotNil(t, f.marketIntent)
	assert.Equal(t, models.SideBuy, f.marketIntent.Side)
	assert.Equal(t, models.PositionLong, f.marketIntent.PositionSide)
	assert.Equal(t, 10.0, f.marketIntent.Quantity)

	require.NotNil(t, f.tpIntent)
	assert.Equal(t, models.SideSell, f.tpIntent.Side, "long closes with a sell")
	assert.Equal(t, models.PositionLong, f.tpIntent.PositionSide)
	assert.InDelta(t, 1.26, f.tpIntent.TriggerPrice, 1e-9)
	assert.Equal(t, 10.0, f.tpIntent.Quantity, "TP sized to the executed qty")
}

func TestExecuteShortTakeProfitBelowEntry(t *testing.T) {
	f := &fakeExchange{
		marketRes: &models.OrderResult{OrderID: 8, Status: "FILLED", AvgPrice: 2.0, ExecutedQty: 10},
	}
	e := newExecutor(f)

	ev := buySignal()
	ev.RawSignal = "venda"
	ev.Direction = models.DirectionSell

	res := e.Execute(context.Background(), ev)
	require.Equal(t, OutcomePlaced, res.Outcome)

	require.NotNil(t, f.tpIntent)
	assert.Equal(t, models.SideBuy, f.tpIntent.Side)
	assert.Equal(t, models.PositionShort, f.tpIntent.PositionSide)
	assert.InDelta(t, 1.9, f.tpIntent.TriggerPrice, 1e-9)
}

func TestExecuteSkipsUnmappedDirection(t *testing.T) {
	f := &fakeExchange{}
	e := newExecutor(f)

	ev := buySignal()
	ev.RawSignal = "rompimento"
	ev.Direction = models.DirectionUnknown

	res := e.Execute(context.Background(), ev)
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Empty(t, f.leverageCalls, "no exchange call for an unmapped verb")
	assert.Nil(t, f.marketIntent)
}

func TestExecuteSkipsWhenPositionOpen(t *testing.T) {
	f := &fakeExchange{
		positions: []models.Position{{Symbol: "XRPUSDT", PositionSide: models.PositionLong, Qty: 5}},
	}
	e := newExecutor(f)

	res := e.Execute(context.Background(), buySignal())
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Nil(t, f.marketIntent)
}

func TestExecuteOppositeSidePositionDoesNotBlock(t *testing.T) {
	f := &fakeExchange{
		positions: []models.Position{{Symbol: "XRPUSDT", PositionSide: models.PositionShort, Qty: -5}},
		marketRes: &models.OrderResult{OrderID: 9, Status: "FILLED", AvgPrice: 1.0, ExecutedQty: 10},
	}
	e := newExecutor(f)

	res := e.Execute(context.Background(), buySignal())
	assert.Equal(t, OutcomePlaced, res.Outcome)
}

func TestGuardFailSafeOnError(t *testing.T) {
	f := &fakeExchange{positionsErr: errors.New("api down")}
	e := newExecutor(f)

	assert.True(t, e.hasOpenPosition(context.Background(), "XRPUSDT", models.PositionLong),
		"query failure must read as position exists")

	res := e.Execute(context.Background(), buySignal())
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Nil(t, f.marketIntent, "no order after a failed state fetch")
}

func TestExecuteUnfilledEntryStopsBeforeTakeProfit(t *testing.T) {
	f := &fakeExchange{
		marketRes: &models.OrderResult{OrderID: 11, Status: "NEW"},
	}
	e := newExecutor(f)

	res := e.Execute(context.Background(), buySignal())
	require.Equal(t, OutcomeFailed, res.Outcome)
	assert.Nil(t, f.tpIntent, "no TP without a confirmed fill")
	require.NotNil(t, res.Entry, "order exists on the exchange and is reported")
	assert.Equal(t, int64(11), res.Entry.OrderID)
}

func TestExecuteTakeProfitErrorKeepsEntry(t *testing.T) {
	f := &fakeExchange{
		marketRes: &models.OrderResult{OrderID: 12, Status: "FILLED", AvgPrice: 1.0, ExecutedQty: 10},
		tpErr:     errors.New("rejected"),
	}
	e := newExecutor(f)

	res := e.Execute(context.Background(), buySignal())
	require.Equal(t, OutcomeFailed, res.Outcome)
	require.NotNil(t, res.Entry)
	assert.Equal(t, int64(12), res.Entry.OrderID)
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	e := New(&fakeExchange{}, nil, Config{Quantity: 1, Leverage: 10, QueueSize: 1})

	assert.True(t, e.Enqueue(buySignal()))
	assert.False(t, e.Enqueue(buySignal()), "full queue drops instead of blocking")
}
