package service

import (
	"context"
	"fmt"
	"sync"

	"sinaleiro/internal/models"
	"sinaleiro/pkg/logger"
)

// Exchange is the narrow slice of the futures API the executor needs.
type Exchange interface {
	Positions(ctx context.Context, symbol string) ([]models.Position, error)
	SetLeverage(ctx context.Context, symbol string, leverage int) error
	PlaceMarket(ctx context.Context, intent models.OrderIntent) (*models.OrderResult, error)
	PlaceTakeProfit(ctx context.Context, tp models.TakeProfitIntent) (*models.OrderResult, error)
}

type Notifier interface {
	SendText(text string) error
}

type Config struct {
	Quantity       float64
	Leverage       int
	PricePrecision int32
	Workers        int
	QueueSize      int
}

type Outcome string

const (
	OutcomePlaced  Outcome = "placed"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

type Result struct {
	Outcome    Outcome
	Reason     string
	Entry      *models.OrderResult
	TakeProfit *models.OrderResult
}

// Executor drains the signal queue with a small worker pool so a slow
// exchange call never stalls message ingestion. A per-symbol pending
// map keeps two queued signals for one symbol from racing the
// position check.
type Executor struct {
	exch     Exchange
	notifier Notifier
	cfg      Config

	queue chan models.SignalEvent

	mu      sync.Mutex
	pending map[string]bool
}

func New(exch Exchange, notifier Notifier, cfg Config) *Executor {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	return &Executor{
		exch:     exch,
		notifier: notifier,
		cfg:      cfg,
		queue:    make(chan models.SignalEvent, cfg.QueueSize),
		pending:  make(map[string]bool),
	}
}

// Enqueue hands a signal to the pool without blocking the caller.
// Reports false when the queue is full; the signal is dropped, not
// retried.
func (e *Executor) Enqueue(ev models.SignalEvent) bool {
	select {
	case e.queue <- ev:
		return true
	default:
		return false
	}
}

func (e *Executor) Start(ctx context.Context) {
	for i := 0; i < e.cfg.Workers; i++ {
		go e.worker(ctx)
	}
	logger.Info("[EXEC] %d order workers started", e.cfg.Workers)
}

func (e *Executor) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-e.queue:
			if !e.claim(ev.Symbol) {
				logger.Info("[EXEC] %s already in flight, signal dropped", ev.Symbol)
				continue
			}
			res := e.Execute(ctx, ev)
			e.release(ev.Symbol)
			e.report(ev, res)
		}
	}
}

func (e *Executor) claim(symbol string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending[symbol] {
		return false
	}
	e.pending[symbol] = true
	return true
}

func (e *Executor) release(symbol string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.pending, symbol)
}

// Execute runs the entry sequence for one signal. Every step is an
// exit point; nothing is ever retried — a duplicated market order
// costs more than a missed one.
func (e *Executor) Execute(ctx context.Context, ev models.SignalEvent) Result {
	side, posSide, ok := mapDirection(ev.Direction)
	if !ok {
		return Result{Outcome: OutcomeSkipped, Reason: fmt.Sprintf("unmapped direction %q", ev.RawSignal)}
	}

	if e.hasOpenPosition(ctx, ev.Symbol, posSide) {
		return Result{Outcome: OutcomeSkipped, Reason: fmt.Sprintf("%s %s position already open", ev.Symbol, posSide)}
	}

	if err := e.exch.SetLeverage(ctx, ev.Symbol, e.cfg.Leverage); err != nil {
		return Result{Outcome: OutcomeFailed, Reason: fmt.Sprintf("set leverage: %v", err)}
	}

	entry, err := e.exch.PlaceMarket(ctx, models.OrderIntent{
		Symbol:       ev.Symbol,
		Side:         side,
		PositionSide: posSide,
		Quantity:     e.cfg.Quantity,
		Leverage:     e.cfg.Leverage,
	})
	if err != nil {
		return Result{Outcome: OutcomeFailed, Reason: fmt.Sprintf("market order: %v", err)}
	}

	if entry.Status != "FILLED" && entry.Status != "PARTIALLY_FILLED" {
		// The order exists on the exchange; without a fill there is no
		// price to anchor the take-profit to, so stop here.
		return Result{
			Outcome: OutcomeFailed,
			Reason:  fmt.Sprintf("entry #%d not filled (status=%s)", entry.OrderID, entry.Status),
			Entry:   entry,
		}
	}

	tpPrice := TakeProfitPrice(entry.AvgPrice, e.cfg.Leverage, posSide, e.cfg.PricePrecision)

	tp, err := e.exch.PlaceTakeProfit(ctx, models.TakeProfitIntent{
		Symbol:       ev.Symbol,
		Side:         closeSide(posSide),
		PositionSide: posSide,
		TriggerPrice: tpPrice,
		Quantity:     entry.ExecutedQty,
	})
	if err != nil {
		return Result{
			Outcome: OutcomeFailed,
			Reason:  fmt.Sprintf("take profit for entry #%d: %v", entry.OrderID, err),
			Entry:   entry,
		}
	}

	return Result{Outcome: OutcomePlaced, Entry: entry, TakeProfit: tp}
}

func (e *Executor) report(ev models.SignalEvent, res Result) {
	switch res.Outcome {
	case OutcomePlaced:
		logger.Info("[EXEC] %s %s filled @ %.6f qty=%.6f tp=#%d", ev.Symbol, ev.Direction, res.Entry.AvgPrice, res.Entry.ExecutedQty, res.TakeProfit.OrderID)
		e.notify("✅ [%s] entrada %s @ %.4f | TP #%d (%dx)",
			ev.Symbol, ev.Direction, res.Entry.AvgPrice, res.TakeProfit.OrderID, e.cfg.Leverage)
	case OutcomeSkipped:
		logger.Info("[EXEC] %s skipped: %s", ev.Symbol, res.Reason)
	case OutcomeFailed:
		logger.Error("[EXEC] %s failed: %s", ev.Symbol, res.Reason)
		e.notify("❗️ [%s] ordem falhou: %s", ev.Symbol, res.Reason)
	}
}

func (e *Executor) notify(format string, args ...any) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.SendText(fmt.Sprintf(format, args...)); err != nil {
		logger.Error("[EXEC] notify: %v", err)
	}
}

func mapDirection(d models.Direction) (models.Side, models.PositionSide, bool) {
	switch d {
	case models.DirectionBuy:
		return models.SideBuy, models.PositionLong, true
	case models.DirectionSell:
		return models.SideSell, models.PositionShort, true
	default:
		return "", "", false
	}
}

func closeSide(posSide models.PositionSide) models.Side {
	if posSide == models.PositionShort {
		return models.SideBuy
	}
	return models.SideSell
}
