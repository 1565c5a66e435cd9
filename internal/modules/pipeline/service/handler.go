package service

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"

	"sinaleiro/internal/logstore"
	"sinaleiro/internal/models"
	"sinaleiro/internal/signal"
	"sinaleiro/pkg/logger"
)

type Forwarder interface {
	Copy(messageID int) error
}

type Enqueuer interface {
	Enqueue(ev models.SignalEvent) bool
}

// Handler is the pipeline entry point: parse → log → filter →
// forward/enqueue, one message fully to completion before the next so
// two signals for one symbol cannot race the position check at the
// ingestion layer. Exchange work happens on the executor's pool, never
// here.
type Handler struct {
	store   *logstore.Store
	allow   signal.AllowSet
	fwd     Forwarder
	exec    Enqueuer
	trading bool

	onSignal func(t time.Time)
}

func NewHandler(store *logstore.Store, allow signal.AllowSet, fwd Forwarder, exec Enqueuer, trading bool) *Handler {
	return &Handler{
		store:   store,
		allow:   allow,
		fwd:     fwd,
		exec:    exec,
		trading: trading,
	}
}

// OnSignal registers a heartbeat hook called per matched signal.
func (h *Handler) OnSignal(fn func(time.Time)) { h.onSignal = fn }

func (h *Handler) Run(ctx context.Context, inbound <-chan models.Inbound) {
	logger.Info("[PIPE] message loop started")
	for {
		select {
		case <-ctx.Done():
			logger.Info("[PIPE] message loop stopped")
			return
		case msg, ok := <-inbound:
			if !ok {
				return
			}
			h.Handle(ctx, msg)
		}
	}
}

// Handle processes one inbound message. Every failure mode is
// contained here: a bad message or a dead disk costs that message
// only, never the loop.
func (h *Handler) Handle(ctx context.Context, msg models.Inbound) {
	ev := signal.Parse(msg.Text)
	if ev == nil {
		// Most channel traffic is not a signal.
		return
	}

	span, _ := opentracing.StartSpanFromContext(ctx, "pipeline.signal")
	span.SetTag("symbol", ev.Symbol)
	span.SetTag("direction", ev.Direction)
	defer span.Finish()

	now := time.Now()
	if err := h.store.Append(ev, now); err != nil {
		logger.Error("[PIPE] log append failed: %v", err)
	}
	if h.onSignal != nil {
		h.onSignal(now)
	}
	logger.Info("[PIPE] signal %s:%s %s (%s)", ev.Exchange, ev.Symbol, ev.RawSignal, ev.Timeframe)

	// Everything is logged; only the allow-list subset is acted on.
	if !h.allow.IsAllowed(ev.Symbol) {
		span.SetTag("allowed", false)
		logger.Info("[PIPE] %s not in allow-list, logged only", ev.Symbol)
		return
	}
	span.SetTag("allowed", true)

	if err := h.fwd.Copy(msg.MessageID); err != nil {
		logger.Error("[PIPE] forward of message %d failed: %v", msg.MessageID, err)
	}

	if h.trading {
		if !h.exec.Enqueue(*ev) {
			logger.Warn("[PIPE] order queue full, signal for %s dropped", ev.Symbol)
		}
	}
}
