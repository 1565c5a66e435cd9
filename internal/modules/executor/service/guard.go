package service

import (
	"context"

	"sinaleiro/internal/models"
	"sinaleiro/pkg/logger"
)

// hasOpenPosition re-fetches position state right before the order
// decision; it is deliberately uncached. Fail-safe: when the query
// itself fails we report an open position — a skipped entry is cheap,
// a duplicated one is not.
func (e *Executor) hasOpenPosition(ctx context.Context, symbol string, posSide models.PositionSide) bool {
	positions, err := e.exch.Positions(ctx, symbol)
	if err != nil {
		logger.Error("[EXEC] position check for %s failed, assuming open: %v", symbol, err)
		return true
	}

	for _, p := range positions {
		if p.Symbol == symbol && p.PositionSide == posSide && p.Qty != 0 {
			return true
		}
	}
	return false
}
