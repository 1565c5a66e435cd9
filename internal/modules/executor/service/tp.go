package service

import (
	"github.com/shopspring/decimal"

	"sinaleiro/internal/models"
)

// TakeProfitPrice computes the trigger from the actual average fill,
// never from the signal's reference price. The 0.5/leverage offset
// keeps the return on margin at 50% whatever leverage is configured:
// long triggers above entry, short below.
func TakeProfitPrice(fillPrice float64, leverage int, posSide models.PositionSide, precision int32) float64 {
	if leverage <= 0 {
		leverage = 1
	}

	offset := decimal.NewFromFloat(0.5).Div(decimal.NewFromInt(int64(leverage)))
	factor := decimal.NewFromInt(1)
	if posSide == models.PositionShort {
		factor = factor.Sub(offset)
	} else {
		factor = factor.Add(offset)
	}

	px, _ := decimal.NewFromFloat(fillPrice).Mul(factor).Round(precision).Float64()
	return px
}
