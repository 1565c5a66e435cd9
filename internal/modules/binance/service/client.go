package service

import (
	"context"
	"strconv"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/pkg/errors"

	"sinaleiro/internal/models"
	"sinaleiro/internal/modules/config"
)

// Client is a thin adapter over the futures REST API: one method per
// call the pipeline makes, errors carry the exchange response text.
type Client struct {
	fc *futures.Client
}

func New(cfg *config.Config) *Client {
	if cfg.Binance.Testnet {
		futures.UseTestnet = true
	}
	return &Client{
		fc: futures.NewClient(cfg.Binance.APIKey, cfg.Binance.APISecret),
	}
}

// Positions returns current position state for symbol. Never cached:
// stale state is exactly what produces duplicate entries.
func (c *Client) Positions(ctx context.Context, symbol string) ([]models.Position, error) {
	risks, err := c.fc.NewGetPositionRiskService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "position risk")
	}

	out := make([]models.Position, 0, len(risks))
	for _, r := range risks {
		qty, err := strconv.ParseFloat(r.PositionAmt, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad positionAmt %q for %s", r.PositionAmt, r.Symbol)
		}
		out = append(out, models.Position{
			Symbol:       r.Symbol,
			PositionSide: models.PositionSide(r.PositionSide),
			Qty:          qty,
		})
	}
	return out, nil
}

// SetLeverage is idempotent on the exchange side; setting the same
// value twice is harmless.
func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	_, err := c.fc.NewChangeLeverageService().
		Symbol(symbol).
		Leverage(leverage).
		Do(ctx)
	return errors.Wrap(err, "change leverage")
}

func (c *Client) PlaceMarket(ctx context.Context, intent models.OrderIntent) (*models.OrderResult, error) {
	res, err := c.fc.NewCreateOrderService().
		Symbol(intent.Symbol).
		Side(futures.SideType(intent.Side)).
		PositionSide(futures.PositionSideType(intent.PositionSide)).
		Type(futures.OrderTypeMarket).
		Quantity(formatQty(intent.Quantity)).
		NewOrderResponseType(futures.NewOrderRespTypeRESULT).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "market order")
	}
	return toResult(res), nil
}

// PlaceTakeProfit submits the conditional market close. Binance calls
// the profit-side trigger TAKE_PROFIT_MARKET; the mark-price working
// type keeps single-print wicks from firing it.
func (c *Client) PlaceTakeProfit(ctx context.Context, tp models.TakeProfitIntent) (*models.OrderResult, error) {
	res, err := c.fc.NewCreateOrderService().
		Symbol(tp.Symbol).
		Side(futures.SideType(tp.Side)).
		PositionSide(futures.PositionSideType(tp.PositionSide)).
		Type(futures.OrderTypeTakeProfitMarket).
		StopPrice(formatQty(tp.TriggerPrice)).
		WorkingType(futures.WorkingTypeMarkPrice).
		Quantity(formatQty(tp.Quantity)).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "take profit order")
	}
	return toResult(res), nil
}

func toResult(res *futures.CreateOrderResponse) *models.OrderResult {
	return &models.OrderResult{
		OrderID:     res.OrderID,
		Status:      string(res.Status),
		AvgPrice:    parseFloat(res.AvgPrice),
		ExecutedQty: parseFloat(res.ExecutedQuantity),
	}
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
