package models

// Side / PositionSide follow Binance futures hedge-mode naming.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type PositionSide string

const (
	PositionLong  PositionSide = "LONG"
	PositionShort PositionSide = "SHORT"
)

type OrderIntent struct {
	Symbol       string
	Side         Side
	PositionSide PositionSide
	Quantity     float64
	Leverage     int
}

type OrderResult struct {
	OrderID     int64
	Status      string
	AvgPrice    float64
	ExecutedQty float64
}

// Position is the ephemeral exchange-side state, re-fetched before
// every order decision. Qty is signed.
type Position struct {
	Symbol       string
	PositionSide PositionSide
	Qty          float64
}

type TakeProfitIntent struct {
	Symbol       string
	Side         Side
	PositionSide PositionSide
	TriggerPrice float64
	Quantity     float64
}
