package models

// Direction is the normalized trade direction extracted from the
// signal text. Unknown means the message matched the signal shape but
// the verb maps to neither side.
type Direction string

const (
	DirectionBuy     Direction = "buy"
	DirectionSell    Direction = "sell"
	DirectionUnknown Direction = "unknown"
)

// SignalEvent is one matched channel message. Immutable after parse.
// Price is nil when the message omits it or the numeric part does not
// parse; a bad price never invalidates the rest of the match.
type SignalEvent struct {
	Exchange  string
	Symbol    string
	RawSignal string // lowercased verb clause as written, e.g. "compra"
	Direction Direction
	Timeframe string // e.g. "15 minutos"
	Price     *float64
}
