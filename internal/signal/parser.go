package signal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sinaleiro/internal/models"
)

// Message shape, as posted by the source channel:
//
//	BINANCE:XRPUSDT deu compra nos 15 minutos
//	Preço: 1.2345
//
// The clause between the symbol and "nos" varies in length ("deu compra
// forte", "deu venda"), and the price block is optional. Most channel
// traffic is chatter that does not match at all.
var signalRe = regexp.MustCompile(
	`(?is)^(\w+):(\w+)\s+deu\s+(.+?)\s+nos?\s+(\d+)\s+minutos?` +
		`(?:.*?\n+\s*preço:\s*([\d.,]+))?`,
)

// Parse extracts a SignalEvent from raw message text. Returns nil when
// the text does not match; that is the common case, not an error.
func Parse(text string) *models.SignalEvent {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\r", "")
	m := signalRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	raw := strings.ToLower(strings.TrimSpace(m[3]))
	ev := &models.SignalEvent{
		Exchange:  strings.ToUpper(m[1]),
		Symbol:    strings.ToUpper(m[2]),
		RawSignal: raw,
		Direction: normalizeDirection(raw),
		Timeframe: fmt.Sprintf("%s minutos", m[4]),
	}

	if m[5] != "" {
		// Locale-tolerant decimal: the channel writes both 1.2345 and
		// 1,2345. A price that still fails to parse stays nil without
		// dropping the signal.
		if p, err := strconv.ParseFloat(strings.ReplaceAll(m[5], ",", "."), 64); err == nil {
			ev.Price = &p
		}
	}

	return ev
}

func normalizeDirection(raw string) models.Direction {
	switch {
	case strings.Contains(raw, "compra"):
		return models.DirectionBuy
	case strings.Contains(raw, "venda"):
		return models.DirectionSell
	default:
		return models.DirectionUnknown
	}
}
