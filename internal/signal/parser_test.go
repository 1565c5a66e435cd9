package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sinaleiro/internal/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *models.SignalEvent
	}{
		{
			name: "buy with dot price",
			text: "BINANCE:XRPUSDT deu compra nos 15 minutos\nPreço: 1.2345",
			want: &models.SignalEvent{
				Exchange:  "BINANCE",
				Symbol:    "XRPUSDT",
				RawSignal: "compra",
				Direction: models.DirectionBuy,
				Timeframe: "15 minutos",
				Price:     f(1.2345),
			},
		},
		{
			name: "comma price parses to the same value",
			text: "BINANCE:XRPUSDT deu compra nos 15 minutos\nPreço: 1,2345",
			want: &models.SignalEvent{
				Exchange:  "BINANCE",
				Symbol:    "XRPUSDT",
				RawSignal: "compra",
				Direction: models.DirectionBuy,
				Timeframe: "15 minutos",
				Price:     f(1.2345),
			},
		},
		{
			name: "lowercase input is normalized to uppercase",
			text: "binance:xrpusdt deu Venda nos 30 minutos\npreço: 0,5",
			want: &models.SignalEvent{
				Exchange:  "BINANCE",
				Symbol:    "XRPUSDT",
				RawSignal: "venda",
				Direction: models.DirectionSell,
				Timeframe: "30 minutos",
				Price:     f(0.5),
			},
		},
		{
			name: "descriptive clause and singular minuto",
			text: "MEXC:BTCUSDT deu compra muito forte no 60 minuto",
			want: &models.SignalEvent{
				Exchange:  "MEXC",
				Symbol:    "BTCUSDT",
				RawSignal: "compra muito forte",
				Direction: models.DirectionBuy,
				Timeframe: "60 minutos",
			},
		},
		{
			name: "missing price block leaves price nil",
			text: "BINANCE:ETHUSDT deu venda nos 5 minutos",
			want: &models.SignalEvent{
				Exchange:  "BINANCE",
				Symbol:    "ETHUSDT",
				RawSignal: "venda",
				Direction: models.DirectionSell,
				Timeframe: "5 minutos",
			},
		},
		{
			name: "unparseable price keeps the match",
			text: "BINANCE:ETHUSDT deu venda nos 5 minutos\nPreço: 1.2.3",
			want: &models.SignalEvent{
				Exchange:  "BINANCE",
				Symbol:    "ETHUSDT",
				RawSignal: "venda",
				Direction: models.DirectionSell,
				Timeframe: "5 minutos",
			},
		},
		{
			name: "unmapped verb still matches with unknown direction",
			text: "BINANCE:SOLUSDT deu rompimento nos 15 minutos",
			want: &models.SignalEvent{
				Exchange:  "BINANCE",
				Symbol:    "SOLUSDT",
				RawSignal: "rompimento",
				Direction: models.DirectionUnknown,
				Timeframe: "15 minutos",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.text)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseNoMatch(t *testing.T) {
	for _, text := range []string{
		"",
		"bom dia pessoal",
		"BINANCE:XRPUSDT subiu 3% hoje",
		"deu compra nos 15 minutos", // no exchange:symbol prefix
		"BINANCE:XRPUSDT deu compra", // no timeframe
	} {
		assert.Nil(t, Parse(text), "text=%q", text)
	}
}

func f(v float64) *float64 { return &v }
