package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowSet(t *testing.T) {
	s := NewAllowSet([]string{"xrpusdt", " BTCUSDT ", ""})

	assert.True(t, s.IsAllowed("XRPUSDT"))
	assert.True(t, s.IsAllowed("xrpusdt"))
	assert.True(t, s.IsAllowed("BTCUSDT"))
	assert.False(t, s.IsAllowed("ETHUSDT"))

	// Membership flips deterministically once the symbol is added.
	s["ETHUSDT"] = struct{}{}
	assert.True(t, s.IsAllowed("ETHUSDT"))
}
