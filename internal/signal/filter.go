package signal

import "strings"

// AllowSet is the static symbol allow-list. It gates trading and
// forwarding only — logging stays unconditional.
type AllowSet map[string]struct{}

func NewAllowSet(symbols []string) AllowSet {
	s := make(AllowSet, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		s[sym] = struct{}{}
	}
	return s
}

func (s AllowSet) IsAllowed(symbol string) bool {
	_, ok := s[strings.ToUpper(symbol)]
	return ok
}
