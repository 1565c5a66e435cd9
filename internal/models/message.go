package models

import "time"

// Inbound is one message received from the source chat.
type Inbound struct {
	MessageID int
	ChatID    int64
	Text      string
	HasMedia  bool
	When      time.Time
}
