package logstore

import "time"

// OperationalDay maps a wall-clock instant to the trading day it
// belongs to. With a cutover hour of 21 the day labeled 2025-01-10
// spans 2025-01-10 21:00 → 2025-01-11 21:00; anything before the
// cutover belongs to the previous label. Cutover 0 is plain midnight.
func OperationalDay(t time.Time, cutoverHour int) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if t.Hour() < cutoverHour {
		day = day.AddDate(0, 0, -1)
	}
	return day
}
