package logstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"sinaleiro/internal/models"
)

const header = "Data\tHora\tExchange\tMoeda\tSinal\tGrafico\tPreco\n"

// Store appends matched signals to one tab-delimited file per
// operational day. Files are append-only until the scheduler ships and
// removes them.
type Store struct {
	dir         string
	cutoverHour int
	loc         *time.Location
}

func New(dir string, cutoverHour int, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{dir: dir, cutoverHour: cutoverHour, loc: loc}
}

func (s *Store) Location() *time.Location { return s.loc }

// Day returns the operational day the given instant belongs to,
// evaluated in the store's timezone.
func (s *Store) Day(t time.Time) time.Time {
	return OperationalDay(t.In(s.loc), s.cutoverHour)
}

func (s *Store) Path(day time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("log_%s.txt", day.Format("2006-01-02")))
}

func (s *Store) Exists(day time.Time) bool {
	_, err := os.Stat(s.Path(day))
	return err == nil
}

func (s *Store) Remove(day time.Time) error {
	return errors.Wrap(os.Remove(s.Path(day)), "remove log")
}

// Append writes one record to the file of now's operational day,
// creating it with the header on first write. The caller logs failures
// and moves on; a dead disk must not stop message processing.
func (s *Store) Append(ev *models.SignalEvent, now time.Time) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "mkdir logs")
	}

	now = now.In(s.loc)
	path := s.Path(s.Day(now))

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open log")
	}
	defer func() {
		_ = f.Close()
	}()

	if isNew {
		if _, err := f.WriteString(header); err != nil {
			return errors.Wrap(err, "write header")
		}
	}

	row := strings.Join([]string{
		now.Format("02/01/2006"),
		now.Format("15:04:05"),
		ev.Exchange,
		ev.Symbol,
		ev.RawSignal,
		ev.Timeframe,
		formatPrice(ev.Price),
	}, "\t") + "\n"

	if _, err := f.WriteString(row); err != nil {
		return errors.Wrap(err, "write record")
	}
	return nil
}

// formatPrice renders the price with the comma decimal separator the
// log format has always used; empty when the signal carried none.
func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strings.ReplaceAll(strconv.FormatFloat(*p, 'f', -1, 64), ".", ",")
}
