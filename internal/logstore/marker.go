package logstore

import (
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// Marker persists the ISO date of the last successfully dispatched
// log. The scheduler is its only writer; the equality check against it
// is what makes the daily dispatch idempotent across restarts.
type Marker struct {
	path string
}

func NewMarker(path string) *Marker { return &Marker{path: path} }

type markerState struct {
	LastDispatched string `json:"last_dispatched"`
}

// Last returns the ISO date of the last dispatch, or "" when no
// dispatch has happened yet.
func (m *Marker) Last() (string, error) {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "read marker")
	}

	var st markerState
	if err := sonic.Unmarshal(data, &st); err != nil {
		return "", errors.Wrap(err, "decode marker")
	}
	return st.LastDispatched, nil
}

// Set records isoDate durably: the temp file is fsynced before the
// rename so a crash never leaves the marker behind an already deleted
// log file.
func (m *Marker) Set(isoDate string) error {
	data, err := sonic.Marshal(markerState{LastDispatched: isoDate})
	if err != nil {
		return errors.Wrap(err, "encode marker")
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return errors.Wrap(err, "mkdir marker")
	}

	tmp := m.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open marker tmp")
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "write marker tmp")
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "sync marker tmp")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close marker tmp")
	}

	return errors.Wrap(os.Rename(tmp, m.path), "rename marker")
}
