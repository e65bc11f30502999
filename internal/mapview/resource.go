package mapview

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/JonMunkholm/sigem/internal/core"
)

// DefaultMaxBytes caps the size of the map graphic.
const DefaultMaxBytes = 5 << 20

// Fetch reads the raw map graphic from src. Every failure wraps
// core.ErrMapResourceUnavailable.
func Fetch(ctx context.Context, src core.Source, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	rc, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMapResourceUnavailable, src.Location(), err)
	}
	defer rc.Close()

	text, _, err := core.ReadText(rc, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMapResourceUnavailable, src.Location(), err)
	}
	return []byte(text), nil
}

type mapState struct {
	raw []byte
	err error
}

type rendered struct {
	snapshot uuid.UUID
	svg      []byte
}

// Map holds the raw graphic and the restyled copy for the latest snapshot.
// A restyle is computed once per snapshot id.
type Map struct {
	state atomic.Pointer[mapState]
	cache atomic.Pointer[rendered]
}

// NewMap returns a Map with no graphic loaded.
func NewMap() *Map {
	return &Map{}
}

// Set records the outcome of a map fetch and drops any cached render.
func (m *Map) Set(raw []byte, err error) {
	m.state.Store(&mapState{raw: raw, err: err})
	m.cache.Store(nil)
}

// Load fetches the graphic from src and stores the outcome. A failure is
// logged and returned; the rest of the dashboard keeps working without it.
func (m *Map) Load(ctx context.Context, src core.Source, maxBytes int64) error {
	raw, err := Fetch(ctx, src, maxBytes)
	m.Set(raw, err)
	if err != nil {
		slog.Warn("map load failed", "source", src.Location(), "error", err)
		return err
	}
	slog.Info("map loaded", "source", src.Location(), "bytes", len(raw))
	return nil
}

// Available reports whether a graphic is loaded.
func (m *Map) Available() bool {
	st := m.state.Load()
	return st != nil && st.err == nil
}

// Render returns the graphic restyled for snap.
func (m *Map) Render(snap *core.Snapshot) ([]byte, error) {
	st := m.state.Load()
	if st == nil {
		return nil, fmt.Errorf("%w: not loaded", core.ErrMapResourceUnavailable)
	}
	if st.err != nil {
		return nil, st.err
	}

	if c := m.cache.Load(); c != nil && c.snapshot == snap.ID {
		return c.svg, nil
	}

	svg, err := Restyle(bytes.NewReader(st.raw), snap.Aggregates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrMapResourceUnavailable, err)
	}
	m.cache.Store(&rendered{snapshot: snap.ID, svg: svg})
	return svg, nil
}
