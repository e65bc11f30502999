package core

import (
	"sync/atomic"
)

// LoadState describes where the store is in its lifecycle.
type LoadState string

const (
	StateLoading LoadState = "loading"
	StateReady   LoadState = "ready"
	StateFailed  LoadState = "failed"
)

type storeState struct {
	snap *Snapshot
	err  error
}

// Store holds the currently published dataset snapshot. Readers never see
// records without their aggregates: both travel in one pointer swap.
type Store struct {
	current atomic.Pointer[storeState]
}

// NewStore returns a store in the loading state.
func NewStore() *Store {
	return &Store{}
}

// Publish replaces whatever the store held with snap.
func (s *Store) Publish(snap *Snapshot) {
	s.current.Store(&storeState{snap: snap})
}

// Fail replaces whatever the store held with a failed load.
func (s *Store) Fail(err error) {
	s.current.Store(&storeState{err: err})
}

// Snapshot returns the published snapshot, the load error, or ErrNotLoaded.
func (s *Store) Snapshot() (*Snapshot, error) {
	st := s.current.Load()
	if st == nil {
		return nil, ErrNotLoaded
	}
	if st.err != nil {
		return nil, st.err
	}
	return st.snap, nil
}

// State reports the store's lifecycle state.
func (s *Store) State() LoadState {
	st := s.current.Load()
	switch {
	case st == nil:
		return StateLoading
	case st.err != nil:
		return StateFailed
	default:
		return StateReady
	}
}
