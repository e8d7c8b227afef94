package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/statusbox/internal/status"
)

// TimeLayout formats LastUpdated as a short local time of day.
const TimeLayout = "15:04:05"

// Snapshot represents the latest widget state available to the UI.
type Snapshot struct {
	Status              status.Record
	HasStatus           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
	Fetches             int
}

// Loading reports whether no fetch has completed yet.
func (s Snapshot) Loading() bool {
	return !s.HasStatus
}

// LastUpdatedLabel returns LastUpdated in local time, or "" before the first fetch.
func (s Snapshot) LastUpdatedLabel() string {
	if s.LastUpdated.IsZero() {
		return ""
	}
	return s.LastUpdated.Local().Format(TimeLayout)
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored record wholesale. err is the failure behind an
// Offline record and is kept for display only; the record is stored either way.
func (s *Store) Update(record status.Record, err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Status = record
	s.snapshot.HasStatus = true
	s.snapshot.LastUpdated = at
	s.snapshot.LastError = err
	s.snapshot.Fetches++
	if err != nil {
		s.snapshot.ConsecutiveFailures++
	} else {
		s.snapshot.ConsecutiveFailures = 0
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
