package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/n3xus47/grafiksp4600/internal/api"
	"github.com/n3xus47/grafiksp4600/internal/schedule"
)

// Snapshot is the latest polled backend data available to the UI. The
// grid itself is not here: cell state is single-threaded UI property;
// the store carries only the feeds the background poller refreshes.
type Snapshot struct {
	Roster              []api.Employee
	Mailbox             []schedule.RequestItem
	Unavailability      []schedule.UnavailabilityItem
	IsBoss              bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple
// polls in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates between the poller and the UI.
type Store struct {
	mu        sync.RWMutex
	snapshot  Snapshot
	fetchedAt map[string]time.Time
}

// Feed names for freshness gating.
const (
	FeedRoster         = "roster"
	FeedMailbox        = "mailbox"
	FeedUnavailability = "unavailability"
)

// Update replaces the stored feeds. When err is non-nil the previous
// data is kept and only the error and failure count are recorded, so
// the UI always has the most recent successful data to display.
func (s *Store) Update(roster []api.Employee, inbox *api.SwapInbox, unavailability *api.UnavailabilityInbox, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if roster != nil {
		s.snapshot.Roster = cloneSlice(roster)
	}
	if inbox != nil {
		s.snapshot.Mailbox = cloneSlice(inbox.Items)
		s.snapshot.IsBoss = inbox.IsBoss
	}
	if unavailability != nil {
		s.snapshot.Unavailability = cloneSlice(unavailability.Items)
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns an independent copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Roster = cloneSlice(s.snapshot.Roster)
	snap.Mailbox = cloneSlice(s.snapshot.Mailbox)
	snap.Unavailability = cloneSlice(s.snapshot.Unavailability)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Fresh reports whether a feed was fetched within the window. Used to
// gate repeat fetches triggered by navigation so views opened in quick
// succession reuse recent data instead of issuing a second request.
func (s *Store) Fresh(feed string, window time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.fetchedAt[feed]
	return ok && time.Since(at) < window
}

// MarkFetched records a successful fetch time for a feed.
func (s *Store) MarkFetched(feed string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchedAt == nil {
		s.fetchedAt = make(map[string]time.Time)
	}
	s.fetchedAt[feed] = time.Now()
}

func cloneSlice[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
