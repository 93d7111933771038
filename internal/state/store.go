// Package state holds the dashboard's view state. Every mutation goes through
// Store.Update, which applies a function of the current state atomically, so
// callbacks that complete in any order never interleave a read-modify-write.
package state

import (
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
)

// View is the state the presentation layer renders.
type View struct {
	Tickets       domain.Snapshot
	Loaded        bool
	LastSync      time.Time
	DateFilter    string
	Notifications domain.Notifications
	HasUnread     bool
	Rankings      []domain.EmailRanking
	Selected      domain.ID
	Draft         string
	Messages      []domain.ChatMessage

	// Local holds notifications created by this process, keyed by id, with
	// the time they were queued. Polls keep them until the backend echoes
	// them or they expire.
	Local map[domain.ID]time.Time
}

func (v View) clone() View {
	out := v
	out.Tickets = v.Tickets.Clone()
	out.Notifications = v.Notifications.Clone()
	if v.Rankings != nil {
		out.Rankings = append([]domain.EmailRanking(nil), v.Rankings...)
	}
	if v.Messages != nil {
		out.Messages = append([]domain.ChatMessage(nil), v.Messages...)
	}
	if v.Local != nil {
		out.Local = make(map[domain.ID]time.Time, len(v.Local))
		for id, at := range v.Local {
			out.Local[id] = at
		}
	}
	return out
}

// PrependLocal puts locally created notifications at the head of the list,
// records them as local and raises the unread indicator.
func (v *View) PrependLocal(produced domain.Notifications, at time.Time) {
	if len(produced) == 0 {
		return
	}
	merged := make(domain.Notifications, 0, len(produced)+len(v.Notifications))
	merged = append(merged, produced...)
	v.Notifications = append(merged, v.Notifications...)
	if v.Local == nil {
		v.Local = make(map[domain.ID]time.Time, len(produced))
	}
	for _, n := range produced {
		v.Local[n.ID] = at
	}
	v.HasUnread = true
}

// PendingLocal returns the local notifications still in the list, with
// their current read flag.
func (v *View) PendingLocal() []domain.PendingNotification {
	var pending []domain.PendingNotification
	for _, n := range v.Notifications {
		if at, ok := v.Local[n.ID]; ok {
			pending = append(pending, domain.PendingNotification{Notification: n, QueuedAt: at})
		}
	}
	return pending
}

// RetainLocal drops every local id not in keep.
func (v *View) RetainLocal(keep domain.Notifications) {
	if len(v.Local) == 0 {
		return
	}
	next := make(map[domain.ID]time.Time, len(keep))
	for _, n := range keep {
		if at, ok := v.Local[n.ID]; ok {
			next[n.ID] = at
		}
	}
	v.Local = next
}

// Store guards the single live View.
type Store struct {
	mu       sync.Mutex
	view     View
	disposed bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// View returns a copy of the current state.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.clone()
}

// Update applies fn to the state under the store lock. It reports false and
// skips fn once the store has been disposed, which is how completions that
// arrive after teardown are dropped. fn must not retain the pointer.
func (s *Store) Update(fn func(*View)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return false
	}
	fn(&s.view)
	return true
}

// Dispose marks the owning context as gone. Later updates are ignored.
func (s *Store) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
}

// Alive reports whether the store still accepts updates.
func (s *Store) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.disposed
}
