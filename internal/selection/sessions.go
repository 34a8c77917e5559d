package selection

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ScrollCommand is a scroll the browser should perform.  Server-side
// sessions cannot touch the DOM, so their anchors queue commands which the
// editor picks up on its next poll.
type ScrollCommand struct {
	Panel   Panel         `json:"panel"`
	ID      string        `json:"id"`
	Options ScrollOptions `json:"options"`
}

// maxQueued bounds an unpolled command queue.
const maxQueued = 64

// Entry is one editor session held by Sessions.
type Entry struct {
	ID     string
	PageID string
	*Session

	mu      sync.Mutex
	queue   []ScrollCommand
	touched time.Time
}

// Mount registers a queueing anchor for id in panel p.
func (e *Entry) Mount(p Panel, id string) {
	e.Register(p, id, AnchorFunc(func(opts ScrollOptions) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if len(e.queue) == maxQueued {
			e.queue = e.queue[1:]
		}
		e.queue = append(e.queue, ScrollCommand{Panel: p, ID: id, Options: opts})
	}))
}

// Drain returns and clears queued scroll commands.
func (e *Entry) Drain() []ScrollCommand {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.queue
	e.queue = nil
	return out
}

func (e *Entry) touch(now time.Time) {
	e.mu.Lock()
	e.touched = now
	e.mu.Unlock()
}

func (e *Entry) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.touched
}

// Sessions is an in-memory registry of editing sessions keyed by UUID.
// Collaboration across sessions is not coordinated.
type Sessions struct {
	mu   sync.Mutex
	m    map[string]*Entry
	opts []Option
	now  func() time.Time
}

// NewSessions returns an empty registry.  opts apply to every Session it
// creates.
func NewSessions(opts ...Option) *Sessions {
	return &Sessions{m: make(map[string]*Entry), opts: opts, now: time.Now}
}

// Create starts a session for pageID.
func (s *Sessions) Create(pageID string) *Entry {
	e := &Entry{ID: uuid.NewString(), PageID: pageID, Session: NewSession(s.opts...)}
	e.touch(s.now())
	s.mu.Lock()
	s.m[e.ID] = e
	s.mu.Unlock()
	return e
}

// Get returns a live session and marks it used.
func (s *Sessions) Get(id string) (*Entry, bool) {
	s.mu.Lock()
	e, ok := s.m[id]
	s.mu.Unlock()
	if ok {
		e.touch(s.now())
	}
	return e, ok
}

// Close ends a session.  Unknown ids are ignored.
func (s *Sessions) Close(id string) {
	s.mu.Lock()
	e, ok := s.m[id]
	delete(s.m, id)
	s.mu.Unlock()
	if ok {
		e.Session.Close()
	}
}

// Sweep closes sessions idle for longer than ttl and returns how many.
func (s *Sessions) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)
	var stale []*Entry
	s.mu.Lock()
	for id, e := range s.m {
		if e.idleSince().Before(cutoff) {
			stale = append(stale, e)
			delete(s.m, id)
		}
	}
	s.mu.Unlock()
	for _, e := range stale {
		e.Session.Close()
	}
	return len(stale)
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// CloseAll ends every session.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	all := s.m
	s.m = make(map[string]*Entry)
	s.mu.Unlock()
	for _, e := range all {
		e.Session.Close()
	}
}
