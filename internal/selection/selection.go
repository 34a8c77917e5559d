// internal/selection/selection.go
//
// Hover/selection state shared by the editor's outline and preview panels.
//
// Context
// -------
// While a page is being edited, both panels show the same blocks.
// Hovering a block in either panel highlights it in both; clicking selects
// it, and the selection survives later hovers elsewhere.  When a block
// becomes selected both panels scroll it into view after a short delay so
// any expand/collapse animation can start first.
//
// Workflow
// --------
//   - Hover(id)    → Hovered(id).  Selection underneath is kept.
//   - Unhover()    → back to Selected(prev) or Idle.
//   - Click(id, …) → Selected(id) unless the click hit an interactive
//     child control (button, link, input) inside the block.
//   - Select(id)   → Selected(id) and schedule a scroll.
//
// Notes
// -----
//   - Anchors are registered per panel as blocks mount and unmount.  They
//     are looked up when the scroll fires, not when it is scheduled, so a
//     block that mounts during the delay is still scrolled.  A panel with
//     no anchor for the id is skipped.
//   - Close is a mount guard.  Scrolls pending at Close become no-ops.
//   - Noop satisfies the same interface with inert defaults for public
//     rendering.
package selection

import (
	"sync"
	"time"
)

// Panel names one side of the editor.
type Panel string

const (
	PanelOutline Panel = "outline"
	PanelPreview Panel = "preview"
)

// Panels is the fixed scroll order.
var Panels = []Panel{PanelOutline, PanelPreview}

// Valid reports whether p is a known panel.
func (p Panel) Valid() bool { return p == PanelOutline || p == PanelPreview }

// StateKind is the synchronizer's visible state.
type StateKind string

const (
	Idle     StateKind = "idle"
	Hovered  StateKind = "hovered"
	Selected StateKind = "selected"
)

// State is a StateKind plus the block it refers to (empty for Idle).
type State struct {
	Kind StateKind `json:"kind"`
	ID   string    `json:"id,omitempty"`
}

// ScrollOptions mirror the browser's scrollIntoView arguments.
type ScrollOptions struct {
	Block    string `json:"block"`
	Behavior string `json:"behavior"`
}

// CenterSmooth is what selection scrolling uses.
var CenterSmooth = ScrollOptions{Block: "center", Behavior: "smooth"}

// Anchor is a mounted block element that can be scrolled to.
type Anchor interface {
	ScrollIntoView(opts ScrollOptions)
}

// AnchorFunc adapts a function to Anchor.
type AnchorFunc func(opts ScrollOptions)

func (f AnchorFunc) ScrollIntoView(opts ScrollOptions) { f(opts) }

// Synchronizer is what block wrappers and panels talk to.  Empty strings
// mean "none".
type Synchronizer interface {
	HoveredID() string
	SelectedID() string
	State() State
	Hover(id string)
	Unhover()
	Click(id string, interactive bool)
	Select(id string)
	Register(p Panel, id string, a Anchor)
	Unregister(p Panel, id string)
}

// DefaultDelay is the pause between a selection and its scroll.
const DefaultDelay = 150 * time.Millisecond

// Option configures a Session.
type Option func(*Session)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithScheduler replaces time.AfterFunc, mainly for tests.
func WithScheduler(fn func(time.Duration, func()) Timer) Option {
	return func(s *Session) { s.after = fn }
}

// Timer is the part of *time.Timer a Session needs.
type Timer interface {
	Stop() bool
}

// Session is the stateful Synchronizer for one editing session.  It is
// safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	hovered  string
	selected string
	anchors  map[Panel]map[string]Anchor
	pending  Timer
	gen      uint64
	closed   bool

	delay time.Duration
	after func(time.Duration, func()) Timer
}

var _ Synchronizer = (*Session)(nil)

// NewSession returns an idle Session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		anchors: make(map[Panel]map[string]Anchor, len(Panels)),
		delay:   DefaultDelay,
		after:   func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) HoveredID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hovered
}

func (s *Session) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// State reports Hovered while a hover is active, else Selected, else Idle.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.hovered != "":
		return State{Kind: Hovered, ID: s.hovered}
	case s.selected != "":
		return State{Kind: Selected, ID: s.selected}
	}
	return State{Kind: Idle}
}

func (s *Session) Hover(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.hovered = id
}

func (s *Session) Unhover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hovered = ""
}

// Click selects id unless the click landed on an interactive control
// inside the block.
func (s *Session) Click(id string, interactive bool) {
	if interactive || id == "" {
		return
	}
	s.Select(id)
}

// Select makes id the selection and schedules a scroll of every panel's
// anchor for id.  Re-selecting the current id scrolls again.  An empty id
// clears the selection.
func (s *Session) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.selected = id
	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	if id == "" {
		return
	}
	gen := s.gen
	s.pending = s.after(s.delay, func() { s.scroll(id, gen) })
}

// scroll runs on the timer goroutine.  Anchors are resolved now, so
// registrations made during the delay count.
func (s *Session) scroll(id string, gen uint64) {
	s.mu.Lock()
	if s.closed || s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	var targets []Anchor
	for _, p := range Panels {
		if a, ok := s.anchors[p][id]; ok {
			targets = append(targets, a)
		}
	}
	s.mu.Unlock()

	for _, a := range targets {
		a.ScrollIntoView(CenterSmooth)
	}
}

// Register records the anchor for id in panel p, replacing any earlier
// one.
func (s *Session) Register(p Panel, id string, a Anchor) {
	if a == nil || id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.anchors[p]
	if m == nil {
		m = make(map[string]Anchor)
		s.anchors[p] = m
	}
	m[id] = a
}

func (s *Session) Unregister(p Panel, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.anchors[p], id)
}

// Close stops pending scrolls and makes later ones no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// Noop is the Synchronizer used outside an editing session.
type Noop struct{}

var _ Synchronizer = Noop{}

func (Noop) HoveredID() string { return "" }

func (Noop) SelectedID() string { return "" }

func (Noop) State() State { return State{Kind: Idle} }

func (Noop) Hover(string) {}

func (Noop) Unhover() {}

func (Noop) Click(string, bool) {}

func (Noop) Select(string) {}

func (Noop) Register(Panel, string, Anchor) {}

func (Noop) Unregister(Panel, string) {}
