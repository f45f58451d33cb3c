// Package browsertest provides an in-memory stand-in for a browser session on
// the-internet's add/remove elements page.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"remote_e2e/domain/entities"
	"remote_e2e/domain/interfaces"
)

const (
	AddRemovePath = "/add_remove_elements/"

	linkText       = "Add/Remove Elements"
	addButtonCSS   = `button[onclick="addElement()"]`
	addedElemClass = ".added-manually"
)

var (
	ErrNoSuchElement = errors.New("no such element")
	ErrStaleElement  = errors.New("stale element reference")
)

// Opener hands out Sessions and records every Open call
type Opener struct {
	mu       sync.Mutex
	OpenErr  error
	Sessions []*Session
	// Configure runs on each new session before it is returned.
	Configure func(*Session)
	Log       *CallLog
}

// Open returns a new Session or OpenErr
func (o *Opener) Open(ctx context.Context, cfg entities.RunConfig) (interfaces.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Log.add("open")
	if o.OpenErr != nil {
		return nil, o.OpenErr
	}
	s := NewSession(fmt.Sprintf("session-%d", len(o.Sessions)+1))
	s.Log = o.Log
	if o.Configure != nil {
		o.Configure(s)
	}
	o.Sessions = append(o.Sessions, s)
	return s, nil
}

// Opens returns the number of sessions handed out
func (o *Opener) Opens() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.Sessions)
}

// CallLog records calls across fakes so tests can check ordering
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *CallLog) add(call string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

// Add records a call made by another fake
func (l *CallLog) Add(call string) {
	l.add(call)
}

// Calls returns a copy of the recorded calls
func (l *CallLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// Session models one browser tab on the-internet
type Session struct {
	mu      sync.Mutex
	id      string
	history []string
	added   int
	closes  int

	// BrokenAdd makes the add button do nothing.
	BrokenAdd bool
	// AddDelay makes each added element visible only after that many
	// further queries of the page.
	AddDelay int
	// PanicOnBack panics inside Back.
	PanicOnBack bool
	// ClickErr fails clicks on the given selector string.
	ClickErr map[string]error
	CloseErr error
	Log      *CallLog

	pending []int
}

// NewSession returns a session on a blank page
func NewSession(id string) *Session {
	return &Session{id: id}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.add("navigate " + url)
	s.history = append(s.history, url)
	s.added = 0
	s.pending = nil
	return nil
}

func (s *Session) Click(ctx context.Context, selector entities.Selector) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.add("click " + selector.String())

	if err, ok := s.ClickErr[selector.String()]; ok {
		return err
	}

	switch {
	case selector.Strategy == entities.ByLinkText && selector.Value == linkText && s.onHome():
		s.history = append(s.history, strings.TrimSuffix(s.current(), "/")+AddRemovePath)
		s.added = 0
		s.pending = nil
		return nil
	case selector.Strategy == entities.ByCSS && selector.Value == addButtonCSS && s.onAddRemove():
		if s.BrokenAdd {
			return nil
		}
		if s.AddDelay > 0 {
			s.pending = append(s.pending, s.AddDelay)
			return nil
		}
		s.added++
		return nil
	case selector.Strategy == entities.ByCSS && selector.Value == addedElemClass && s.onAddRemove() && s.added > 0:
		s.added--
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNoSuchElement, selector)
}

func (s *Session) FindElements(ctx context.Context, selector entities.Selector) ([]interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.add("find " + selector.String())
	s.tick()

	if selector.Strategy != entities.ByCSS || selector.Value != addedElemClass || !s.onAddRemove() {
		return nil, nil
	}
	elements := make([]interfaces.Element, 0, s.added)
	for i := 0; i < s.added; i++ {
		elements = append(elements, &element{session: s, index: i, generation: s.added})
	}
	return elements, nil
}

func (s *Session) Back(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.add("back")
	if s.PanicOnBack {
		panic("back button exploded")
	}
	if len(s.history) > 1 {
		s.history = s.history[:len(s.history)-1]
	}
	s.added = 0
	return nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.add("close")
	s.closes++
	return s.CloseErr
}

// Closes returns how many times Close was called
func (s *Session) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// CurrentURL returns the page the session is on
func (s *Session) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

// Added returns the number of added elements on the page
func (s *Session) Added() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.added
}

func (s *Session) current() string {
	if len(s.history) == 0 {
		return "about:blank"
	}
	return s.history[len(s.history)-1]
}

func (s *Session) onHome() bool {
	return len(s.history) > 0 && !strings.HasSuffix(s.current(), AddRemovePath)
}

func (s *Session) onAddRemove() bool {
	return strings.HasSuffix(s.current(), AddRemovePath)
}

// tick advances delayed additions by one page query
func (s *Session) tick() {
	remaining := s.pending[:0]
	for _, n := range s.pending {
		n--
		if n <= 0 {
			s.added++
			continue
		}
		remaining = append(remaining, n)
	}
	s.pending = remaining
}

type element struct {
	session    *Session
	index      int
	generation int
}

// Click removes the element; a reference taken before the page changed is stale
func (e *element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.add(fmt.Sprintf("click %s[%d]", addedElemClass, e.index))
	if !s.onAddRemove() || s.added != e.generation || e.index >= s.added {
		return ErrStaleElement
	}
	s.added--
	return nil
}

var (
	_ interfaces.SessionOpener = (*Opener)(nil)
	_ interfaces.Session       = (*Session)(nil)
)
