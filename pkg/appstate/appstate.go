// Package appstate holds the explicit application state shared by the CLI,
// the MCP server and the dashboard: theme, code status and session flags.
package appstate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/unowned-ai/rpager/pkg/logging"
	"github.com/unowned-ai/rpager/pkg/store"
)

const StateKey = "r-pager-app-state"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", store.Invalid("theme", "must be light or dark, got %q", s)
	}
}

type State struct {
	Theme      Theme      `json:"theme"`
	CodeStatus CodeStatus `json:"code_status"`
	// SeenWelcome is set once the first-login letter has been dismissed.
	SeenWelcome bool `json:"seen_welcome"`
	// BirthdayShown is the last day (YYYY-MM-DD) the birthday greeting ran.
	BirthdayShown string `json:"birthday_shown,omitempty"`
}

// Default is the state of a fresh install.
func Default() State {
	return State{Theme: ThemeLight, CodeStatus: DefaultCodeStatus}
}

func (s State) normalized() State {
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		s.Theme = ThemeLight
	}
	if !s.CodeStatus.Valid() {
		s.CodeStatus = DefaultCodeStatus
	}
	return s
}

// Listener observes a committed change.
type Listener func(old, updated State)

type listener struct {
	id int
	fn Listener
}

// Manager owns the state. Every Set call persists before listeners run.
type Manager struct {
	doc *store.Document[State]
	log logging.Logger

	mu        sync.RWMutex
	state     State
	listeners []listener
	nextID    int
}

func NewManager(kv store.KV, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop()
	}
	return &Manager{
		doc:   store.NewDocument[State](kv, StateKey, log),
		log:   log.With("component", "appstate"),
		state: Default(),
	}
}

// Load reads the persisted state, falling back to defaults for anything
// missing or unknown.
func (m *Manager) Load(ctx context.Context) (State, error) {
	v, _, readState, err := m.doc.Load(ctx)
	if err != nil {
		return State{}, fmt.Errorf("failed to load app state: %w", err)
	}
	if readState == store.StateMissing {
		v = Default()
	}
	v = v.normalized()

	m.mu.Lock()
	m.state = v
	m.mu.Unlock()
	return v, nil
}

func (m *Manager) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// OnChange registers fn and returns a function that removes it.
func (m *Manager) OnChange(fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) update(ctx context.Context, mutate func(State) State) (State, error) {
	var old State
	next, err := m.doc.Update(ctx, func(current State) (State, error) {
		if current == (State{}) {
			current = Default()
		}
		old = current.normalized()
		return mutate(old).normalized(), nil
	})
	if err != nil {
		return State{}, fmt.Errorf("failed to save app state: %w", err)
	}

	m.mu.Lock()
	m.state = next
	fns := make([]Listener, len(m.listeners))
	for i, l := range m.listeners {
		fns[i] = l.fn
	}
	m.mu.Unlock()

	if old != next {
		m.log.Debug(ctx, "app state changed", "theme", next.Theme, "code_status", next.CodeStatus)
		for _, fn := range fns {
			fn(old, next)
		}
	}
	return next, nil
}

func (m *Manager) SetTheme(ctx context.Context, t Theme) (State, error) {
	if _, err := ParseTheme(string(t)); err != nil {
		return State{}, err
	}
	return m.update(ctx, func(s State) State {
		s.Theme = t
		return s
	})
}

func (m *Manager) ToggleTheme(ctx context.Context) (State, error) {
	return m.update(ctx, func(s State) State {
		if s.Theme == ThemeDark {
			s.Theme = ThemeLight
		} else {
			s.Theme = ThemeDark
		}
		return s
	})
}

func (m *Manager) SetCodeStatus(ctx context.Context, c CodeStatus) (State, error) {
	if !c.Valid() {
		return State{}, store.Invalid("code_status", "unknown code status %q", c)
	}
	return m.update(ctx, func(s State) State {
		s.CodeStatus = c
		return s
	})
}

func (m *Manager) MarkWelcomeSeen(ctx context.Context) (State, error) {
	return m.update(ctx, func(s State) State {
		s.SeenWelcome = true
		return s
	})
}

// MarkBirthdayShown records that the greeting for day has run. It reports
// false if it had already run that day.
func (m *Manager) MarkBirthdayShown(ctx context.Context, day string) (bool, error) {
	var fresh bool
	_, err := m.update(ctx, func(s State) State {
		fresh = s.BirthdayShown != day
		s.BirthdayShown = day
		return s
	})
	if err != nil {
		return false, err
	}
	return fresh, nil
}
