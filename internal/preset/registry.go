package preset

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrNoActivePreset = errors.New("no active preset")
	ErrUnknownClient  = errors.New("unknown client")
	ErrUnknownPreset  = errors.New("unknown preset")
)

// snapshot is an immutable view of the registry. Activation builds a new
// snapshot and swaps the pointer, so readers always see a fully-formed
// preset and never a partial update.
type snapshot struct {
	active  string
	byName  map[string]Preset
	ordered []string
}

// Registry resolves presets for the OAuth endpoints. Read-mostly; the
// only mutation is Activate, which swaps the snapshot atomically.
type Registry struct {
	snap atomic.Pointer[snapshot]
}

// NewRegistry builds a registry from declared presets. active may be
// empty (no preset active until Activate is called).
func NewRegistry(presets []Preset, active string) (*Registry, error) {
	byName := make(map[string]Preset, len(presets))
	ordered := make([]string, 0, len(presets))
	for _, p := range presets {
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("preset: duplicate name %q", p.Name)
		}
		byName[p.Name] = p.Clone()
		ordered = append(ordered, p.Name)
	}
	if active != "" {
		if _, ok := byName[active]; !ok {
			return nil, fmt.Errorf("preset: %w: %s", ErrUnknownPreset, active)
		}
	}

	r := &Registry{}
	r.snap.Store(&snapshot{active: active, byName: byName, ordered: ordered})
	return r, nil
}

// Active returns a copy of the currently active preset.
func (r *Registry) Active() (Preset, error) {
	s := r.snap.Load()
	if s.active == "" {
		return Preset{}, ErrNoActivePreset
	}
	return s.byName[s.active].Clone(), nil
}

// ActiveName returns the active preset name, or "".
func (r *Registry) ActiveName() string {
	return r.snap.Load().active
}

// ByClientID resolves a preset by client id. When several presets share
// a client id, the active one wins; otherwise declaration order decides.
func (r *Registry) ByClientID(clientID string) (Preset, error) {
	if clientID == "" {
		return Preset{}, ErrUnknownClient
	}
	s := r.snap.Load()

	if s.active != "" {
		if p := s.byName[s.active]; p.ClientID == clientID {
			return p.Clone(), nil
		}
	}
	for _, name := range s.ordered {
		if p := s.byName[name]; p.ClientID == clientID {
			return p.Clone(), nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %s", ErrUnknownClient, clientID)
}

// Activate swaps the active preset. The previous snapshot stays valid
// for readers that already loaded it.
func (r *Registry) Activate(name string) error {
	for {
		old := r.snap.Load()
		if _, ok := old.byName[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPreset, name)
		}
		next := &snapshot{active: name, byName: old.byName, ordered: old.ordered}
		if r.snap.CompareAndSwap(old, next) {
			return nil
		}
	}
}

// All returns copies of every declared preset in declaration order.
func (r *Registry) All() []Preset {
	s := r.snap.Load()
	out := make([]Preset, 0, len(s.ordered))
	for _, name := range s.ordered {
		out = append(out, s.byName[name].Clone())
	}
	return out
}
