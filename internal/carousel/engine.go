package carousel

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// HookTransitionEnd is fired by the built-in engines once an animated
// transition has finished and the carousel is unlocked.
const HookTransitionEnd = "transitionEnd"

// Engine performs the visual hand-off for one accepted transition.
//
// Run is called once per transition with a snapshot of the carousel. It must
// call done exactly once: synchronously when s.Immediate() is true, and no
// later than s.Duration otherwise. An engine that never calls done leaves the
// carousel locked.
type Engine interface {
	Run(s State, st Stage, done func())
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(s State, st Stage, done func())

// Run calls f.
func (f EngineFunc) Run(s State, st Stage, done func()) {
	f(s, st, done)
}

// FrameFunc returns the layers for eased progress t in [0, 1].
type FrameFunc func(t float64) []Layer

// Stage is what an Engine draws on.
type Stage interface {
	// Show places index on screen without animation.
	Show(index int)

	// Animate draws frames over d and calls done when finished. done is
	// guaranteed to run no later than d after the call.
	Animate(d time.Duration, frame FrameFunc, done func())

	// Fire fires an engine-defined hook on the carousel.
	Fire(hook string)
}

// Registry maps engine names to implementations.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// DefaultRegistry holds the built-in "fade" and "slide" engines.
var DefaultRegistry = NewRegistry()

// NewRegistry returns a registry holding the built-in engines.
func NewRegistry() *Registry {
	return &Registry{
		engines: map[string]Engine{
			"fade":  Fade{},
			"slide": Slide{},
		},
	}
}

// Register adds or replaces an engine.
func (r *Registry) Register(name string, e Engine) error {
	if name == "" {
		return fmt.Errorf("%w: empty engine name", ErrConfig)
	}
	if e == nil {
		return fmt.Errorf("%w: nil engine %q", ErrConfig, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[name] = e
	return nil
}

// Lookup returns the engine registered under name.
func (r *Registry) Lookup(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown engine %q (known: %s)", ErrConfig, name, strings.Join(r.namesLocked(), ", "))
	}
	return e, nil
}

// Names returns the registered engine names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
