package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jonwraymond/sentinel/monitor"
)

var (
	// ErrNotFound is returned when no target with the given name exists.
	ErrNotFound = errors.New("registry: monitor not found")

	// ErrAlreadyExists is returned when creating a target whose name is
	// already registered.
	ErrAlreadyExists = errors.New("registry: monitor already exists")
)

// Registry is an in-memory target store keyed by monitor name. Safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]monitor.Target
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]monitor.Target)}
}

// Seed registers a batch of targets, typically from configuration. The batch
// is all-or-nothing: the first invalid or duplicate target rejects the whole
// batch.
func (r *Registry) Seed(targets []monitor.Target) error {
	normalized := make([]monitor.Target, 0, len(targets))
	seen := make(map[string]bool, len(targets))
	for _, target := range targets {
		target = target.Normalize()
		if err := target.Validate(); err != nil {
			return fmt.Errorf("monitor %q: %w", target.Name, err)
		}
		if seen[target.Name] {
			return fmt.Errorf("monitor %q: %w", target.Name, ErrAlreadyExists)
		}
		seen[target.Name] = true
		normalized = append(normalized, target)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, target := range normalized {
		if _, ok := r.targets[target.Name]; ok {
			return fmt.Errorf("monitor %q: %w", target.Name, ErrAlreadyExists)
		}
	}
	for _, target := range normalized {
		r.targets[target.Name] = target
	}
	return nil
}

// Create registers a new target. The target is normalized first; validation
// failures and duplicate names are rejected. The stored form is returned.
func (r *Registry) Create(ctx context.Context, target monitor.Target) (monitor.Target, error) {
	target = target.Normalize()
	if err := target.Validate(); err != nil {
		return monitor.Target{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.targets[target.Name]; ok {
		return monitor.Target{}, fmt.Errorf("monitor %q: %w", target.Name, ErrAlreadyExists)
	}
	r.targets[target.Name] = target
	return target, nil
}

// Get returns the target with the given name.
func (r *Registry) Get(ctx context.Context, name string) (monitor.Target, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	target, ok := r.targets[name]
	if !ok {
		return monitor.Target{}, fmt.Errorf("monitor %q: %w", name, ErrNotFound)
	}
	return target, nil
}

// Update replaces the target with the given name. The replacement keeps the
// name; a payload carrying a different name is rejected as invalid.
func (r *Registry) Update(ctx context.Context, name string, target monitor.Target) (monitor.Target, error) {
	target = target.Normalize()
	if target.Name == "" {
		target.Name = name
	}
	if target.Name != name {
		return monitor.Target{}, fmt.Errorf("registry: cannot rename monitor %q to %q", name, target.Name)
	}
	if err := target.Validate(); err != nil {
		return monitor.Target{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.targets[name]; !ok {
		return monitor.Target{}, fmt.Errorf("monitor %q: %w", name, ErrNotFound)
	}
	r.targets[name] = target
	return target, nil
}

// Delete removes the target with the given name.
func (r *Registry) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.targets[name]; !ok {
		return fmt.Errorf("monitor %q: %w", name, ErrNotFound)
	}
	delete(r.targets, name)
	return nil
}

// List returns all registered targets sorted by name.
func (r *Registry) List(ctx context.Context) ([]monitor.Target, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]monitor.Target, 0, len(r.targets))
	for _, target := range r.targets {
		out = append(out, target)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListActiveTargets returns the enabled targets sorted by name. This is the
// snapshot the scheduler takes at the start of each cycle.
func (r *Registry) ListActiveTargets(ctx context.Context) ([]monitor.Target, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]monitor.Target, 0, len(r.targets))
	for _, target := range r.targets {
		if target.Enabled {
			out = append(out, target)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.targets)
}
