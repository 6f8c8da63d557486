package core

import (
	"fmt"
	"strings"
	"sync"
)

// SourceRegistry is an explicitly constructed, injected source list. Trial
// order is registration order; List never reorders.
type SourceRegistry struct {
	mu      sync.RWMutex
	sources []Source
	index   map[string]Source
}

func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{index: make(map[string]Source)}
}

func (r *SourceRegistry) Register(source Source) error {
	if source == nil {
		return fmt.Errorf("core: source is nil")
	}
	name := strings.TrimSpace(source.Name())
	if name == "" {
		return fmt.Errorf("core: source name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("core: source already registered: %s", name)
	}
	r.index[name] = source
	r.sources = append(r.sources, source)
	return nil
}

func (r *SourceRegistry) Get(name string) (Source, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	r.mu.RLock()
	source, ok := r.index[name]
	r.mu.RUnlock()
	return source, ok
}

func (r *SourceRegistry) List() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Source(nil), r.sources...)
}

func (r *SourceRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for _, source := range r.sources {
		names = append(names, source.Name())
	}
	return names
}
