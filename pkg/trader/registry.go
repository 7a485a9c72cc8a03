package trader

import (
	"fmt"
	"sync"
)

// Registry is a thread-safe name-to-adapter registry. The calling
// framework registers one adapter per exchange and resolves them by
// slug.
type Registry struct {
	mu      sync.RWMutex
	traders map[string]Trader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		traders: make(map[string]Trader),
	}
}

// Register adds an adapter under the given slug, replacing any
// previous registration.
func (r *Registry) Register(slug string, t Trader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.traders[slug] = t
}

// Get resolves an adapter by slug.
func (r *Registry) Get(slug string) (Trader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.traders[slug]
	if !exists {
		return nil, fmt.Errorf("trader %q not found", slug)
	}
	return t, nil
}

// Slugs returns the slugs of all registered adapters.
func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slugs := make([]string, 0, len(r.traders))
	for slug := range r.traders {
		slugs = append(slugs, slug)
	}
	return slugs
}

// Unregister removes an adapter by slug.
func (r *Registry) Unregister(slug string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.traders, slug)
}
