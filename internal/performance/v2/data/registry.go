package data

import "sync"

// Registry is the process-wide mapping from fingerprint to Provider
// (§4.1.5). It is the only component allowed to construct a Provider
// directly. Unlike a package-level singleton, Registry is an explicitly
// constructed object a harness owns and can Clear() between test runs,
// keeping tests hermetic (§9 Design Notes).
type Registry struct {
	mu        sync.Mutex
	providers map[string]*Provider
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]*Provider)}
}

// Acquire returns the existing Provider for cfg's fingerprint, or
// constructs and stores one.
func (r *Registry) Acquire(cfg *ProviderConfig) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fp := cfg.Fingerprint()

	r.mu.Lock()
	if p, ok := r.providers[fp]; ok {
		r.mu.Unlock()
		return p, nil
	}
	p := newProvider(cfg)
	r.providers[fp] = p
	r.mu.Unlock()

	return p, nil
}

// Clear drops every provider instance. Used between test runs (§6: "No
// persistent state").
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = make(map[string]*Provider)
}

// Len reports how many distinct providers are currently registered, mostly
// useful for tests and the metrics collector.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.providers)
}

// snapshot returns the current provider set for Collect/inspect purposes.
func (r *Registry) snapshot() map[string]*Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*Provider, len(r.providers))
	for k, v := range r.providers {
		out[k] = v
	}
	return out
}
