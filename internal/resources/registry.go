package resources

import (
	"sync"

	"github.com/rs/zerolog"
)

// Registry manages the collection of available resources. Like the
// tool registry it is populated once, lazily, and read-only
// thereafter, preserving registration order.
type Registry struct {
	order  []Resource
	byURI  map[string]Resource
	once   sync.Once
	build  func() []Resource
	logger zerolog.Logger
	mu     sync.RWMutex
}

// NewRegistry creates a registry whose contents are produced by build
// on first access.
func NewRegistry(logger zerolog.Logger, build func() []Resource) *Registry {
	return &Registry{
		byURI:  make(map[string]Resource),
		build:  build,
		logger: logger.With().Str("component", "resource_registry").Logger(),
	}
}

func (r *Registry) populate() {
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		uris := make([]string, 0)
		for _, resource := range r.build() {
			if _, exists := r.byURI[resource.URI()]; exists {
				r.logger.Warn().Str("uri", resource.URI()).Msg("Duplicate resource URI ignored")
				continue
			}
			r.order = append(r.order, resource)
			r.byURI[resource.URI()] = resource
			uris = append(uris, resource.URI())
		}

		r.logger.Info().
			Int("count", len(r.order)).
			Strs("resources", uris).
			Msg("Resource registry populated")
	})
}

// List returns all registered resources in registration order.
func (r *Registry) List() []Resource {
	r.populate()
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Resource, len(r.order))
	copy(out, r.order)
	return out
}

// Definitions returns the handler-free definitions of all resources in
// registration order.
func (r *Registry) Definitions() []Definition {
	listed := r.List()
	defs := make([]Definition, len(listed))
	for i, resource := range listed {
		defs[i] = resource.Definition()
	}
	return defs
}

// Get returns a resource by URI. Absence is a valid outcome, not an
// error.
func (r *Registry) Get(uri string) (Resource, bool) {
	r.populate()
	r.mu.RLock()
	defer r.mu.RUnlock()

	resource, exists := r.byURI[uri]
	return resource, exists
}
