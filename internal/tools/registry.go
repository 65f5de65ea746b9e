package tools

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Registry manages the collection of available tools. It is populated
// once, lazily, and read-only thereafter; registration order is
// preserved for listing.
type Registry struct {
	order  []Tool
	byName map[string]Tool
	once   sync.Once
	build  func() []Tool
	logger zerolog.Logger
	mu     sync.RWMutex
}

// NewRegistry creates a registry whose contents are produced by build
// on first access.
func NewRegistry(logger zerolog.Logger, build func() []Tool) *Registry {
	return &Registry{
		byName: make(map[string]Tool),
		build:  build,
		logger: logger.With().Str("component", "tool_registry").Logger(),
	}
}

func (r *Registry) populate() {
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		names := make([]string, 0)
		for _, tool := range r.build() {
			if _, exists := r.byName[tool.Name()]; exists {
				r.logger.Warn().Str("tool", tool.Name()).Msg("Duplicate tool name ignored")
				continue
			}
			r.order = append(r.order, tool)
			r.byName[tool.Name()] = tool
			names = append(names, tool.Name())
		}

		r.logger.Info().
			Int("count", len(r.order)).
			Strs("tools", names).
			Msg("Tool registry populated")
	})
}

// List returns all registered tools in registration order.
func (r *Registry) List() []Tool {
	r.populate()
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, len(r.order))
	copy(out, r.order)
	return out
}

// Definitions returns the handler-free definitions of all tools in
// registration order.
func (r *Registry) Definitions() []Definition {
	listed := r.List()
	defs := make([]Definition, len(listed))
	for i, tool := range listed {
		defs[i] = tool.Definition()
	}
	return defs
}

// Get returns a tool by name. Absence is a valid outcome, not an error.
func (r *Registry) Get(name string) (Tool, bool) {
	r.populate()
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.byName[name]
	return tool, exists
}

// ValidateArguments checks only the presence of the required fields
// declared in the tool's input schema. It performs no type checking
// beyond presence.
func ValidateArguments(def Definition, args map[string]any) (bool, []string) {
	var missing []string
	for _, field := range def.InputSchema.Required {
		if _, ok := args[field]; !ok {
			missing = append(missing, fmt.Sprintf("Missing required parameter: %s", field))
		}
	}
	return len(missing) == 0, missing
}
