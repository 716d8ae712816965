package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/artifactgraphgo/internal/builder"
)

// Handler bundles the Go parts of a registered builder handler: a factory
// for its argument struct and the build function itself.
type Handler struct {
	// NewInput returns a pointer to a fresh argument struct, or nil when
	// the handler takes no arguments.
	NewInput func() any

	// Build runs one builder invocation. input is the decoded argument
	// struct produced by NewInput.
	Build func(ctx context.Context, input any, bc *builder.Context) error
}

// Module is the interface all bundled handler modules implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all registered handlers for a single application instance.
type Registry struct {
	handlers map[string]*Handler
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		handlers: make(map[string]*Handler),
	}
}

// RegisterHandler registers a Go handler under the name builder blocks
// reference. Registering a name twice is a programmer error.
func (r *Registry) RegisterHandler(name string, h *Handler) {
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	if h == nil || h.Build == nil {
		panic(fmt.Sprintf("handler '%s' must have a build function", name))
	}
	slog.Debug("Registering handler.", "name", name)
	r.handlers[name] = h
}

// Handler returns the handler registered under name.
func (r *Registry) Handler(name string) (*Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}
