// Package builder defines the value objects the engine schedules: builders,
// the context a running builder sees, and the conditions that gate them.
//
// A builder is a plain record of what it consumes and produces plus a pure
// function handle. There is no hierarchy; the engine plans against declared
// ids alone and never inspects a builder's internals.
package builder

import (
	"context"

	"github.com/vk/artifactgraphgo/internal/artifact"
)

// BuildFunc is the work of one builder. It reads inputs from the context,
// reports progress and produces artifacts through it, and returns an error
// only when the whole run must abort.
type BuildFunc func(ctx context.Context, bc *Context) error

// Builder declares one unit of work over the artifact set. Inputs and
// Outputs keep their declaration order; Outputs is never empty. Builders
// hold no run state and may be reused across runs.
type Builder struct {
	Name        string
	Description string
	Inputs      []artifact.ID
	Outputs     []artifact.ID
	Run         BuildFunc
}

// ConsumesID reports whether id is among the builder's declared inputs.
func (b *Builder) ConsumesID(id artifact.ID) bool {
	for _, in := range b.Inputs {
		if in == id {
			return true
		}
	}
	return false
}

// ProducesID reports whether id is among the builder's declared outputs.
func (b *Builder) ProducesID(id artifact.ID) bool {
	for _, out := range b.Outputs {
		if out == id {
			return true
		}
	}
	return false
}
