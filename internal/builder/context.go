package builder

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/task"
)

// Sink receives what a running builder yields. Calls block until the engine
// has consumed the value, so a builder that produces early and keeps working
// is naturally paced by its consumer; both calls return promptly with the
// context's error once the run is canceled.
type Sink interface {
	Progress(ctx context.Context, builderName, text string) error
	Produce(ctx context.Context, builderName string, a artifact.Artifact) error
}

// Context is the window a running builder has onto the run: the ambient
// task, the prior conversation, and a value map restricted to exactly the
// builder's declared inputs.
type Context struct {
	Task    task.Task
	History []task.Message

	b      *Builder
	inputs map[artifact.ID]cty.Value
	sink   Sink
}

// NewContext assembles the context for one invocation of b. The inputs map
// must already be restricted to b's declared ids.
func NewContext(t task.Task, history []task.Message, b *Builder, inputs map[artifact.ID]cty.Value, sink Sink) *Context {
	return &Context{
		Task:    t,
		History: history,
		b:       b,
		inputs:  inputs,
		sink:    sink,
	}
}

// Name returns the running builder's name.
func (bc *Context) Name() string {
	return bc.b.Name
}

// InputIDs returns the builder's declared input ids in declaration order.
func (bc *Context) InputIDs() []artifact.ID {
	out := make([]artifact.ID, len(bc.b.Inputs))
	copy(out, bc.b.Inputs)
	return out
}

// OutputIDs returns the builder's declared output ids in declaration order.
func (bc *Context) OutputIDs() []artifact.ID {
	out := make([]artifact.ID, len(bc.b.Outputs))
	copy(out, bc.b.Outputs)
	return out
}

// Input returns the resolved value for one declared input id.
func (bc *Context) Input(id artifact.ID) (cty.Value, bool) {
	v, ok := bc.inputs[id]
	return v, ok
}

// Inputs returns a copy of the resolved input map.
func (bc *Context) Inputs() map[artifact.ID]cty.Value {
	out := make(map[artifact.ID]cty.Value, len(bc.inputs))
	for id, v := range bc.inputs {
		out[id] = v
	}
	return out
}

// Progress forwards a human-readable progress message to the run's event
// stream. It blocks until the message is consumed.
func (bc *Context) Progress(ctx context.Context, text string) error {
	return bc.sink.Progress(ctx, bc.b.Name, text)
}

// Produce materializes an artifact for one of the builder's declared output
// ids and forwards it downstream. Producing an undeclared id is an error
// that should abort the run.
func (bc *Context) Produce(ctx context.Context, id artifact.ID, value cty.Value) error {
	if !bc.b.ProducesID(id) {
		return &UndeclaredOutputError{Builder: bc.b.Name, ID: id}
	}
	return bc.sink.Produce(ctx, bc.b.Name, artifact.New(id, value))
}
