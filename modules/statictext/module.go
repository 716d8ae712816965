// Package statictext produces a fixed string artifact. The text may embed
// {{task.id}} and {{task.input}} placeholders, which are replaced with the
// running task's fields.
package statictext

import (
	"context"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	Text string `hcl:"text"`
}

// OnBuildStaticText is the handler for the 'statictext' builder.
func OnBuildStaticText(ctx context.Context, input any, bc *builder.Context) error {
	in := input.(*Input)

	text := strings.NewReplacer(
		"{{task.id}}", bc.Task.ID,
		"{{task.input}}", bc.Task.Input,
	).Replace(in.Text)

	for _, id := range bc.OutputIDs() {
		if err := bc.Produce(ctx, id, cty.StringVal(text)); err != nil {
			return err
		}
	}
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("statictext", &registry.Handler{
		NewInput: func() any { return new(Input) },
		Build:    OnBuildStaticText,
	})
}
