// Package textjoin concatenates the builder's consumed artifacts, in
// declared order, into one string artifact.
package textjoin

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	Separator string `hcl:"separator,optional"`
}

// OnBuildTextJoin is the handler for the 'textjoin' builder.
func OnBuildTextJoin(ctx context.Context, input any, bc *builder.Context) error {
	in := input.(*Input)

	joined := ""
	for i, id := range bc.InputIDs() {
		v, ok := bc.Input(id)
		if !ok {
			return fmt.Errorf("input artifact '%s' was not resolved", id)
		}
		text, err := render(v)
		if err != nil {
			return fmt.Errorf("input artifact '%s': %w", id, err)
		}
		if i > 0 {
			joined += in.Separator
		}
		joined += text
	}

	for _, id := range bc.OutputIDs() {
		if err := bc.Produce(ctx, id, cty.StringVal(joined)); err != nil {
			return err
		}
	}
	return nil
}

// render flattens one artifact value to text. Scalars convert directly;
// anything structural is rendered as compact JSON. Nulls render empty.
func render(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if converted, err := convert.Convert(v, cty.String); err == nil {
		return converted.AsString(), nil
	}
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", fmt.Errorf("cannot render value as text: %w", err)
	}
	return string(raw), nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("textjoin", &registry.Handler{
		NewInput: func() any { return new(Input) },
		Build:    OnBuildTextJoin,
	})
}
