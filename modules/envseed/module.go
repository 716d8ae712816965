// Package envseed seeds a graph with values from the process environment.
// It is typically the root of a graph: it consumes nothing and produces one
// object artifact mapping variable names to their values.
package envseed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/ctxlog"
	"github.com/vk/artifactgraphgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	// Vars restricts the exported variables to an allow-list. Unset
	// variables are omitted. An empty list exports the whole environment.
	Vars []string `hcl:"vars,optional"`
}

// OnBuildEnvSeed is the handler for the 'envseed' builder.
func OnBuildEnvSeed(ctx context.Context, input any, bc *builder.Context) error {
	logger := ctxlog.FromContext(ctx).With("handler", "envseed")
	in, _ := input.(*Input)

	vals := make(map[string]cty.Value)
	if in != nil && len(in.Vars) > 0 {
		for _, name := range in.Vars {
			v, ok := os.LookupEnv(name)
			if !ok {
				logger.Debug("Environment variable not set, omitting.", "name", name)
				continue
			}
			vals[name] = cty.StringVal(v)
		}
	} else {
		for _, e := range os.Environ() {
			pair := strings.SplitN(e, "=", 2)
			if len(pair) == 2 {
				vals[pair[0]] = cty.StringVal(pair[1])
			}
		}
	}

	out := cty.EmptyObjectVal
	if len(vals) > 0 {
		out = cty.ObjectVal(vals)
	}

	if err := bc.Progress(ctx, fmt.Sprintf("seeded %d environment variables", len(vals))); err != nil {
		return err
	}
	for _, id := range bc.OutputIDs() {
		if err := bc.Produce(ctx, id, out); err != nil {
			return err
		}
	}
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("envseed", &registry.Handler{
		NewInput: func() any { return new(Input) },
		Build:    OnBuildEnvSeed,
	})
}
