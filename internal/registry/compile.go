package registry

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/config"
	"github.com/vk/artifactgraphgo/internal/ctxlog"
)

// Compiled holds the engine-ready products of a graph model: typed artifact
// definitions plus builders and conditions bound to their Go handlers.
type Compiled struct {
	Definitions artifact.Definitions
	Builders    []*builder.Builder
	Conditions  []*builder.Condition
}

// Compile binds every builder in the model to its registered handler. Each
// arguments block is decoded into a fresh input struct once, here; run-time
// data reaches handlers only through their declared inputs. Builders keep
// the model's declaration order.
func (r *Registry) Compile(ctx context.Context, model *config.Model) (*Compiled, error) {
	logger := ctxlog.FromContext(ctx)

	defs := make(artifact.Definitions, len(model.Artifacts))
	for id, a := range model.Artifacts {
		defs[artifact.ID(id)] = artifact.Definition{
			ID:          artifact.ID(id),
			Type:        a.Type,
			Description: a.Description,
		}
	}

	builders := make([]*builder.Builder, 0, len(model.Builders))
	for _, bd := range model.Builders {
		handler, ok := r.handlers[bd.Handler]
		if !ok {
			return nil, fmt.Errorf("builder '%s': no handler named '%s' is registered", bd.Name, bd.Handler)
		}

		var input any
		if handler.NewInput != nil {
			input = handler.NewInput()
		}
		if err := decodeArguments(ctx, input, bd.Arguments); err != nil {
			return nil, fmt.Errorf("builder '%s': %w", bd.Name, err)
		}

		build := handler.Build
		boundInput := input
		builders = append(builders, &builder.Builder{
			Name:        bd.Name,
			Description: bd.Description,
			Inputs:      toIDs(bd.Consumes),
			Outputs:     toIDs(bd.Produces),
			Run: func(ctx context.Context, bc *builder.Context) error {
				return build(ctx, boundInput, bc)
			},
		})
	}

	conditions := make([]*builder.Condition, 0, len(model.Conditions))
	for _, cd := range model.Conditions {
		var predicate builder.Predicate
		if pred := cd.Predicate; pred != nil {
			predicate = func(inputs map[artifact.ID]cty.Value) (bool, error) {
				byName := make(map[string]cty.Value, len(inputs))
				for id, v := range inputs {
					byName[string(id)] = v
				}
				return pred(byName)
			}
		}
		conditions = append(conditions, &builder.Condition{
			Name:      cd.Name,
			Inputs:    toIDs(cd.Inputs),
			Then:      toIDs(cd.Gates),
			Predicate: predicate,
		})
	}

	logger.Debug("Graph compiled.", "definitions", len(defs), "builders", len(builders), "conditions", len(conditions))
	return &Compiled{Definitions: defs, Builders: builders, Conditions: conditions}, nil
}

func toIDs(names []string) []artifact.ID {
	if len(names) == 0 {
		return nil
	}
	out := make([]artifact.ID, len(names))
	for i, n := range names {
		out[i] = artifact.ID(n)
	}
	return out
}
