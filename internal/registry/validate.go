package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vk/artifactgraphgo/internal/config"
	"github.com/vk/artifactgraphgo/internal/ctxlog"
)

// Validate performs a strict parity check between the graph model and the
// registered Go handlers before anything runs. It aggregates every problem
// it finds rather than stopping at the first.
func (r *Registry) Validate(ctx context.Context, model *config.Model) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, b := range model.Builders {
		handler, ok := r.handlers[b.Handler]
		if !ok {
			errs = append(errs, fmt.Sprintf("builder '%s': no handler named '%s' is registered", b.Name, b.Handler))
			continue
		}
		if len(b.Produces) == 0 {
			errs = append(errs, fmt.Sprintf("builder '%s': must produce at least one artifact", b.Name))
		}
		for _, id := range b.Consumes {
			if _, declared := model.Artifacts[id]; !declared {
				errs = append(errs, fmt.Sprintf("builder '%s': consumes undeclared artifact '%s'", b.Name, id))
			}
		}
		for _, id := range b.Produces {
			if _, declared := model.Artifacts[id]; !declared {
				errs = append(errs, fmt.Sprintf("builder '%s': produces undeclared artifact '%s'", b.Name, id))
			}
		}
		errs = append(errs, checkArguments(b, handler)...)
	}

	for _, c := range model.Conditions {
		for _, id := range c.Inputs {
			if _, declared := model.Artifacts[id]; !declared {
				errs = append(errs, fmt.Sprintf("condition '%s': input references undeclared artifact '%s'", c.Name, id))
			}
		}
		for _, id := range c.Gates {
			if _, declared := model.Artifacts[id]; !declared {
				errs = append(errs, fmt.Sprintf("condition '%s': gates undeclared artifact '%s'", c.Name, id))
			}
		}
		if c.Predicate == nil {
			errs = append(errs, fmt.Sprintf("condition '%s': has no predicate", c.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("graph validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Graph validation passed.", "builders", len(model.Builders), "conditions", len(model.Conditions))
	return nil
}

// checkArguments compares a builder's argument names against the `hcl`
// tags of the handler's input struct.
func checkArguments(b *config.BuilderDefinition, h *Handler) []string {
	goInputs := make(map[string]struct{})
	if h.NewInput != nil {
		if input := h.NewInput(); input != nil {
			tpe := reflect.TypeOf(input)
			if tpe.Kind() == reflect.Ptr {
				tpe = tpe.Elem()
			}
			if tpe.Kind() == reflect.Struct {
				for i := 0; i < tpe.NumField(); i++ {
					field := tpe.Field(i)
					if !field.IsExported() {
						continue
					}
					tagName := strings.Split(field.Tag.Get("hcl"), ",")[0]
					if tagName != "" && tagName != "-" {
						goInputs[tagName] = struct{}{}
					}
				}
			}
		}
	}

	names := make([]string, 0, len(b.Arguments))
	for name := range b.Arguments {
		if _, ok := goInputs[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var errs []string
	for _, name := range names {
		errs = append(errs, fmt.Sprintf("builder '%s': handler '%s' accepts no argument named '%s'", b.Name, b.Handler, name))
	}
	return errs
}
