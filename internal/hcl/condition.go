package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// compilePredicate closes over a condition's when expression. The returned
// predicate evaluates it against an `artifact.<id>` object built from the
// condition's resolved inputs and requires a boolean result; anything else
// is an error, which aborts the run rather than skipping builders.
func compilePredicate(name string, expr hcl.Expression) func(map[string]cty.Value) (bool, error) {
	return func(inputs map[string]cty.Value) (bool, error) {
		vals := make(map[string]cty.Value, len(inputs))
		for id, v := range inputs {
			vals[id] = v
		}
		evalCtx := &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"artifact": cty.ObjectVal(vals),
			},
		}

		v, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return false, fmt.Errorf("condition '%s': evaluating when expression: %w", name, diags)
		}

		b, err := convert.Convert(v, cty.Bool)
		if err != nil {
			return false, fmt.Errorf("condition '%s': when expression produced %s, not bool", name, v.Type().FriendlyName())
		}
		if b.IsNull() {
			return false, fmt.Errorf("condition '%s': when expression produced null", name)
		}
		return b.True(), nil
	}
}
