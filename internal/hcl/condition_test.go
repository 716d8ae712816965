package hcl

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// parseExpr parses a native-syntax expression for predicate tests.
func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), "parse %q: %s", src, diags.Error())
	return expr
}

func TestCompilePredicate(t *testing.T) {
	t.Run("boolean comparison over inputs", func(t *testing.T) {
		pred := compilePredicate("ready", parseExpr(t, `artifact.step1 == "done"`))

		ok, err := pred(map[string]cty.Value{"step1": cty.StringVal("done")})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = pred(map[string]cty.Value{"step1": cty.StringVal("pending")})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("numeric and logical operators", func(t *testing.T) {
		pred := compilePredicate("thresh", parseExpr(t, `artifact.count > 3 && artifact.enabled`))

		ok, err := pred(map[string]cty.Value{
			"count":   cty.NumberIntVal(5),
			"enabled": cty.True,
		})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = pred(map[string]cty.Value{
			"count":   cty.NumberIntVal(2),
			"enabled": cty.True,
		})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("object attribute traversal", func(t *testing.T) {
		pred := compilePredicate("status_ok", parseExpr(t, `artifact.response.status == 200`))

		ok, err := pred(map[string]cty.Value{
			"response": cty.ObjectVal(map[string]cty.Value{
				"status": cty.NumberIntVal(200),
				"body":   cty.StringVal("{}"),
			}),
		})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no inputs evaluates against empty object", func(t *testing.T) {
		pred := compilePredicate("always", parseExpr(t, `true`))

		ok, err := pred(nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("reference to an id outside inputs errors", func(t *testing.T) {
		pred := compilePredicate("overreach", parseExpr(t, `artifact.missing == "x"`))

		_, err := pred(map[string]cty.Value{"present": cty.True})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "condition 'overreach'")
	})

	t.Run("non-boolean result errors", func(t *testing.T) {
		pred := compilePredicate("stringy", parseExpr(t, `"not a bool"`))

		_, err := pred(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not bool")
	})

	t.Run("null result errors", func(t *testing.T) {
		pred := compilePredicate("nully", parseExpr(t, `null`))

		_, err := pred(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "null")
	})
}
