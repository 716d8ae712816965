package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/artifactgraphgo/internal/ctxlog"
)

// decodeArguments statically evaluates argument expressions and populates
// the handler's input struct using reflection. Fields opt in with an `hcl`
// tag; fields tagged `,optional` may be omitted from the arguments block.
func decodeArguments(ctx context.Context, inputStruct any, args map[string]hcl.Expression) error {
	logger := ctxlog.FromContext(ctx)

	if inputStruct == nil {
		if len(args) > 0 {
			return fmt.Errorf("handler accepts no arguments, but %d were given", len(args))
		}
		return nil
	}

	structVal := reflect.ValueOf(inputStruct)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() {
		return fmt.Errorf("handler input must be a non-nil pointer, got %T", inputStruct)
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	known := make(map[string]struct{}, structType.NumField())

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldVal := structVal.Field(i)
		if !fieldVal.CanSet() {
			continue
		}

		tag := field.Tag.Get("hcl")
		if tag == "" || tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		name := parts[0]
		optional := len(parts) > 1 && parts[1] == "optional"
		known[name] = struct{}{}

		expr, provided := args[name]
		if !provided {
			if !optional {
				return fmt.Errorf("missing required argument %q", name)
			}
			continue
		}

		// Arguments are static: no variables are in scope here.
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("evaluating argument %q: %w", name, diags)
		}
		if err := decodeCtyValue(ctx, val, fieldVal.Addr().Interface()); err != nil {
			return fmt.Errorf("failed to decode argument '%s': %w", name, err)
		}
	}

	unsupported := make([]string, 0, len(args))
	for name := range args {
		if _, ok := known[name]; !ok {
			unsupported = append(unsupported, name)
		}
	}
	if len(unsupported) > 0 {
		sort.Strings(unsupported)
		return fmt.Errorf("unsupported argument %q", unsupported[0])
	}

	logger.Debug("Decoded handler arguments.", "count", len(args))
	return nil
}

// decodeCtyValue converts a cty value into the Go value behind ptr, going
// through the type implied by the target so compatible values convert
// rather than fail.
func decodeCtyValue(ctx context.Context, val cty.Value, ptr any) error {
	logger := ctxlog.FromContext(ctx)

	impliedType, err := gocty.ImpliedType(reflect.ValueOf(ptr).Elem().Interface())
	if err != nil {
		logger.Debug("Could not imply cty.Type from Go type, attempting direct decoding.", "go_type", reflect.TypeOf(ptr).String(), "error", err)
		return gocty.FromCtyValue(val, ptr)
	}

	converted, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	return gocty.FromCtyValue(converted, ptr)
}
