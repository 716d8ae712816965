package artifact

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Definition declares one member of the graph's artifact set: its id, the
// cty type its payloads must conform to, and an optional human description.
type Definition struct {
	ID          ID
	Type        cty.Type
	Description string
}

// Validate checks that a payload conforms to the declared type. A nil or
// dynamic type accepts anything.
func (d Definition) Validate(v cty.Value) error {
	if d.Type == cty.NilType || d.Type.Equals(cty.DynamicPseudoType) {
		return nil
	}
	if _, err := convert.Convert(v, d.Type); err != nil {
		return fmt.Errorf("artifact '%s': value of type %s does not conform to declared type %s: %w",
			d.ID, v.Type().FriendlyName(), d.Type.FriendlyName(), err)
	}
	return nil
}

// Definitions indexes the declared artifact set by id.
type Definitions map[ID]Definition

// Has reports whether id is part of the declared set.
func (ds Definitions) Has(id ID) bool {
	_, ok := ds[id]
	return ok
}

// Validate checks a payload against the declaration for id. Ids without a
// declaration pass unchecked so that definition-free graphs keep working.
func (ds Definitions) Validate(id ID, v cty.Value) error {
	d, ok := ds[id]
	if !ok {
		return nil
	}
	return d.Validate(v)
}

// IDs returns the declared ids in lexical order for stable reporting.
func (ds Definitions) IDs() []ID {
	ids := make([]ID, 0, len(ds))
	for id := range ds {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
