package builder

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/artifactgraphgo/internal/artifact"
)

// Predicate decides whether gated builders may run, given the condition's
// resolved inputs. An error aborts the run; it is distinct from a false
// result, which only skips the gated builders.
type Predicate func(inputs map[artifact.ID]cty.Value) (bool, error)

// Condition gates builders by artifact id. Then names the ids it governs;
// a condition applies to every builder whose declared inputs or outputs
// intersect Then. Gating by output id is intentional: a condition about an
// artifact also gates the builder that would produce it.
type Condition struct {
	Name      string
	Inputs    []artifact.ID
	Predicate Predicate
	Then      []artifact.ID
}

// Gates reports whether the condition applies to b.
func (c *Condition) Gates(b *Builder) bool {
	for _, id := range c.Then {
		if b.ConsumesID(id) || b.ProducesID(id) {
			return true
		}
	}
	return false
}
