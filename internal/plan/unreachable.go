package plan

import (
	"sort"

	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/builder"
)

// FindUnreachable checks that the artifact set is producible by the builders
// alone. Starting from builders with no inputs, it repeatedly fires every
// builder whose inputs are already reachable, adding its outputs, until a
// fixpoint. Ids mentioned anywhere that the closure never reaches are
// returned sorted; an empty result means the graph is self-contained.
//
// This is a structural property of the builder set. Artifacts supplied at
// run start do not participate: a graph that only works when someone
// pre-feeds it is considered misconfigured.
func FindUnreachable(builders []*builder.Builder) []artifact.ID {
	universe := make(map[artifact.ID]struct{})
	for _, b := range builders {
		for _, in := range b.Inputs {
			universe[in] = struct{}{}
		}
		for _, out := range b.Outputs {
			universe[out] = struct{}{}
		}
	}

	reachable := make(map[artifact.ID]struct{})
	fired := make([]bool, len(builders))

	for progress := true; progress; {
		progress = false
		for i, b := range builders {
			if fired[i] {
				continue
			}
			ready := true
			for _, in := range b.Inputs {
				if _, ok := reachable[in]; !ok {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			fired[i] = true
			progress = true
			for _, out := range b.Outputs {
				reachable[out] = struct{}{}
			}
		}
	}

	var unreachable []artifact.ID
	for id := range universe {
		if _, ok := reachable[id]; !ok {
			unreachable = append(unreachable, id)
		}
	}
	sort.Slice(unreachable, func(i, j int) bool { return unreachable[i] < unreachable[j] })
	return unreachable
}
