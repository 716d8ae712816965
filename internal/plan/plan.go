// Package plan turns a declared builder set into an executable schedule.
// It derives the producer map, groups builders into ordered batches where
// every batch only needs artifacts produced by earlier batches, and checks
// that the artifact set is structurally producible at all.
package plan

import (
	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/builder"
)

// Batch is one wave of builders whose inputs are all satisfied by earlier
// batches. Builders within a batch are independent and may run concurrently.
type Batch []*builder.Builder

// Plan is the ordered batch schedule for one builder set.
type Plan struct {
	Batches []Batch
}

// Producers maps every declared output id to its producing builder. Two
// builders declaring the same output id is a *DuplicateProducerError.
func Producers(builders []*builder.Builder) (map[artifact.ID]*builder.Builder, error) {
	producers := make(map[artifact.ID]*builder.Builder)
	for _, b := range builders {
		for _, out := range b.Outputs {
			if prev, ok := producers[out]; ok {
				return nil, &DuplicateProducerError{ID: out, First: prev.Name, Second: b.Name}
			}
			producers[out] = b
		}
	}
	return producers, nil
}

// Compute batches the builders with a Kahn-style sweep. Each round collects
// every builder whose producers are all scheduled, so batches are maximal.
// Within a batch the original registration order is kept, which makes the
// plan deterministic for a given builder list. Inputs with no producer are
// treated as externally supplied and create no edge; a builder listed among
// its own producers is ignored for edge purposes. A round that schedules
// nothing while builders remain is a *CycleError.
func Compute(builders []*builder.Builder) (*Plan, error) {
	producers, err := Producers(builders)
	if err != nil {
		return nil, err
	}

	indexOf := make(map[*builder.Builder]int, len(builders))
	for i, b := range builders {
		indexOf[b] = i
	}

	// Direct predecessor index sets, deduplicated per builder.
	preds := make([][]int, len(builders))
	for i, b := range builders {
		seen := make(map[int]bool)
		for _, in := range b.Inputs {
			p, ok := producers[in]
			if !ok || p == b {
				continue
			}
			j := indexOf[p]
			if !seen[j] {
				seen[j] = true
				preds[i] = append(preds[i], j)
			}
		}
	}

	scheduled := make([]bool, len(builders))
	remaining := len(builders)
	var batches []Batch

	for remaining > 0 {
		var wave Batch
		var waveIdx []int
		for i, b := range builders {
			if scheduled[i] {
				continue
			}
			ready := true
			for _, j := range preds[i] {
				if !scheduled[j] {
					ready = false
					break
				}
			}
			if ready {
				wave = append(wave, b)
				waveIdx = append(waveIdx, i)
			}
		}

		if len(wave) == 0 {
			var stuck []string
			for i, b := range builders {
				if !scheduled[i] {
					stuck = append(stuck, b.Name)
				}
			}
			return nil, &CycleError{Builders: stuck}
		}

		// Mark after the sweep so same-round builders never see each other
		// as scheduled.
		for _, i := range waveIdx {
			scheduled[i] = true
		}
		remaining -= len(wave)
		batches = append(batches, wave)
	}

	return &Plan{Batches: batches}, nil
}
