package plan

import (
	"fmt"
	"strings"

	"github.com/vk/artifactgraphgo/internal/artifact"
)

// DuplicateProducerError reports two builders declaring the same output id.
// The artifact set requires exactly one producer per id.
type DuplicateProducerError struct {
	ID     artifact.ID
	First  string
	Second string
}

func (e *DuplicateProducerError) Error() string {
	return fmt.Sprintf("duplicate producer for artifact '%s': declared by builders '%s' and '%s'", e.ID, e.First, e.Second)
}

// CycleError reports that batching stalled before every builder was
// scheduled. Builders lists the stuck builders in registration order.
type CycleError struct {
	Builders []string
}

func (e *CycleError) Error() string {
	quoted := make([]string, len(e.Builders))
	for i, name := range e.Builders {
		quoted[i] = fmt.Sprintf("'%s'", name)
	}
	return fmt.Sprintf("cycle detected involving builders: %s", strings.Join(quoted, ", "))
}
