package engine

import (
	"fmt"
	"strings"

	"github.com/vk/artifactgraphgo/internal/artifact"
)

// UnreachableArtifactsError rejects a graph whose artifact set cannot be
// produced by composing its builders from the zero-input ones. IDs lists
// every unproducible id, sorted.
type UnreachableArtifactsError struct {
	IDs []artifact.ID
}

func (e *UnreachableArtifactsError) Error() string {
	quoted := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		quoted[i] = fmt.Sprintf("'%s'", id)
	}
	return fmt.Sprintf("graph contains unreachable artifacts: %s", strings.Join(quoted, ", "))
}

// MissingArtifactError reports a required artifact absent at resolution
// time. With Condition set it names the condition whose input could not be
// resolved; otherwise a scheduled builder's declared input was missing,
// which means an upstream producer was gated away or never ran.
type MissingArtifactError struct {
	Builder   string
	Condition string
	ID        artifact.ID
}

func (e *MissingArtifactError) Error() string {
	if e.Condition != "" {
		return fmt.Sprintf("cannot evaluate condition '%s' for builder '%s': required artifact '%s' is missing", e.Condition, e.Builder, e.ID)
	}
	return fmt.Sprintf("cannot run builder '%s': required artifact '%s' was not produced by any earlier batch", e.Builder, e.ID)
}
