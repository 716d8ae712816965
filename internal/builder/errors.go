package builder

import (
	"fmt"

	"github.com/vk/artifactgraphgo/internal/artifact"
)

// UndeclaredOutputError reports a builder producing an artifact id it never
// declared. Declared outputs are the scheduling contract, so this aborts
// the run.
type UndeclaredOutputError struct {
	Builder string
	ID      artifact.ID
}

func (e *UndeclaredOutputError) Error() string {
	return fmt.Sprintf("builder '%s' produced undeclared artifact '%s'", e.Builder, e.ID)
}
