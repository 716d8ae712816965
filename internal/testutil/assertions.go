package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertBuilderRan checks the captured output to confirm that a builder
// completed. It keys on the engine's finish log line rather than any
// internal identifier, keeping tests resilient to refactoring.
func AssertBuilderRan(t *testing.T, result *HarnessResult, name string) {
	t.Helper()

	expected := fmt.Sprintf("msg=\"✅ Finished builder.\" builder=%s", name)
	require.True(t,
		strings.Contains(result.Output, expected),
		"expected builder '%s' to have finished, but its log line is missing", name,
	)
}

// AssertArtifactProduced checks the printed event stream for an artifact id.
func AssertArtifactProduced(t *testing.T, result *HarnessResult, id string) {
	t.Helper()

	expected := fmt.Sprintf("artifact '%s' produced by", id)
	require.True(t,
		strings.Contains(result.Output, expected),
		"expected artifact '%s' to have been produced, but its event line is missing", id,
	)
}
