package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/artifactgraphgo/internal/testutil"
)

// TestErrorHandling_UnreachableArtifact_FailsStartup validates that a
// consumed artifact no builder can produce is caught before anything runs.
func TestErrorHandling_UnreachableArtifact_FailsStartup(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	graphHCL := `
		artifact "ghost" {}
		artifact "out" {}

		builder "wants_ghost" {
			handler  = "probe"
			consumes = ["ghost"]
			produces = ["out"]
		}
	`
	files := map[string]string{"graph/main.hcl": graphHCL}

	// --- Act ---
	result := testutil.RunGraphTest(t, files, &testutil.ProbeModule{})

	// --- Assert ---
	require.Error(t, result.Err, "startup should have rejected the unproducible artifact")
	require.Contains(t, result.Err.Error(), "application startup panicked")
	require.Contains(t, result.Err.Error(), "unreachable artifacts: 'ghost'")
}
