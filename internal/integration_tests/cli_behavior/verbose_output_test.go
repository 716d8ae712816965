package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/artifactgraphgo/internal/app"
	"github.com/vk/artifactgraphgo/internal/testutil"
)

const verboseGraphHCL = `
	artifact "a" {}
	artifact "b" {}

	builder "make_a" {
		handler  = "probe"
		produces = ["a"]
	}
	builder "make_b" {
		handler  = "probe"
		consumes = ["a"]
		produces = ["b"]
	}
`

// TestCLI_VerboseEmitsPlanAndSummary validates that the -verbose flag adds
// the plan and run-summary progress lines to the output.
func TestCLI_VerboseEmitsPlanAndSummary(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	files := map[string]string{"graph/main.hcl": verboseGraphHCL}

	// --- Act ---
	result := testutil.RunGraphTestWithConfig(t, files, func(cfg *app.Config) {
		cfg.Verbose = true
	}, &testutil.ProbeModule{})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Contains(t, result.Output, "plan: batch 1: [make_a]; batch 2: [make_b]")
	require.Contains(t, result.Output, "run summary: calculated [a, b]; missing []")
}

// TestCLI_QuietByDefault validates that without -verbose the plan and
// summary lines stay out of the output.
func TestCLI_QuietByDefault(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	files := map[string]string{"graph/main.hcl": verboseGraphHCL}

	// --- Act ---
	result := testutil.RunGraphTest(t, files, &testutil.ProbeModule{})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.NotContains(t, result.Output, "plan: batch")
	require.NotContains(t, result.Output, "run summary:")
}
