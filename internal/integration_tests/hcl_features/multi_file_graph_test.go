package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/artifactgraphgo/internal/testutil"
)

// TestHCLFeatures_GraphSpansMultipleFiles validates that declarations merge
// across every .hcl file under the graph directory, including nested ones.
func TestHCLFeatures_GraphSpansMultipleFiles(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	files := map[string]string{
		"graph/artifacts.hcl": `
			artifact "seed" {
				type = string
			}
			artifact "final" {
				type = string
			}
		`,
		"graph/builders/producers.hcl": `
			builder "make_seed" {
				handler  = "probe"
				produces = ["seed"]
			}
		`,
		"graph/builders/consumers.hcl": `
			builder "make_final" {
				handler  = "probe"
				consumes = ["seed"]
				produces = ["final"]
			}
		`,
	}
	probe := &testutil.ProbeModule{}

	// --- Act ---
	result := testutil.RunGraphTest(t, files, probe)

	// --- Assert ---
	require.NoError(t, result.Err, "declarations split across files should load as one graph")
	require.Equal(t, []string{"make_seed", "make_final"}, probe.Ran())
	testutil.AssertArtifactProduced(t, result, "final")
}

// TestHCLFeatures_UnknownTopLevelBlocksAreTolerated validates that stray
// top-level blocks do not break loading.
func TestHCLFeatures_UnknownTopLevelBlocksAreTolerated(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	files := map[string]string{
		"graph/main.hcl": `
			note "scratch" {
				body = "remember to split this graph up"
			}

			artifact "out" {}

			builder "make_out" {
				handler  = "probe"
				produces = ["out"]
			}
		`,
	}
	probe := &testutil.ProbeModule{}

	// --- Act ---
	result := testutil.RunGraphTest(t, files, probe)

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Equal(t, []string{"make_out"}, probe.Ran())
}
