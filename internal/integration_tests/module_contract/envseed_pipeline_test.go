package integration_tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/artifactgraphgo/internal/app"
	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/testutil"
)

// TestModuleContract_EnvSeedPipeline runs the bundled envseed handler
// end-to-end: the graph names the variables it wants and the produced
// artifact carries exactly those, survive a trip through the artifacts file.
//
// No t.Parallel here: t.Setenv forbids it.
func TestModuleContract_EnvSeedPipeline(t *testing.T) {
	// --- Arrange ---
	t.Setenv("AGGO_CONTRACT_REGION", "eu-west-1")
	t.Setenv("AGGO_CONTRACT_SECRET", "do-not-seed")

	graphHCL := `
		artifact "env" {
			description = "Selected environment variables."
		}

		builder "seed" {
			handler  = "envseed"
			produces = ["env"]
			arguments {
				vars = ["AGGO_CONTRACT_REGION"]
			}
		}
	`
	files := map[string]string{"graph/main.hcl": graphHCL}
	outPath := filepath.Join(t.TempDir(), "artifacts.json")

	// --- Act ---
	result := testutil.RunGraphTestWithConfig(t, files, func(cfg *app.Config) {
		cfg.ArtifactsOutPath = outPath
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertBuilderRan(t, result, "seed")
	require.Contains(t, result.Output, "seeded 1 environment variables")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	arts, err := artifact.DecodeJSON(data)
	require.NoError(t, err)
	require.Len(t, arts, 1)

	env := arts[0].Value
	require.Equal(t, "eu-west-1", env.GetAttr("AGGO_CONTRACT_REGION").AsString())
	require.False(t, env.Type().HasAttribute("AGGO_CONTRACT_SECRET"),
		"variables outside the allow-list must not be seeded")
}
