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

// TestCoreExecution_DataPassing validates that artifact values flow from
// producers to consumers, exercising the bundled statictext and textjoin
// handlers end to end.
func TestCoreExecution_DataPassing(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	graphHCL := `
		artifact "first" {
			type = string
		}
		artifact "second" {
			type = string
		}
		artifact "sentence" {
			type = string
		}

		builder "say_first" {
			handler  = "statictext"
			produces = ["first"]
			arguments {
				text = "artifact graphs"
			}
		}
		builder "say_second" {
			handler  = "statictext"
			produces = ["second"]
			arguments {
				text = "fit together"
			}
		}
		builder "compose" {
			handler  = "textjoin"
			consumes = ["first", "second"]
			produces = ["sentence"]
			arguments {
				separator = " "
			}
		}
	`
	files := map[string]string{"graph/main.hcl": graphHCL}
	outPath := filepath.Join(t.TempDir(), "artifacts.json")

	// --- Act ---
	// No test modules: this exercises the compiled-in core modules.
	result := testutil.RunGraphTestWithConfig(t, files, func(cfg *app.Config) {
		cfg.ArtifactsOutPath = outPath
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertArtifactProduced(t, result, "sentence")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	arts, err := artifact.DecodeJSON(data)
	require.NoError(t, err)

	var sentence string
	for _, a := range arts {
		if a.ID == "sentence" {
			sentence = a.Value.AsString()
		}
	}
	require.Equal(t, "artifact graphs fit together", sentence)
}
