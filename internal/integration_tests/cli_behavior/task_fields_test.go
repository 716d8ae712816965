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

// TestCLI_TaskFieldsReachBuilders validates that -task and -task-id flow
// through the app config into the running builders.
func TestCLI_TaskFieldsReachBuilders(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	graphHCL := `
		artifact "summary" {
			type = string
		}

		builder "summarize" {
			handler  = "statictext"
			produces = ["summary"]
			arguments {
				text = "{{task.id}}: {{task.input}}"
			}
		}
	`
	files := map[string]string{"graph/main.hcl": graphHCL}
	outPath := filepath.Join(t.TempDir(), "artifacts.json")

	// --- Act ---
	result := testutil.RunGraphTestWithConfig(t, files, func(cfg *app.Config) {
		cfg.TaskID = "t-123"
		cfg.TaskInput = "photograph the eclipse"
		cfg.ArtifactsOutPath = outPath
	})

	// --- Assert ---
	require.NoError(t, result.Err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	arts, err := artifact.DecodeJSON(data)
	require.NoError(t, err)
	require.Len(t, arts, 1)
	require.Equal(t, "t-123: photograph the eclipse", arts[0].Value.AsString())
}
