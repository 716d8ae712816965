package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/artifactgraphgo/internal/testutil"
)

// TestTypeSystem_DeclaredTypeIsEnforced validates that produced payloads
// are checked against the artifact's declared type at production time.
func TestTypeSystem_DeclaredTypeIsEnforced(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	// probe produces strings; declaring the artifact as number must fail
	// the run the moment the value is produced.
	graphHCL := `
		artifact "count" {
			type = number
		}

		builder "make_count" {
			handler  = "probe"
			produces = ["count"]
			arguments {
				value = "not a number"
			}
		}
	`
	files := map[string]string{"graph/main.hcl": graphHCL}

	// --- Act ---
	result := testutil.RunGraphTest(t, files, &testutil.ProbeModule{})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "builder 'make_count' failed")
	require.Contains(t, result.Err.Error(), "does not conform to declared type")
}

// TestTypeSystem_ConvertibleValuesPass validates HCL's loose coercion: a
// numeric string satisfies a number-typed artifact.
func TestTypeSystem_ConvertibleValuesPass(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	graphHCL := `
		artifact "count" {
			type = number
		}

		builder "make_count" {
			handler  = "probe"
			produces = ["count"]
			arguments {
				value = "42"
			}
		}
	`
	files := map[string]string{"graph/main.hcl": graphHCL}

	// --- Act ---
	result := testutil.RunGraphTest(t, files, &testutil.ProbeModule{})

	// --- Assert ---
	require.NoError(t, result.Err, "a convertible value should satisfy the declared type")
	testutil.AssertArtifactProduced(t, result, "count")
}

// TestTypeSystem_UntypedArtifactsAcceptAnything validates that an artifact
// declared without a type places no constraint on its payload.
func TestTypeSystem_UntypedArtifactsAcceptAnything(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	graphHCL := `
		artifact "blob" {}

		builder "make_blob" {
			handler  = "probe"
			produces = ["blob"]
			arguments {
				value = "free-form"
			}
		}
	`
	files := map[string]string{"graph/main.hcl": graphHCL}

	// --- Act ---
	result := testutil.RunGraphTest(t, files, &testutil.ProbeModule{})

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertArtifactProduced(t, result, "blob")
}
