// Package testutil provides the shared harness for integration tests: a
// temp-dir HCL workspace, an app run captured end to end, and small
// reusable handler modules for exercising graphs.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/artifactgraphgo/internal/app"
	"github.com/vk/artifactgraphgo/internal/hcl"
	"github.com/vk/artifactgraphgo/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run. Output is
// everything the app wrote: log lines and printed event lines interleaved.
type HarnessResult struct {
	Output string
	Err    error
	App    *app.App
}

// RunGraphTest writes the given HCL files into a temp workspace, starts an
// app over them with the provided modules, runs the graph once, and returns
// the captured outcome. Startup panics surface in Err rather than failing
// the test, so error-path tests can assert on them.
func RunGraphTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunGraphTestWithConfig(t, files, nil, modules...)
}

// RunGraphTestWithConfig is RunGraphTest with a hook to adjust the app
// config before startup (task fields, artifact paths, verbosity).
func RunGraphTestWithConfig(t *testing.T, files map[string]string, adjust func(*app.Config), modules ...registry.Module) *HarnessResult {
	t.Helper()

	graphDir := WriteWorkspace(t, files)

	cfg, err := app.NewConfig(app.Config{
		GraphPath:   graphDir,
		TaskID:      "test",
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
	})
	require.NoError(t, err)
	if adjust != nil {
		adjust(cfg)
	}

	buffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(buffer, cfg, hcl.NewLoader(), modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output: buffer.String(),
			Err:    fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(context.Background())

	if os.Getenv("AGGO_TEST_LOGS") == "true" {
		t.Logf("--- Full Output for %s ---\n%s", t.Name(), buffer.String())
	}

	return &HarnessResult{
		Output: buffer.String(),
		Err:    runErr,
		App:    testApp,
	}
}

// WriteWorkspace materializes the given files under a temp directory and
// returns the directory holding the graph files. Keys are relative paths;
// "graph/main.hcl" is the conventional main file.
func WriteWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	graphDir := filepath.Join(tmpDir, "graph")
	require.NoError(t, os.MkdirAll(graphDir, 0755))

	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}
	return graphDir
}
