package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/registry"
)

// ExecutionRecord holds the start and end times of one builder execution.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two executions ran concurrently.
func (r *ExecutionRecord) Overlaps(other *ExecutionRecord) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// SleeperModule registers a 'sleeper' handler for concurrency tests. Each
// invocation sleeps for a fixed duration and records its execution window,
// so tests can assert which builders overlapped.
type SleeperModule struct {
	ExecutionTimes map[string]*ExecutionRecord
	mu             sync.Mutex
	sleepDuration  time.Duration
}

// NewSleeperModule creates a sleeper module whose handler sleeps for the
// given duration per invocation.
func NewSleeperModule(sleep time.Duration) *SleeperModule {
	return &SleeperModule{
		ExecutionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  sleep,
	}
}

// Record returns the execution window of one builder, or nil if it never ran.
func (m *SleeperModule) Record(name string) *ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecutionTimes[name]
}

// Register registers the 'sleeper' handler.
func (m *SleeperModule) Register(r *registry.Registry) {
	r.RegisterHandler("sleeper", &registry.Handler{
		NewInput: func() any { return nil },
		Build: func(ctx context.Context, _ any, bc *builder.Context) error {
			start := time.Now()
			select {
			case <-time.After(m.sleepDuration):
			case <-ctx.Done():
				return ctx.Err()
			}
			end := time.Now()

			m.mu.Lock()
			m.ExecutionTimes[bc.Name()] = &ExecutionRecord{Start: start, End: end}
			m.mu.Unlock()

			for _, id := range bc.OutputIDs() {
				if err := bc.Produce(ctx, id, cty.StringVal(bc.Name())); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
