package testutil

import (
	"context"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/registry"
)

// ProbeModule registers a 'probe' handler: it produces a configurable
// string to every declared output and records which builders ran, in
// completion order. It is the workhorse of graph-shape tests.
type ProbeModule struct {
	mu  sync.Mutex
	ran []string
}

type probeInput struct {
	// Value is the produced string. Defaults to the builder's own name so
	// consumers can assert on provenance.
	Value string `hcl:"value,optional"`
}

// Ran returns the names of the builders that completed, in order.
func (m *ProbeModule) Ran() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.ran))
	copy(out, m.ran)
	return out
}

// Register registers the 'probe' handler.
func (m *ProbeModule) Register(r *registry.Registry) {
	r.RegisterHandler("probe", &registry.Handler{
		NewInput: func() any { return new(probeInput) },
		Build: func(ctx context.Context, input any, bc *builder.Context) error {
			in := input.(*probeInput)
			value := in.Value
			if value == "" {
				value = bc.Name()
			}
			for _, id := range bc.OutputIDs() {
				if err := bc.Produce(ctx, id, cty.StringVal(value)); err != nil {
					return err
				}
			}
			m.mu.Lock()
			m.ran = append(m.ran, bc.Name())
			m.mu.Unlock()
			return nil
		},
	})
}
