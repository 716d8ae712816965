package testutil

import (
	"context"
	"errors"

	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/registry"
)

// FailingModule registers an 'explode' handler that always fails, for
// error-path tests.
type FailingModule struct{}

type explodeInput struct {
	Message string `hcl:"message,optional"`
}

// Register registers the 'explode' handler.
func (m *FailingModule) Register(r *registry.Registry) {
	r.RegisterHandler("explode", &registry.Handler{
		NewInput: func() any { return new(explodeInput) },
		Build: func(ctx context.Context, input any, bc *builder.Context) error {
			in := input.(*explodeInput)
			if in.Message != "" {
				return errors.New(in.Message)
			}
			return errors.New("explode handler detonated")
		},
	})
}
