package config

import (
	"context"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads graph configuration from the given paths, translates it
	// into the format-agnostic model, and merges everything it finds into a
	// single graph. Paths may name files or directories; a path that does
	// not exist is skipped.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
