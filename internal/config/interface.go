package config

import (
	"context"
)

// Loader is the interface for a format-specific schema loader.
type Loader interface {
	// Load reads every manifest reachable from the given paths, merges them
	// over any built-in definitions, and returns the translated model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
