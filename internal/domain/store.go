package domain

import "context"

// ConfigStore is the external key-value store caching the commit identifier.
// Get reports found=false (and a nil error) for absent keys.
type ConfigStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}
