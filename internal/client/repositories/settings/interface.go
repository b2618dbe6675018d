// Package settings persists small string values under fixed keys, such as
// the encrypted API key and the preferred translation direction.
package settings

import "context"

// Repository is a flat key/value table. Get returns ("", false, nil) when the
// key is absent.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
