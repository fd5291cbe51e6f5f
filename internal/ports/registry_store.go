package ports

import "context"

// RegistryStorePort persists string sets under a key. Each write is a
// single atomic commit; there is no isolation across calls.
type RegistryStorePort interface {
	// LoadSet returns the stored set, or an empty set when the key is absent.
	LoadSet(ctx context.Context, key string) ([]string, error)
	// SaveSet replaces the whole set stored under key.
	SaveSet(ctx context.Context, key string, values []string) error
	// RemoveSet deletes the key. Removing an absent key succeeds.
	RemoveSet(ctx context.Context, key string) error
}
