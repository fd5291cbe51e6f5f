package adapters

import (
	"context"
	"sort"
	"sync"

	"sideload-watch/internal/ports"
)

// RegistryMemoryAdapter keeps registry sets in process memory. State is
// lost when the process exits.
type RegistryMemoryAdapter struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

func NewRegistryMemoryAdapter() *RegistryMemoryAdapter {
	return &RegistryMemoryAdapter{sets: map[string]map[string]struct{}{}}
}

func (a *RegistryMemoryAdapter) LoadSet(ctx context.Context, key string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	values := make([]string, 0, len(a.sets[key]))
	for value := range a.sets[key] {
		values = append(values, value)
	}
	sort.Strings(values)
	return values, nil
}

func (a *RegistryMemoryAdapter) SaveSet(ctx context.Context, key string, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sets == nil {
		a.sets = map[string]map[string]struct{}{}
	}
	a.sets[key] = set
	return nil
}

func (a *RegistryMemoryAdapter) RemoveSet(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sets, key)
	return nil
}

var _ ports.RegistryStorePort = (*RegistryMemoryAdapter)(nil)
