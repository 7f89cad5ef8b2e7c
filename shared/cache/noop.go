package cache

import (
	"context"
	"fmt"
	"time"
)

type noopCache struct{}

// NewNoop returns a Cache that stores nothing. Every Get misses and every Lock succeeds.
func NewNoop() Cache {
	return noopCache{}
}

func (noopCache) Save(context.Context, string, any, int) error {
	return nil
}

func (noopCache) Get(context.Context, string, any) error {
	return fmt.Errorf("failed to get cache value: %w", Nil)
}

func (noopCache) Delete(context.Context, string) error {
	return nil
}

func (noopCache) Clear(context.Context, string) error {
	return nil
}

func (noopCache) Lock(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

func (noopCache) Unlock(context.Context, string) error {
	return nil
}

// Increment always reports a first hit, so nothing is ever throttled.
func (noopCache) Increment(context.Context, string, time.Duration) (int64, error) {
	return 1, nil
}
