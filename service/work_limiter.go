package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"armario-mascota-mockups/models"
)

// WorkLimiter caps the number of concurrent decode, trim, resize, composite and
// encode operations across all generations. Holders must not acquire it twice.
type WorkLimiter struct {
	slots *semaphore.Weighted
}

// NewWorkLimiter creates a limiter allowing at most concurrency simultaneous operations
func NewWorkLimiter(concurrency int) *WorkLimiter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &WorkLimiter{slots: semaphore.NewWeighted(int64(concurrency))}
}

// Do runs fn while holding one slot. Waiting for a slot honours ctx.
func (l *WorkLimiter) Do(ctx context.Context, fn func() error) error {
	if err := l.slots.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: waiting for an image slot: %v", models.ErrGenerationTimeout, err)
	}
	defer l.slots.Release(1)
	return fn()
}
