// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timing

import (
	"context"
	"time"
)

// RetryUntilOK repeatedly invokes fn until it succeeds, sleeping between
// attempts starting at base and doubling (saturating at max) each time.
// It returns early if ctx is canceled. base must be >= 1ms; this helper
// must not spin.
func RetryUntilOK[T any](ctx context.Context, base, max time.Duration, fn func() (T, error)) (T, error) {
	delay := base
	for {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			var zero T
			return zero, ctx.Err()
		case <-timer.C:
		}

		if delay < max {
			delay *= 2
			if delay > max {
				delay = max
			}
		}
	}
}
