// Package await provides a bounded poll-until-ready primitive.
package await

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when the condition does not hold before the
// deadline elapses.
var ErrTimeout = errors.New("await: condition not met before timeout")

// Until evaluates cond immediately and then every interval until it returns
// true, the timeout elapses, or ctx is cancelled. Timeout failures wrap
// ErrTimeout.
func Until(ctx context.Context, cond func() bool, timeout, interval time.Duration) error {
	if cond() {
		return nil
	}
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if cond() {
				return nil
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("%w after %s", ErrTimeout, timeout)
			}
		}
	}
}
