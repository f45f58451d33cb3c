package browser

import (
	"context"
	"errors"
	"time"
)

const defaultPollInterval = 100 * time.Millisecond

var errWaitTimeout = errors.New("timed out waiting for condition")

// waitFor polls cond until it returns true, an error, the timeout expires or
// ctx is done. cond always runs at least once.
func waitFor(ctx context.Context, timeout, interval time.Duration, cond func() (bool, error)) error {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	deadline := time.Now().Add(timeout)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return errWaitTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
