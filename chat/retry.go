package chat

import (
	"context"
	"net/http"
	"time"
)

// RetryProgress is invoked before each retry so the UI can surface
// attempt/delay feedback. attempt is the upcoming attempt number.
type RetryProgress func(attempt, maxAttempts int, delay time.Duration)

const (
	backoffBase = time.Second
	backoffCap  = 5 * time.Second
)

// backoffDelay returns the sleep before attempt k (k >= 2):
// 1s, 2s, 4s, then capped at 5s. The schedule is deterministic; it is part
// of the observable exchange contract, so no jitter.
func backoffDelay(attempt int) time.Duration {
	if attempt < 2 {
		return 0
	}
	d := backoffBase
	for i := 2; i < attempt; i++ {
		d *= 2
		if d >= backoffCap {
			return backoffCap
		}
	}
	if d > backoffCap {
		return backoffCap
	}
	return d
}

// exchange runs the transport with bounded retries. Only network failures
// are retried; config, timeout and HTTP errors propagate on first sight.
// Each attempt rebuilds the request so the body and deadline are fresh.
func (c *Client) exchange(ctx context.Context, cfg Config, message string, streaming bool, timeout time.Duration, progress RetryProgress) (*http.Response, context.CancelFunc, error) {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := buildRequest(ctx, cfg, message, streaming, c.userAgent)
		if err != nil {
			return nil, nil, err
		}

		resp, cancel, err := c.send(ctx, req, timeout)
		if err == nil {
			return resp, cancel, nil
		}
		lastErr = err

		if KindOf(err) != KindNetwork || attempt == maxAttempts {
			return nil, nil, err
		}

		delay := backoffDelay(attempt + 1)
		c.logger.Debug("chat retry",
			"attempt", attempt+1,
			"max_attempts", maxAttempts,
			"delay", delay,
			"err", err)
		if progress != nil {
			progress(attempt+1, maxAttempts, delay)
		}
		if err := c.sleep(ctx, delay); err != nil {
			return nil, nil, &Error{Kind: KindCanceled, Message: "retry wait canceled", Cause: err}
		}
	}
	return nil, nil, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
