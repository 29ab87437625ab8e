package chat

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"
)

// maxErrorBodyBytes caps how much of a non-2xx body is read for diagnostics.
const maxErrorBodyBytes = 64 << 10

// send performs exactly one HTTP exchange under its own deadline and
// classifies the outcome. On success the response body is still open; the
// caller owns closing it. The returned cancel func must be held until the
// body has been fully consumed.
func (c *Client) send(ctx context.Context, req *http.Request, timeout time.Duration) (*http.Response, context.CancelFunc, error) {
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	req = req.Clone(ctx)

	resp, err := c.hc.Do(req)
	if err != nil {
		cancel()
		return nil, func() {}, classifyTransportErr(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		_ = resp.Body.Close()
		cancel()
		return nil, func() {}, httpError(resp.StatusCode, body)
	}
	return resp, cancel, nil
}

func classifyTransportErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return timeoutError(err)
	case errors.Is(err, context.Canceled):
		// The exchange deadline is our own child context; a canceled parent
		// means the caller gave up, not that the network failed.
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &Error{Kind: KindCanceled, Message: "request canceled", Cause: err}
		}
		return timeoutError(err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return timeoutError(err)
	}
	return networkError(err)
}
