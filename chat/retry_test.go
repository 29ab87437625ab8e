package chat

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestBackoffDelay_Schedule(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{2, 1 * time.Second},
		{3, 2 * time.Second},
		{4, 4 * time.Second},
		{5, 5 * time.Second},
		{6, 5 * time.Second},
		{9, 5 * time.Second},
	}
	for _, tc := range cases {
		if got := backoffDelay(tc.attempt); got != tc.want {
			t.Fatalf("backoffDelay(%d)=%v, want %v", tc.attempt, got, tc.want)
		}
	}
	if got := backoffDelay(1); got != 0 {
		t.Fatalf("backoffDelay(1)=%v, want 0", got)
	}
}

func TestExchange_RetriesNetworkErrorsExactly(t *testing.T) {
	var calls int
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("connection refused")
	})
	c.maxAttempts = 4
	c.typing.delay = zeroDelay

	var progress []int
	_, _, err := c.exchange(context.Background(), testConfig(), "hi", true, time.Second,
		func(attempt, max int, delay time.Duration) {
			progress = append(progress, attempt)
			if max != 4 {
				t.Fatalf("progress max=%d", max)
			}
		})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 4 {
		t.Fatalf("transport calls=%d, want 4", calls)
	}
	if KindOf(err) != KindNetwork {
		t.Fatalf("kind=%q", KindOf(err))
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("last error lost: %v", err)
	}
	if len(progress) != 3 || progress[0] != 2 || progress[2] != 4 {
		t.Fatalf("progress=%v", progress)
	}
}

func TestExchange_HTTPErrorNotRetried(t *testing.T) {
	var calls int
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("upstream sad")),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})
	c.maxAttempts = 5

	_, _, err := c.exchange(context.Background(), testConfig(), "hi", true, time.Second, nil)
	if calls != 1 {
		t.Fatalf("transport calls=%d, want 1", calls)
	}
	e, ok := AsError(err)
	if !ok || e.Kind != KindHTTP {
		t.Fatalf("err=%v", err)
	}
	if e.Status != http.StatusBadGateway {
		t.Fatalf("Status=%d", e.Status)
	}
	if string(e.Body) != "upstream sad" {
		t.Fatalf("Body=%q", e.Body)
	}
}

func TestExchange_TimeoutNotRetried(t *testing.T) {
	var calls int
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		<-r.Context().Done()
		return nil, r.Context().Err()
	})
	c.maxAttempts = 3

	_, _, err := c.exchange(context.Background(), testConfig(), "hi", true, 10*time.Millisecond, nil)
	if calls != 1 {
		t.Fatalf("transport calls=%d, want 1", calls)
	}
	if KindOf(err) != KindTimeout {
		t.Fatalf("kind=%q err=%v", KindOf(err), err)
	}
}

func TestExchange_EmptyEndpointShortCircuits(t *testing.T) {
	var calls int
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("must not be called")
	})

	cfg := Config{EndpointURL: "", Auth: AuthBearer, Credential: "abc"}
	_, _, err := c.exchange(context.Background(), cfg, "hi", true, time.Second, nil)
	if calls != 0 {
		t.Fatalf("transport calls=%d, want 0", calls)
	}
	if KindOf(err) != KindConfig {
		t.Fatalf("kind=%q", KindOf(err))
	}
}
