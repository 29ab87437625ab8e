package chat

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	e := httpError(502, []byte("boom"))
	if got := e.Error(); !strings.Contains(got, "http 502") {
		t.Fatalf("Error()=%q", got)
	}
	e = apiError("bad input")
	if got := e.Error(); got != "chat: api: bad input" {
		t.Fatalf("Error()=%q", got)
	}
	e = &Error{Kind: KindNetwork}
	if got := e.Error(); got != "chat: network: network" {
		t.Fatalf("Error()=%q", got)
	}
}

func TestAsError_Unwrapping(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := fmt.Errorf("context: %w", networkError(cause))

	e, ok := AsError(wrapped)
	if !ok || e.Kind != KindNetwork {
		t.Fatalf("AsError=%v,%v", e, ok)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("cause lost through wrapping")
	}
}

func TestKindOf_ForeignErrorIsNetwork(t *testing.T) {
	if got := KindOf(errors.New("who knows")); got != KindNetwork {
		t.Fatalf("KindOf=%q", got)
	}
	if got := KindOf(timeoutError(nil)); got != KindTimeout {
		t.Fatalf("KindOf=%q", got)
	}
}
