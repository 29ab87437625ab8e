package chat

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// RenderTarget is an opaque handle to the UI location one exchange renders
// into. The surrounding UI owns message-list mutation; the core only calls
// these three methods, and never after the terminal Final/Error call.
type RenderTarget interface {
	// Fragment replaces the displayed content with the text-to-date.
	Fragment(text string)

	// Final replaces the displayed content with the complete reply.
	Final(text string)

	// Error renders a terminal, categorized failure message.
	Error(kind ErrorKind, message string)
}

// typingCursor is appended to incremental fragments and cleared by Final.
const typingCursor = "▌"

const (
	defaultTypingMin = 50 * time.Millisecond
	defaultTypingMax = 150 * time.Millisecond
)

type typingConfig struct {
	min time.Duration
	max time.Duration

	// delay overrides the randomized schedule; tests use this.
	delay func() time.Duration
}

func (t typingConfig) next() time.Duration {
	if t.delay != nil {
		return t.delay()
	}
	min, max := t.min, t.max
	if min <= 0 {
		min = defaultTypingMin
	}
	if max < min {
		max = min
	}
	if max == min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

// playIncremental adapts decoder fragments onto the target: cumulative text
// plus a transient cursor while the stream is live.
func playIncremental(target RenderTarget, text string) {
	target.Fragment(text + typingCursor)
}

// playSimulated reveals a complete reply token by token so non-streamed
// responses get the same typing experience as streamed ones. Tokens are
// whitespace-split; a randomized pause separates consecutive reveals.
func (c *Client) playSimulated(ctx context.Context, target RenderTarget, text string) error {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		target.Final(text)
		return nil
	}

	var shown strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			if err := c.sleep(ctx, c.typing.next()); err != nil {
				return &Error{Kind: KindCanceled, Message: "playback canceled", Cause: err}
			}
			shown.WriteByte(' ')
		}
		shown.WriteString(tok)
		target.Fragment(shown.String())
	}
	target.Final(text)
	return nil
}
