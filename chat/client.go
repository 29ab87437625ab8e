package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultMaxAttempts is the per-exchange attempt budget (initial try
	// included).
	DefaultMaxAttempts = 3

	// DefaultSendTimeout bounds one full message exchange, stream reads
	// included.
	DefaultSendTimeout = 60 * time.Second

	// DefaultProbeTimeout bounds a connectivity probe.
	DefaultProbeTimeout = 15 * time.Second
)

// Client runs chat exchanges against a host-configured backend: one request
// per exchange, bounded retries on connectivity failures, and a uniform
// typing playback over streamed and non-streamed replies.
//
// A Client holds no per-exchange state and is safe for reuse, but the
// single-outstanding-exchange discipline is the caller's: start a new Send
// only after the previous one delivered its terminal Final/Error.
type Client struct {
	hc     *http.Client
	logger *slog.Logger

	userAgent    string
	maxAttempts  int
	sendTimeout  time.Duration
	probeTimeout time.Duration
	streaming    bool

	typing  typingConfig
	onRetry RetryProgress

	// sleep is swapped out in tests.
	sleep func(context.Context, time.Duration) error
}

type Option func(*Client) error

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("chat: nil http client")
		}
		c.hc = hc
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}

// WithMaxAttempts sets the attempt budget, initial attempt included.
func WithMaxAttempts(n int) Option {
	return func(c *Client) error {
		if n < 1 {
			return fmt.Errorf("chat: max attempts must be >= 1, got %d", n)
		}
		c.maxAttempts = n
		return nil
	}
}

func WithSendTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("chat: send timeout must be positive")
		}
		c.sendTimeout = d
		return nil
	}
}

func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("chat: probe timeout must be positive")
		}
		c.probeTimeout = d
		return nil
	}
}

// WithStreaming toggles the stream:true request flag. Disabling it asks the
// backend for a single JSON reply; the typing playback stays the same.
func WithStreaming(enabled bool) Option {
	return func(c *Client) error {
		c.streaming = enabled
		return nil
	}
}

// WithTypingDelay bounds the randomized pause between simulated-typing
// tokens.
func WithTypingDelay(min, max time.Duration) Option {
	return func(c *Client) error {
		if min < 0 || max < min {
			return errors.New("chat: invalid typing delay bounds")
		}
		c.typing.min = min
		c.typing.max = max
		return nil
	}
}

// WithRetryProgress registers a callback fired before each retry.
func WithRetryProgress(fn RetryProgress) Option {
	return func(c *Client) error {
		c.onRetry = fn
		return nil
	}
}

func New(opts ...Option) (*Client, error) {
	c := &Client{
		hc:           &http.Client{},
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		userAgent:    "pbchatbot/1",
		maxAttempts:  DefaultMaxAttempts,
		sendTimeout:  DefaultSendTimeout,
		probeTimeout: DefaultProbeTimeout,
		streaming:    true,
		typing: typingConfig{
			min: defaultTypingMin,
			max: defaultTypingMax,
		},
		sleep: sleepCtx,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Send runs one exchange: build, retry-wrapped transport, classification,
// decode, playback. The reply text is returned and the terminal outcome is
// always delivered to target (Final on success, Error with a categorized
// message on failure) when target is non-nil.
func (c *Client) Send(ctx context.Context, message string, cfg Config, target RenderTarget) (string, error) {
	text, err := c.run(ctx, message, cfg, target)
	if err != nil {
		c.logger.Debug("chat exchange failed", "kind", KindOf(err), "err", err)
		if target != nil {
			target.Error(KindOf(err), FailureMessage(err, cfg))
		}
		return "", err
	}
	c.logger.Debug("chat exchange done", "reply_len", len(text))
	return text, nil
}

func (c *Client) run(ctx context.Context, message string, cfg Config, target RenderTarget) (string, error) {
	resp, cancel, err := c.exchange(ctx, cfg, message, c.streaming, c.sendTimeout, c.onRetry)
	if err != nil {
		return "", err
	}
	defer cancel()
	defer resp.Body.Close()

	kind := classifyContentType(resp.Header.Get("Content-Type"))
	if kind == bodyStream {
		full, err := decodeStream(resp.Body, func(soFar string) {
			if target != nil {
				playIncremental(target, soFar)
			}
		})
		if err != nil {
			return "", err
		}
		if target != nil {
			target.Final(full)
		}
		return full, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", decodeError("read response body", err)
	}
	text, err := replyFromBody(kind, body)
	if err != nil {
		return "", err
	}
	if target != nil {
		if err := c.playSimulated(ctx, target, text); err != nil {
			return "", err
		}
	}
	return text, nil
}

// Probe performs one small non-streaming, non-retried exchange under the
// probe deadline. A nil return means the backend is reachable and answered
// 2xx; the reply content is discarded.
func (c *Client) Probe(ctx context.Context, cfg Config) error {
	req, err := buildRequest(ctx, cfg, "ping", false, c.userAgent)
	if err != nil {
		return err
	}
	resp, cancel, err := c.send(ctx, req, c.probeTimeout)
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))
	return nil
}

// FailureMessage renders a terminal failure as a categorized human-readable
// message. Config and network failures carry the diagnostics report; no
// failure ever renders as a raw stack trace.
func FailureMessage(err error, cfg Config) string {
	e, ok := AsError(err)
	if !ok {
		e = networkError(err)
	}

	var b strings.Builder
	switch e.Kind {
	case KindConfig:
		b.WriteString("configuration error: " + e.Message)
	case KindNetwork:
		b.WriteString("could not reach the chat backend: " + e.Message)
	case KindTimeout:
		b.WriteString("the chat backend took too long to answer")
	case KindHTTP:
		fmt.Fprintf(&b, "the chat backend answered with HTTP %d %s", e.Status, http.StatusText(e.Status))
		if snippet := bodySnippet(e.Body); snippet != "" {
			b.WriteString(": " + snippet)
		}
	case KindAPI:
		b.WriteString("the chat backend reported an error: " + e.Message)
	case KindDecode:
		b.WriteString("could not read the reply: " + e.Message)
	case KindCanceled:
		b.WriteString("the exchange was canceled")
	default:
		b.WriteString(e.Message)
	}

	if e.Kind == KindConfig || e.Kind == KindNetwork {
		b.WriteString("\n" + Diagnose(cfg).String())
	}
	return b.String()
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
