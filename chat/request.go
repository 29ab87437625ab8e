package chat

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// sendPayload is the outbound wire shape. Stream is a *bool so the
// non-streaming variant omits the key entirely instead of sending false.
type sendPayload struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Stream    *bool  `json:"stream,omitempty"`
}

const acceptValue = "text/event-stream, application/json"

// buildRequest produces one fully-formed exchange request. It never touches
// the network; an empty endpoint URL fails here with KindConfig so the
// retry controller has nothing to do.
func buildRequest(ctx context.Context, cfg Config, message string, streaming bool, userAgent string) (*http.Request, error) {
	endpoint := strings.TrimSpace(cfg.EndpointURL)
	if endpoint == "" {
		return nil, configError("no endpoint URL configured")
	}

	p := sendPayload{
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if streaming {
		t := true
		p.Stream = &t
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, configError("encode request body: " + err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindConfig, Message: "invalid endpoint URL: " + err.Error(), Cause: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", acceptValue)
	req.Header.Set("Cache-Control", "no-cache")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	if req.Header.Get("X-Request-Id") == "" {
		req.Header.Set("X-Request-Id", randomID())
	}

	switch cfg.Auth {
	case AuthBearer:
		if cfg.Credential != "" {
			req.Header.Set("Authorization", "Bearer "+cfg.Credential)
		}
	case AuthAPIKey:
		if cfg.Credential != "" {
			req.Header.Set("X-API-Key", cfg.Credential)
		}
	}

	return req, nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}
