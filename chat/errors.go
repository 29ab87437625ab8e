package chat

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorKind string

const (
	// KindConfig means the exchange could not start (e.g. empty endpoint URL).
	// Config errors are raised before any network attempt.
	KindConfig ErrorKind = "config"

	// KindNetwork covers connectivity-level failures (DNS, refused, reset).
	// This is the only kind the retry controller retries.
	KindNetwork ErrorKind = "network"

	// KindTimeout means the exchange deadline fired.
	KindTimeout ErrorKind = "timeout"

	// KindHTTP means the backend answered with a non-2xx status.
	KindHTTP ErrorKind = "http"

	// KindAPI means a 2xx response carried an application-level error payload.
	KindAPI ErrorKind = "api"

	// KindDecode means the response body was unreadable or empty.
	KindDecode ErrorKind = "decode"

	// KindCanceled means the caller's context was canceled.
	KindCanceled ErrorKind = "canceled"
)

// Error is the exchange-level error container.
//
// It is designed for stable classification: callers branch on Kind, the UI
// renders Message, and Cause/Body keep the underlying detail for logs.
type Error struct {
	Kind    ErrorKind
	Message string

	// Status and Body are set for KindHTTP.
	Status int
	Body   []byte

	Cause error
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" && e.Status != 0 {
		msg = http.StatusText(e.Status)
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Status != 0 {
		return fmt.Sprintf("chat: %s: http %d: %s", e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("chat: %s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts *Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf classifies an arbitrary error. Errors that did not come out of this
// package count as network failures, the conservative retryable default.
func KindOf(err error) ErrorKind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindNetwork
}

func configError(msg string) *Error {
	return &Error{Kind: KindConfig, Message: msg}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), Cause: err}
}

func timeoutError(err error) *Error {
	return &Error{Kind: KindTimeout, Message: "request deadline exceeded", Cause: err}
}

func httpError(status int, body []byte) *Error {
	return &Error{
		Kind:    KindHTTP,
		Message: http.StatusText(status),
		Status:  status,
		Body:    append([]byte(nil), body...),
	}
}

func apiError(msg string) *Error {
	return &Error{Kind: KindAPI, Message: msg}
}

func decodeError(msg string, cause error) *Error {
	return &Error{Kind: KindDecode, Message: msg, Cause: cause}
}
