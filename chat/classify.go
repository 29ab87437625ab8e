package chat

import (
	"encoding/json"
	"fmt"
	"strings"
)

type bodyKind int

const (
	bodyStream bodyKind = iota
	bodyJSON
	bodyText
)

// classifyContentType decides the decoding path from the declared
// content type alone. The JSON path still falls back to literal text when
// the body turns out not to parse.
func classifyContentType(contentType string) bodyKind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "text/event-stream"):
		return bodyStream
	case strings.Contains(ct, "application/json"), strings.Contains(ct, "text/plain"):
		return bodyJSON
	default:
		return bodyText
	}
}

// replyFields is the reply-text precedence list for loosely-typed backend
// payloads, evaluated in order against the decoded object.
var replyFields = []string{"response", "message", "reply", "content", "text"}

// replyFromBody resolves a non-streaming body into reply text. JSON objects
// are checked for an application-level error signal first; on success the
// reply text is picked by field precedence, falling back to the whole
// object re-serialized. Anything that does not parse is literal text.
func replyFromBody(kind bodyKind, body []byte) (string, error) {
	text := string(body)
	if kind != bodyJSON {
		return text, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return text, nil
	}

	if err := payloadError(obj); err != nil {
		return "", err
	}

	if reply := firstField(obj, replyFields); reply != "" {
		return reply, nil
	}
	// No known reply field; surface the whole object rather than nothing.
	raw, err := json.Marshal(obj)
	if err != nil {
		return text, nil
	}
	return string(raw), nil
}

// payloadError reports an application-level error signaled inside a 2xx
// JSON payload: an explicit error field, or a non-200 numeric status.
func payloadError(obj map[string]any) error {
	if v, ok := obj["error"]; ok && v != nil {
		return apiError(errorText(obj, v))
	}
	if status, ok := numericField(obj, "statusCode"); ok && status != 200 {
		return apiError(statusDescription(obj, status))
	}
	if status, ok := numericField(obj, "status"); ok && status != 200 {
		return apiError(statusDescription(obj, status))
	}
	if v, ok := obj["success"].(bool); ok && !v {
		return apiError(errorText(obj, nil))
	}
	return nil
}

func errorText(obj map[string]any, errField any) string {
	switch v := errField.(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		if msg, ok := v["message"].(string); ok && msg != "" {
			return msg
		}
	}
	if msg, ok := obj["message"].(string); ok && msg != "" {
		return msg
	}
	if errField != nil {
		raw, err := json.Marshal(errField)
		if err == nil {
			return string(raw)
		}
	}
	return "backend reported an error"
}

func statusDescription(obj map[string]any, status int) string {
	if msg, ok := obj["message"].(string); ok && msg != "" {
		return msg
	}
	return fmt.Sprintf("backend returned status %d", status)
}

func firstField(obj map[string]any, candidates []string) string {
	for _, name := range candidates {
		if s, ok := obj[name].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func numericField(obj map[string]any, name string) (int, bool) {
	switch v := obj[name].(type) {
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
