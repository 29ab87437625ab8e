package chat

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
)

// streamDone is the sentinel payload that terminates an event stream early.
var streamDone = []byte("[DONE]")

// decodeStream incrementally decodes an event-stream body. The body arrives
// in arbitrarily-sized chunks; bufio carries the partial trailing line
// across chunk boundaries. onFragment receives the CUMULATIVE text so far,
// not the delta, on every non-empty extracted fragment.
//
// The assembled full text is returned on stream end or on [DONE]. An empty
// result is a KindDecode error so "nothing received" is distinguishable
// from a reply that happens to be empty.
func decodeStream(body io.Reader, onFragment func(string)) (string, error) {
	r := bufio.NewReaderSize(body, 64*1024)
	var full bytes.Buffer

	for {
		line, err := r.ReadBytes('\n')
		last := err != nil

		line = bytes.TrimRight(line, "\r\n")
		if payload, ok := eventPayload(line); ok {
			if bytes.Equal(bytes.TrimSpace(payload), streamDone) {
				break
			}
			if frag := fragmentText(payload); frag != "" {
				full.WriteString(frag)
				if onFragment != nil {
					onFragment(full.String())
				}
			}
		}

		if last {
			if err != io.EOF {
				return "", decodeError("read stream body", err)
			}
			break
		}
	}

	if full.Len() == 0 {
		return "", decodeError("empty response from stream", nil)
	}
	return full.String(), nil
}

// eventPayload strips the "data:" prefix (with its optional single space).
// Blank lines and non-data fields (event:, id:, comments) carry no payload.
func eventPayload(line []byte) ([]byte, bool) {
	if len(line) == 0 {
		return nil, false
	}
	if !bytes.HasPrefix(line, []byte("data:")) {
		return nil, false
	}
	payload := line[len("data:"):]
	if len(payload) > 0 && payload[0] == ' ' {
		payload = payload[1:]
	}
	return payload, true
}

// fragmentText extracts the text carried by one event payload. JSON payloads
// are probed field by field; a payload that does not parse is literal text.
func fragmentText(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		return string(payload)
	}
	if s := deltaContent(obj); s != "" {
		return s
	}
	return firstField(obj, []string{"content", "text", "message"})
}

// deltaContent digs out choices[0].delta.content, the OpenAI-compatible
// chunk shape.
func deltaContent(obj map[string]any) string {
	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return ""
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return ""
	}
	delta, ok := first["delta"].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := delta["content"].(string)
	return s
}
