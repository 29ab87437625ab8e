package chat

import "strings"

type AuthMode string

const (
	AuthNone   AuthMode = "none"
	AuthBearer AuthMode = "bearer"
	AuthAPIKey AuthMode = "api_key"
)

// ParseAuthMode normalizes a host-supplied auth type string. Unknown and
// empty values fall back to AuthBearer, the same default a missing field
// gets in the settings layer.
func ParseAuthMode(s string) AuthMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return AuthNone
	case "apikey", "api_key", "api-key":
		return AuthAPIKey
	default:
		// "bearer", empty and anything unrecognized.
		return AuthBearer
	}
}

// Config is the core's read-only snapshot of the host settings for one
// exchange. A non-None Auth with an empty Credential is not an error: the
// request is simply sent unauthenticated.
type Config struct {
	EndpointURL string
	Credential  string
	Auth        AuthMode
}
