package chat

import (
	"fmt"
	"net/url"
	"strings"
)

// Report is a human-readable troubleshooting summary of the current
// configuration. It is synthesized on failure paths only and rendered into
// error messages; it never includes credentials.
type Report struct {
	EndpointURL   string
	URLValid      bool
	Scheme        string
	Auth          AuthMode
	CredentialSet bool

	Problems []string
}

// Diagnose inspects a Config without touching the network.
func Diagnose(cfg Config) Report {
	r := Report{
		EndpointURL:   strings.TrimSpace(cfg.EndpointURL),
		Auth:          cfg.Auth,
		CredentialSet: strings.TrimSpace(cfg.Credential) != "",
	}

	if r.EndpointURL == "" {
		r.Problems = append(r.Problems, "endpoint URL is not set")
	} else {
		u, err := url.Parse(r.EndpointURL)
		switch {
		case err != nil:
			r.Problems = append(r.Problems, "endpoint URL does not parse: "+err.Error())
		case u.Scheme != "http" && u.Scheme != "https":
			r.Scheme = u.Scheme
			r.Problems = append(r.Problems, fmt.Sprintf("endpoint URL scheme %q is not http or https", u.Scheme))
		case u.Host == "":
			r.Scheme = u.Scheme
			r.Problems = append(r.Problems, "endpoint URL has no host")
		default:
			r.URLValid = true
			r.Scheme = u.Scheme
			if u.Scheme == "http" {
				r.Problems = append(r.Problems, "endpoint uses plain http; credentials travel unencrypted")
			}
		}
	}

	if r.Auth != AuthNone && !r.CredentialSet {
		r.Problems = append(r.Problems, fmt.Sprintf("auth mode %q is set but no credential is configured; requests go out unauthenticated", r.Auth))
	}

	return r
}

// String renders the report as indented lines suitable for appending to a
// terminal failure message.
func (r Report) String() string {
	var b strings.Builder
	b.WriteString("diagnostics:\n")
	if r.URLValid {
		fmt.Fprintf(&b, "  endpoint: %s (%s, valid)\n", r.EndpointURL, r.Scheme)
	} else if r.EndpointURL != "" {
		fmt.Fprintf(&b, "  endpoint: %s (invalid)\n", r.EndpointURL)
	} else {
		b.WriteString("  endpoint: (not set)\n")
	}
	if r.Auth == AuthNone {
		b.WriteString("  auth: none\n")
	} else if r.CredentialSet {
		fmt.Fprintf(&b, "  auth: %s, credential configured\n", r.Auth)
	} else {
		fmt.Fprintf(&b, "  auth: %s, no credential\n", r.Auth)
	}
	for _, p := range r.Problems {
		b.WriteString("  ! " + p + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
