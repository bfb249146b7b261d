// Package uri classifies raw URI strings and defines the domain enums
// shared by the rule store, history recorder, and decision engine.
package uri

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Classification failures. All are caller-input problems, never retried.
var (
	ErrEmptyInput        = errors.New("uri: empty input")
	ErrUnsupportedScheme = errors.New("uri: unsupported scheme")
	ErrMissingHost       = errors.New("uri: missing host")
)

// ParsedUri is the validated, immutable form of an intercepted URI. Only
// http and https URIs with a non-blank host classify successfully.
type ParsedUri struct {
	Original string
	Scheme   string
	Host     string
	Path     string
	Query    string
	Fragment string
	// Port is -1 when the URI does not carry an explicit port.
	Port int
}

// Classify parses raw into a ParsedUri. It is a pure function: no network
// access, no side effects, and the same input always yields the same result.
func Classify(raw string) (ParsedUri, error) {
	if strings.TrimSpace(raw) == "" {
		return ParsedUri{}, ErrEmptyInput
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ParsedUri{}, fmt.Errorf("%w: %v", ErrMissingHost, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ParsedUri{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	host := u.Hostname()
	if strings.TrimSpace(host) == "" {
		return ParsedUri{}, ErrMissingHost
	}

	port := -1
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	return ParsedUri{
		Original: raw,
		Scheme:   scheme,
		Host:     host,
		Path:     u.Path,
		Query:    u.RawQuery,
		Fragment: u.Fragment,
		Port:     port,
	}, nil
}
