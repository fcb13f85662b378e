package proxypath

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	protocolSeparator = ":"
	authorityPrefix   = "//"
)

// ErrInvalidOrigin indicates an origin without a usable scheme or host.
var ErrInvalidOrigin = errors.New("invalid origin")

// OriginProvider exposes the current location that blank and protocol-relative
// base URLs are resolved against.
type OriginProvider interface {
	// Protocol returns the scheme including its trailing colon, e.g. "https:".
	Protocol() string
	// Host returns the host with an optional port, e.g. "example.com:8080".
	Host() string
}

// Origin is an immutable OriginProvider.
type Origin struct {
	protocol string
	host     string
}

// NewOrigin validates and normalizes a scheme and host pair. The scheme may be
// given with or without its trailing colon.
func NewOrigin(scheme string, host string) (Origin, error) {
	normalizedScheme := strings.ToLower(strings.TrimSpace(scheme))
	normalizedScheme = strings.TrimSuffix(normalizedScheme, protocolSeparator)
	normalizedHost := strings.TrimSpace(host)

	if normalizedScheme == "" {
		return Origin{}, fmt.Errorf("%w: missing scheme", ErrInvalidOrigin)
	}
	if strings.ContainsAny(normalizedScheme, "/:") {
		return Origin{}, fmt.Errorf("%w: scheme %q", ErrInvalidOrigin, scheme)
	}
	if normalizedHost == "" {
		return Origin{}, fmt.Errorf("%w: missing host", ErrInvalidOrigin)
	}
	if strings.Contains(normalizedHost, "/") {
		return Origin{}, fmt.Errorf("%w: host %q", ErrInvalidOrigin, host)
	}

	return Origin{
		protocol: normalizedScheme + protocolSeparator,
		host:     normalizedHost,
	}, nil
}

// ParseOrigin reads an origin such as "https://example.com:8080". Any path,
// query or fragment is ignored.
func ParseOrigin(rawOrigin string) (Origin, error) {
	trimmed := strings.TrimSpace(rawOrigin)
	if trimmed == "" {
		return Origin{}, fmt.Errorf("%w: empty", ErrInvalidOrigin)
	}

	parsed, parseErr := url.Parse(trimmed)
	if parseErr != nil {
		return Origin{}, fmt.Errorf("%w: %v", ErrInvalidOrigin, parseErr)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return Origin{}, fmt.Errorf("%w: %q must include a scheme and host", ErrInvalidOrigin, rawOrigin)
	}

	return NewOrigin(parsed.Scheme, parsed.Host)
}

// Protocol implements OriginProvider.
func (origin Origin) Protocol() string {
	return origin.protocol
}

// Host implements OriginProvider.
func (origin Origin) Host() string {
	return origin.host
}

// IsZero reports whether the origin was never initialized.
func (origin Origin) IsZero() bool {
	return origin.protocol == "" && origin.host == ""
}

func (origin Origin) String() string {
	return originURL(origin)
}

func originURL(provider OriginProvider) string {
	protocol, host := readOrigin(provider)
	return protocol + authorityPrefix + host
}

func readProtocol(provider OriginProvider) string {
	if provider == nil {
		return ""
	}
	return provider.Protocol()
}

func readOrigin(provider OriginProvider) (string, string) {
	if provider == nil {
		return "", ""
	}
	return provider.Protocol(), provider.Host()
}
