// Package proxypath derives the path prefix under which requests to a base URL
// are proxied or intercepted.
package proxypath

import (
	"strings"
	"unicode"
)

const (
	pathSeparator   = "/"
	byteOrderMarker = '\uFEFF'
	nextLine        = '\u0085'
)

// Source names the branch that produced a normalized base URL.
type Source string

const (
	// SourceOrigin marks a blank base URL replaced by the current origin.
	SourceOrigin Source = "origin"
	// SourceProtocolRelative marks a "//host" base URL completed with the origin protocol.
	SourceProtocolRelative Source = "protocol_relative"
	// SourceExplicit marks a base URL used as given.
	SourceExplicit Source = "explicit"
)

// Resolution describes how a base URL became a proxy path.
type Resolution struct {
	BaseURL    string
	Normalized string
	Path       string
	Source     Source
}

// Resolver resolves base URLs against a fixed origin. It is safe for concurrent use.
type Resolver struct {
	origin OriginProvider
}

// NewResolver binds a resolver to the provided origin.
func NewResolver(origin OriginProvider) *Resolver {
	return &Resolver{origin: origin}
}

// Resolve returns the proxy path for baseURL.
func (resolver *Resolver) Resolve(baseURL string) string {
	return Resolve(resolver.provider(), baseURL)
}

// ResolveOptional treats a nil baseURL as omitted.
func (resolver *Resolver) ResolveOptional(baseURL *string) string {
	return ResolveOptional(resolver.provider(), baseURL)
}

// ResolveValue resolves a base URL of arbitrary type, see ResolveValue.
func (resolver *Resolver) ResolveValue(value any) string {
	return ResolveValue(resolver.provider(), value)
}

// Explain returns the full resolution for baseURL.
func (resolver *Resolver) Explain(baseURL string) Resolution {
	return Explain(resolver.provider(), baseURL)
}

func (resolver *Resolver) provider() OriginProvider {
	if resolver == nil {
		return nil
	}
	return resolver.origin
}

// Resolve turns baseURL into a proxy path with a single leading slash.
//
// A blank baseURL is replaced by the origin ("https://example.com") and a
// protocol-relative one ("//cdn.example.org") receives the origin protocol.
// Exactly one leading and one trailing slash are then removed, so "/api/"
// yields "/api" and "foo//" yields "/foo/".
//
// The result never starts with "//" as long as the origin has a non-empty
// protocol, which NewOrigin and ParseOrigin guarantee. A nil or zero origin
// leaves protocol-relative input unprefixed, so "//cdn.example.org" resolves to
// "//cdn.example.org".
func Resolve(origin OriginProvider, baseURL string) string {
	return Explain(origin, baseURL).Path
}

// ResolveOptional resolves baseURL, treating nil as the empty string.
func ResolveOptional(origin OriginProvider, baseURL *string) string {
	if baseURL == nil {
		return Resolve(origin, "")
	}
	return Resolve(origin, *baseURL)
}

// Explain performs the same computation as Resolve and reports the branch taken.
func Explain(origin OriginProvider, baseURL string) Resolution {
	normalized, source := normalizeBaseURL(origin, baseURL)
	host := strings.TrimPrefix(normalized, pathSeparator)
	host = strings.TrimSuffix(host, pathSeparator)

	return Resolution{
		BaseURL:    baseURL,
		Normalized: normalized,
		Path:       pathSeparator + host,
		Source:     source,
	}
}

// NeedsOrigin reports whether resolving baseURL reads the origin.
func NeedsOrigin(baseURL string) bool {
	return classify(trimBaseURL(baseURL)) != SourceExplicit
}

func normalizeBaseURL(origin OriginProvider, baseURL string) (string, Source) {
	trimmed := trimBaseURL(baseURL)
	source := classify(trimmed)

	switch source {
	case SourceOrigin:
		return originURL(origin), source
	case SourceProtocolRelative:
		return readProtocol(origin) + trimmed, source
	default:
		return trimmed, source
	}
}

func classify(trimmed string) Source {
	switch {
	case trimmed == "":
		return SourceOrigin
	case strings.HasPrefix(trimmed, authorityPrefix):
		return SourceProtocolRelative
	default:
		return SourceExplicit
	}
}

func trimBaseURL(baseURL string) string {
	return strings.TrimFunc(baseURL, isTrimmable)
}

// isTrimmable matches the ECMAScript white space and line terminator set,
// which includes U+FEFF but not U+0085.
func isTrimmable(runeValue rune) bool {
	if runeValue == nextLine {
		return false
	}
	return unicode.IsSpace(runeValue) || runeValue == byteOrderMarker
}
