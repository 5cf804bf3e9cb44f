package app

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"unicode"

	"github.com/asaskevich/govalidator"
	"golang.org/x/net/idna"
)

const defaultScheme = "https"

// hostProfile maps internationalized host names to their ASCII form the way browsers
// do: nontransitional processing without the STD3 and hyphen restrictions.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
	idna.CheckHyphens(false),
	idna.BidiRule(),
)

// ParseTarget turns the escaped request path into the target URL it encodes.
//
// The decoded path loses all leading slashes and the whitespace after them. An optional
// case-insensitive "http:" or "https:" token is kept as the scheme; without one the
// scheme is https. Slashes and backslashes after the scheme are ignored, so "https:host",
// "https:/host" and "https://host" are the same target. rawQuery is appended verbatim.
//
// Only the authority is run through the URL parser. The target path is taken as-is
// (backslashes read as slashes) and internationalized hosts are converted to punycode.
func ParseTarget(escapedPath, rawQuery string) (*url.URL, error) {
	decoded, err := url.PathUnescape(escapedPath)
	if err != nil {
		return nil, err
	}

	rest := strings.TrimLeft(decoded, "/")
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)

	scheme, rest := splitScheme(rest)
	rest = strings.TrimLeft(rest, `/\`)

	authority, path, tail := splitTarget(rest)

	raw := scheme + "://" + authority + tail
	if rawQuery != "" {
		raw += "?" + rawQuery
	}
	raw, fragment, _ := strings.Cut(raw, "#")

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q: missing host", raw)
	}
	if err := normalizeHost(u); err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	u.Path = path
	u.Fragment = fragment

	return u, nil
}

// splitScheme detects an optional http/https token. Longest match first.
func splitScheme(s string) (scheme, rest string) {
	for _, candidate := range []string{"https", "http"} {
		token := candidate + ":"
		if len(s) >= len(token) && strings.EqualFold(s[:len(token)], token) {
			return candidate, s[len(token):]
		}
	}
	return defaultScheme, s
}

// splitTarget separates host[:port] from the path and from the query or fragment
// that follows it.
func splitTarget(s string) (authority, path, tail string) {
	end := strings.IndexAny(s, `/\?#`)
	if end < 0 {
		return s, "", ""
	}
	authority, s = s[:end], s[end:]

	end = strings.IndexAny(s, "?#")
	if end < 0 {
		end = len(s)
	}
	return authority, strings.ReplaceAll(s[:end], `\`, "/"), s[end:]
}

func normalizeHost(u *url.URL) error {
	host := u.Hostname()
	if net.ParseIP(host) != nil {
		u.Host = strings.ToLower(u.Host)
		return nil
	}

	ascii, err := hostProfile.ToASCII(host)
	if err != nil {
		return fmt.Errorf("invalid host %q: %w", host, err)
	}
	ascii = strings.ToLower(ascii)
	if !govalidator.IsHost(ascii) {
		return fmt.Errorf("invalid host %q", host)
	}

	if port := u.Port(); port != "" {
		u.Host = net.JoinHostPort(ascii, port)
	} else {
		u.Host = ascii
	}
	return nil
}
