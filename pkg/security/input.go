// Package security validates user input before it is spliced into upstream URLs.
package security

import (
	"fmt"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	segmentPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	letterPattern  = regexp.MustCompile(`^([a-z0-9]|0-9)$`)
	controlChars   = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	numericLabel   = regexp.MustCompile(`^(0x[0-9a-f]*|[0-9]+)$`)

	// Carrier-grade NAT range, not covered by netip.Addr.IsPrivate
	sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

	internalSuffixes = []string{"localhost", "local", "internal", "localdomain", "home.arpa"}
)

// InputValidator checks request parameters that end up in upstream URLs.
type InputValidator struct {
	maxSlugLength  int
	maxQueryLength int
	maxSegments    int
}

// NewInputValidator creates a validator with reasonable defaults
func NewInputValidator() *InputValidator {
	return &InputValidator{
		maxSlugLength:  200,
		maxQueryLength: 100,
		maxSegments:    6,
	}
}

// ValidateSlug normalizes and checks a series/movie/episode slug.
func (v *InputValidator) ValidateSlug(slug string) (string, error) {
	slug = strings.Trim(strings.ToLower(strings.TrimSpace(slug)), "/")
	if slug == "" {
		return "", fmt.Errorf("slug is empty")
	}
	if len(slug) > v.maxSlugLength {
		return "", fmt.Errorf("slug is too long")
	}
	if !slugPattern.MatchString(slug) {
		return "", fmt.Errorf("slug contains invalid characters")
	}
	return slug, nil
}

// ValidatePath checks a relative site path such as "category/action".
// Dot segments and empty segments are rejected to keep the request on the origin.
func (v *InputValidator) ValidatePath(path string) (string, error) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return "", fmt.Errorf("path is empty")
	}

	segments := strings.Split(path, "/")
	if len(segments) > v.maxSegments {
		return "", fmt.Errorf("path has too many segments")
	}
	for _, seg := range segments {
		if !segmentPattern.MatchString(seg) {
			return "", fmt.Errorf("path segment %q is invalid", seg)
		}
	}
	return strings.Join(segments, "/"), nil
}

// ValidateLetter accepts a single letter or digit, or the "0-9" bucket.
func (v *InputValidator) ValidateLetter(letter string) (string, error) {
	letter = strings.ToLower(strings.TrimSpace(letter))
	if !letterPattern.MatchString(letter) {
		return "", fmt.Errorf("letter must be a single character a-z, 0-9 or \"0-9\"")
	}
	return letter, nil
}

// SanitizeQuery trims and strips control characters from a search term.
func (v *InputValidator) SanitizeQuery(q string) (string, error) {
	q = strings.TrimSpace(controlChars.ReplaceAllString(q, ""))
	if q == "" {
		return "", fmt.Errorf("search query is empty")
	}
	if utf8.RuneCountInString(q) > v.maxQueryLength {
		return "", fmt.Errorf("search query is too long")
	}
	return q, nil
}

// ValidateTargetURL checks that raw is an absolute http(s) URL on allowedHost.
// Relative URLs are resolved against base first.
func (v *InputValidator) ValidateTargetURL(raw, base string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("url is empty")
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("url is malformed")
	}
	u = baseURL.ResolveReference(u)

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("url scheme must be http or https")
	}
	if !sameSite(u.Hostname(), baseURL.Hostname()) {
		return "", fmt.Errorf("url host %q is not allowed", u.Hostname())
	}
	return u.String(), nil
}

// ValidateEmbedURL checks that raw is an absolute http(s) URL on a public
// host. Embed hosts are third parties, so any public host is accepted, but
// loopback, private, link-local and internal names are refused.
func (v *InputValidator) ValidateEmbedURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("src must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("src scheme must be http or https")
	}
	if err := checkPublicHost(u.Hostname()); err != nil {
		return "", err
	}
	return u.String(), nil
}

// checkPublicHost refuses hosts that point back into the server's network.
// Names are only checked lexically; they are not resolved.
func checkPublicHost(host string) error {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return fmt.Errorf("src host is empty")
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		addr = addr.Unmap()
		if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
			addr.IsLinkLocalMulticast() || addr.IsMulticast() || addr.IsUnspecified() ||
			sharedAddressSpace.Contains(addr) {
			return fmt.Errorf("src host %q is not a public address", host)
		}
		return nil
	}

	// Resolvers accept numeric forms such as 2130706433 or 0x7f.1
	labels := strings.Split(host, ".")
	if numericLabel.MatchString(labels[len(labels)-1]) {
		return fmt.Errorf("src host %q must be a dotted IP address or a name", host)
	}

	for _, suffix := range internalSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return fmt.Errorf("src host %q is not allowed", host)
		}
	}
	return nil
}

// MaskURL hides credentials and query values so URLs can be logged.
func (v *InputValidator) MaskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "[invalid]"
	}
	masked := u.Scheme + "://" + u.Host + u.Path
	if u.RawQuery != "" {
		masked += "?***"
	}
	return masked
}

func sameSite(host, allowed string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	allowed = strings.TrimPrefix(strings.ToLower(allowed), "www.")
	return host != "" && host == allowed
}
