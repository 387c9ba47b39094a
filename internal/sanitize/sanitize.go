// Package sanitize transforms untrusted text, HTML and URLs into
// safe-to-render form by allow-listing permitted content. All functions are
// pure and safe for concurrent use.
package sanitize

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// UnsafeURLPlaceholder is substituted for URLs that fail validation.
const UnsafeURLPlaceholder = "#"

// richText keeps a minimal formatting vocabulary for rendering mention
// excerpts: basic inline emphasis, paragraphs/breaks, spans and links.
// Everything else, including scripts, event handlers and data-attributes,
// is stripped.
var richText = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "p", "br", "span")
	p.AllowElements("a")
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowAttrs("class").Globally()
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	return p
}()

var textOnly = bluemonday.StrictPolicy()

// HTML returns input reduced to the allow-listed tag set
// {b,i,em,strong,a,p,br,span} and attribute set {href,target,rel,class}.
// Retained href values must use an http, https or mailto scheme.
func HTML(input string) string {
	return richText.Sanitize(input)
}

// Text returns input with all markup removed. Equivalent to HTML with an
// empty allowed-tag set.
func Text(input string) string {
	return textOnly.Sanitize(input)
}

var allowedSchemes = map[string]struct{}{
	"http":   {},
	"https":  {},
	"mailto": {},
}

// ParseURL validates raw as an absolute URL with an http, https or mailto
// scheme. It reports ok=false for any other scheme, for relative URLs, and
// for unparseable input, leaving the safe-default substitution to the
// caller.
func ParseURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	if _, ok := allowedSchemes[strings.ToLower(u.Scheme)]; !ok {
		return "", false
	}
	return raw, true
}

// URL returns raw unchanged when ParseURL accepts it, and
// UnsafeURLPlaceholder otherwise.
func URL(raw string) string {
	if s, ok := ParseURL(raw); ok {
		return s
	}
	return UnsafeURLPlaceholder
}

// EncodeForURL strips markup from input and percent-encodes the result for
// safe inclusion in a URL path or query segment.
func EncodeForURL(input string) string {
	return url.QueryEscape(Text(input))
}
