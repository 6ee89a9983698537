// Package sanitize cleans rich-text HTML before it is stored. The policy
// allows exactly the markup the content editor emits, so editor output
// passes through unchanged.
package sanitize

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	colorValue     = regexp.MustCompile(`^#([0-9a-f]{3}|[0-9a-f]{6}|[0-9a-f]{8})$`)
	colorOrInherit = regexp.MustCompile(`^(#([0-9a-f]{3}|[0-9a-f]{6}|[0-9a-f]{8})|inherit)$`)
	alignValue     = regexp.MustCompile(`^(left|center|right)$`)

	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Policy returns the shared rich-text policy.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = newPolicy()
	})
	return policy
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("p", "h1", "h2", "h3", "blockquote", "ul", "ol", "li", "pre", "code", "hr", "br",
		"strong", "em", "u", "s", "mark", "span", "a", "img",
		"table", "tbody", "tr", "th", "td")

	p.AllowStyles("text-align").Matching(alignValue).OnElements("p", "h1", "h2", "h3")
	p.AllowStyles("color").Matching(colorOrInherit).OnElements("span", "mark")
	p.AllowStyles("background-color").Matching(colorValue).OnElements("mark")
	p.AllowAttrs("data-color").Matching(colorValue).OnElements("mark")

	p.AllowURLSchemes("http", "https", "mailto", "tel")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^noopener noreferrer nofollow$`)).OnElements("a")
	p.AllowAttrs("src").OnElements("img")
	p.AllowAttrs("alt").OnElements("img")

	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("th", "td")

	return p
}

// HTML returns the sanitised form of body.
func HTML(body string) string {
	if body == "" {
		return ""
	}
	return Policy().Sanitize(body)
}
