package caravansite

import "github.com/microcosm-cc/bluemonday"

// contentPolicy is the sanitizer applied to admin-authored HTML before it
// is stored. UGC policy plus the image sizing attributes the editor emits.
var contentPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("width", "height").OnElements("img")
	p.AllowAttrs("class").OnElements("p", "span", "div", "img", "figure")
	return p
}()

// SanitizeContent strips unsafe markup from admin-authored HTML content.
func SanitizeContent(html string) string {
	return contentPolicy.Sanitize(html)
}
