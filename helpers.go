package caravansite

import (
	"encoding/json"
	"net/url"
	"path"
	"sort"
	"strings"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// JoinTags joins tags with ", " for form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// CollectTags returns the sorted, deduplicated lowercase tags across records.
func CollectTags(records []ContentRecord) []string {
	set := make(map[string]struct{})
	for _, rec := range records {
		for _, t := range rec.Tags {
			set[normalizeTag(t)] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// tagPalette are the CSS class suffixes a tag pill can take.
var tagPalette = []string{"amber", "sky", "emerald", "rose", "violet", "slate"}

// TagColor deterministically maps a tag to one of the palette classes so
// the same tag renders the same color on every page.
func TagColor(tag string) string {
	tag = normalizeTag(tag)
	var sum int
	for _, r := range tag {
		sum += int(r)
	}
	return tagPalette[sum%len(tagPalette)]
}

// FilterRelated finds records sharing at least one tag with current.
func FilterRelated(current ContentRecord, records []ContentRecord) []ContentRecord {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []ContentRecord
	for _, rec := range records {
		if rec.Slug == current.Slug {
			continue
		}
		for _, t := range rec.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, rec)
				break
			}
		}
	}
	return related
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// WebsiteJsonLD returns a JSON-LD string for an Organization schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "Organization",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ProductJsonLD returns a JSON-LD string for a Product schema for one
// caravan model page.
func ProductJsonLD(model CaravanModel, cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        model.Name,
		"description": model.Tagline,
		"url":         BuildURL(cfg.URL, "models", model.Slug),
		"brand": map[string]string{
			"@type": "Brand",
			"name":  cfg.Name,
		},
	}
	if model.ImageURL != "" {
		data["image"] = model.ImageURL
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ArticleJsonLD returns a JSON-LD string for a BlogPosting schema.
func ArticleJsonLD(rec ContentRecord, cfg SiteConfig) string {
	postURL := BuildURL(cfg.URL, "blog", rec.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      rec.Title,
		"description":   rec.Excerpt,
		"datePublished": rec.Date,
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if rec.Location != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  rec.Location,
		}
	}
	if len(rec.Tags) > 0 {
		data["keywords"] = strings.Join(rec.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
