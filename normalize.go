package caravansite

import (
	"strings"
	"time"
)

// timeLayouts are the accepted input layouts for stored date fields, tried
// in order. Admin forms write YYYY-MM-DD; imported records carry RFC 3339.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CoerceTimestamp converts a raw timestamp value to its RFC 3339 string
// form. The store may hand back a native time.Time, anything exposing a
// Time() conversion, or an already-serialized string; all three normalize
// to the same representation. Unrecognized values yield "".
func CoerceTimestamp(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case interface{ Time() time.Time }:
		return t.Time().UTC().Format(time.RFC3339)
	case string:
		return t
	default:
		return ""
	}
}

// ParseWhen parses a normalized date string. Unparseable input returns the
// zero time, which sorts oldest and always classifies as "past" — a single
// bad record degrades its own position instead of failing the batch.
func ParseWhen(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// NormalizeContent converts a raw store document into a ContentRecord.
// It never fails: missing or malformed fields degrade to zero values and
// every optional field is defaulted (nil tags become an empty slice).
func NormalizeContent(doc Document) ContentRecord {
	data := doc.Data
	rec := ContentRecord{
		ID:       doc.ID,
		Slug:     stringField(data, "slug"),
		Title:    stringField(data, "title"),
		Excerpt:  firstStringField(data, "excerpt", "description"),
		Content:  stringField(data, "content"),
		ImageURL: firstStringField(data, "imageUrl", "imageURL", "image"),
		Location: firstStringField(data, "location", "author"),
		Tags:     stringSliceField(data, "tags"),
		Featured: boolField(data, "isFeatured") || boolField(data, "isPopular"),
	}
	rec.Date = CoerceTimestamp(firstField(data, "date", "eventDate"))
	rec.CreatedAt = CoerceTimestamp(data["createdAt"])
	if rec.CreatedAt == "" && !doc.CreatedAt.IsZero() {
		rec.CreatedAt = CoerceTimestamp(doc.CreatedAt)
	}
	rec.LastUpdated = CoerceTimestamp(data["lastUpdated"])
	if rec.LastUpdated == "" && !doc.UpdatedAt.IsZero() {
		rec.LastUpdated = CoerceTimestamp(doc.UpdatedAt)
	}
	return rec
}

// NormalizeAll converts a batch of raw documents. Order is preserved.
func NormalizeAll(docs []Document) []ContentRecord {
	records := make([]ContentRecord, len(docs))
	for i, doc := range docs {
		records[i] = NormalizeContent(doc)
	}
	return records
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

func firstField(data map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := data[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstStringField(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := data[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func boolField(data map[string]any, key string) bool {
	b, _ := data[key].(bool)
	return b
}

func stringSliceField(data map[string]any, key string) []string {
	out := []string{}
	raw, ok := data[key].([]any)
	if !ok {
		return out
	}
	for _, v := range raw {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
