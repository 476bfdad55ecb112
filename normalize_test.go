package caravansite

import (
	"reflect"
	"testing"
	"time"
)

type fakeTimestamp struct{ t time.Time }

func (f fakeTimestamp) Time() time.Time { return f.t }

func TestCoerceTimestamp(t *testing.T) {
	at := time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"native time", at, "2024-05-20T10:30:00Z"},
		{"timestamp object", fakeTimestamp{at}, "2024-05-20T10:30:00Z"},
		{"string passthrough", "2024-05-20T10:30:00Z", "2024-05-20T10:30:00Z"},
		{"unrecognized", 42.0, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		if got := CoerceTimestamp(tt.in); got != tt.want {
			t.Errorf("%s: CoerceTimestamp = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTimestampNormalizationRoundTrip(t *testing.T) {
	// A native timestamp and its serialized form must normalize to the
	// same string and therefore sort identically.
	at := time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC)
	fromNative := CoerceTimestamp(at)
	fromString := CoerceTimestamp("2024-05-20T10:30:00Z")
	if fromNative != fromString {
		t.Fatalf("normalized forms differ: %q vs %q", fromNative, fromString)
	}
	if !ParseWhen(fromNative).Equal(ParseWhen(fromString)) {
		t.Fatal("normalized timestamps compare unequal")
	}
}

func TestParseWhen(t *testing.T) {
	tests := []struct {
		in   string
		zero bool
	}{
		{"2024-05-20", false},
		{"2024-05-20T10:30:00Z", false},
		{"2024-05-20T10:30:00", false},
		{"", true},
		{"not-a-date", true},
		{"20/05/2024", true},
	}
	for _, tt := range tests {
		if got := ParseWhen(tt.in).IsZero(); got != tt.zero {
			t.Errorf("ParseWhen(%q).IsZero() = %v, want %v", tt.in, got, tt.zero)
		}
	}
}

func TestNormalizeContentDefaults(t *testing.T) {
	rec := NormalizeContent(Document{ID: "abc", Data: map[string]any{}})
	if rec.ID != "abc" {
		t.Errorf("ID = %q", rec.ID)
	}
	if rec.Tags == nil || len(rec.Tags) != 0 {
		t.Errorf("Tags should default to an empty slice, got %#v", rec.Tags)
	}
	if rec.ImageURL != "" || rec.Featured {
		t.Errorf("optional fields should default to zero values: %+v", rec)
	}
}

func TestNormalizeContentFieldFallbacks(t *testing.T) {
	doc := Document{
		ID: "ev1",
		Data: map[string]any{
			"title":       "Supershow",
			"description": "Annual supershow",
			"eventDate":   "2030-04-01",
			"image":       "https://cdn.example.com/hero.jpg",
			"author":      "Events Team",
			"isPopular":   true,
			"tags":        []any{"show", "  ", "expo", 7.0},
		},
	}
	rec := NormalizeContent(doc)
	if rec.Excerpt != "Annual supershow" {
		t.Errorf("Excerpt fallback = %q", rec.Excerpt)
	}
	if rec.Date != "2030-04-01" {
		t.Errorf("Date should fall back to eventDate, got %q", rec.Date)
	}
	if rec.ImageURL != "https://cdn.example.com/hero.jpg" {
		t.Errorf("ImageURL fallback = %q", rec.ImageURL)
	}
	if rec.Location != "Events Team" {
		t.Errorf("Location should fall back to author, got %q", rec.Location)
	}
	if !rec.Featured {
		t.Error("isPopular should map to Featured")
	}
	if want := []string{"show", "expo"}; !reflect.DeepEqual(rec.Tags, want) {
		t.Errorf("Tags = %v, want %v", rec.Tags, want)
	}
}

func TestNormalizeContentNativeAuditTimestamps(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	rec := NormalizeContent(Document{
		ID:        "x",
		Data:      map[string]any{"title": "T"},
		CreatedAt: created,
		UpdatedAt: updated,
	})
	if rec.CreatedAt != "2024-01-02T03:04:05Z" {
		t.Errorf("CreatedAt = %q", rec.CreatedAt)
	}
	if rec.LastUpdated != "2024-02-03T04:05:06Z" {
		t.Errorf("LastUpdated = %q", rec.LastUpdated)
	}

	// Document-level fields win over the row timestamps.
	rec = NormalizeContent(Document{
		ID:        "y",
		Data:      map[string]any{"createdAt": "2020-01-01T00:00:00Z"},
		CreatedAt: created,
	})
	if rec.CreatedAt != "2020-01-01T00:00:00Z" {
		t.Errorf("document createdAt should win, got %q", rec.CreatedAt)
	}
}

func TestMalformedRecordDegradesNotDrops(t *testing.T) {
	docs := []Document{
		{ID: "good", Data: map[string]any{"title": "Good", "date": "2030-01-01"}},
		{ID: "bad", Data: map[string]any{"title": "Bad", "date": "garbage", "tags": "not-a-list"}},
	}
	records := NormalizeAll(docs)
	if len(records) != 2 {
		t.Fatalf("a malformed record must not drop the batch: got %d records", len(records))
	}
	if !ParseWhen(records[1].Date).IsZero() {
		t.Error("unparseable date should degrade to the zero time")
	}
}
