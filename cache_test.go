package caravansite

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestCacheServesWithoutRefetch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Collection(CollectionBlogs).Add(ctx, map[string]any{"title": "Post", "slug": "post"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	cache := NewContentCache(s, time.Hour)
	first, err := cache.Records(ctx, CollectionBlogs)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(first) != 1 || first[0].Title != "Post" {
		t.Fatalf("records = %+v", first)
	}

	// A write that bypasses Invalidate must not show up inside the TTL.
	if _, err := s.Collection(CollectionBlogs).Add(ctx, map[string]any{"title": "Newer"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	second, err := cache.Records(ctx, CollectionBlogs)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(second) != 1 {
		t.Errorf("cached read returned %d records, want the stale 1", len(second))
	}
}

func TestCacheInvalidateForcesReload(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cache := NewContentCache(s, time.Hour)

	if _, err := cache.Records(ctx, CollectionEvents); err != nil {
		t.Fatalf("Records: %v", err)
	}
	if _, err := s.Collection(CollectionEvents).Add(ctx, map[string]any{"title": "Show"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	cache.Invalidate(CollectionEvents)
	records, err := cache.Records(ctx, CollectionEvents)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("after invalidate records = %d, want 1", len(records))
	}
}

func TestCacheExpiry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cache := NewContentCache(s, time.Millisecond)

	if _, err := cache.Records(ctx, CollectionBlogs); err != nil {
		t.Fatalf("Records: %v", err)
	}
	if _, err := s.Collection(CollectionBlogs).Add(ctx, map[string]any{"title": "Late"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	records, err := cache.Records(ctx, CollectionBlogs)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expired entry should reload, got %d records", len(records))
	}
}

func TestCacheBySlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Collection(CollectionBlogs).Add(ctx, map[string]any{"title": "Post", "slug": "post"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	cache := NewContentCache(s, time.Hour)

	rec, err := cache.BySlug(ctx, CollectionBlogs, "post")
	if err != nil {
		t.Fatalf("BySlug: %v", err)
	}
	if rec.Title != "Post" {
		t.Errorf("Title = %q", rec.Title)
	}
	if _, err := cache.BySlug(ctx, CollectionBlogs, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestCacheTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	col := s.Collection(CollectionEvents)
	docs := []map[string]any{
		{"title": "a", "tags": []any{"Show", "expo"}},
		{"title": "b", "tags": []any{"show", "Adventure"}},
	}
	for _, doc := range docs {
		if _, err := col.Add(ctx, doc); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	cache := NewContentCache(s, time.Hour)

	tags, err := cache.Tags(ctx, CollectionEvents)
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	want := []string{"adventure", "expo", "show"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("Tags = %v, want %v", tags, want)
	}
}
