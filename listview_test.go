package caravansite

import (
	"reflect"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}

func testEvents() []ContentRecord {
	return []ContentRecord{
		{Title: "Caravan Show", Date: "2030-03-15", Tags: []string{"show"}, Location: "Melbourne"},
		{Title: "Factory Open Day", Date: "2030-01-10", Tags: []string{"open-day", "factory"}},
		{Title: "Outback Meetup", Date: "2020-06-01", Tags: []string{"meetup"}, Location: "Alice Springs"},
		{Title: "Expo Retrospective", Date: "2019-02-20", Tags: []string{"expo", "show"}},
		{Title: "Undated Gathering", Date: "not-a-date", Tags: []string{"meetup"}},
	}
}

func testCategories() map[string][]string {
	return map[string][]string{
		"Shows":      {"show", "expo"},
		"Open Days":  {"open-day"},
		"Adventures": {"meetup"},
		"Empty":      {},
	}
}

func newTestController(items []ContentRecord, pageSize int) *ListController {
	lc := NewListController(items, testCategories(), pageSize)
	lc.Now = fixedNow
	return lc
}

func titles(items []ContentRecord) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestUpcomingSortedSoonestFirst(t *testing.T) {
	lc := newTestController(testEvents(), 12)
	view := lc.View(ListQuery{Category: CategoryAll, Scope: ScopeUpcoming, Page: 1})

	want := []string{"Factory Open Day", "Caravan Show"}
	if !reflect.DeepEqual(titles(view.Items), want) {
		t.Fatalf("upcoming = %v, want %v", titles(view.Items), want)
	}
}

func TestPastSortedMostRecentFirst(t *testing.T) {
	lc := newTestController(testEvents(), 12)
	view := lc.View(ListQuery{Category: CategoryAll, Scope: ScopePast, Page: 1})

	// The unparseable date carries the zero time: always past, always last.
	want := []string{"Outback Meetup", "Expo Retrospective", "Undated Gathering"}
	if !reflect.DeepEqual(titles(view.Items), want) {
		t.Fatalf("past = %v, want %v", titles(view.Items), want)
	}
}

func TestUpcomingExcludesPastRecords(t *testing.T) {
	items := []ContentRecord{
		{Title: "A", Date: "2030-01-01"},
		{Title: "B", Date: "2020-01-01"},
	}
	lc := NewListController(items, nil, 12)
	lc.Now = fixedNow

	up := lc.View(ListQuery{Category: CategoryAll, Scope: ScopeUpcoming, Page: 1})
	if got := titles(up.Items); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("upcoming = %v, want [A]", got)
	}
	past := lc.View(ListQuery{Scope: ScopePast, Page: 1})
	if got := titles(past.Items); !reflect.DeepEqual(got, []string{"B"}) {
		t.Fatalf("past = %v, want [B]", got)
	}
}

func TestPartitionCompleteness(t *testing.T) {
	lc := newTestController(testEvents(), 100)
	up := lc.View(ListQuery{Category: CategoryAll, Scope: ScopeUpcoming, Page: 1})
	past := lc.View(ListQuery{Category: CategoryAll, Scope: ScopePast, Page: 1})

	if up.Total+past.Total != len(testEvents()) {
		t.Fatalf("partitions overlap or drop records: %d + %d != %d",
			up.Total, past.Total, len(testEvents()))
	}
}

func TestCategoryFilter(t *testing.T) {
	tests := []struct {
		category string
		want     []string
	}{
		{"Shows", []string{"Caravan Show", "Expo Retrospective"}},
		{"Open Days", []string{"Factory Open Day"}},
		{CategoryAll, nil}, // no filtering: everything passes
		{"Empty", nil},     // empty allow-set: no filtering either
		{"Unknown", nil},
	}
	for _, tt := range tests {
		lc := newTestController(testEvents(), 100)
		view := lc.View(ListQuery{Category: tt.category, Scope: ScopeRecent, Page: 1})
		if tt.want == nil {
			if view.Total != len(testEvents()) {
				t.Errorf("category %q filtered to %d records, want all %d",
					tt.category, view.Total, len(testEvents()))
			}
			continue
		}
		got := map[string]bool{}
		for _, it := range view.Items {
			got[it.Title] = true
		}
		if len(got) != len(tt.want) {
			t.Errorf("category %q = %v, want %v", tt.category, titles(view.Items), tt.want)
			continue
		}
		for _, w := range tt.want {
			if !got[w] {
				t.Errorf("category %q missing %q", tt.category, w)
			}
		}
	}
}

func TestCategoryTagMatchingIsCaseInsensitive(t *testing.T) {
	items := []ContentRecord{{Title: "A", Tags: []string{"  SHOW "}, Date: "2030-01-01"}}
	lc := NewListController(items, map[string][]string{"Shows": {"show"}}, 12)
	lc.Now = fixedNow
	view := lc.View(ListQuery{Category: "Shows", Scope: ScopeUpcoming, Page: 1})
	if view.Total != 1 {
		t.Fatalf("tag match should be case-insensitive and trimmed, got %d records", view.Total)
	}
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	items := []ContentRecord{{Title: "Caravan Show", Date: "2030-01-01"}}
	lc := NewListController(items, nil, 12)
	lc.Now = fixedNow

	for _, q := range []string{"caravan", "CARAVAN", "van sh"} {
		view := lc.View(ListQuery{Category: CategoryAll, Search: q, Scope: ScopeUpcoming, Page: 1})
		if view.Total != 1 {
			t.Errorf("query %q should match %q", q, items[0].Title)
		}
	}
	view := lc.View(ListQuery{Category: CategoryAll, Search: "motorhome", Scope: ScopeUpcoming, Page: 1})
	if view.Total != 0 {
		t.Errorf("query %q should match nothing", "motorhome")
	}
}

func TestSearchMatchesLocationAndTags(t *testing.T) {
	lc := newTestController(testEvents(), 100)
	view := lc.View(ListQuery{Category: CategoryAll, Search: "alice", Scope: ScopePast, Page: 1})
	if got := titles(view.Items); !reflect.DeepEqual(got, []string{"Outback Meetup"}) {
		t.Fatalf("location search = %v", got)
	}
	view = lc.View(ListQuery{Category: CategoryAll, Search: "factory", Scope: ScopeUpcoming, Page: 1})
	if got := titles(view.Items); !reflect.DeepEqual(got, []string{"Factory Open Day"}) {
		t.Fatalf("tag search = %v", got)
	}
}

func TestDateRangeInclusiveEndOfDay(t *testing.T) {
	items := []ContentRecord{
		{Title: "Morning", Date: "2030-06-15T09:00:00Z"},
		{Title: "Evening", Date: "2030-06-15T21:30:00Z"},
		{Title: "Next Day", Date: "2030-06-16T00:00:01Z"},
	}
	lc := NewListController(items, nil, 12)
	lc.Now = fixedNow

	view := lc.View(ListQuery{
		Category: CategoryAll, Scope: ScopeUpcoming,
		From: "2030-06-15", To: "2030-06-15", Page: 1,
	})
	want := []string{"Morning", "Evening"}
	if !reflect.DeepEqual(titles(view.Items), want) {
		t.Fatalf("same-day range = %v, want %v", titles(view.Items), want)
	}
}

func TestPaginationInvariant(t *testing.T) {
	var items []ContentRecord
	for i := 0; i < 25; i++ {
		items = append(items, ContentRecord{Title: "E", Date: "2030-01-01"})
	}
	lc := NewListController(items, nil, 12)
	lc.Now = fixedNow

	tests := []struct {
		page      int
		wantPage  int
		wantCount int
	}{
		{1, 1, 12},
		{2, 2, 12},
		{3, 3, 1},
		{99, 3, 1}, // clamped, never an error
		{0, 1, 12},
		{-5, 1, 12},
	}
	for _, tt := range tests {
		view := lc.View(ListQuery{Category: CategoryAll, Scope: ScopeUpcoming, Page: tt.page})
		if view.TotalPages != 3 {
			t.Fatalf("page %d: TotalPages = %d, want 3", tt.page, view.TotalPages)
		}
		if view.Page != tt.wantPage {
			t.Errorf("page %d clamped to %d, want %d", tt.page, view.Page, tt.wantPage)
		}
		if len(view.Items) != tt.wantCount {
			t.Errorf("page %d: %d items, want %d", tt.page, len(view.Items), tt.wantCount)
		}
	}
}

func TestEmptyInputYieldsEmptyPage(t *testing.T) {
	lc := NewListController(nil, nil, 12)
	lc.Now = fixedNow
	view := lc.View(ListQuery{Category: CategoryAll, Scope: ScopeUpcoming, Page: 5})
	if len(view.Items) != 0 || view.TotalPages != 1 || view.Page != 1 {
		t.Fatalf("empty input: items=%d totalPages=%d page=%d", len(view.Items), view.TotalPages, view.Page)
	}
}

func TestPipelineIsIdempotent(t *testing.T) {
	lc := newTestController(testEvents(), 2)
	q := ListQuery{Category: "Shows", Search: "show", Scope: ScopePast, Page: 1}
	first := lc.View(q)
	second := lc.View(q)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("pipeline mutated state: %v != %v", first, second)
	}
}

func TestRawItemsNotMutated(t *testing.T) {
	items := testEvents()
	snapshot := make([]ContentRecord, len(items))
	copy(snapshot, items)

	lc := newTestController(items, 2)
	lc.View(ListQuery{Category: CategoryAll, Scope: ScopePast, Page: 1})
	lc.View(ListQuery{Category: CategoryAll, Scope: ScopeUpcoming, Page: 2})

	if !reflect.DeepEqual(items, snapshot) {
		t.Fatal("pipeline mutated rawItems")
	}
}

func TestStableSortKeepsTieOrder(t *testing.T) {
	items := []ContentRecord{
		{Title: "First", Date: "2030-01-01"},
		{Title: "Second", Date: "2030-01-01"},
		{Title: "Third", Date: "2030-01-01"},
	}
	lc := NewListController(items, nil, 12)
	lc.Now = fixedNow
	view := lc.View(ListQuery{Category: CategoryAll, Scope: ScopeUpcoming, Page: 1})
	want := []string{"First", "Second", "Third"}
	if !reflect.DeepEqual(titles(view.Items), want) {
		t.Fatalf("tie order = %v, want %v", titles(view.Items), want)
	}
}

func TestRecentScopeOrdersByEditRecency(t *testing.T) {
	items := []ContentRecord{
		{Title: "OnlyDate", Date: "2024-06-01"},
		{Title: "Created", Date: "2020-01-01", CreatedAt: "2024-12-01T00:00:00Z"},
		{Title: "Updated", Date: "2019-01-01", CreatedAt: "2023-01-01T00:00:00Z", LastUpdated: "2025-01-01T00:00:00Z"},
	}
	lc := NewListController(items, nil, 12)
	view := lc.View(ListQuery{Category: CategoryAll, Scope: ScopeRecent, Page: 1})
	want := []string{"Updated", "Created", "OnlyDate"}
	if !reflect.DeepEqual(titles(view.Items), want) {
		t.Fatalf("recency order = %v, want %v", titles(view.Items), want)
	}
}

func TestFilterSettersResetPage(t *testing.T) {
	var items []ContentRecord
	for i := 0; i < 30; i++ {
		items = append(items, ContentRecord{Title: "E", Date: "2030-01-01", Tags: []string{"show"}})
	}
	lc := newTestController(items, 10)
	lc.SetScope(ScopeUpcoming)
	lc.SetPage(3)
	if got := lc.Current().Page; got != 3 {
		t.Fatalf("page = %d, want 3", got)
	}

	lc.SetSearch("e")
	if got := lc.Query().Page; got != 1 {
		t.Fatalf("SetSearch should reset page, got %d", got)
	}

	lc.SetPage(2)
	lc.SetCategory("Shows")
	if got := lc.Query().Page; got != 1 {
		t.Fatalf("SetCategory should reset page, got %d", got)
	}

	lc.SetPage(2)
	lc.SetRange("2030-01-01", "2030-12-31")
	if got := lc.Query().Page; got != 1 {
		t.Fatalf("SetRange should reset page, got %d", got)
	}
}
