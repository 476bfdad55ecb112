package caravansite

import (
	"sort"
	"strings"
	"time"
)

// ListScope selects which temporal slice of the collection a listing shows.
type ListScope int

const (
	// ScopeUpcoming keeps records dated now or later, soonest first.
	ScopeUpcoming ListScope = iota
	// ScopePast keeps records dated before now, most recent first.
	ScopePast
	// ScopeRecent skips the temporal partition and orders by recency of
	// edit (lastUpdated, falling back to createdAt, then date). Used by
	// admin listings where triage order matters more than chronology.
	ScopeRecent
)

// CategoryAll is the sentinel category that performs no tag filtering.
const CategoryAll = "All"

// ListQuery holds the filter, sort and pagination inputs of one listing view.
type ListQuery struct {
	Category string
	Search   string
	Scope    ListScope
	From     string // inclusive lower date bound, optional
	To       string // inclusive upper date bound, extended to end of day
	Page     int    // 1-indexed
}

// ListPage is the derived output for one page of a listing.
type ListPage struct {
	Items      []ContentRecord
	Page       int
	TotalPages int
	Total      int // records surviving the filters, before pagination
}

// ListController derives pages from a raw record set through a fixed
// pipeline: category filter, free-text search, temporal partition, date
// range, stable sort, pagination. Every stage is pure; the raw records
// are never mutated, so recomputing a view is idempotent.
type ListController struct {
	items      []ContentRecord
	categories map[string][]string // category name -> tag allow-set
	pageSize   int
	query      ListQuery

	// Now is the clock used for the upcoming/past partition. Tests
	// override it; nil means time.Now.
	Now func() time.Time
}

// NewListController creates a controller over items. categories maps a
// category name to the tags it allows; a missing or empty set means the
// category does not filter. pageSize must be positive.
func NewListController(items []ContentRecord, categories map[string][]string, pageSize int) *ListController {
	if pageSize < 1 {
		pageSize = 12
	}
	return &ListController{
		items:      items,
		categories: categories,
		pageSize:   pageSize,
		query:      ListQuery{Category: CategoryAll, Page: 1},
	}
}

// Reload replaces the raw record set, keeping the current query except the
// page, which resets to 1.
func (lc *ListController) Reload(items []ContentRecord) {
	lc.items = items
	lc.query.Page = 1
}

// SetCategory changes the active category and resets to page 1.
func (lc *ListController) SetCategory(category string) {
	lc.query.Category = category
	lc.query.Page = 1
}

// SetSearch changes the free-text query and resets to page 1.
func (lc *ListController) SetSearch(q string) {
	lc.query.Search = q
	lc.query.Page = 1
}

// SetScope changes the temporal scope and resets to page 1.
func (lc *ListController) SetScope(scope ListScope) {
	lc.query.Scope = scope
	lc.query.Page = 1
}

// SetRange changes the explicit date-range filter and resets to page 1.
func (lc *ListController) SetRange(from, to string) {
	lc.query.From = from
	lc.query.To = to
	lc.query.Page = 1
}

// SetPage requests a page. Out-of-range values are clamped when the view
// is computed, never rejected.
func (lc *ListController) SetPage(page int) {
	lc.query.Page = page
}

// Query returns the current query state.
func (lc *ListController) Query() ListQuery {
	return lc.query
}

// Current computes the page for the controller's current query.
func (lc *ListController) Current() ListPage {
	return lc.View(lc.query)
}

// View runs the full pipeline for q and returns the resulting page.
func (lc *ListController) View(q ListQuery) ListPage {
	now := time.Now()
	if lc.Now != nil {
		now = lc.Now()
	}

	filtered := lc.filterByCategory(lc.items, q.Category)
	filtered = filterBySearch(filtered, q.Search)
	filtered = filterByScope(filtered, q.Scope, now)
	filtered = filterByRange(filtered, q.From, q.To)
	sortRecords(filtered, q.Scope)

	total := len(filtered)
	totalPages := (total + lc.pageSize - 1) / lc.pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * lc.pageSize
	end := start + lc.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return ListPage{
		Items:      filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
}

// filterByCategory keeps records carrying at least one tag from the
// category's allow-set. The sentinel "All", an unknown category, and a
// category with an empty allow-set all pass everything through.
func (lc *ListController) filterByCategory(items []ContentRecord, category string) []ContentRecord {
	if category == "" || category == CategoryAll {
		return append([]ContentRecord(nil), items...)
	}
	allowed := lc.categories[category]
	if len(allowed) == 0 {
		return append([]ContentRecord(nil), items...)
	}
	allow := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		allow[normalizeTag(t)] = struct{}{}
	}
	var out []ContentRecord
	for _, rec := range items {
		for _, t := range rec.Tags {
			if _, ok := allow[normalizeTag(t)]; ok {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// filterBySearch keeps records where the lower-cased query is a substring
// of the title, excerpt, location/author, or any tag.
func filterBySearch(items []ContentRecord, query string) []ContentRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	var out []ContentRecord
	for _, rec := range items {
		if matchesSearch(rec, query) {
			out = append(out, rec)
		}
	}
	return out
}

func matchesSearch(rec ContentRecord, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(rec.Title), loweredQuery) ||
		strings.Contains(strings.ToLower(rec.Excerpt), loweredQuery) ||
		strings.Contains(strings.ToLower(rec.Location), loweredQuery) {
		return true
	}
	for _, t := range rec.Tags {
		if strings.Contains(strings.ToLower(t), loweredQuery) {
			return true
		}
	}
	return false
}

// filterByScope partitions records into upcoming/past relative to now.
// Records with unparseable dates carry the zero time and always classify
// as past. ScopeRecent keeps everything.
func filterByScope(items []ContentRecord, scope ListScope, now time.Time) []ContentRecord {
	if scope == ScopeRecent {
		return items
	}
	var out []ContentRecord
	for _, rec := range items {
		upcoming := !ParseWhen(rec.Date).Before(now)
		if (scope == ScopeUpcoming) == upcoming {
			out = append(out, rec)
		}
	}
	return out
}

// filterByRange keeps records dated within [from, to]. The upper bound is
// extended to the end of its day so a same-day range is inclusive.
func filterByRange(items []ContentRecord, from, to string) []ContentRecord {
	fromT := ParseWhen(from)
	toT := ParseWhen(to)
	if fromT.IsZero() && toT.IsZero() {
		return items
	}
	if !toT.IsZero() {
		toT = endOfDay(toT)
	}
	var out []ContentRecord
	for _, rec := range items {
		when := ParseWhen(rec.Date)
		if !fromT.IsZero() && when.Before(fromT) {
			continue
		}
		if !toT.IsZero() && when.After(toT) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}

// sortRecords orders in place with a stable sort so ties keep their
// original relative order. Upcoming listings run soonest-first, past
// listings most-recent-first, and recency listings by last edit.
func sortRecords(items []ContentRecord, scope ListScope) {
	switch scope {
	case ScopeUpcoming:
		sort.SliceStable(items, func(i, j int) bool {
			return ParseWhen(items[i].Date).Before(ParseWhen(items[j].Date))
		})
	case ScopePast:
		sort.SliceStable(items, func(i, j int) bool {
			return ParseWhen(items[j].Date).Before(ParseWhen(items[i].Date))
		})
	case ScopeRecent:
		sort.SliceStable(items, func(i, j int) bool {
			return recencyKey(items[j]).Before(recencyKey(items[i]))
		})
	}
}

// recencyKey picks lastUpdated, falling back to createdAt, then date.
func recencyKey(rec ContentRecord) time.Time {
	if t := ParseWhen(rec.LastUpdated); !t.IsZero() {
		return t
	}
	if t := ParseWhen(rec.CreatedAt); !t.IsZero() {
		return t
	}
	return ParseWhen(rec.Date)
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
