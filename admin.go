package caravansite

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

func contentCollection(name string) bool {
	return name == CollectionBlogs || name == CollectionEvents
}

func leadCollection(name string) bool {
	switch name {
	case CollectionBrochureRequests, CollectionQuoteRequests,
		CollectionInquiries, CollectionWarrantyClaims:
		return true
	}
	return false
}

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminContent(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	collection := c.Param("collection")
	if !contentCollection(collection) {
		return c.NoContent(http.StatusNotFound)
	}
	doc, err := a.Store.Collection(collection).Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == ErrNotFound {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminFormPartial(NormalizeContent(doc), collection, CsrfToken(c)))
}

// handleAdminSave creates or fully replaces one blog or event document.
// There are no partial updates: the form carries the whole record.
func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	collection := c.Param("collection")
	if !contentCollection(collection) {
		return c.NoContent(http.StatusNotFound)
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}

	title := strings.TrimSpace(c.FormValue("title"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Slug+is+required.+Add+a+title+or+slug.")
	}
	date := strings.TrimSpace(c.FormValue("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if ParseWhen(date).IsZero() {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Invalid+date+format.+Use+YYYY-MM-DD.")
	}
	tags := FilterEmpty(strings.Split(c.FormValue("tags"), ","))
	normalized := make([]any, len(tags))
	for i, t := range tags {
		normalized[i] = strings.ToLower(strings.TrimSpace(t))
	}

	ctx := c.Request().Context()
	now := time.Now().UTC().Format(time.RFC3339)
	doc := map[string]any{
		"slug":        slug,
		"title":       title,
		"excerpt":     strings.TrimSpace(c.FormValue("excerpt")),
		"content":     SanitizeContent(c.FormValue("content")),
		"imageUrl":    strings.TrimSpace(c.FormValue("imageUrl")),
		"location":    strings.TrimSpace(c.FormValue("location")),
		"tags":        normalized,
		"date":        date,
		"isFeatured":  c.FormValue("featured") != "",
		"lastUpdated": now,
	}

	col := a.Store.Collection(collection)
	if id := c.FormValue("id"); id != "" {
		// Full-record replace keeps the original creation stamp.
		existing, err := col.Get(ctx, id)
		if err != nil && err != ErrNotFound {
			return err
		}
		doc["createdAt"] = now
		if err == nil {
			if created := CoerceTimestamp(existing.Data["createdAt"]); created != "" {
				doc["createdAt"] = created
			}
		}
		if err := col.Set(ctx, id, doc); err != nil {
			return err
		}
	} else {
		doc["createdAt"] = now
		if _, err := col.Add(ctx, doc); err != nil {
			return err
		}
	}
	a.Cache.Invalidate(collection)
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	collection := c.Param("collection")
	if !contentCollection(collection) {
		return c.NoContent(http.StatusNotFound)
	}
	if err := a.Store.Collection(collection).Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	a.Cache.Invalidate(collection)
	return a.renderAdminDashboard(c, "deleted")
}

// handleAdminLeads lists captured leads for triage, newest submissions first.
func (a *App) handleAdminLeads(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	collection := c.Param("collection")
	if !leadCollection(collection) {
		return c.NoContent(http.StatusNotFound)
	}
	leads, err := a.Store.Collection(collection).AllOrderBy(c.Request().Context(), "createdAt", false)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminLeads(collection, leads, CsrfToken(c)))
}

// renderAdminDashboard lists blog and event records by recency of edit,
// so the most recently touched records surface first for triage.
func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	ctx := c.Request().Context()
	posts, err := a.adminListing(ctx, CollectionBlogs)
	if err != nil {
		return err
	}
	events, err := a.adminListing(ctx, CollectionEvents)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(posts, events, msg, CsrfToken(c)))
}

func (a *App) adminListing(ctx context.Context, collection string) ([]ContentRecord, error) {
	docs, err := a.Store.Collection(collection).All(ctx)
	if err != nil {
		return nil, err
	}
	records := NormalizeAll(docs)
	lc := NewListController(records, nil, len(records)+1)
	view := lc.View(ListQuery{Category: CategoryAll, Scope: ScopeRecent, Page: 1})
	return view.Items, nil
}
