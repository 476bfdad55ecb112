package caravansite

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := a.Cache.Records(ctx, CollectionBlogs)
	if err != nil {
		// A failed read renders an empty section, never a broken page.
		a.Metrics.RecordFetchFailure(CollectionBlogs)
		c.Logger().Errorf("fetch blogs: %v", err)
		posts = nil
	}
	var featured []ContentRecord
	for _, p := range posts {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return Render(c, a.Views.Home(featured, a.Config.Models, a.Config.URL))
}

func (a *App) handleModel(c echo.Context) error {
	slug := c.Param("slug")
	for _, m := range a.Config.Models {
		if m.Slug == slug {
			return Render(c, a.Views.Model(m, a.Config.URL))
		}
	}
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
}

// parseListQuery maps listing query parameters onto a ListQuery. The
// temporal tab defaults to upcoming; unknown values fall back to it too.
func parseListQuery(c echo.Context) ListQuery {
	q := ListQuery{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("q"),
		From:     c.QueryParam("from"),
		To:       c.QueryParam("to"),
		Scope:    ScopeUpcoming,
		Page:     1,
	}
	if q.Category == "" {
		q.Category = CategoryAll
	}
	if c.QueryParam("tab") == "past" {
		q.Scope = ScopePast
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		q.Page = page
	}
	return q
}

func (a *App) handleEvents(c echo.Context) error {
	ctx := c.Request().Context()
	records, err := a.Cache.Records(ctx, CollectionEvents)
	if err != nil {
		a.Metrics.RecordFetchFailure(CollectionEvents)
		c.Logger().Errorf("fetch events: %v", err)
		records = nil
	}
	tags, _ := a.Cache.Tags(ctx, CollectionEvents)

	q := parseListQuery(c)
	lc := NewListController(records, a.Config.EventCategories, a.Config.PageSize)
	view := lc.View(q)

	if c.Request().Header.Get("HX-Request") == "true" && a.Views.EventListPartial != nil {
		return Render(c, a.Views.EventListPartial(view, q, tags))
	}
	return Render(c, a.Views.EventList(view, q, tags))
}

func (a *App) handleEvent(c echo.Context) error {
	ctx := c.Request().Context()
	ev, err := a.Cache.BySlug(ctx, CollectionEvents, c.Param("slug"))
	if err != nil {
		if err == ErrNotFound {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	records, _ := a.Cache.Records(ctx, CollectionEvents)
	return Render(c, a.Views.Event(ev, FilterRelated(ev, records)))
}

func (a *App) handleBlog(c echo.Context) error {
	ctx := c.Request().Context()
	records, err := a.Cache.Records(ctx, CollectionBlogs)
	if err != nil {
		a.Metrics.RecordFetchFailure(CollectionBlogs)
		c.Logger().Errorf("fetch blogs: %v", err)
		records = nil
	}
	tags, _ := a.Cache.Tags(ctx, CollectionBlogs)

	// Public blog browsing is chronological, newest first. Future-dated
	// posts stay hidden until their date arrives.
	q := parseListQuery(c)
	q.Scope = ScopePast
	lc := NewListController(records, nil, a.Config.PageSize)
	view := lc.View(q)

	return Render(c, a.Views.BlogList(view, q, tags))
}

func (a *App) handleBlogPost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.Cache.BySlug(ctx, CollectionBlogs, c.Param("slug"))
	if err != nil {
		if err == ErrNotFound {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	records, _ := a.Cache.Records(ctx, CollectionBlogs)
	return Render(c, a.Views.BlogPost(post, FilterRelated(post, records), a.Config.URL))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically from the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
