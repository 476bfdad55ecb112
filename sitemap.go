package caravansite

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// handleSitemap serves sitemap.xml covering the home page, model pages,
// blog posts, and events.
func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	base := a.Config.URL
	urls := []sitemapURL{{Loc: BuildURL(base)}}

	for _, m := range a.Config.Models {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "models", m.Slug)})
	}
	if posts, err := a.Cache.Records(ctx, CollectionBlogs); err == nil {
		for _, p := range posts {
			urls = append(urls, sitemapURL{
				Loc:     BuildURL(base, "blog", p.Slug),
				LastMod: p.Date,
			})
		}
	}
	if events, err := a.Cache.Records(ctx, CollectionEvents); err == nil {
		for _, ev := range events {
			urls = append(urls, sitemapURL{
				Loc:     BuildURL(base, "events", ev.Slug),
				LastMod: ev.Date,
			})
		}
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
