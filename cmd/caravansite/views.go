package main

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	caravansite "github.com/meridianrv/caravansite"
)

// defaultViews returns plain HTML renderings of every page. Deployments
// with a designed front end replace these with generated templ components;
// the handlers only ever see templ.Component values either way.
func defaultViews(cfg caravansite.SiteConfig) caravansite.ViewFuncs {
	return caravansite.ViewFuncs{
		Home: func(featured []caravansite.ContentRecord, models []caravansite.CaravanModel, siteURL string) templ.Component {
			return page(cfg.Name, func(w io.Writer) {
				fmt.Fprintf(w, "<h1>%s</h1><p>%s</p>", html.EscapeString(cfg.Name), html.EscapeString(cfg.Description))
				fmt.Fprint(w, "<h2>Our Range</h2><ul>")
				for _, m := range models {
					fmt.Fprintf(w, `<li><a href="/models/%s/">%s</a> — %s</li>`,
						m.Slug, html.EscapeString(m.Name), html.EscapeString(m.Tagline))
				}
				fmt.Fprint(w, "</ul>")
				if len(featured) > 0 {
					fmt.Fprint(w, "<h2>Featured</h2>")
					recordList(w, featured, "/blog/")
				}
			})
		},
		Model: func(m caravansite.CaravanModel, siteURL string) templ.Component {
			return page(m.Name, func(w io.Writer) {
				fmt.Fprintf(w, "<h1>%s</h1><p>%s</p><ul>", html.EscapeString(m.Name), html.EscapeString(m.Tagline))
				for _, fp := range m.Floorplans {
					fmt.Fprintf(w, "<li>%s</li>", html.EscapeString(fp))
				}
				fmt.Fprint(w, "</ul>")
				fmt.Fprintf(w, `<script type="application/ld+json">%s</script>`, caravansite.ProductJsonLD(m, cfg))
			})
		},
		EventList: func(view caravansite.ListPage, q caravansite.ListQuery, tags []string) templ.Component {
			return listPage("Events", view)
		},
		Event: func(ev caravansite.ContentRecord, related []caravansite.ContentRecord) templ.Component {
			return detailPage(ev)
		},
		BlogList: func(view caravansite.ListPage, q caravansite.ListQuery, tags []string) templ.Component {
			return listPage("Blog", view)
		},
		BlogPost: func(post caravansite.ContentRecord, related []caravansite.ContentRecord, siteURL string) templ.Component {
			return detailPage(post)
		},
		ThankYou: func(kind string) templ.Component {
			return page("Thank you", func(w io.Writer) {
				fmt.Fprint(w, "<h1>Thank you</h1><p>We have received your request and will be in touch shortly.</p>")
			})
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return page("Admin", func(w io.Writer) {
				if showError {
					fmt.Fprint(w, "<p>Wrong password.</p>")
				}
				fmt.Fprintf(w, `<form method="post" action="/admin/login/">`+
					`<input type="hidden" name="_csrf" value="%s">`+
					`<input type="password" name="password"><button>Log in</button></form>`, csrfToken)
			})
		},
		AdminDashboard: func(posts, events []caravansite.ContentRecord, message, csrfToken string) templ.Component {
			return page("Dashboard", func(w io.Writer) {
				if message != "" {
					fmt.Fprintf(w, "<p>%s</p>", html.EscapeString(message))
				}
				fmt.Fprint(w, "<h2>Blog posts</h2>")
				recordList(w, posts, "/blog/")
				fmt.Fprint(w, "<h2>Events</h2>")
				recordList(w, events, "/events/")
			})
		},
		AdminFormPartial: func(rec caravansite.ContentRecord, collection, csrfToken string) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				_, err := fmt.Fprintf(w,
					`<form method="post" action="/admin/content/%s/save/">`+
						`<input type="hidden" name="_csrf" value="%s">`+
						`<input type="hidden" name="id" value="%s">`+
						`<input name="title" value="%s">`+
						`<input name="slug" value="%s">`+
						`<input name="date" value="%s">`+
						`<input name="tags" value="%s">`+
						`<textarea name="content">%s</textarea>`+
						`<button>Save</button></form>`,
					collection, csrfToken, rec.ID,
					html.EscapeString(rec.Title), rec.Slug, rec.Date,
					html.EscapeString(caravansite.JoinTags(rec.Tags)),
					html.EscapeString(rec.Content))
				return err
			})
		},
		AdminLeads: func(collection string, leads []caravansite.Document, csrfToken string) templ.Component {
			return page("Leads", func(w io.Writer) {
				fmt.Fprintf(w, "<h1>%s</h1><ul>", html.EscapeString(collection))
				for _, lead := range leads {
					name, _ := lead.Data["fullName"].(string)
					if name == "" {
						name, _ = lead.Data["name"].(string)
					}
					email, _ := lead.Data["email"].(string)
					status, _ := lead.Data["status"].(string)
					fmt.Fprintf(w, "<li>%s &lt;%s&gt; [%s]</li>",
						html.EscapeString(name), html.EscapeString(email), html.EscapeString(status))
				}
				fmt.Fprint(w, "</ul>")
			})
		},
		AdminImages: func(images []caravansite.Image, csrfToken string) templ.Component {
			return page("Images", func(w io.Writer) {
				fmt.Fprint(w, "<ul>")
				for _, img := range images {
					fmt.Fprintf(w, `<li><img src="/public/uploads/%s" width="120"> %s (%dx%d)</li>`,
						img.Filename, html.EscapeString(img.OriginalName), img.Width, img.Height)
				}
				fmt.Fprint(w, "</ul>")
			})
		},
		NotFound: func() templ.Component {
			return page("Not found", func(w io.Writer) {
				fmt.Fprint(w, "<h1>Page not found</h1>")
			})
		},
		ServerError: func() templ.Component {
			return page("Error", func(w io.Writer) {
				fmt.Fprint(w, "<h1>Something went wrong</h1>")
			})
		},
	}
}

func page(title string, body func(io.Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!doctype html><html><head><title>%s</title></head><body>", html.EscapeString(title)); err != nil {
			return err
		}
		body(w)
		_, err := fmt.Fprint(w, "</body></html>")
		return err
	})
}

func listPage(title string, view caravansite.ListPage) templ.Component {
	return page(title, func(w io.Writer) {
		fmt.Fprintf(w, "<h1>%s</h1>", html.EscapeString(title))
		prefix := "/blog/"
		if title == "Events" {
			prefix = "/events/"
		}
		recordList(w, view.Items, prefix)
		fmt.Fprintf(w, "<p>Page %d of %d (%d total)</p>", view.Page, view.TotalPages, view.Total)
	})
}

func detailPage(rec caravansite.ContentRecord) templ.Component {
	return page(rec.Title, func(w io.Writer) {
		fmt.Fprintf(w, "<h1>%s</h1><p>%s</p>", html.EscapeString(rec.Title), html.EscapeString(rec.Excerpt))
		// Content is sanitized at save time.
		fmt.Fprint(w, rec.Content)
	})
}

func recordList(w io.Writer, records []caravansite.ContentRecord, linkPrefix string) {
	fmt.Fprint(w, "<ul>")
	for _, rec := range records {
		fmt.Fprintf(w, `<li><a href="%s%s/">%s</a> — %s</li>`,
			linkPrefix, rec.Slug, html.EscapeString(rec.Title), rec.Date)
	}
	fmt.Fprint(w, "</ul>")
}
