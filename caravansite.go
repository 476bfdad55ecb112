// Package caravansite is a marketing and lead-generation website engine
// for a caravan manufacturer, built with Go, Echo, and templ. It provides
// the product catalog, blog and event content management, lead-capture
// form handling, and an admin dashboard out of the box.
//
// Users provide their own templ components via the ViewFuncs struct;
// caravansite owns the handler logic, middleware, and document store.
package caravansite

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds user-provided templ components that the engine calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home             func(featured []ContentRecord, models []CaravanModel, siteURL string) templ.Component
	Model            func(model CaravanModel, siteURL string) templ.Component
	EventList        func(view ListPage, q ListQuery, tags []string) templ.Component
	EventListPartial func(view ListPage, q ListQuery, tags []string) templ.Component
	Event            func(ev ContentRecord, related []ContentRecord) templ.Component
	BlogList         func(view ListPage, q ListQuery, tags []string) templ.Component
	BlogPost         func(post ContentRecord, related []ContentRecord, siteURL string) templ.Component
	ThankYou         func(kind string) templ.Component
	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(posts, events []ContentRecord, message, csrfToken string) templ.Component
	AdminFormPartial func(rec ContentRecord, collection, csrfToken string) templ.Component
	AdminLeads       func(collection string, leads []Document, csrfToken string) templ.Component
	AdminImages      func(images []Image, csrfToken string) templ.Component
	NotFound         func() templ.Component
	ServerError      func() templ.Component
}

// App is the central caravansite application. It wires together the
// document store, cache, handlers, middleware, and user templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Cache   *ContentCache
	Views   ViewFuncs
	Metrics *Metrics

	loginLimiter  *LoginLimiter
	submitLimiter *SubmitLimiter
	customRoutes  []func(*App)
	staticDir     string
}

// New creates a new caravansite App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the store, cache, middleware, routes, and starts the server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("caravansite: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("caravansite: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("caravansite: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewContentCache(a.Store, a.Config.ContentCacheTTL)
	a.Metrics = NewMetrics()
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.submitLimiter = NewSubmitLimiter(a.Config.LeadSubmitPerMinute, 3)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/models/:slug/", a.handleModel)
	e.GET("/events/", a.handleEvents)
	e.GET("/events/:slug/", a.handleEvent)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handleBlogPost)

	// Lead-capture endpoints, rate limited per IP
	submit := a.submitLimiter.Middleware()
	e.POST("/contact/", a.handleInquiry, submit)
	e.POST("/quote/", a.handleQuoteRequest, submit)
	e.POST("/brochure/", a.handleBrochureRequest, submit)
	e.POST("/warranty/", a.handleWarrantyClaim, submit)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/content/:collection/:id/", a.handleAdminContent)
	e.POST("/admin/content/:collection/save/", a.handleAdminSave)
	e.DELETE("/admin/content/:collection/:id/", a.handleAdminDelete)
	e.GET("/admin/leads/:collection/", a.handleAdminLeads)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)

	// Observability
	e.GET("/metrics", echo.WrapHandler(a.Metrics.Handler()))
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.submitLimiter != nil {
		a.submitLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("caravansite: required environment variable %s is not set", key)
	}
	return v
}
