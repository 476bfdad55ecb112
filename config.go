package caravansite

import "time"

// SiteConfig holds all configuration for a caravansite deployment.
type SiteConfig struct {
	Name        string // Site name (default "Meridian Caravans")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/site.db")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	ContentCacheTTL time.Duration // Content cache TTL (default 5min)
	PageSize        int           // Listing page size (default 12)

	// LeadSubmitPerMinute caps public lead-form submissions per IP
	// (default 6, burst of 3).
	LeadSubmitPerMinute int

	// Models is the product catalog rendered on the home and model pages
	// and previewed by the navigation mega-menu.
	Models []CaravanModel

	// EventCategories maps a listing category to the tags it allows.
	// The "All" category never filters and needs no entry.
	EventCategories map[string][]string
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Meridian Caravans"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = 5 * time.Minute
	}
	if c.PageSize == 0 {
		c.PageSize = 12
	}
	if c.LeadSubmitPerMinute == 0 {
		c.LeadSubmitPerMinute = 6
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
