// Command caravansite runs the marketing site with the built-in minimal
// views. Site branding and secrets come from environment variables.
package main

import (
	"log"
	"strings"

	_ "modernc.org/sqlite"

	caravansite "github.com/meridianrv/caravansite"
)

func main() {
	cfg := caravansite.SiteConfig{
		Name:          caravansite.EnvOr("SITE_NAME", "Meridian Caravans"),
		URL:           strings.TrimSuffix(caravansite.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Description:   caravansite.EnvOr("SITE_DESCRIPTION", "Handcrafted caravans built for the long way round."),
		Addr:          caravansite.EnvOr("ADDR", ":3000"),
		DatabasePath:  caravansite.EnvOr("DATABASE_PATH", "data/site.db"),
		AdminPassword: caravansite.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: caravansite.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(caravansite.EnvOr("COOKIE_SECURE", ""), "true"),
		Models: []caravansite.CaravanModel{
			{
				Slug:       "gravity",
				Name:       "Gravity",
				Tagline:    "Full off-road touring, twin axle.",
				Floorplans: []string{"Gravity 19'6", "Gravity 21'"},
			},
			{
				Slug:       "drift",
				Name:       "Drift",
				Tagline:    "Compact semi off-road couples van.",
				Floorplans: []string{"Drift 17'", "Drift 18'6"},
			},
			{
				Slug:       "horizon",
				Name:       "Horizon",
				Tagline:    "Family bunk van with ensuite.",
				Floorplans: []string{"Horizon 21'6", "Horizon 23'"},
			},
		},
		EventCategories: map[string][]string{
			"Shows":      {"show", "expo", "supershow"},
			"Open Days":  {"open-day", "factory"},
			"Adventures": {"trip", "meetup", "offroad"},
		},
	}

	app := caravansite.New(cfg, defaultViews(cfg))
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
