package caravansite

// ContentRecord is the normalized article/event document rendered by
// templates and fed through the list pipeline. Raw store documents are
// converted to this shape exactly once, at the ingestion boundary in
// normalize.go; downstream code never touches raw maps.
type ContentRecord struct {
	ID          string
	Slug        string
	Title       string
	Excerpt     string
	Content     string
	ImageURL    string
	Location    string // event venue, or author byline for blog posts
	Tags        []string
	Date        string // primary chronological field, RFC 3339
	CreatedAt   string
	LastUpdated string
	Featured    bool
}

// CaravanModel describes one caravan in the product catalog. Models are
// configured, not stored: the catalog changes with releases, not at runtime.
type CaravanModel struct {
	Slug       string
	Name       string
	Tagline    string
	ImageURL   string
	Floorplans []string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Lead collection names. Each holds flat write-once lead documents
// tagged with status "new" and submission timestamps.
const (
	CollectionBrochureRequests = "brochureRequests"
	CollectionQuoteRequests    = "quoteRequests"
	CollectionInquiries        = "inquiries"
	CollectionWarrantyClaims   = "warranty-claims"
)

// Content collection names.
const (
	CollectionBlogs  = "blogs"
	CollectionEvents = "events"
)
