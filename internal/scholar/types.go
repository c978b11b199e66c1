// Package scholar implements result-page scraping and metadata
// extraction for the Google Scholar search engine.
package scholar

// Sentinel defaults substituted when a field cannot be extracted from a
// result block. Distinct from an absent value: the record always carries
// printable text for title, authors and year.
const (
	DefaultTitle   = "Untitled"
	DefaultAuthors = "Unknown"
	DefaultYear    = "N/A"
)

// MaxResults caps how many papers a single search may return regardless
// of what the client asks for.
const MaxResults = 30

// PageSize is how many results Scholar serves per page.
const PageSize = 10

// Paper is one discovered search result. A Paper is built fresh per
// result block, enriched once by Enrich, and treated as read-only
// afterwards; the archive builder never re-resolves DownloadURL.
type Paper struct {
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Year     string `json:"year"`
	Abstract string `json:"abstract"`

	// PDFLink is the raw href of the [PDF] anchor, un-normalized.
	PDFLink string `json:"pdf_link,omitempty"`
	// SourceURL is the raw href of the title anchor.
	SourceURL string `json:"source_url,omitempty"`

	// DownloadURL is the normalized, directly fetchable PDF URL derived
	// by the resolver. HasPDF is true iff DownloadURL is non-empty.
	DownloadURL string `json:"download_url,omitempty"`
	HasPDF      bool   `json:"has_pdf"`
}
