package scholar

import "strings"

// DefaultBaseURL is the origin used to absolutize scheme-relative and
// root-relative PDF links.
const DefaultBaseURL = "https://scholar.google.com"

// ResolveDownloadURL derives a directly fetchable PDF URL from the raw
// links on a Paper, or "" when none exists. First match wins:
// a [PDF] anchor href (normalized), then a source URL that itself
// points at a PDF. Pure; no network access.
func ResolveDownloadURL(p Paper, origin string) string {
	if origin == "" {
		origin = DefaultBaseURL
	}
	if p.PDFLink != "" {
		switch {
		case strings.HasPrefix(p.PDFLink, "//"):
			return "https:" + p.PDFLink
		case strings.HasPrefix(p.PDFLink, "/"):
			return origin + p.PDFLink
		default:
			return p.PDFLink
		}
	}
	if p.SourceURL != "" && strings.Contains(strings.ToLower(p.SourceURL), ".pdf") {
		return p.SourceURL
	}
	return ""
}

// Enrich computes DownloadURL and HasPDF in place. It is called exactly
// once per record, at extraction time; downstream consumers read the
// resolved fields and never recompute them.
func Enrich(p *Paper, origin string) {
	p.DownloadURL = ResolveDownloadURL(*p, origin)
	p.HasPDF = p.DownloadURL != ""
}
