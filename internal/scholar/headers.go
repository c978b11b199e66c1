package scholar

import "net/http"

// userAgent impersonates a desktop Chrome build. Scholar serves degraded
// or blocked pages to anything that does not look like a browser.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// BrowserHeaders returns the fixed header set used for every outbound
// fetch, both to Scholar and to arbitrary PDF hosts.
func BrowserHeaders() http.Header {
	h := make(http.Header, 3)
	h.Set("User-Agent", userAgent)
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	return h
}
