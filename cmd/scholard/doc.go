// Package main hosts the scholar service entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes /api/search, /api/download, /api/download-zip and health endpoints.
//     Requests are decoded leniently with config-supplied defaults, mirroring what browser frontends send.
//   - Scrape pipeline: internal/scholar.Scraper fetches result pages sequentially through the Colly-based fetcher,
//     extracts records via the ResultSource abstraction, and resolves each record's download URL exactly once.
//   - Bulk downloads: internal/archive.Builder fetches every resolved PDF one at a time into an in-memory zip,
//     tolerating per-paper failures, and appends a plain-text metadata report as the final entry.
//   - Configuration & plumbing: Viper populates config from env/files (SCHOLAR_ prefix); zap provides structured
//     logging; Prometheus metrics are exported via the metrics middleware and /metrics handler.
//
// Operational notes:
//   - Concurrency model: strictly sequential within a request (fixed politeness delays between fetches); the
//     hosting runtime may serve requests in parallel since no state is shared across them.
//   - Scholar blocks non-browser clients aggressively. Outbound fetches carry a fixed Chrome header set; an empty
//     result page is treated as upstream blocking and surfaced as a soft, non-error outcome.
//   - Run locally: go run ./cmd/scholard -config config.yaml (or rely solely on env overrides).
package main
