package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/paperfetch/scholar-crawler/internal/archive"
	"github.com/paperfetch/scholar-crawler/internal/metrics"
	"github.com/paperfetch/scholar-crawler/internal/scholar"
)

// blockedMessage is returned when a search comes back empty. Scholar
// rate-limits aggressively, so an empty page one almost always means
// the upstream is refusing automated traffic rather than a true miss.
const blockedMessage = "No results returned. Google Scholar may be blocking automated requests. See README for solutions."

type searchRequest struct {
	Topic      string `json:"topic"`
	NumResults int    `json:"num_results"`
}

type searchResponse struct {
	Papers []scholar.Paper `json:"papers"`
	Count  int             `json:"count"`
	Topic  string          `json:"topic"`
}

type downloadRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type downloadZipRequest struct {
	Papers []scholar.Paper `json:"papers"`
	Topic  string          `json:"topic"`
}

// search handles POST /api/search. A malformed or empty body falls back
// to defaults; only a blank topic is a client error. Zero gathered
// results is a soft outcome: HTTP 200 with an explanatory message so
// the frontend can surface it.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	req := searchRequest{
		Topic:      s.cfg.Scholar.DefaultTopic,
		NumResults: s.cfg.Scholar.DefaultNumResults,
	}
	decodeLenient(r, &req)

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		s.writeError(w, http.StatusBadRequest, "Topic is required")
		return
	}
	num := req.NumResults
	if num <= 0 {
		num = s.cfg.Scholar.DefaultNumResults
	}
	if num > s.cfg.Scholar.MaxResults {
		num = s.cfg.Scholar.MaxResults
	}

	metrics.ObserveSearch()
	papers := s.scraper.Search(r.Context(), topic, num)

	if len(papers) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"error":  blockedMessage,
			"papers": []scholar.Paper{},
			"count":  0,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, searchResponse{
		Papers: papers,
		Count:  len(papers),
		Topic:  topic,
	})
}

// downloadSingle handles POST /api/download: it proxies one PDF back to
// the browser with an attachment filename derived from the title.
func (s *Server) downloadSingle(w http.ResponseWriter, r *http.Request) {
	req := downloadRequest{Title: "paper"}
	decodeLenient(r, &req)

	if req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if req.Title == "" {
		req.Title = "paper"
	}

	data, err := archive.DownloadPDF(r.Context(), s.fetcher, req.URL, s.cfg.DownloadTimeout())
	if err != nil {
		metrics.ObservePDFDownload("failed")
		if errors.Is(err, archive.ErrNotPDF) {
			s.writeError(w, http.StatusBadRequest, "The URL does not serve a valid PDF file.")
			return
		}
		s.logger.Warn("single download failed", zap.String("url", req.URL), zap.Error(err))
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("Download failed: %v", err))
		return
	}
	metrics.ObservePDFDownload("ok")

	filename := scholar.SanitizeFilename(req.Title) + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		s.logger.Error("write pdf response failed", zap.Error(err))
	}
}

// downloadZip handles POST /api/download-zip: it fetches every
// available PDF server-side and streams back a single archive. The
// incoming papers carry their already-resolved download URLs; they are
// not re-resolved here.
func (s *Server) downloadZip(w http.ResponseWriter, r *http.Request) {
	req := downloadZipRequest{Topic: "research_papers"}
	decodeLenient(r, &req)

	if len(req.Papers) == 0 {
		s.writeError(w, http.StatusBadRequest, "No papers provided")
		return
	}
	if req.Topic == "" {
		req.Topic = "research_papers"
	}

	result, err := s.builder.Build(r.Context(), req.Papers, req.Topic)
	if err != nil {
		s.logger.Error("archive build failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to build archive")
		return
	}

	s.logger.Info("bulk download complete",
		zap.String("topic", req.Topic),
		zap.Int("papers", len(req.Papers)),
		zap.Int("downloaded", result.Downloaded),
	)

	filename := scholar.SanitizeFilename(req.Topic) + "_papers.zip"
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(result.Archive); err != nil {
		s.logger.Error("write zip response failed", zap.Error(err))
	}
}

// decodeLenient fills dst from the request body, leaving any pre-set
// defaults in place when the body is missing or malformed.
func decodeLenient(r *http.Request, dst any) {
	if r.Body == nil {
		return
	}
	_ = json.NewDecoder(r.Body).Decode(dst)
}
