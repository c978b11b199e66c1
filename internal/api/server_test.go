package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paperfetch/scholar-crawler/internal/archive"
	"github.com/paperfetch/scholar-crawler/internal/config"
	"github.com/paperfetch/scholar-crawler/internal/scholar"
)

type fakeSearcher struct {
	papers    []scholar.Paper
	lastTopic string
	lastNum   int
}

func (f *fakeSearcher) Search(_ context.Context, topic string, numResults int) []scholar.Paper {
	f.lastTopic = topic
	f.lastNum = numResults
	return f.papers
}

type fakeBuilder struct {
	result     archive.Result
	err        error
	lastTopic  string
	lastPapers []scholar.Paper
}

func (f *fakeBuilder) Build(_ context.Context, papers []scholar.Paper, topic string) (archive.Result, error) {
	f.lastPapers = papers
	f.lastTopic = topic
	return f.result, f.err
}

type fakeFetcher struct {
	bodies map[string][]byte
	errs   map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, req scholar.FetchRequest) (scholar.FetchResponse, error) {
	if err, ok := f.errs[req.URL]; ok {
		return scholar.FetchResponse{}, err
	}
	body, ok := f.bodies[req.URL]
	if !ok {
		return scholar.FetchResponse{}, errors.New("unexpected fetch")
	}
	return scholar.FetchResponse{URL: req.URL, StatusCode: 200, Body: body}, nil
}

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{Port: 5000, CORSOrigins: []string{"*"}},
		Scholar: config.ScholarConfig{
			BaseURL:           "https://scholar.google.com",
			MaxResults:        30,
			DefaultTopic:      "KNN nanorods",
			DefaultNumResults: 10,
		},
		HTTP: config.HTTPConfig{
			SearchTimeoutSeconds:   15,
			DownloadTimeoutSeconds: 30,
		},
		Logging: config.LoggingConfig{Development: true},
	}
}

func newTestServer(scraper Searcher, builder ArchiveBuilder, fetcher scholar.Fetcher) *Server {
	if scraper == nil {
		scraper = &fakeSearcher{}
	}
	if builder == nil {
		builder = &fakeBuilder{}
	}
	if fetcher == nil {
		fetcher = &fakeFetcher{}
	}
	return NewServer(scraper, builder, fetcher, testConfig(), zap.NewNop())
}

func doJSON(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	server := newTestServer(nil, nil, nil)

	rec := doJSON(t, server, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Server is running")

	rec = doJSON(t, server, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSearch_Succeeds(t *testing.T) {
	t.Parallel()

	scraper := &fakeSearcher{papers: []scholar.Paper{
		{Title: "One", Authors: "A", Year: "2020", DownloadURL: "https://host/one.pdf", HasPDF: true},
		{Title: "Two", Authors: "B", Year: "N/A"},
	}}
	server := newTestServer(scraper, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/api/search", `{"topic":"perovskites","num_results":5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Papers []scholar.Paper `json:"papers"`
		Count  int             `json:"count"`
		Topic  string          `json:"topic"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	require.Equal(t, "perovskites", resp.Topic)
	require.True(t, resp.Papers[0].HasPDF)
	require.Equal(t, "perovskites", scraper.lastTopic)
	require.Equal(t, 5, scraper.lastNum)
}

func TestSearch_DefaultsApplied(t *testing.T) {
	t.Parallel()

	scraper := &fakeSearcher{papers: []scholar.Paper{{Title: "One"}}}
	server := newTestServer(scraper, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/api/search", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "KNN nanorods", scraper.lastTopic)
	require.Equal(t, 10, scraper.lastNum)
}

func TestSearch_NumResultsCapped(t *testing.T) {
	t.Parallel()

	scraper := &fakeSearcher{papers: []scholar.Paper{{Title: "One"}}}
	server := newTestServer(scraper, nil, nil)

	doJSON(t, server, http.MethodPost, "/api/search", `{"topic":"x","num_results":500}`)

	require.Equal(t, 30, scraper.lastNum)
}

func TestSearch_BlankTopicRejected(t *testing.T) {
	t.Parallel()

	server := newTestServer(nil, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/api/search", `{"topic":"   "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Topic is required")
}

func TestSearch_EmptyResultIsSoftOutcome(t *testing.T) {
	t.Parallel()

	server := newTestServer(&fakeSearcher{}, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/api/search", `{"topic":"X"}`)

	// Upstream blocking is an expected outcome, not a failure: the
	// frontend still gets HTTP 200 plus an explanatory message.
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Error  string          `json:"error"`
		Papers []scholar.Paper `json:"papers"`
		Count  int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Zero(t, resp.Count)
	require.NotEmpty(t, resp.Error)
	require.NotNil(t, resp.Papers)
	require.Empty(t, resp.Papers)
}

func TestDownloadSingle_Succeeds(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{bodies: map[string][]byte{
		"https://host/x.pdf": []byte("%PDF-1.4 body"),
	}}
	server := newTestServer(nil, nil, fetcher)

	rec := doJSON(t, server, http.MethodPost, "/api/download",
		`{"url":"https://host/x.pdf","title":"My Paper: Results"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="My_Paper_Results.pdf"`, rec.Header().Get("Content-Disposition"))
	require.Equal(t, "%PDF-1.4 body", rec.Body.String())
}

func TestDownloadSingle_MissingURL(t *testing.T) {
	t.Parallel()

	server := newTestServer(nil, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/api/download", `{"title":"no url"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "URL is required")
}

func TestDownloadSingle_NotPDF(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{bodies: map[string][]byte{
		"https://host/fake.pdf": []byte("<html>login wall</html>"),
	}}
	server := newTestServer(nil, nil, fetcher)

	rec := doJSON(t, server, http.MethodPost, "/api/download", `{"url":"https://host/fake.pdf"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "does not serve a valid PDF")
}

func TestDownloadSingle_TransportError(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{errs: map[string]error{
		"https://host/x.pdf": errors.New("connection reset"),
	}}
	server := newTestServer(nil, nil, fetcher)

	rec := doJSON(t, server, http.MethodPost, "/api/download", `{"url":"https://host/x.pdf"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "Download failed")
}

func TestDownloadZip_Succeeds(t *testing.T) {
	t.Parallel()

	builder := &fakeBuilder{result: archive.Result{
		Archive:    []byte("PK\x03\x04zipbytes"),
		Report:     "report",
		Downloaded: 1,
	}}
	server := newTestServer(nil, builder, nil)

	body := `{"topic":"KNN nanorods","papers":[{"title":"One","download_url":"https://host/x.pdf","has_pdf":true}]}`
	rec := doJSON(t, server, http.MethodPost, "/api/download-zip", body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="KNN_nanorods_papers.zip"`, rec.Header().Get("Content-Disposition"))
	require.Equal(t, "PK\x03\x04zipbytes", rec.Body.String())
	require.Equal(t, "KNN nanorods", builder.lastTopic)
	require.Len(t, builder.lastPapers, 1)
	require.Equal(t, "https://host/x.pdf", builder.lastPapers[0].DownloadURL)
}

func TestDownloadZip_EmptyPaperList(t *testing.T) {
	t.Parallel()

	server := newTestServer(nil, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/api/download-zip", `{"papers":[]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "No papers provided")
}

func TestDownloadZip_BuilderError(t *testing.T) {
	t.Parallel()

	builder := &fakeBuilder{err: errors.New("zip write failed")}
	server := newTestServer(nil, builder, nil)

	body := `{"papers":[{"title":"One"}]}`
	rec := doJSON(t, server, http.MethodPost, "/api/download-zip", body)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

// blockedFetcher simulates Scholar serving its CAPTCHA interstitial:
// HTTP 200 with zero result blocks.
type blockedFetcher struct{}

func (blockedFetcher) Fetch(_ context.Context, req scholar.FetchRequest) (scholar.FetchResponse, error) {
	return scholar.FetchResponse{
		URL:        req.URL,
		StatusCode: http.StatusOK,
		Body:       []byte("<html><body>Our systems have detected unusual traffic</body></html>"),
	}, nil
}

func TestEndToEnd_BlockedUpstreamIsSoftOutcome(t *testing.T) {
	t.Parallel()

	fetcher := blockedFetcher{}
	scraper := scholar.NewScraper(scholar.Config{}, fetcher, scholar.NewResultSource(), zap.NewNop())
	server := NewServer(scraper, &fakeBuilder{}, fetcher, testConfig(), zap.NewNop())

	rec := doJSON(t, server, http.MethodPost, "/api/search", `{"topic":"X"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Error string `json:"error"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Zero(t, resp.Count)
	require.NotEmpty(t, resp.Error)
}

func TestRequestIDMiddlewareSetsHeader(t *testing.T) {
	t.Parallel()

	rec := doJSON(t, newTestServer(nil, nil, nil), http.MethodGet, "/healthz", "")
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAPIKeyMiddleware(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Auth = config.AuthConfig{Enabled: true, APIKey: "secret"}
	server := NewServer(&fakeSearcher{}, &fakeBuilder{}, &fakeFetcher{}, cfg, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
