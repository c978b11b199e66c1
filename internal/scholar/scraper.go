package scholar

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/paperfetch/scholar-crawler/internal/metrics"
)

// Config controls scraper behavior.
type Config struct {
	// BaseURL is the Scholar origin, e.g. "https://scholar.google.com".
	BaseURL string
	// FetchTimeout bounds each result-page fetch.
	FetchTimeout time.Duration
	// PageDelay is the fixed wait between successive page fetches.
	PageDelay time.Duration
}

// Scraper drives paginated result-page fetches and turns them into
// Paper records. One Search call is strictly sequential: each page
// fetch, including its throttling delay, completes before the next.
type Scraper struct {
	cfg     Config
	fetcher Fetcher
	source  ResultSource
	pause   pauseController
	logger  *zap.Logger
}

// NewScraper builds a Scraper.
func NewScraper(cfg Config, fetcher Fetcher, source ResultSource, logger *zap.Logger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if source == nil {
		source = NewResultSource()
	}
	return &Scraper{
		cfg:     cfg,
		fetcher: fetcher,
		source:  source,
		pause:   &timerPauseController{},
		logger:  logger,
	}
}

// Search scrapes Scholar for topic and returns at most
// min(numResults, MaxResults) papers in discovery order.
//
// Upstream trouble never surfaces as an error: a failed fetch or a page
// with zero result blocks (Scholar's CAPTCHA interstitial has none)
// halts pagination and whatever was gathered so far is returned. An
// empty slice is a valid outcome signaling likely upstream blocking.
func (s *Scraper) Search(ctx context.Context, topic string, numResults int) []Paper {
	if numResults > MaxResults {
		numResults = MaxResults
	}
	if numResults <= 0 {
		return nil
	}

	var papers []Paper
	pagesNeeded := numResults/PageSize + 1

	for pageIdx := 0; pageIdx < pagesNeeded; pageIdx++ {
		pageURL := s.pageURL(topic, pageIdx*PageSize)

		resp, err := s.fetcher.Fetch(ctx, FetchRequest{
			URL:     pageURL,
			Headers: BrowserHeaders(),
			Timeout: s.cfg.FetchTimeout,
		})
		if err != nil {
			metrics.ObserveResultPage("error")
			s.logger.Warn("result page fetch failed, stopping pagination",
				zap.String("topic", topic),
				zap.Int("page", pageIdx),
				zap.Error(err),
			)
			break
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
		if err != nil {
			s.logger.Warn("result page parse failed, stopping pagination",
				zap.Int("page", pageIdx), zap.Error(err))
			break
		}

		blocks := s.source.Blocks(doc)
		if blocks.Length() == 0 {
			// End of results, or Scholar served a bot-block page.
			metrics.ObserveResultPage("empty")
			s.logger.Info("no result blocks on page",
				zap.String("topic", topic), zap.Int("page", pageIdx))
			break
		}
		metrics.ObserveResultPage("ok")
		metrics.ObservePapersExtracted(blocks.Length())

		blocks.Each(func(_ int, block *goquery.Selection) {
			p := s.source.Extract(block)
			Enrich(&p, s.cfg.BaseURL)
			papers = append(papers, p)
		})

		if len(papers) >= numResults {
			break
		}
		s.pause.Pause(ctx, s.cfg.PageDelay)
	}

	if len(papers) > numResults {
		// Whole pages are gathered; the last page's excess is discarded.
		papers = papers[:numResults]
	}
	return papers
}

func (s *Scraper) pageURL(topic string, start int) string {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("start", strconv.Itoa(start))
	params.Set("hl", "en")
	params.Set("as_sdt", "0,5")
	return s.cfg.BaseURL + "/scholar?" + params.Encode()
}
