// Package archive assembles bulk PDF downloads into a single zip with a
// plain-text metadata report.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/paperfetch/scholar-crawler/internal/metrics"
	"github.com/paperfetch/scholar-crawler/internal/scholar"
)

const reportFilename = "metadata_report.txt"

// Config controls builder behavior.
type Config struct {
	// DownloadTimeout bounds each PDF fetch.
	DownloadTimeout time.Duration
	// DownloadDelay is the fixed wait after every download attempt,
	// successful or not.
	DownloadDelay time.Duration
}

// Result is the outcome of one Build call.
type Result struct {
	// Archive is the complete zip: downloaded PDFs plus the report.
	Archive []byte
	// Report is the plain-text metadata report also embedded in Archive.
	Report string
	// Downloaded counts PDFs actually written into the archive.
	Downloaded int
}

// Builder fetches each paper's resolved PDF and writes it into an
// in-memory zip. Papers are processed one at a time in input order;
// no individual failure ever aborts the batch.
type Builder struct {
	cfg     Config
	fetcher scholar.Fetcher
	pause   pauseController
	logger  *zap.Logger
}

// NewBuilder builds a Builder.
func NewBuilder(cfg Config, fetcher scholar.Fetcher, logger *zap.Logger) *Builder {
	if cfg.DownloadTimeout == 0 {
		cfg.DownloadTimeout = 30 * time.Second
	}
	return &Builder{
		cfg:     cfg,
		fetcher: fetcher,
		pause:   &timerPauseController{},
		logger:  logger,
	}
}

// Build processes papers sequentially and always returns a usable
// archive: every record gets a report block whether or not its PDF
// could be fetched, and the report is the zip's final entry. The
// incoming records are read-only input; DownloadURL is trusted as
// resolved and never recomputed here.
func (b *Builder) Build(ctx context.Context, papers []scholar.Paper, topic string) (Result, error) {
	var (
		buf        bytes.Buffer
		downloaded int
		blocks     []string
	)
	zw := zip.NewWriter(&buf)

	for i, paper := range papers {
		blocks = append(blocks, reportBlock(i, paper))

		if paper.DownloadURL == "" {
			continue
		}

		data, err := DownloadPDF(ctx, b.fetcher, paper.DownloadURL, b.cfg.DownloadTimeout)
		if err != nil {
			metrics.ObservePDFDownload("failed")
			b.logger.Warn("pdf download skipped",
				zap.String("url", paper.DownloadURL),
				zap.Error(err),
			)
			b.pause.Pause(ctx, b.cfg.DownloadDelay)
			continue
		}

		name := scholar.SanitizeFilename(paper.Title) + ".pdf"
		entry, err := zw.Create(name)
		if err != nil {
			return Result{}, fmt.Errorf("create zip entry: %w", err)
		}
		if _, err := entry.Write(data); err != nil {
			return Result{}, fmt.Errorf("write zip entry: %w", err)
		}
		downloaded++
		metrics.ObservePDFDownload("ok")

		b.pause.Pause(ctx, b.cfg.DownloadDelay)
	}

	report := reportText(topic, len(papers), downloaded, blocks)
	entry, err := zw.Create(reportFilename)
	if err != nil {
		return Result{}, fmt.Errorf("create report entry: %w", err)
	}
	if _, err := entry.Write([]byte(report)); err != nil {
		return Result{}, fmt.Errorf("write report entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return Result{}, fmt.Errorf("finalize zip: %w", err)
	}

	return Result{Archive: buf.Bytes(), Report: report, Downloaded: downloaded}, nil
}

func reportBlock(index int, p scholar.Paper) string {
	pdfURL := p.DownloadURL
	if pdfURL == "" {
		pdfURL = "N/A"
	}
	return fmt.Sprintf("[%d] %s\n    Authors  : %s\n    Year     : %s\n    Abstract : %s\n    PDF URL  : %s\n",
		index+1, p.Title, p.Authors, p.Year, truncate(p.Abstract, 200), pdfURL)
}

func reportText(topic string, total, downloaded int, blocks []string) string {
	header := fmt.Sprintf("Research Paper Download Report\nTopic : %s\nPapers: %d\nDownloaded PDFs: %d\n%s\n\n",
		topic, total, downloaded, strings.Repeat("=", 60))
	return header + strings.Join(blocks, "\n")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
