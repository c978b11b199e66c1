package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/paperfetch/scholar-crawler/internal/api"
	"github.com/paperfetch/scholar-crawler/internal/archive"
	"github.com/paperfetch/scholar-crawler/internal/config"
	collyfetcher "github.com/paperfetch/scholar-crawler/internal/fetcher/colly"
	"github.com/paperfetch/scholar-crawler/internal/logging"
	"github.com/paperfetch/scholar-crawler/internal/metrics"
	"github.com/paperfetch/scholar-crawler/internal/scholar"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	fetcher := collyfetcher.New(collyfetcher.Config{
		Timeout: cfg.SearchTimeout(),
	})
	scraper := scholar.NewScraper(scholar.Config{
		BaseURL:      cfg.Scholar.BaseURL,
		FetchTimeout: cfg.SearchTimeout(),
		PageDelay:    cfg.PageDelay(),
	}, fetcher, scholar.NewResultSource(), logger.Named("scraper"))
	builder := archive.NewBuilder(archive.Config{
		DownloadTimeout: cfg.DownloadTimeout(),
		DownloadDelay:   cfg.DownloadDelay(),
	}, fetcher, logger.Named("archive"))

	apiServer := api.NewServer(scraper, builder, fetcher, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
