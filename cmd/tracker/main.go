// Package main is the entry point for the news impact tracker.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/user/news-impact-tracker/internal/api"
	"github.com/user/news-impact-tracker/internal/export"
	"github.com/user/news-impact-tracker/internal/logging"
	"github.com/user/news-impact-tracker/internal/models"
	"github.com/user/news-impact-tracker/internal/report"
	"github.com/user/news-impact-tracker/internal/tracker"
	"github.com/user/news-impact-tracker/pkg/config"
)

// shutdownTimeout bounds how long in-flight API requests may finish after a
// signal.
const shutdownTimeout = 10 * time.Second

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	assets := flag.String("assets", "", "Comma-separated asset symbols to analyze (e.g. AAPL,MSFT,BTC-USD)")
	articles := flag.Int("articles", 5, "Maximum articles per asset")
	days := flag.Int("days", 1, "Days back to search for news (1-7)")
	format := flag.String("format", "summary", "Output format: summary, json or csv")
	output := flag.String("output", "", "Write results to this file instead of stdout")
	quick := flag.String("quick", "", "Quick analysis of a single asset")
	test := flag.Bool("test", false, "Test system connectivity")
	serve := flag.Bool("serve", false, "Run the HTTP API server")
	verbose := flag.Bool("verbose", false, "Verbose logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := cfg.App.LogLevel
	if *verbose {
		level = "debug"
	}
	logger := logging.New(level, cfg.App.Env)

	t, err := tracker.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *serve:
		server := api.NewServer(t, cfg, logger)
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info().Str("addr", addr).Msg("starting API server")

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Run(addr)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				logger.Fatal().Err(err).Msg("server stopped")
			}
		case <-ctx.Done():
			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("graceful shutdown failed")
			}
			if err := <-errCh; err != nil {
				logger.Error().Err(err).Msg("server stopped")
			}
		}

	case *test:
		fmt.Println("Testing system connectivity...")
		status := t.TestConnectivity(ctx)
		if err := report.WriteConnectivity(os.Stdout, status, []string{tracker.StatusNewsScraping, tracker.StatusAIAnalysis, tracker.StatusAIReachable}); err != nil {
			logger.Fatal().Err(err).Msg("failed to write status")
		}

	default:
		var result *models.AnalysisResult
		if *quick != "" {
			result, err = t.QuickAnalysis(ctx, *quick)
		} else {
			result, err = t.AnalyzePortfolio(ctx, splitAssets(*assets), *articles, *days)
		}
		if err != nil {
			if errors.Is(err, tracker.ErrInvalidInput) {
				fmt.Fprintln(os.Stderr, "Error: no valid assets provided. Use -assets to specify assets.")
				flag.Usage()
			} else {
				fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
			}
			os.Exit(1)
		}

		if err := writeResult(result, *format, *output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write results: %v\n", err)
			os.Exit(1)
		}
	}
}

// splitAssets splits a comma or space separated asset list.
func splitAssets(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

// writeResult renders result in the requested format to path, or stdout
// when path is empty.
func writeResult(result *models.AnalysisResult, format, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	var err error
	switch format {
	case "json":
		err = export.WriteJSON(w, result)
	case "csv":
		err = export.WriteCSV(w, result.NewsEntries)
	case "summary":
		err = report.WriteSummary(w, result)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	if err != nil {
		return err
	}

	if path != "" {
		fmt.Fprintf(os.Stderr, "Results saved to %s\n", path)
	}
	return nil
}
