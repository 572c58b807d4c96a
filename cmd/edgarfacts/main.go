// Package main is a minimal CLI demonstrating the engine's query
// operation directly, without the HTTP surface. It is not a full
// command-line interface — table/CSV/JSON rendering and interactive
// exploration remain out of scope for this repository.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cruxfin/edgarfacts/internal/config"
	"github.com/cruxfin/edgarfacts/internal/corectx"
	"github.com/cruxfin/edgarfacts/internal/engine"
	"github.com/cruxfin/edgarfacts/internal/xbrl"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	company := flag.String("company", "", "ticker, alias, or company name")
	metric := flag.String("metric", "", "catalog metric ID, e.g. revenue")
	period := flag.String("period", "annual", "annual or quarterly")
	years := flag.Int("years", 0, "most recent N periods to return (years for annual, quarters for quarterly); 0 means unbounded")
	targetYear := flag.Int("targetYear", 0, "most recent fiscal year to include; 0 means no ceiling")
	flag.Parse()

	if *company == "" || *metric == "" {
		fmt.Fprintln(os.Stderr, "usage: edgarfacts -company AAPL -metric revenue [-period annual|quarterly] [-years N] [-targetYear YYYY]")
		os.Exit(2)
	}

	if err := run(*company, *metric, *period, *years, *targetYear); err != nil {
		slog.Error("edgarfacts failed", "error", err)
		os.Exit(1)
	}
}

func run(company, metric, period string, years, targetYear int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cctx, err := corectx.New(corectx.Options{
		UserAgent: cfg.UserAgent,
		CacheDir:  cfg.CacheDir,
		RateLimit: cfg.RateLimit,
	})
	if err != nil {
		return err
	}
	defer cctx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := cctx.LoadResolver(ctx); err != nil {
		return err
	}

	p := xbrl.Annual
	if period == "quarterly" {
		p = xbrl.Quarterly
	}

	eng := engine.New(cctx)
	result := eng.Query(ctx, company, metric, p, years, targetYear)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
