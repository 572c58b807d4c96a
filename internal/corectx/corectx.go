// Package corectx provides the explicit process-lifetime context this
// engine threads through every operation instead of module-level
// singletons, per the design note that a shared rate limiter, HTTP cache,
// and EDGAR client should be constructed once and disposed explicitly —
// enabling isolated construction in tests instead of resetting globals.
package corectx

import (
	"context"
	"fmt"

	"github.com/cruxfin/edgarfacts/internal/edgar"
	"github.com/cruxfin/edgarfacts/internal/httpcache"
	"github.com/cruxfin/edgarfacts/internal/ratelimit"
	"github.com/cruxfin/edgarfacts/internal/resolver"
)

// Context bundles every piece of shared, concurrency-safe state the query
// engine needs: the rate limiter and cache behind the EDGAR client, and
// the resolved company index.
type Context struct {
	Cache    *httpcache.Cache
	Limiter  *ratelimit.Limiter
	EDGAR    *edgar.Client
	Resolver *resolver.Index
}

// Options configures New.
type Options struct {
	UserAgent string
	CacheDir  string
	RateLimit float64
}

// New constructs a Context. It does not populate Resolver — call
// LoadResolver once company_tickers.json is wanted, since that requires a
// network round trip best done explicitly rather than inside a
// constructor.
func New(opts Options) (*Context, error) {
	cache, err := httpcache.Open(opts.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	limiter := ratelimit.New(opts.RateLimit)
	client := edgar.New(opts.UserAgent, limiter, cache)

	return &Context{
		Cache:   cache,
		Limiter: limiter,
		EDGAR:   client,
	}, nil
}

// LoadResolver fetches the SEC company_tickers.json table (through the
// same cached, rate-limited EDGAR client as every other fetch) and builds
// the resolution index from it.
func (c *Context) LoadResolver(ctx context.Context) error {
	entries, err := c.EDGAR.CompanyTickers(ctx)
	if err != nil {
		return fmt.Errorf("loading company tickers: %w", err)
	}
	c.Resolver = resolver.NewIndex(entries)
	return nil
}

// Close releases the context's owned resources (the persistent cache
// handle).
func (c *Context) Close() error {
	return c.Cache.Close()
}
