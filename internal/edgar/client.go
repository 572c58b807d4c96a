// Package edgar is the typed SEC EDGAR API client: company facts,
// submissions, frames, company tickers, and raw filing documents, each
// going through a shared rate-limited, cached, retrying fetch path.
package edgar

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cruxfin/edgarfacts/internal/httpcache"
	"github.com/cruxfin/edgarfacts/internal/ratelimit"
)

const (
	dataBaseURL = "https://data.sec.gov"
	wwwBaseURL  = "https://www.sec.gov"
)

// searchBaseURL is a var, not a const, so tests can point SearchFilings at
// an httptest server the same way backoffBase is overridden for retries.
var searchBaseURL = "https://efts.sec.gov"

// Error is a typed client error. NotFound and Forbidden are terminal
// (never retried); everything else wrapping a transient condition is
// retried up to maxAttempts times.
type Error struct {
	StatusCode int
	URL        string
	Msg        string
}

func (e *Error) Error() string {
	return fmt.Sprintf("edgar: %s (status %d, url %s)", e.Msg, e.StatusCode, e.URL)
}

// IsNotFound reports whether err is a 404 from EDGAR.
func IsNotFound(err error) bool {
	var e *Error
	if as, ok := err.(*Error); ok {
		e = as
	}
	return e != nil && e.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err is a 429 from EDGAR that survived
// every retry attempt.
func IsRateLimited(err error) bool {
	var e *Error
	if as, ok := err.(*Error); ok {
		e = as
	}
	return e != nil && e.StatusCode == http.StatusTooManyRequests
}

const maxAttempts = 3

var backoffBase = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

// Client is the SEC EDGAR HTTP client. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *ratelimit.Limiter
	cache      *httpcache.Cache
}

// New creates a Client. userAgent must identify the calling application
// and a contact per SEC's fair-access policy, or EDGAR returns 403 for
// every request.
func New(userAgent string, limiter *ratelimit.Limiter, cache *httpcache.Cache) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  userAgent,
		limiter:    limiter,
		cache:      cache,
	}
}

// padCIK zero-pads a CIK to the 10-digit form EDGAR URLs require. CIKs are
// never stored padded — only URL construction pads them.
func padCIK(cik int) string {
	return fmt.Sprintf("%010d", cik)
}

// CompanyFacts fetches and decodes data.sec.gov/api/xbrl/companyfacts for cik.
func (c *Client) CompanyFacts(ctx context.Context, cik int) (*CompanyFacts, error) {
	url := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", dataBaseURL, padCIK(cik))
	var out CompanyFacts
	if err := c.fetchJSON(ctx, url, httpcache.TTLCompanyFacts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submissions fetches and decodes data.sec.gov/submissions for cik.
func (c *Client) Submissions(ctx context.Context, cik int) (*Submissions, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", dataBaseURL, padCIK(cik))
	var out Submissions
	if err := c.fetchJSON(ctx, url, httpcache.TTLSubmissions, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Frames fetches a single-period cross-company snapshot:
// data.sec.gov/api/xbrl/frames/{taxonomy}/{concept}/{unit}/{period}.json
func (c *Client) Frames(ctx context.Context, taxonomy, concept, unit, period string) (*FramesResponse, error) {
	url := fmt.Sprintf("%s/api/xbrl/frames/%s/%s/%s/%s.json", dataBaseURL, taxonomy, concept, unit, period)
	var out FramesResponse
	if err := c.fetchJSON(ctx, url, httpcache.TTLFrames, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompanyTickers fetches the master ticker-to-CIK table used by the
// resolver.
func (c *Client) CompanyTickers(ctx context.Context) ([]TickerEntry, error) {
	url := fmt.Sprintf("%s/files/company_tickers.json", wwwBaseURL)
	var raw map[string]TickerEntry
	if err := c.fetchJSON(ctx, url, httpcache.TTLCompanyTickers, &raw); err != nil {
		return nil, err
	}
	out := make([]TickerEntry, 0, len(raw))
	for _, v := range raw {
		out = append(out, v)
	}
	return out, nil
}

// FilingDocument fetches a raw filing document by CIK, dash-free accession
// number, and filename, returning its bytes unparsed.
func (c *Client) FilingDocument(ctx context.Context, cik int, accessionNoDashes, filename string) ([]byte, error) {
	url := fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s", wwwBaseURL, padCIK(cik), accessionNoDashes, filename)
	return c.fetchBytes(ctx, url, httpcache.TTLFilingDoc)
}

// SearchFilings queries efts.sec.gov/LATEST/search-index, EDGAR's
// full-text search over filing bodies. forms restricts to the given form
// types (comma-joined) when non-empty; start and end (YYYY-MM-DD) bound a
// custom date range when both are given. limit truncates the result
// client-side, since the search index does not take a page-size param.
func (c *Client) SearchFilings(ctx context.Context, query string, forms []string, start, end string, limit int) (*SearchFilingsResponse, error) {
	q := neturl.Values{}
	q.Set("q", query)
	if len(forms) > 0 {
		q.Set("forms", strings.Join(forms, ","))
	}
	if start != "" && end != "" {
		q.Set("dateRange", "custom")
		q.Set("startdt", start)
		q.Set("enddt", end)
	}

	url := fmt.Sprintf("%s/LATEST/search-index?%s", searchBaseURL, q.Encode())
	var out SearchFilingsResponse
	if err := c.fetchJSON(ctx, url, httpcache.TTLSearch, &out); err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(out.Hits.Hits) {
		out.Hits.Hits = out.Hits.Hits[:limit]
	}
	return &out, nil
}

func (c *Client) fetchJSON(ctx context.Context, url string, ttl time.Duration, dest interface{}) error {
	body, err := c.fetchBytes(ctx, url, ttl)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

func (c *Client) fetchBytes(ctx context.Context, url string, ttl time.Duration) ([]byte, error) {
	if body, ok := c.cache.Get(ctx, url); ok {
		return body, nil
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoffBase[attempt-1]
			jitter := time.Duration(rand.Float64() * 0.5 * float64(delay))
			select {
			case <-time.After(delay + jitter):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retryable, err := c.doFetch(ctx, url)
		if err == nil {
			c.cache.Set(ctx, url, body, ttl)
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		slog.Warn("edgar fetch failed, retrying", "url", url, "attempt", attempt+1, "error", err)
	}
	return nil, lastErr
}

// doFetch performs a single HTTP round trip and classifies the result.
// retryable is true for 429, 5xx, and network-level errors.
func (c *Client) doFetch(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	reader := resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, gzErr := gzip.NewReader(resp.Body)
		if gzErr != nil {
			return nil, true, fmt.Errorf("decompressing response: %w", gzErr)
		}
		defer gz.Close()
		reader = gz
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, true, fmt.Errorf("reading response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return raw, false, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, &Error{StatusCode: resp.StatusCode, URL: url, Msg: "resource not found"}
	case resp.StatusCode == http.StatusForbidden:
		return nil, false, &Error{StatusCode: resp.StatusCode, URL: url, Msg: "forbidden — check SEC_USER_AGENT is set to a descriptive contact string"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, &Error{StatusCode: resp.StatusCode, URL: url, Msg: "rate limited by SEC EDGAR"}
	case resp.StatusCode >= 500:
		return nil, true, &Error{StatusCode: resp.StatusCode, URL: url, Msg: "EDGAR server error"}
	default:
		return nil, false, &Error{StatusCode: resp.StatusCode, URL: url, Msg: "unexpected status " + strconv.Itoa(resp.StatusCode)}
	}
}
