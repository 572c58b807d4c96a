// Package engine orchestrates the query operations this repository
// exposes: query, compare, ratio, summary, multiMetric, matrix, and
// screen. Every fan-out operation follows the teacher's errgroup idiom in
// internal/domain/valuation/service.go — per-item goroutines that log and
// continue on failure rather than aborting the whole batch — and shares
// one in-flight company-facts fetch per CIK via singleflight so a
// many-metric request like summary doesn't dog-pile the same URL.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/cruxfin/edgarfacts/internal/calc"
	"github.com/cruxfin/edgarfacts/internal/catalog"
	"github.com/cruxfin/edgarfacts/internal/corectx"
	"github.com/cruxfin/edgarfacts/internal/edgar"
	"github.com/cruxfin/edgarfacts/internal/resolver"
	"github.com/cruxfin/edgarfacts/internal/xbrl"
)

// Engine is the query orchestration layer. It is safe for concurrent use.
type Engine struct {
	ctx *corectx.Context
	sf  singleflight.Group
}

// New creates an Engine backed by ctx. ctx.Resolver must already be
// populated (see corectx.Context.LoadResolver).
func New(ctx *corectx.Context) *Engine {
	return &Engine{ctx: ctx}
}

func (e *Engine) resolveCompany(companyQuery string) (*resolver.Identity, *Error) {
	id, err := e.ctx.Resolver.Resolve(companyQuery)
	if err == nil {
		return id, nil
	}
	switch v := err.(type) {
	case *resolver.AmbiguousError:
		return nil, &Error{Code: CompanyAmbiguous, Message: err.Error(), Detail: v.Suggestions}
	default:
		return nil, &Error{Code: CompanyNotFound, Message: err.Error()}
	}
}

// companyFacts fetches a company's XBRL facts, coalescing concurrent
// callers for the same CIK into a single outbound request.
func (e *Engine) companyFacts(ctx context.Context, cik int) (*edgar.CompanyFacts, error) {
	key := fmt.Sprintf("companyfacts:%d", cik)
	v, err, _ := e.sf.Do(key, func() (interface{}, error) {
		return e.ctx.EDGAR.CompanyFacts(ctx, cik)
	})
	if err != nil {
		return nil, err
	}
	return v.(*edgar.CompanyFacts), nil
}

func toAPIError(err error) *Error {
	if edgar.IsNotFound(err) {
		return &Error{Code: NoData, Message: err.Error()}
	}
	if edgar.IsRateLimited(err) {
		return &Error{Code: RateLimited, Message: err.Error()}
	}
	if nd, ok := err.(*xbrl.NoDataError); ok {
		return &Error{Code: NoData, Message: nd.Error(), Detail: nd.ConceptsTried}
	}
	return &Error{Code: APIError, Message: err.Error()}
}

// resolveMetricSeries resolves one company+metric into a Series, sharing
// the underlying company-facts fetch through companyFacts. count and
// targetYear narrow the resolved series to its most recent count periods,
// optionally ending no later than targetYear; count <= 0 means unbounded
// and targetYear <= 0 means no ceiling.
func (e *Engine) resolveMetricSeries(ctx context.Context, id *resolver.Identity, metricID string, period xbrl.Period, count, targetYear int) (*Series, *Error) {
	def, ok := catalog.Metrics[metricID]
	if !ok {
		return nil, &Error{Code: MetricNotFound, Message: fmt.Sprintf("unknown metric %q", metricID), Detail: metricIDs()}
	}

	facts, err := e.companyFacts(ctx, id.CIK)
	if err != nil {
		return nil, toAPIError(err)
	}

	points, err := xbrl.ResolveMetric(facts.Facts, def, period, id.CIK, id.Name)
	if err != nil {
		return nil, toAPIError(err)
	}
	points = xbrl.Truncate(points, count, targetYear)

	return buildSeries(def, points), nil
}

func metricIDs() []string {
	ids := make([]string, 0, len(catalog.Metrics))
	for id := range catalog.Metrics {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func ratioIDs() []string {
	ids := make([]string, 0, len(catalog.Ratios))
	for id := range catalog.Ratios {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Query resolves a single company+metric series, truncated to its most
// recent count periods (years for annual, quarters for quarterly), ending
// no later than targetYear when targetYear > 0.
func (e *Engine) Query(ctx context.Context, companyQuery, metricID string, period xbrl.Period, count, targetYear int) QueryResult {
	id, cerr := e.resolveCompany(companyQuery)
	if cerr != nil {
		return QueryResult{Err: cerr}
	}
	series, serr := e.resolveMetricSeries(ctx, id, metricID, period, count, targetYear)
	if serr != nil {
		return QueryResult{Company: id, Err: serr}
	}
	return QueryResult{Company: id, Series: series}
}

// Compare resolves the same metric across multiple companies in parallel,
// each truncated to its most recent count periods. One company's failure
// never aborts the others.
func (e *Engine) Compare(ctx context.Context, companyQueries []string, metricID string, period xbrl.Period, count int) []QueryResult {
	results := make([]QueryResult, len(companyQueries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range companyQueries {
		i, q := i, q
		g.Go(func() error {
			r := e.Query(gctx, q, metricID, period, count, 0)
			if r.Err != nil {
				slog.Warn("compare: company lookup failed", "query", q, "error", r.Err)
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// MultiMetric resolves several metrics for one company in parallel,
// sharing the one company-facts fetch across all of them. Each series is
// truncated to its most recent count periods, ending no later than
// targetYear when targetYear > 0.
func (e *Engine) MultiMetric(ctx context.Context, companyQuery string, metricIDsReq []string, period xbrl.Period, count, targetYear int) map[string]QueryResult {
	id, cerr := e.resolveCompany(companyQuery)
	results := make(map[string]QueryResult, len(metricIDsReq))
	if cerr != nil {
		for _, m := range metricIDsReq {
			results[m] = QueryResult{Err: cerr}
		}
		return results
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, m := range metricIDsReq {
		m := m
		g.Go(func() error {
			series, serr := e.resolveMetricSeries(gctx, id, m, period, count, targetYear)
			mu.Lock()
			defer mu.Unlock()
			if serr != nil {
				slog.Warn("multiMetric: metric resolution failed", "metric", m, "company", id.Ticker, "error", serr)
				results[m] = QueryResult{Company: id, Err: serr}
				return nil
			}
			results[m] = QueryResult{Company: id, Series: series}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Summary resolves every catalog metric for one company — the
// whole-catalog fan-out that makes in-flight request coalescing matter most, since
// every goroutine shares the same company-facts URL. trendYears bounds
// how much history each metric carries; targetYear, when > 0, caps the
// most recent fiscal year considered.
func (e *Engine) Summary(ctx context.Context, companyQuery string, period xbrl.Period, targetYear, trendYears int) SummaryResult {
	id, cerr := e.resolveCompany(companyQuery)
	if cerr != nil {
		return SummaryResult{Err: cerr}
	}
	all := e.MultiMetric(ctx, companyQuery, metricIDs(), period, trendYears, targetYear)
	return SummaryResult{Company: id, Series: all}
}

// Matrix resolves a grid of companies x metrics, each cell independent and
// narrowed to the single fiscal year targetYear when targetYear > 0
// (otherwise each cell carries only its single most recent period).
func (e *Engine) Matrix(ctx context.Context, companyQueries, metricIDsReq []string, period xbrl.Period, targetYear int) MatrixResult {
	cells := make(map[string]map[string]QueryResult, len(companyQueries))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, cq := range companyQueries {
		cq := cq
		g.Go(func() error {
			row := e.MultiMetric(gctx, cq, metricIDsReq, period, 1, targetYear)
			if targetYear > 0 {
				for m, r := range row {
					if r.Series == nil {
						continue
					}
					if n := len(r.Series.DataPoints); n == 0 || r.Series.DataPoints[n-1].FiscalYear != targetYear {
						row[m] = QueryResult{Company: r.Company, Err: &Error{Code: NoData, Message: fmt.Sprintf("no %s data for fiscal year %d", m, targetYear)}}
					}
				}
			}
			mu.Lock()
			cells[cq] = row
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return MatrixResult{Cells: cells}
}

// Ratio composes one of the nine catalog ratios for a company. The two
// operand metrics are fetched in parallel, each narrowed to its own most
// recent count periods, and the ratio is computed for the fiscal years the
// two narrowed series share; when the operands' latest years differ, fewer
// than count years result.
func (e *Engine) Ratio(ctx context.Context, companyQuery, ratioID string, period xbrl.Period, count int) RatioResult {
	def, ok := catalog.Ratios[ratioID]
	if !ok {
		return RatioResult{Err: &Error{Code: RatioNotFound, Message: fmt.Sprintf("unknown ratio %q", ratioID), Detail: ratioIDs()}}
	}

	id, cerr := e.resolveCompany(companyQuery)
	if cerr != nil {
		return RatioResult{Err: cerr}
	}

	var numSeries, denSeries *Series
	var nerr, derr *Error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		numSeries, nerr = e.resolveMetricSeries(gctx, id, def.Numerator, period, count, 0)
		return nil
	})
	g.Go(func() error {
		denSeries, derr = e.resolveMetricSeries(gctx, id, def.Denominator, period, count, 0)
		return nil
	})
	_ = g.Wait()
	if nerr != nil {
		return RatioResult{Company: id, RatioID: ratioID, Err: nerr}
	}
	if derr != nil {
		return RatioResult{Company: id, RatioID: ratioID, Err: derr}
	}

	numByYear := byFiscalYear(numSeries.DataPoints)
	denByYear := byFiscalYear(denSeries.DataPoints)

	values := make(map[int]*float64)
	var skipped []int
	overlapping := 0
	for year, num := range numByYear {
		den, ok := denByYear[year]
		if !ok {
			continue
		}
		overlapping++
		r := composeRatio(def, num.Value, den.Value)
		if r.Skipped {
			skipped = append(skipped, year)
			continue
		}
		values[year] = r.Value
	}
	sort.Ints(skipped)

	if len(values) == 0 {
		reason := "no overlapping periods between numerator and denominator"
		if overlapping > 0 {
			reason = "division by zero in every overlapping year"
		}
		return RatioResult{Company: id, RatioID: ratioID, SkippedYears: skipped, Err: &Error{
			Code:    NoData,
			Message: reason,
		}}
	}

	return RatioResult{Company: id, RatioID: ratioID, Values: values, SkippedYears: skipped}
}

func byFiscalYear(points []xbrl.DataPoint) map[int]xbrl.DataPoint {
	out := make(map[int]xbrl.DataPoint, len(points))
	for _, dp := range points {
		out[dp.FiscalYear] = dp
	}
	return out
}

func composeRatio(def catalog.RatioDefinition, numerator, denominator float64) calc.RatioResult {
	return calc.Compose(def.Op, def.Rounding, numerator, denominator)
}

// Screen ranks companies by a catalog metric for a given fiscal year using
// the frames API cross-company snapshot. It tries each of the metric's
// candidate concepts in priority order until one returns a non-empty
// result — frames is keyed by the same (taxonomy, concept) pairs the
// catalog declares, so the fallback mirrors resolveMetricSeries' own
// concept-selection fallback. Results outside [minValue, maxValue] (either
// bound optional) are dropped, then the remainder is sorted by value and
// truncated to limit.
func (e *Engine) Screen(ctx context.Context, metricID string, year int, minValue, maxValue *float64, sortAscending bool, limit int) ([]edgar.Frame, *Error) {
	def, ok := catalog.Metrics[metricID]
	if !ok {
		return nil, &Error{Code: MetricNotFound, Message: fmt.Sprintf("unknown metric %q", metricID), Detail: metricIDs()}
	}

	framePeriod := screenPeriod(def, year)

	var data []edgar.Frame
	for _, cand := range def.Candidates {
		resp, err := e.ctx.EDGAR.Frames(ctx, cand.Taxonomy, cand.Concept, "USD", framePeriod)
		if err != nil {
			if edgar.IsNotFound(err) {
				continue
			}
			return nil, toAPIError(err)
		}
		if len(resp.Data) > 0 {
			data = make([]edgar.Frame, len(resp.Data))
			copy(data, resp.Data)
			break
		}
	}

	if data == nil {
		return nil, &Error{Code: NoData, Message: fmt.Sprintf("no frames data for metric %q in period %q", metricID, framePeriod), Detail: def.Candidates}
	}

	if minValue != nil || maxValue != nil {
		filtered := data[:0:0]
		for _, f := range data {
			if minValue != nil && f.Val < *minValue {
				continue
			}
			if maxValue != nil && f.Val > *maxValue {
				continue
			}
			filtered = append(filtered, f)
		}
		data = filtered
	}

	sort.Slice(data, func(i, j int) bool {
		if sortAscending {
			return data[i].Val < data[j].Val
		}
		return data[i].Val > data[j].Val
	})
	if limit > 0 && limit < len(data) {
		data = data[:limit]
	}
	return data, nil
}

// screenPeriod derives the frames API period string for a metric's kind:
// a calendar-year duration frame for duration metrics, a calendar-year
// fourth-quarter instant frame for snapshot metrics.
func screenPeriod(def catalog.MetricDefinition, year int) string {
	if def.Kind == catalog.Instant {
		return fmt.Sprintf("CY%dQ4I", year)
	}
	return fmt.Sprintf("CY%d", year)
}
