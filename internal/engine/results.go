package engine

import (
	"github.com/cruxfin/edgarfacts/internal/calc"
	"github.com/cruxfin/edgarfacts/internal/catalog"
	"github.com/cruxfin/edgarfacts/internal/provenance"
	"github.com/cruxfin/edgarfacts/internal/resolver"
	"github.com/cruxfin/edgarfacts/internal/xbrl"
)

// Series is one metric's resolved history for one company, with its
// year-over-year changes, growth-signal classification, and series-level
// provenance attached.
type Series struct {
	MetricID     string
	DataPoints   []xbrl.DataPoint
	YoYChanges   []*float64
	GrowthSignal *calc.GrowthSignal
	CAGR         map[int]*float64 // lookback years -> CAGR
	Provenance   provenance.Info
}

// QueryResult is the sum type every top-level operation ultimately
// returns for one (company, metric) pair: either a Series or an *Error,
// never both.
type QueryResult struct {
	Company *resolver.Identity
	Series  *Series
	Err     *Error
}

// RatioResult is the per-period outcome of composing a ratio, tracking
// how many periods were skipped for division by zero.
type RatioResult struct {
	Company      *resolver.Identity
	RatioID      string
	Values       map[int]*float64 // fiscal year -> rounded ratio value
	SkippedYears []int
	Err          *Error
}

// SummaryResult bundles every catalog metric's series for one company.
type SummaryResult struct {
	Company *resolver.Identity
	Series  map[string]QueryResult
	Err     *Error
}

// MatrixResult is a companies x metrics grid, each cell an independent
// QueryResult so one company's or one metric's failure never blanks the
// rest of the grid.
type MatrixResult struct {
	Cells map[string]map[string]QueryResult // companyQuery -> metricID -> result
}

func buildSeries(def catalog.MetricDefinition, points []xbrl.DataPoint) *Series {
	s := &Series{MetricID: def.ID, DataPoints: points}
	s.YoYChanges = make([]*float64, len(points))
	values := make([]float64, len(points))
	for i, dp := range points {
		values[i] = dp.Value
		if i > 0 {
			s.YoYChanges[i] = calc.YoY(dp.Value, points[i-1].Value)
		}
	}
	s.GrowthSignal = calc.ClassifyGrowth(values)
	s.Provenance = provenance.Build(def, points)

	s.CAGR = make(map[int]*float64)
	if len(points) > 0 {
		last := points[len(points)-1]
		for _, lookback := range calc.CAGRLookbacks {
			idx := len(points) - 1 - lookback
			if idx < 0 {
				continue
			}
			start := points[idx]
			s.CAGR[lookback] = calc.CAGR(start.Value, last.Value, lookback)
		}
	}
	return s
}
