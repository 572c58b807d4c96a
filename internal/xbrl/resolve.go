package xbrl

import (
	"github.com/cruxfin/edgarfacts/internal/catalog"
	"github.com/cruxfin/edgarfacts/internal/edgar"
)

// ResolveMetric selects the best candidate concept for def, filters its
// facts to the requested period cadence, and deduplicates by period end.
// It is the single entry point the query engine uses to turn raw company
// facts into the DataPoint series for one metric. cik and companyName are
// stamped onto the resulting DataPoints; they identify the company
// independent of which concept ultimately resolved the metric.
func ResolveMetric(companyFacts map[string]map[string]edgar.ConceptBundle, def catalog.MetricDefinition, period Period, cik int, companyName string) ([]DataPoint, error) {
	facts, info, err := Select(companyFacts, def, period)
	if err != nil {
		return nil, err
	}
	return Dedup(def.ID, facts, period, info, cik, companyName), nil
}
