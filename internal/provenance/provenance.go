// Package provenance builds the human-readable trail explaining where a
// resolved series came from: which concept was chosen and why, the dedup
// rule applied, every filing the series drew from, and notes covering
// restatements and rejected candidate concepts.
package provenance

import (
	"fmt"
	"math"
	"sort"

	"github.com/cruxfin/edgarfacts/internal/catalog"
	"github.com/cruxfin/edgarfacts/internal/xbrl"
)

// dedupStrategy is the fixed human-readable description of the "most
// recently filed wins" rule every series is deduplicated under.
const dedupStrategy = "facts are grouped by period end date; within each group, the fact with the latest filed date is kept (most recently filed wins)"

// FilingRef is one filing a series drew a DataPoint from.
type FilingRef struct {
	Accession  string
	Form       string
	Filed      string
	FiscalYear int
}

// Info is the provenance record attached to a resolved series: which
// concept was selected and why, the dedup rule applied, the period-type
// label, every filing the series drew from, and free-form notes covering
// restatements and rejected candidate concepts.
type Info struct {
	SelectedConcept string
	DedupStrategy   string
	PeriodTypeLabel string
	Filings         []FilingRef
	Notes           []string
}

// Build assembles a series' provenance from its resolved DataPoints. def
// decides the period-type label for instant vs. duration metrics; every
// other field is derived from points and their shared ConceptSelectionInfo.
func Build(def catalog.MetricDefinition, points []xbrl.DataPoint) Info {
	info := Info{DedupStrategy: dedupStrategy}
	if len(points) == 0 {
		return info
	}

	sel := points[0].Selection
	info.SelectedConcept = fmt.Sprintf("%s:%s", sel.Taxonomy, sel.Concept)
	info.PeriodTypeLabel = periodTypeLabel(def, points)

	info.Filings = make([]FilingRef, len(points))
	for i, dp := range points {
		info.Filings[i] = FilingRef{Accession: dp.Accession, Form: dp.Form, Filed: dp.Filed, FiscalYear: dp.FiscalYear}
	}
	sort.Slice(info.Filings, func(i, j int) bool { return info.Filings[i].FiscalYear < info.Filings[j].FiscalYear })

	info.Notes = append(info.Notes, fmt.Sprintf("values are %s", info.PeriodTypeLabel))

	for _, dp := range points {
		if dp.Restatement != nil {
			info.Notes = append(info.Notes, restatementNote(dp))
		}
	}
	info.Notes = append(info.Notes, candidateNotes(sel)...)

	return info
}

// periodTypeLabel reports the aggregation mode of a series' values: an
// instant-metric snapshot, a single quarter's duration, or a full fiscal
// year's cumulative duration.
func periodTypeLabel(def catalog.MetricDefinition, points []xbrl.DataPoint) string {
	if def.Kind == catalog.Instant {
		return "end-of-period snapshots"
	}
	for _, dp := range points {
		if dp.FiscalPeriod != "FY" {
			return "single-quarter amounts"
		}
	}
	return "cumulative for the full fiscal year"
}

func restatementNote(dp xbrl.DataPoint) string {
	r := dp.Restatement
	pct := percentChange(r.OriginalValue, dp.Value)
	sign := "+"
	if pct < 0 {
		sign = ""
	}
	return fmt.Sprintf("FY%d was restated: original $%s → $%s (%s%.0f%%) in filing %s",
		dp.FiscalYear, formatValue(r.OriginalValue), formatValue(dp.Value), sign, pct, r.RestatedFiled)
}

// percentChange returns the percent change from original to restated,
// signed, or 0 when original is zero (a percent change has no meaning
// against a zero base).
func percentChange(original, restated float64) float64 {
	if original == 0 {
		return 0
	}
	return ((restated - original) / math.Abs(original)) * 100
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

// candidateNotes enumerates, per spec, concepts that were not found at all
// and concepts that had data but lost out to the selected one.
func candidateNotes(sel xbrl.ConceptSelectionInfo) []string {
	var notes []string
	for _, c := range sel.Candidates {
		switch {
		case !c.Found:
			notes = append(notes, fmt.Sprintf("concept %s:%s was not found in this company's facts", c.Concept.Taxonomy, c.Concept.Concept))
		case c.Concept.Taxonomy != sel.Taxonomy || c.Concept.Concept != sel.Concept:
			notes = append(notes, fmt.Sprintf("alternative concept %s:%s had data through fiscal year %d but was not selected", c.Concept.Taxonomy, c.Concept.Concept, c.MaxFiscalYear))
		}
	}
	return notes
}
