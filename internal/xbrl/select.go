package xbrl

import (
	"fmt"
	"time"

	"github.com/cruxfin/edgarfacts/internal/catalog"
	"github.com/cruxfin/edgarfacts/internal/edgar"
)

// NoDataError reports that no candidate concept for a metric produced any
// matching facts.
type NoDataError struct {
	MetricID      string
	ConceptsTried []catalog.ConceptRef
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data for metric %q after trying %d candidate concepts", e.MetricID, len(e.ConceptsTried))
}

// candidateOutcome is a candidate's filtered facts plus the bookkeeping
// Select needs to pick a winner and to report every candidate's fate for
// provenance.
type candidateOutcome struct {
	concept catalog.ConceptRef
	unit    string
	facts   []edgar.Fact
	maxFY   int
	maxEnd  time.Time
}

// Select chooses the best candidate concept for def against companyFacts
// and returns its filtered facts for the requested period cadence.
//
// Selection is data-directed and period-dependent:
//   - Annual: among candidates with matching facts, the one covering the
//     greatest fiscal year wins — freshness of coverage over
//     catalog-declared preference.
//   - Quarterly: among candidates with matching facts, the one whose
//     latest period-end date is furthest in the future wins, since a
//     quarterly series cares about the newest reported quarter rather
//     than the fiscal year it falls in.
//
// Ties in either cadence are broken by candidate priority — earlier
// candidates in def.Candidates win ties — and every candidate's outcome
// (found or not, and its max fiscal year) is recorded on the returned
// ConceptSelectionInfo for provenance to explain rejected alternatives.
func Select(companyFacts map[string]map[string]edgar.ConceptBundle, def catalog.MetricDefinition, period Period) ([]edgar.Fact, ConceptSelectionInfo, error) {
	duration := def.Kind == catalog.Duration

	results := make([]CandidateResult, 0, len(def.Candidates))
	var outcomes []candidateOutcome

	for _, cand := range def.Candidates {
		outcome, ok := evaluateCandidate(companyFacts, cand, period, duration)
		if !ok {
			results = append(results, CandidateResult{Concept: cand})
			continue
		}
		results = append(results, CandidateResult{Concept: cand, Found: true, MaxFiscalYear: outcome.maxFY})
		outcomes = append(outcomes, outcome)
	}

	if len(outcomes) == 0 {
		return nil, ConceptSelectionInfo{}, &NoDataError{MetricID: def.ID, ConceptsTried: def.Candidates}
	}

	best := outcomes[0]
	for _, o := range outcomes[1:] {
		if period == Quarterly {
			if o.maxEnd.After(best.maxEnd) {
				best = o
			}
			continue
		}
		if o.maxFY > best.maxFY {
			best = o
		}
	}

	info := ConceptSelectionInfo{
		Taxonomy:      best.concept.Taxonomy,
		Concept:       best.concept.Concept,
		Unit:          best.unit,
		Candidates:    results,
		MaxFiscalYear: best.maxFY,
	}
	return best.facts, info, nil
}

// evaluateCandidate filters a single candidate concept's facts to the
// requested period cadence and reports whether it has any usable data.
func evaluateCandidate(companyFacts map[string]map[string]edgar.ConceptBundle, cand catalog.ConceptRef, period Period, duration bool) (candidateOutcome, bool) {
	taxonomy, ok := companyFacts[cand.Taxonomy]
	if !ok {
		return candidateOutcome{}, false
	}
	bundle, ok := taxonomy[cand.Concept]
	if !ok {
		return candidateOutcome{}, false
	}
	unit, raw := pickUnit(bundle)
	if raw == nil {
		return candidateOutcome{}, false
	}
	filtered := filterFacts(raw, period, duration)
	if len(filtered) == 0 {
		return candidateOutcome{}, false
	}

	maxFY := -1
	var maxEnd time.Time
	for _, f := range filtered {
		end, ok := factPeriodEnd(f)
		if !ok {
			continue
		}
		if y := end.Year(); y > maxFY {
			maxFY = y
		}
		if end.After(maxEnd) {
			maxEnd = end
		}
	}
	if maxFY < 0 {
		return candidateOutcome{}, false
	}

	return candidateOutcome{concept: cand, unit: unit, facts: filtered, maxFY: maxFY, maxEnd: maxEnd}, true
}
