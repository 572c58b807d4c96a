package xbrl

import (
	"strings"
	"time"

	"github.com/cruxfin/edgarfacts/internal/edgar"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// pickUnit selects the fact list and unit code from a concept bundle,
// preferring USD since that is how nearly every financial statement line
// item this catalog resolves is reported. Without a USD entry it returns
// whichever unit map iteration yields first; which one that is, when a
// bundle has several units, is not defined.
func pickUnit(bundle edgar.ConceptBundle) (string, []edgar.Fact) {
	if facts, ok := bundle.Units["USD"]; ok {
		return "USD", facts
	}
	for unit, facts := range bundle.Units {
		return unit, facts
	}
	return "", nil
}

// isAnnualFact reports whether f qualifies as an annual fact for a metric
// of the given kind: filed on a 10-K, with a nonzero fiscal year, and
// fp == FY for duration metrics or fp in {FY, Q4} for instant metrics
// (year-end snapshots are sometimes tagged Q4 rather than FY).
func isAnnualFact(f edgar.Fact, duration bool) bool {
	if !strings.HasPrefix(f.Form, "10-K") {
		return false
	}
	if f.FY == 0 {
		return false
	}
	if duration {
		return f.FP == "FY"
	}
	return f.FP == "FY" || f.FP == "Q4"
}

// isQuarterlyFact reports whether f qualifies as a quarterly fact: filed
// on a 10-Q or 10-K, fp in {Q1..Q4}, and — for duration metrics only — a
// reporting span of 60-120 days, which excludes year-to-date cumulative
// duration facts that SEC filers sometimes tag alongside the standalone
// quarter.
func isQuarterlyFact(f edgar.Fact, duration bool) bool {
	if !strings.HasPrefix(f.Form, "10-Q") && !strings.HasPrefix(f.Form, "10-K") {
		return false
	}
	switch f.FP {
	case "Q1", "Q2", "Q3", "Q4":
	default:
		return false
	}
	if !duration {
		return true
	}
	start, ok1 := parseDate(f.Start)
	end, ok2 := parseDate(f.End)
	if !ok1 || !ok2 {
		return false
	}
	days := int(end.Sub(start).Hours() / 24)
	return days >= 60 && days <= 120
}

// filterFacts returns the subset of facts matching the requested period
// cadence and the metric's duration/instant kind.
func filterFacts(facts []edgar.Fact, period Period, duration bool) []edgar.Fact {
	out := make([]edgar.Fact, 0, len(facts))
	for _, f := range facts {
		var ok bool
		switch period {
		case Annual:
			ok = isAnnualFact(f, duration)
		case Quarterly:
			ok = isQuarterlyFact(f, duration)
		}
		if ok {
			out = append(out, f)
		}
	}
	return out
}

// factPeriodEnd returns the period-end date used for fiscal-year
// re-derivation and for comparing candidates' freshness in Select. Dedup
// groups facts on their raw start/end strings, not on this parsed date.
func factPeriodEnd(f edgar.Fact) (time.Time, bool) {
	return parseDate(f.End)
}
