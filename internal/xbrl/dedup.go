package xbrl

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/cruxfin/edgarfacts/internal/edgar"
)

type periodKey struct {
	start string
	end   string
}

// quarterLabel re-derives a fiscal quarter label from a period's end date
// rather than trusting SEC's raw fp field, since fp reflects the filer's
// own fiscal calendar while this engine reports on a calendar-quarter
// basis: Q = floor(month(end)/3) + 1, with month 0-indexed.
func quarterLabel(end time.Time) string {
	q := int(end.Month()-1)/3 + 1
	return fmt.Sprintf("Q%d", q)
}

// Dedup groups facts by reporting period (start+end for duration metrics,
// end alone for instant metrics) and keeps the most recently filed fact
// for each period — the "most recently filed wins" rule that lets
// restatements supersede originally reported values. Superseded facts are
// recorded on the kept DataPoint as RestatementInfo when their value
// differs from the one that replaced them. cik and companyName are
// stamped onto every resulting DataPoint for the checksum and for display
// independent of the originating company-facts fetch.
func Dedup(metricID string, facts []edgar.Fact, period Period, info ConceptSelectionInfo, cik int, companyName string) []DataPoint {
	groups := make(map[periodKey][]edgar.Fact)
	for _, f := range facts {
		key := periodKey{start: f.Start, end: f.End}
		groups[key] = append(groups[key], f)
	}

	now := time.Now().UTC()
	out := make([]DataPoint, 0, len(groups))
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Filed < group[j].Filed
		})
		kept := group[len(group)-1]

		end, ok := factPeriodEnd(kept)
		if !ok {
			continue
		}
		dp := DataPoint{
			MetricID:    metricID,
			CIK:         cik,
			CompanyName: companyName,
			FiscalYear:  end.Year(),
			Value:       kept.Val,
			Unit:        info.Unit,
			PeriodEnd:   end,
			Form:        kept.Form,
			Filed:       kept.Filed,
			Accession:   kept.Accn,
			Selection:   info,
			IsLatest:    true,
			ExtractedAt: now,
		}
		if s, ok := parseDate(kept.Start); ok {
			dp.PeriodStart = s
		}
		if period == Annual {
			dp.FiscalPeriod = "FY"
		} else {
			dp.FiscalPeriod = quarterLabel(end)
		}

		if len(group) > 1 {
			prior := group[len(group)-2]
			if prior.Val != kept.Val {
				dp.Restatement = &RestatementInfo{
					OriginalAccession: prior.Accn,
					OriginalFiled:     prior.Filed,
					OriginalValue:     prior.Val,
					RestatedAccession: kept.Accn,
					RestatedFiled:     kept.Filed,
				}
			}
		}

		out = append(out, dp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].PeriodEnd.Before(out[j].PeriodEnd)
	})

	for i := range out {
		out[i].Checksum = checksum(out[i])
	}

	return out
}

func checksum(dp DataPoint) string {
	raw := fmt.Sprintf("%d|%s|%d|%s|%f|%s", dp.CIK, dp.MetricID, dp.FiscalYear, dp.FiscalPeriod, dp.Value, dp.Accession)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
