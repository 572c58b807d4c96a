package provenance

import (
	"strings"
	"testing"

	"github.com/cruxfin/edgarfacts/internal/catalog"
	"github.com/cruxfin/edgarfacts/internal/xbrl"
)

func TestBuild_EmptySeries(t *testing.T) {
	info := Build(catalog.Metrics["revenue"], nil)
	if info.SelectedConcept != "" || len(info.Filings) != 0 || len(info.Notes) != 0 {
		t.Errorf("Build(nil) = %+v, want zero-value Info", info)
	}
	if info.DedupStrategy == "" {
		t.Error("DedupStrategy should be set even for an empty series")
	}
}

func TestBuild_SelectedConceptAndFilings(t *testing.T) {
	sel := xbrl.ConceptSelectionInfo{
		Taxonomy: "us-gaap",
		Concept:  "Revenues",
		Candidates: []xbrl.CandidateResult{
			{Concept: catalog.ConceptRef{Taxonomy: "us-gaap", Concept: "Revenues"}, Found: true, MaxFiscalYear: 2022},
		},
	}
	points := []xbrl.DataPoint{
		{FiscalYear: 2022, FiscalPeriod: "FY", Value: 120, Form: "10-K", Filed: "2023-02-01", Accession: "acc-2022", Selection: sel},
		{FiscalYear: 2021, FiscalPeriod: "FY", Value: 100, Form: "10-K", Filed: "2022-02-01", Accession: "acc-2021", Selection: sel},
	}

	info := Build(catalog.Metrics["revenue"], points)

	if info.SelectedConcept != "us-gaap:Revenues" {
		t.Errorf("SelectedConcept = %q, want us-gaap:Revenues", info.SelectedConcept)
	}
	if info.PeriodTypeLabel != "cumulative for the full fiscal year" {
		t.Errorf("PeriodTypeLabel = %q", info.PeriodTypeLabel)
	}
	if len(info.Filings) != 2 || info.Filings[0].FiscalYear != 2021 || info.Filings[1].FiscalYear != 2022 {
		t.Errorf("Filings not sorted ascending by fiscal year: %+v", info.Filings)
	}
}

func TestBuild_InstantMetricLabel(t *testing.T) {
	sel := xbrl.ConceptSelectionInfo{Taxonomy: "us-gaap", Concept: "Assets"}
	points := []xbrl.DataPoint{{FiscalYear: 2022, FiscalPeriod: "FY", Value: 500, Selection: sel}}
	info := Build(catalog.Metrics["total_assets"], points)
	if info.PeriodTypeLabel != "end-of-period snapshots" {
		t.Errorf("PeriodTypeLabel = %q, want end-of-period snapshots", info.PeriodTypeLabel)
	}
}

func TestBuild_QuarterlyDurationLabel(t *testing.T) {
	sel := xbrl.ConceptSelectionInfo{Taxonomy: "us-gaap", Concept: "Revenues"}
	points := []xbrl.DataPoint{{FiscalYear: 2022, FiscalPeriod: "Q2", Value: 30, Selection: sel}}
	info := Build(catalog.Metrics["revenue"], points)
	if info.PeriodTypeLabel != "single-quarter amounts" {
		t.Errorf("PeriodTypeLabel = %q, want single-quarter amounts", info.PeriodTypeLabel)
	}
}

func TestBuild_RestatementNoteMatchesScenario(t *testing.T) {
	// Spec scenario S2: accession A filed 2023-02-15 val=100, accession B
	// filed 2024-02-10 val=105. Expect a note matching
	// "FY2022 was restated: original $100 → $105 (+5%) in filing 2024-02-10".
	sel := xbrl.ConceptSelectionInfo{Taxonomy: "us-gaap", Concept: "NetIncomeLoss"}
	points := []xbrl.DataPoint{
		{
			FiscalYear: 2022, FiscalPeriod: "FY", Value: 105, Accession: "B", Filed: "2024-02-10", Selection: sel,
			Restatement: &xbrl.RestatementInfo{
				OriginalAccession: "A", OriginalFiled: "2023-02-15", OriginalValue: 100,
				RestatedAccession: "B", RestatedFiled: "2024-02-10",
			},
		},
	}

	info := Build(catalog.Metrics["net_income"], points)

	var note string
	for _, n := range info.Notes {
		if strings.Contains(n, "restated") {
			note = n
		}
	}
	if note == "" {
		t.Fatal("expected a restatement note")
	}
	if !strings.Contains(note, "FY2022") || !strings.Contains(note, "$100") || !strings.Contains(note, "$105") ||
		!strings.Contains(note, "+5%") || !strings.Contains(note, "2024-02-10") {
		t.Errorf("restatement note = %q, missing expected substrings", note)
	}
}

func TestBuild_NotFoundAndNotSelectedCandidateNotes(t *testing.T) {
	sel := xbrl.ConceptSelectionInfo{
		Taxonomy: "us-gaap",
		Concept:  "RevenueFromContractWithCustomerExcludingAssessedTax",
		Candidates: []xbrl.CandidateResult{
			{Concept: catalog.ConceptRef{Taxonomy: "us-gaap", Concept: "RevenueFromContractWithCustomerExcludingAssessedTax"}, Found: true, MaxFiscalYear: 2024},
			{Concept: catalog.ConceptRef{Taxonomy: "us-gaap", Concept: "Revenues"}, Found: true, MaxFiscalYear: 2018},
			{Concept: catalog.ConceptRef{Taxonomy: "us-gaap", Concept: "SalesRevenueNet"}, Found: false},
		},
	}
	points := []xbrl.DataPoint{{FiscalYear: 2024, FiscalPeriod: "FY", Value: 1000, Selection: sel}}

	info := Build(catalog.Metrics["revenue"], points)

	var sawAlternative, sawNotFound bool
	for _, n := range info.Notes {
		if strings.Contains(n, "Revenues") && strings.Contains(n, "2018") {
			sawAlternative = true
		}
		if strings.Contains(n, "SalesRevenueNet") && strings.Contains(n, "not found") {
			sawNotFound = true
		}
	}
	if !sawAlternative {
		t.Errorf("expected a not-selected alternative note mentioning Revenues and 2018, got %+v", info.Notes)
	}
	if !sawNotFound {
		t.Errorf("expected a not-found note mentioning SalesRevenueNet, got %+v", info.Notes)
	}
}
