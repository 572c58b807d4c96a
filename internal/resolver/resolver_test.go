package resolver

import (
	"testing"

	"github.com/cruxfin/edgarfacts/internal/edgar"
)

func testIndex() *Index {
	return NewIndex([]edgar.TickerEntry{
		{CIK: 320193, Ticker: "AAPL", Title: "Apple Inc."},
		{CIK: 789019, Ticker: "MSFT", Title: "MICROSOFT CORP"},
		{CIK: 1652044, Ticker: "GOOGL", Title: "Alphabet Inc."},
		{CIK: 1018724, Ticker: "AMZN", Title: "AMAZON COM INC"},
		{CIK: 1065280, Ticker: "NFLX", Title: "NETFLIX INC"},
	})
}

func TestResolve_ExactTicker(t *testing.T) {
	idx := testIndex()
	id, err := idx.Resolve("aapl")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id.CIK != 320193 {
		t.Errorf("CIK = %d, want 320193", id.CIK)
	}
}

func TestResolve_Alias(t *testing.T) {
	idx := testIndex()
	id, err := idx.Resolve("google")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id.Ticker != "GOOGL" {
		t.Errorf("Ticker = %s, want GOOGL", id.Ticker)
	}
}

func TestResolve_ExactName(t *testing.T) {
	idx := testIndex()
	id, err := idx.Resolve("AMAZON COM INC")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id.Ticker != "AMZN" {
		t.Errorf("Ticker = %s, want AMZN", id.Ticker)
	}
}

func TestResolve_NotFound(t *testing.T) {
	idx := testIndex()
	_, err := idx.Resolve("zzz-nonexistent-co")
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("error type = %T, want *NotFoundError", err)
	}
}

func TestResolve_AmbiguousSubstringWithSuggestions(t *testing.T) {
	idx := NewIndex([]edgar.TickerEntry{
		{CIK: 1, Ticker: "AAA", Title: "Apple Orchards Inc"},
		{CIK: 2, Ticker: "BBB", Title: "Apple Seed Holdings"},
	})
	_, err := idx.Resolve("apple")
	ambiguous, ok := err.(*AmbiguousError)
	if !ok {
		t.Fatalf("error type = %T, want *AmbiguousError", err)
	}
	if len(ambiguous.Suggestions) != 2 {
		t.Errorf("len(Suggestions) = %d, want 2", len(ambiguous.Suggestions))
	}
}

func TestResolve_TickerTakesPriorityOverSubstring(t *testing.T) {
	idx := testIndex()
	id, err := idx.Resolve("AAPL")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id.Ticker != "AAPL" {
		t.Errorf("Ticker = %s, want AAPL", id.Ticker)
	}
}
