// Package resolver implements company identity resolution: turning a
// user-supplied ticker, alias, or company name into the CIK the rest of
// the engine needs, generalized from the teacher's priority-bucketed
// ticker search (internal/domain/search/service.go) to EDGAR-sourced,
// cached company data and the four-step resolution order this engine
// requires.
package resolver

import (
	"fmt"
	"strings"

	"github.com/cruxfin/edgarfacts/internal/edgar"
)

// Identity is a resolved company.
type Identity struct {
	CIK    int
	Name   string
	Ticker string
}

// NotFoundError reports that no company matched the query by any
// resolution step.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("company not found: %q", e.Query)
}

// AmbiguousError reports that a substring match matched more than one
// company; Suggestions holds up to five candidates.
type AmbiguousError struct {
	Query       string
	Suggestions []Identity
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous company query %q (%d candidates)", e.Query, len(e.Suggestions))
}

const maxSuggestions = 5

// Index is the in-memory company resolution index, built from the SEC
// company_tickers.json table.
type Index struct {
	byTicker map[string]Identity // uppercase ticker -> identity
	byName   map[string]Identity // lowercase exact company name -> identity
	all      []Identity
}

// NewIndex builds an Index from the company tickers table.
func NewIndex(entries []edgar.TickerEntry) *Index {
	idx := &Index{
		byTicker: make(map[string]Identity, len(entries)),
		byName:   make(map[string]Identity, len(entries)),
		all:      make([]Identity, 0, len(entries)),
	}
	for _, e := range entries {
		id := Identity{CIK: e.CIK, Name: e.Title, Ticker: e.Ticker}
		idx.byTicker[strings.ToUpper(e.Ticker)] = id
		idx.byName[strings.ToLower(e.Title)] = id
		idx.all = append(idx.all, id)
	}
	return idx
}

// Resolve applies the four-step resolution order: uppercase exact ticker,
// then lowercase exact alias, then lowercase exact company name, then
// lowercase substring match (which surfaces up to five suggestions when
// more than one company matches).
func (idx *Index) Resolve(query string) (*Identity, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, &NotFoundError{Query: query}
	}

	if id, ok := idx.byTicker[strings.ToUpper(trimmed)]; ok {
		return &id, nil
	}

	lower := strings.ToLower(trimmed)
	if ticker, ok := aliases[lower]; ok {
		if id, ok := idx.byTicker[strings.ToUpper(ticker)]; ok {
			return &id, nil
		}
	}

	if id, ok := idx.byName[lower]; ok {
		return &id, nil
	}

	var matches []Identity
	for _, id := range idx.all {
		if strings.Contains(strings.ToLower(id.Name), lower) {
			matches = append(matches, id)
			if len(matches) > maxSuggestions {
				break
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, &NotFoundError{Query: query}
	case 1:
		return &matches[0], nil
	default:
		if len(matches) > maxSuggestions {
			matches = matches[:maxSuggestions]
		}
		return nil, &AmbiguousError{Query: query, Suggestions: matches}
	}
}
