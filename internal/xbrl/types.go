// Package xbrl implements concept selection and fact filtering: choosing
// which (taxonomy, concept) pair best represents a requested metric for a
// company, filtering its reported facts down to the annual or quarterly
// set the caller asked for, and deduplicating by period end so the most
// recently filed value for any given period wins (modeling restatements).
package xbrl

import (
	"time"

	"github.com/cruxfin/edgarfacts/internal/catalog"
)

// Period identifies the cadence of facts requested: annual or quarterly.
type Period int

const (
	Annual Period = iota
	Quarterly
)

// CandidateResult records one candidate concept's fate during selection:
// whether it had any matching facts at all, and if so the greatest fiscal
// year it covered. provenance uses this to explain both the winning
// concept and the alternatives that were tried and passed over.
type CandidateResult struct {
	Concept       catalog.ConceptRef
	Found         bool
	MaxFiscalYear int
}

// ConceptSelectionInfo records which candidate concept was chosen for a
// metric and why, for provenance.
type ConceptSelectionInfo struct {
	Taxonomy      string
	Concept       string
	Unit          string
	Candidates    []CandidateResult
	MaxFiscalYear int
}

// RestatementInfo notes that a period's reported value was superseded by a
// later filing.
type RestatementInfo struct {
	OriginalAccession string
	OriginalFiled     string
	OriginalValue     float64
	RestatedAccession string
	RestatedFiled     string
}

// DataPoint is one resolved, deduplicated fact for a metric and period.
type DataPoint struct {
	MetricID     string
	CIK          int
	CompanyName  string
	FiscalYear   int
	FiscalPeriod string // "FY", "Q1".."Q4"
	Value        float64
	Unit         string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	Form         string
	Filed        string
	Accession    string
	Selection    ConceptSelectionInfo
	Restatement  *RestatementInfo
	IsLatest     bool
	ExtractedAt  time.Time
	Checksum     string
}
