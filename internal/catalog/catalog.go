// Package catalog holds the static, process-wide tables of metric and
// ratio definitions the engine resolves facts against. It never mutates
// after init.
package catalog

// Kind distinguishes metrics reported over a period (duration, e.g.
// revenue) from metrics reported as of an instant (snapshot, e.g. total
// assets).
type Kind int

const (
	Duration Kind = iota
	Instant
)

// ConceptRef names one candidate (taxonomy, concept) pair a metric may be
// reported under. Candidates are tried in priority order; see
// internal/xbrl for the selection algorithm.
type ConceptRef struct {
	Taxonomy string
	Concept  string
}

// MetricDefinition describes one resolvable line-item metric.
type MetricDefinition struct {
	ID         string
	Label      string
	Kind       Kind
	Candidates []ConceptRef
}

// Op is the arithmetic composition a ratio applies to its operands.
type Op int

const (
	Divide Op = iota
	Subtract
)

// Rounding is the display-rounding policy applied to a ratio's computed
// value, per the exact semantics the engine must preserve:
// Percentage: multiply by 100, round to 1 decimal.
// Multiple: round to 2 decimals.
// Currency: no scaling or rounding beyond the operands' own precision.
type Rounding int

const (
	Percentage Rounding = iota
	Multiple
	Currency
)

// RatioDefinition describes one derived ratio composed from two metrics.
type RatioDefinition struct {
	ID          string
	Label       string
	Numerator   string
	Denominator string
	Op          Op
	Rounding    Rounding
}

// Metrics is the full set of resolvable line-item metrics, keyed by ID.
// Candidate concepts are ordered by catalog priority; the freshest
// candidate among those with data wins per internal/xbrl's selection
// algorithm, not simply the first with data.
var Metrics = map[string]MetricDefinition{
	"revenue": {
		ID: "revenue", Label: "Revenue", Kind: Duration,
		Candidates: []ConceptRef{
			{"us-gaap", "RevenueFromContractWithCustomerExcludingAssessedTax"},
			{"us-gaap", "Revenues"},
			{"us-gaap", "SalesRevenueNet"},
		},
	},
	"cost_of_revenue": {
		ID: "cost_of_revenue", Label: "Cost of Revenue", Kind: Duration,
		Candidates: []ConceptRef{
			{"us-gaap", "CostOfGoodsAndServicesSold"},
			{"us-gaap", "CostOfRevenue"},
			{"us-gaap", "CostOfGoodsSold"},
		},
	},
	"gross_profit": {
		ID: "gross_profit", Label: "Gross Profit", Kind: Duration,
		Candidates: []ConceptRef{
			{"us-gaap", "GrossProfit"},
		},
	},
	"operating_income": {
		ID: "operating_income", Label: "Operating Income", Kind: Duration,
		Candidates: []ConceptRef{
			{"us-gaap", "OperatingIncomeLoss"},
		},
	},
	"net_income": {
		ID: "net_income", Label: "Net Income", Kind: Duration,
		Candidates: []ConceptRef{
			{"us-gaap", "NetIncomeLoss"},
			{"us-gaap", "ProfitLoss"},
		},
	},
	"interest_expense": {
		ID: "interest_expense", Label: "Interest Expense", Kind: Duration,
		Candidates: []ConceptRef{
			{"us-gaap", "InterestExpense"},
			{"us-gaap", "InterestExpenseDebt"},
		},
	},
	"operating_cash_flow": {
		ID: "operating_cash_flow", Label: "Operating Cash Flow", Kind: Duration,
		Candidates: []ConceptRef{
			{"us-gaap", "NetCashProvidedByUsedInOperatingActivities"},
			{"us-gaap", "NetCashProvidedByUsedInOperatingActivitiesContinuingOperations"},
		},
	},
	"capital_expenditures": {
		ID: "capital_expenditures", Label: "Capital Expenditures", Kind: Duration,
		Candidates: []ConceptRef{
			{"us-gaap", "PaymentsToAcquirePropertyPlantAndEquipment"},
			{"us-gaap", "PaymentsForCapitalImprovements"},
		},
	},
	"total_assets": {
		ID: "total_assets", Label: "Total Assets", Kind: Instant,
		Candidates: []ConceptRef{
			{"us-gaap", "Assets"},
		},
	},
	"total_liabilities": {
		ID: "total_liabilities", Label: "Total Liabilities", Kind: Instant,
		Candidates: []ConceptRef{
			{"us-gaap", "Liabilities"},
		},
	},
	"stockholders_equity": {
		ID: "stockholders_equity", Label: "Stockholders' Equity", Kind: Instant,
		Candidates: []ConceptRef{
			{"us-gaap", "StockholdersEquity"},
			{"us-gaap", "StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest"},
		},
	},
	"current_assets": {
		ID: "current_assets", Label: "Current Assets", Kind: Instant,
		Candidates: []ConceptRef{
			{"us-gaap", "AssetsCurrent"},
		},
	},
	"current_liabilities": {
		ID: "current_liabilities", Label: "Current Liabilities", Kind: Instant,
		Candidates: []ConceptRef{
			{"us-gaap", "LiabilitiesCurrent"},
		},
	},
	"total_debt": {
		ID: "total_debt", Label: "Total Debt", Kind: Instant,
		Candidates: []ConceptRef{
			{"us-gaap", "DebtCurrent"},
			{"us-gaap", "LongTermDebt"},
			{"us-gaap", "LongTermDebtNoncurrent"},
		},
	},
}

// Ratios is the full set of derived ratios the engine can compute, keyed
// by ID.
var Ratios = map[string]RatioDefinition{
	"net_margin": {
		ID: "net_margin", Label: "Net Margin",
		Numerator: "net_income", Denominator: "revenue",
		Op: Divide, Rounding: Percentage,
	},
	"gross_margin": {
		ID: "gross_margin", Label: "Gross Margin",
		Numerator: "gross_profit", Denominator: "revenue",
		Op: Divide, Rounding: Percentage,
	},
	"operating_margin": {
		ID: "operating_margin", Label: "Operating Margin",
		Numerator: "operating_income", Denominator: "revenue",
		Op: Divide, Rounding: Percentage,
	},
	"free_cash_flow": {
		ID: "free_cash_flow", Label: "Free Cash Flow",
		Numerator: "operating_cash_flow", Denominator: "capital_expenditures",
		Op: Subtract, Rounding: Currency,
	},
	"debt_to_equity": {
		ID: "debt_to_equity", Label: "Debt to Equity",
		Numerator: "total_debt", Denominator: "stockholders_equity",
		Op: Divide, Rounding: Multiple,
	},
	"current_ratio": {
		ID: "current_ratio", Label: "Current Ratio",
		Numerator: "current_assets", Denominator: "current_liabilities",
		Op: Divide, Rounding: Multiple,
	},
	"return_on_assets": {
		ID: "return_on_assets", Label: "Return on Assets",
		Numerator: "net_income", Denominator: "total_assets",
		Op: Divide, Rounding: Percentage,
	},
	"return_on_equity": {
		ID: "return_on_equity", Label: "Return on Equity",
		Numerator: "net_income", Denominator: "stockholders_equity",
		Op: Divide, Rounding: Percentage,
	},
	"interest_coverage": {
		ID: "interest_coverage", Label: "Interest Coverage",
		Numerator: "operating_income", Denominator: "interest_expense",
		Op: Divide, Rounding: Multiple,
	},
}
