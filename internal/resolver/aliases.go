package resolver

// aliases maps common lowercase company nicknames to their primary
// exchange ticker, for names the SEC's own company_tickers.json title
// field doesn't match verbatim (abbreviations, former names, colloquial
// references).
var aliases = map[string]string{
	"google":         "GOOGL",
	"alphabet":       "GOOGL",
	"facebook":       "META",
	"fb":             "META",
	"meta platforms": "META",
	"apple":          "AAPL",
	"microsoft":      "MSFT",
	"amazon":         "AMZN",
	"tesla":          "TSLA",
	"nvidia":         "NVDA",
	"netflix":        "NFLX",
	"berkshire":      "BRK.B",
	"berkshire hathaway": "BRK.B",
	"jpmorgan":       "JPM",
	"jp morgan":      "JPM",
	"wells fargo":    "WFC",
	"bank of america": "BAC",
	"goldman":        "GS",
	"goldman sachs":  "GS",
	"exxon":          "XOM",
	"exxonmobil":     "XOM",
	"chevron":        "CVX",
	"walmart":        "WMT",
	"disney":         "DIS",
	"coca-cola":      "KO",
	"coke":           "KO",
	"pepsi":          "PEP",
	"pepsico":        "PEP",
	"ibm":            "IBM",
	"intel":          "INTC",
	"amd":            "AMD",
	"salesforce":     "CRM",
	"oracle":         "ORCL",
	"paypal":         "PYPL",
	"visa":           "V",
	"mastercard":     "MA",
	"boeing":         "BA",
	"nike":           "NKE",
	"starbucks":      "SBUX",
	"mcdonalds":      "MCD",
	"at&t":           "T",
	"verizon":        "VZ",
}
