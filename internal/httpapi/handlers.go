package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cruxfin/edgarfacts/internal/engine"
	"github.com/cruxfin/edgarfacts/internal/xbrl"
)

// Handlers wraps the engine for the thin HTTP surface.
type Handlers struct {
	Engine *engine.Engine
}

func periodFromQuery(r *http.Request) xbrl.Period {
	if r.URL.Query().Get("period") == "quarterly" {
		return xbrl.Quarterly
	}
	return xbrl.Annual
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// intParam parses an integer query parameter, returning def when absent
// or unparseable.
func intParam(q url.Values, key string, def int) int {
	v := q.Get(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

// floatParam parses an optional float query parameter, returning nil when
// absent or unparseable.
func floatParam(q url.Values, key string) *float64 {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// countParam reads the years/quarters period-count parameter, whichever
// the caller supplied for the given period cadence.
func countParam(q url.Values, period xbrl.Period) int {
	if period == xbrl.Quarterly {
		return intParam(q, "quarters", 0)
	}
	return intParam(q, "years", 0)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeEngineError(w http.ResponseWriter, err *engine.Error) {
	writeJSON(w, err.Code.HTTPStatus(), map[string]interface{}{
		"error": map[string]interface{}{
			"code":    err.Code,
			"message": err.Message,
			"detail":  err.Detail,
		},
	})
}

// Query handles GET /api/query?company=AAPL&metric=revenue&period=annual&years=5&targetYear=2023
func (h *Handlers) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	company, metric := q.Get("company"), q.Get("metric")
	if company == "" || metric == "" {
		writeEngineError(w, &engine.Error{Code: engine.Validation, Message: "company and metric are required"})
		return
	}
	period := periodFromQuery(r)
	result := h.Engine.Query(r.Context(), company, metric, period, countParam(q, period), intParam(q, "targetYear", 0))
	if result.Err != nil {
		writeEngineError(w, result.Err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Compare handles GET /api/compare?companies=AAPL,MSFT&metric=revenue&years=5
func (h *Handlers) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companies, metric := splitParam(q.Get("companies")), q.Get("metric")
	if len(companies) == 0 || metric == "" {
		writeEngineError(w, &engine.Error{Code: engine.Validation, Message: "companies and metric are required"})
		return
	}
	period := periodFromQuery(r)
	results := h.Engine.Compare(r.Context(), companies, metric, period, countParam(q, period))
	writeJSON(w, http.StatusOK, results)
}

// Ratio handles GET /api/ratio?company=AAPL&ratio=net_margin&years=5
func (h *Handlers) Ratio(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	company, ratio := q.Get("company"), q.Get("ratio")
	if company == "" || ratio == "" {
		writeEngineError(w, &engine.Error{Code: engine.Validation, Message: "company and ratio are required"})
		return
	}
	period := periodFromQuery(r)
	result := h.Engine.Ratio(r.Context(), company, ratio, period, countParam(q, period))
	if result.Err != nil {
		writeEngineError(w, result.Err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Summary handles GET /api/summary?company=AAPL&targetYear=2023&trendYears=5
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	company := q.Get("company")
	if company == "" {
		writeEngineError(w, &engine.Error{Code: engine.Validation, Message: "company is required"})
		return
	}
	result := h.Engine.Summary(r.Context(), company, periodFromQuery(r), intParam(q, "targetYear", 0), intParam(q, "trendYears", 0))
	if result.Err != nil {
		writeEngineError(w, result.Err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// MultiMetric handles GET /api/multiMetric?company=AAPL&metrics=revenue,net_income&years=5
func (h *Handlers) MultiMetric(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	company, metrics := q.Get("company"), splitParam(q.Get("metrics"))
	if company == "" || len(metrics) == 0 {
		writeEngineError(w, &engine.Error{Code: engine.Validation, Message: "company and metrics are required"})
		return
	}
	period := periodFromQuery(r)
	results := h.Engine.MultiMetric(r.Context(), company, metrics, period, countParam(q, period), intParam(q, "targetYear", 0))
	writeJSON(w, http.StatusOK, results)
}

// Matrix handles GET /api/matrix?companies=AAPL,MSFT&metrics=revenue,net_income&year=2023
func (h *Handlers) Matrix(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companies, metrics := splitParam(q.Get("companies")), splitParam(q.Get("metrics"))
	if len(companies) == 0 || len(metrics) == 0 {
		writeEngineError(w, &engine.Error{Code: engine.Validation, Message: "companies and metrics are required"})
		return
	}
	result := h.Engine.Matrix(r.Context(), companies, metrics, periodFromQuery(r), intParam(q, "year", 0))
	writeJSON(w, http.StatusOK, result)
}

// Screen handles GET /api/screen?metric=total_assets&year=2022&minValue=1e9&maxValue=5e9&sort=desc&limit=25
func (h *Handlers) Screen(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric, yearStr := q.Get("metric"), q.Get("year")
	if metric == "" || yearStr == "" {
		writeEngineError(w, &engine.Error{Code: engine.Validation, Message: "metric and year are required"})
		return
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		writeEngineError(w, &engine.Error{Code: engine.Validation, Message: "year must be an integer"})
		return
	}
	limit := intParam(q, "limit", 25)
	sortAscending := strings.EqualFold(q.Get("sort"), "asc")

	results, serr := h.Engine.Screen(r.Context(), metric, year, floatParam(q, "minValue"), floatParam(q, "maxValue"), sortAscending, limit)
	if serr != nil {
		writeEngineError(w, serr)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
