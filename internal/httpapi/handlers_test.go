package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeError(t *testing.T, body []byte) map[string]interface{} {
	var v map[string]interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("response was not valid JSON: %v", err)
	}
	errObj, ok := v["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("response missing error object: %s", body)
	}
	return errObj
}

func TestQuery_MissingParamsReturnsValidationError(t *testing.T) {
	h := &Handlers{}
	req := httptest.NewRequest(http.MethodGet, "/api/query", nil)
	w := httptest.NewRecorder()

	h.Query(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	errObj := decodeError(t, w.Body.Bytes())
	if errObj["code"] != "validation" {
		t.Errorf("code = %v, want validation", errObj["code"])
	}
}

func TestCompare_MissingParamsReturnsValidationError(t *testing.T) {
	h := &Handlers{}
	req := httptest.NewRequest(http.MethodGet, "/api/compare", nil)
	w := httptest.NewRecorder()

	h.Compare(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRatio_MissingParamsReturnsValidationError(t *testing.T) {
	h := &Handlers{}
	req := httptest.NewRequest(http.MethodGet, "/api/ratio?company=AAPL", nil)
	w := httptest.NewRecorder()

	h.Ratio(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSummary_MissingCompanyReturnsValidationError(t *testing.T) {
	h := &Handlers{}
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	w := httptest.NewRecorder()

	h.Summary(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestMultiMetric_MissingMetricsReturnsValidationError(t *testing.T) {
	h := &Handlers{}
	req := httptest.NewRequest(http.MethodGet, "/api/multiMetric?company=AAPL", nil)
	w := httptest.NewRecorder()

	h.MultiMetric(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestMatrix_MissingParamsReturnsValidationError(t *testing.T) {
	h := &Handlers{}
	req := httptest.NewRequest(http.MethodGet, "/api/matrix?companies=AAPL,MSFT", nil)
	w := httptest.NewRecorder()

	h.Matrix(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestScreen_MissingParamsReturnsValidationError(t *testing.T) {
	h := &Handlers{}
	req := httptest.NewRequest(http.MethodGet, "/api/screen?metric=total_assets", nil)
	w := httptest.NewRecorder()

	h.Screen(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSplitParam(t *testing.T) {
	if got := splitParam(""); got != nil {
		t.Errorf("splitParam(\"\") = %v, want nil", got)
	}
	got := splitParam("AAPL, MSFT ,GOOGL")
	want := []string{"AAPL", "MSFT", "GOOGL"}
	if len(got) != len(want) {
		t.Fatalf("splitParam length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitParam[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
