package screening

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/mirai-health/screening/pkg/screening/interpret"
)

func testRouter(t *testing.T, scorer Scorer) *mux.Router {
	t.Helper()
	service := NewService(testRegistry(t), scorer, interpret.Default(), nil, nil, nil)
	handler := NewHTTPHandler(service, 1024*1024)
	router := mux.NewRouter()
	handler.Register(router)
	return router
}

func TestHandlePredictSuccess(t *testing.T) {
	router := testRouter(t, &stubScorer{probability: 0.72})

	body, _ := json.Marshal(cognitivelyNormalRequest())
	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Stage           int     `json:"stage"`
		RiskProbability float64 `json:"risk_probability"`
		RiskCategory    string  `json:"risk_category"`
		RiskTier        string  `json:"risk_tier"`
		Message         string  `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Stage != 3 {
		t.Fatalf("expected stage 3, got %d", resp.Stage)
	}
	if resp.RiskProbability != 72.0 {
		t.Fatalf("expected percentage 72.0, got %v", resp.RiskProbability)
	}
	if resp.RiskCategory != interpret.CategoryHigh {
		t.Fatalf("expected %q, got %q", interpret.CategoryHigh, resp.RiskCategory)
	}
	if resp.RiskTier != "high" {
		t.Fatalf("expected high tier, got %q", resp.RiskTier)
	}
	if resp.Message == "" {
		t.Fatal("expected guidance message")
	}
}

func TestHandlePredictMissingBaseline(t *testing.T) {
	scorer := &stubScorer{probability: 0.5}
	router := testRouter(t, scorer)

	req := httptest.NewRequest(http.MethodPost, "/predict",
		strings.NewReader(`{"PTGENDER": "Male", "PTEDUCAT": 12}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.Contains(resp["error"], "AGE") {
		t.Fatalf("expected error naming AGE, got %q", resp["error"])
	}
	if scorer.calls != 0 {
		t.Fatal("classifier invoked for invalid request")
	}
}

func TestHandlePredictEmptyBody(t *testing.T) {
	router := testRouter(t, &stubScorer{})

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlePredictScoringFault(t *testing.T) {
	router := testRouter(t, &stubScorer{err: errBoom})

	body, _ := json.Marshal(cognitivelyNormalRequest())
	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.HasPrefix(resp["error"], "Prediction failed") {
		t.Fatalf("unexpected error shape: %q", resp["error"])
	}
}

func TestHandleStages(t *testing.T) {
	router := testRouter(t, &stubScorer{})

	req := httptest.NewRequest(http.MethodGet, "/stages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var infos []StageInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(infos))
	}
	if len(infos[2].Features) != len(stage3Columns) {
		t.Fatalf("expected %d stage 3 features, got %d", len(stage3Columns), len(infos[2].Features))
	}
}
