package transporthttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"contentcal/internal/calendar"
	"contentcal/internal/copywriting"
	"contentcal/internal/flow"
	"contentcal/internal/providers"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	seed := filepath.Join("..", "..", "..", "data", "seed_events.json")
	static, err := providers.NewStaticEventsProvider("seed", seed)
	if err != nil {
		t.Fatalf("static provider: %v", err)
	}
	base, err := static.GetLocalEvents(context.Background(), providers.LocalEventsRequest{
		Year:     2025,
		Locality: providers.Locality{Country: "BR"},
	})
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}

	rules := calendar.DefaultScoring()
	pipeline, err := flow.NewFlow(base, calendar.RuleScorer{Rules: rules}, rules, &copywriting.Orchestrator{
		Generator: copywriting.TemplateGenerator{},
		Validator: copywriting.HeuristicValidator{},
	})
	if err != nil {
		t.Fatalf("flow: %v", err)
	}

	return NewServer(pipeline, providers.NewIngestEventsProvider("ingest"), nil)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestMonthlyFlowEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := `{
		"month": "2025-03",
		"platform": "Instagram",
		"objective": "engagement",
		"posts_per_week": 3,
		"client": {
			"id": "cli_1",
			"name": "Padaria Estrela",
			"country": "BR",
			"uf": "SP",
			"city": "Sao Paulo",
			"segment_primary": "gastronomia",
			"tone_profile": "balanced",
			"risk_tolerance": "medium",
			"calendar_profile": {
				"enable_calendar_total": true,
				"calendar_weight": 50,
				"retail_mode": false,
				"allow_cultural_opportunities": true,
				"allow_geek_pop": false,
				"allow_profession_days": false,
				"restrict_sensitive_causes": false
			},
			"trend_profile": {"enable_trends": false, "trend_weight": 0}
		}
	}`

	req := httptest.NewRequest(http.MethodPost, "/v1/flow/monthly?debug=1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp flow.MonthlyFlowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Posts) != 13 {
		t.Fatalf("expected 13 posts, got %d", len(resp.Posts))
	}
	if resp.Debug == nil {
		t.Fatalf("debug requested but missing")
	}
}

func TestMonthlyFlowRejectsBadMonth(t *testing.T) {
	srv := newTestServer(t)

	body := `{"month": "bad", "platform": "Instagram", "client": {"id": "c1"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/flow/monthly", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestMonthlyFlowMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/flow/monthly", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestIngestEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := `{
		"id": "",
		"name": "Feira do Bairro",
		"date_type": "fixed",
		"date": "YYYY-04-12",
		"scope": "CITY",
		"country": "BR",
		"uf": "SP",
		"city": "Sao Paulo",
		"categories": ["local"],
		"tags": ["feira"],
		"base_relevance": 45
	}`

	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["id"] == "" {
		t.Fatalf("ingest should assign an id")
	}
}

func TestIngestValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := []string{
		`{"name": "", "date_type": "fixed", "date": "YYYY-01-01"}`,
		`{"name": "Sem data", "date_type": "fixed"}`,
		`{"name": "Sem regra", "date_type": "movable_rule"}`,
		`{"name": "Sem periodo", "date_type": "period", "start_date": "YYYY-01-01"}`,
		`{"name": "Tipo errado", "date_type": "weekly"}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
		rec := httptest.NewRecorder()
		srv.Routes().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", body, rec.Code)
		}
	}
}
