package flow

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"contentcal/internal/calendar"
	"contentcal/internal/copywriting"
	"contentcal/internal/providers"
)

func testClientProfile() calendar.ClientProfile {
	return calendar.ClientProfile{
		ID:             "cli_1",
		Name:           "Padaria Estrela",
		Country:        "BR",
		UF:             "SP",
		City:           "Sao Paulo",
		SegmentPrimary: "gastronomia",
		ToneProfile:    calendar.ToneBalanced,
		RiskTolerance:  calendar.RiskMedium,
		CalendarProfile: calendar.CalendarProfile{
			EnableCalendarTotal: true,
			CalendarWeight:      50,
		},
	}
}

func testBaseEvents() []calendar.Event {
	return []calendar.Event{
		{
			ID:            "ev_consumidor",
			Name:          "Dia do Consumidor",
			DateType:      calendar.DateFixed,
			Date:          "YYYY-03-15",
			Scope:         calendar.ScopeBR,
			Country:       "BR",
			Categories:    []calendar.Category{calendar.CategoryComercial},
			Tags:          []string{"promo", "varejo"},
			BaseRelevance: 72,
		},
		{
			ID:            "ev_carnaval",
			Name:          "Carnaval",
			DateType:      calendar.DateMovable,
			Rule:          "carnival",
			Scope:         calendar.ScopeBR,
			Country:       "BR",
			Categories:    []calendar.Category{calendar.CategoryCultural},
			Tags:          []string{"festa"},
			BaseRelevance: 60,
		},
		{
			ID:            "ev_natal",
			Name:          "Natal",
			DateType:      calendar.DateFixed,
			Date:          "YYYY-12-25",
			Scope:         calendar.ScopeGlobal,
			Categories:    []calendar.Category{calendar.CategoryComercial},
			Tags:          []string{"presente"},
			BaseRelevance: 92,
		},
	}
}

func newTestFlow(t *testing.T) *Flow {
	t.Helper()
	rules := calendar.DefaultScoring()
	pipeline, err := NewFlow(testBaseEvents(), calendar.RuleScorer{Rules: rules}, rules, &copywriting.Orchestrator{
		Generator: copywriting.TemplateGenerator{},
		Validator: copywriting.HeuristicValidator{},
	})
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	return pipeline
}

func marchRequest() MonthlyFlowRequest {
	return MonthlyFlowRequest{
		Month:        "2025-03",
		Platform:     calendar.PlatformInstagram,
		Objective:    calendar.ObjectiveEngagement,
		PostsPerWeek: 3,
		Client:       testClientProfile(),
	}
}

func TestRunMarchScenario(t *testing.T) {
	resp, err := newTestFlow(t).Run(context.Background(), marchRequest())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(resp.Posts) != 13 {
		t.Fatalf("expected 13 posts, got %d", len(resp.Posts))
	}

	seen := make(map[calendar.ISODate]struct{})
	for _, post := range resp.Posts {
		if !calendar.InMonth(post.Date, "2025-03") {
			t.Fatalf("post date %s outside month", post.Date)
		}
		seen[post.Date] = struct{}{}
		if post.Copy.Headline == "" || post.Copy.Body == "" || post.Copy.CTA == "" {
			t.Fatalf("post %s has empty copy", post.ID)
		}
	}
	if len(seen) != 13 {
		t.Fatalf("expected 13 distinct dates, got %d", len(seen))
	}

	if resp.Used.BaseEvents != 3 {
		t.Fatalf("base events = %d", resp.Used.BaseEvents)
	}
	// Consumidor (Mar 15) and Carnaval (Mar 4, 2025) hit the month; Natal
	// does not.
	if resp.Used.TotalCandidateEvents != 2 {
		t.Fatalf("candidates = %d", resp.Used.TotalCandidateEvents)
	}

	if len(resp.TopEvents) != 2 {
		t.Fatalf("top events = %d", len(resp.TopEvents))
	}
	if resp.TopEvents[0].Score < resp.TopEvents[1].Score {
		t.Fatalf("top events not sorted descending")
	}

	if resp.Objective != calendar.ObjectiveEngagement {
		t.Fatalf("objective = %s", resp.Objective)
	}
	if resp.Posts[0].ID != "post_2025-03_Instagram_0" {
		t.Fatalf("post id = %s", resp.Posts[0].ID)
	}
	if len(resp.Posts[0].EventIDs) != 1 {
		t.Fatalf("post should link one event")
	}
	if resp.Debug != nil {
		t.Fatalf("debug bag should be omitted unless requested")
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := newTestFlow(t).Run(context.Background(), marchRequest())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := newTestFlow(t).Run(context.Background(), marchRequest())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, err := json.Marshal(first.Posts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second.Posts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("posts not byte-identical across runs")
	}
}

type failingCopyGenerator struct{}

func (failingCopyGenerator) Name() string { return "failing" }

func (failingCopyGenerator) GenerateCopies(context.Context, copywriting.GenerationRequest) (*copywriting.GenerationResult, error) {
	return nil, errors.New("model unavailable")
}

func TestCopyFallbackIdempotence(t *testing.T) {
	pipeline := newTestFlow(t)
	pipeline.Copy = &copywriting.Orchestrator{
		Generator: failingCopyGenerator{},
		Validator: copywriting.HeuristicValidator{},
	}

	resp, err := pipeline.Run(context.Background(), marchRequest())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, post := range resp.Posts {
		if post.Copy.Headline == "" || post.Copy.Body == "" || post.Copy.CTA == "" {
			t.Fatalf("post %s missing stub copy", post.ID)
		}
		if !strings.HasPrefix(post.Copy.Body, "Texto base: ") {
			t.Fatalf("post %s should carry the stub body, got %q", post.ID, post.Copy.Body)
		}
		if len(post.EventIDs) == 1 && post.Score == 0 {
			t.Fatalf("fallback should adopt the event score")
		}
	}
}

func TestRunWithoutCandidatesProducesEditorialPosts(t *testing.T) {
	rules := calendar.DefaultScoring()
	pipeline, err := NewFlow(nil, calendar.RuleScorer{Rules: rules}, rules, &copywriting.Orchestrator{
		Generator: failingCopyGenerator{},
		Validator: copywriting.HeuristicValidator{},
	})
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}

	resp, err := pipeline.Run(context.Background(), marchRequest())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, post := range resp.Posts {
		if post.WhyThisExists != "Sem eventos relevantes; editorial padrao." {
			t.Fatalf("why = %q", post.WhyThisExists)
		}
		if post.Tier != calendar.TierB {
			t.Fatalf("editorial tier = %s", post.Tier)
		}
		if post.Score != 60 {
			t.Fatalf("editorial score = %d", post.Score)
		}
		if len(post.EventIDs) != 0 {
			t.Fatalf("editorial post should not link events")
		}
		if !strings.Contains(post.Theme, "Editorial") {
			t.Fatalf("theme = %q", post.Theme)
		}
	}
}

type staticTrends struct {
	aggregate *providers.TrendAggregate
}

func (staticTrends) Name() string { return "static" }

func (s staticTrends) Aggregate(context.Context, providers.TrendRequest) (*providers.TrendAggregate, error) {
	return s.aggregate, nil
}

type failingTrends struct{}

func (failingTrends) Name() string { return "failing_trends" }

func (failingTrends) Aggregate(context.Context, providers.TrendRequest) (*providers.TrendAggregate, error) {
	return nil, errors.New("upstream down")
}

func TestRunAppliesTrendBoosts(t *testing.T) {
	pipeline := newTestFlow(t)
	pipeline.Boosts = providers.NewRuleBoostEngine("live")
	pipeline.Trends = staticTrends{aggregate: &providers.TrendAggregate{Signals: []providers.TrendSignal{
		{Topic: "promo", Momentum: "high", Confidence: 1},
	}}}

	req := marchRequest()
	useTrends := true
	req.Toggles = &RequestToggles{UseTrends: &useTrends}
	req.Client.TrendProfile = calendar.TrendProfile{EnableTrends: true, TrendWeight: 100}
	req.Client.CalendarProfile.CalendarWeight = 0

	base := testBaseEvents()
	base[0].IsTrendSensitive = true
	pipeline.BaseEvents = base

	resp, err := pipeline.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if resp.Used.TrendSignals != 1 {
		t.Fatalf("trend signals = %d", resp.Used.TrendSignals)
	}

	var boosted *ScoredEvent
	for i := range resp.TopEvents {
		if resp.TopEvents[i].ID == "ev_consumidor" {
			boosted = &resp.TopEvents[i]
		}
	}
	if boosted == nil {
		t.Fatalf("boosted event missing from top events")
	}
	if len(boosted.Boosts) != 1 {
		t.Fatalf("expected one boost, got %d", len(boosted.Boosts))
	}
	if !strings.Contains(boosted.Why, "live:+18") {
		t.Fatalf("rationale missing live boost: %s", boosted.Why)
	}
}

func TestRunToleratesTrendFailure(t *testing.T) {
	pipeline := newTestFlow(t)
	pipeline.Trends = failingTrends{}

	req := marchRequest()
	useTrends := true
	req.Toggles = &RequestToggles{UseTrends: &useTrends}
	req.Client.TrendProfile = calendar.TrendProfile{EnableTrends: true}

	resp, err := pipeline.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("trend failure should degrade, not abort: %v", err)
	}
	if resp.Used.TrendSignals != 0 {
		t.Fatalf("trend signals = %d", resp.Used.TrendSignals)
	}
}

type recordingTrends struct {
	calls int
	last  providers.TrendRequest
}

func (r *recordingTrends) Name() string { return "recording" }

func (r *recordingTrends) Aggregate(_ context.Context, req providers.TrendRequest) (*providers.TrendAggregate, error) {
	r.calls++
	r.last = req
	return &providers.TrendAggregate{}, nil
}

func TestRunSkipsTrendsWhenClientDisablesThem(t *testing.T) {
	recorder := &recordingTrends{}
	pipeline := newTestFlow(t)
	pipeline.Trends = recorder

	req := marchRequest()
	useTrends := true
	req.Toggles = &RequestToggles{UseTrends: &useTrends}
	// Toggle on, but the client profile keeps trends off.

	resp, err := pipeline.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if recorder.calls != 0 {
		t.Fatalf("aggregator called %d times for a trend-disabled client", recorder.calls)
	}
	if resp.Used.TrendSignals != 0 {
		t.Fatalf("trend signals = %d", resp.Used.TrendSignals)
	}
}

func TestRunFallsBackToProfileTrendSources(t *testing.T) {
	recorder := &recordingTrends{}
	pipeline := newTestFlow(t)
	pipeline.Trends = recorder

	req := marchRequest()
	useTrends := true
	req.Toggles = &RequestToggles{UseTrends: &useTrends}
	req.Client.TrendProfile = calendar.TrendProfile{
		EnableTrends: true,
		Sources:      []string{"google_trends"},
	}

	if _, err := pipeline.Run(context.Background(), req); err != nil {
		t.Fatalf("run: %v", err)
	}
	if recorder.calls != 1 {
		t.Fatalf("aggregator calls = %d", recorder.calls)
	}
	if !reflect.DeepEqual(recorder.last.Sources, []string{"google_trends"}) {
		t.Fatalf("sources = %v", recorder.last.Sources)
	}

	req.Trend.Sources = []string{"tiktok"}
	if _, err := pipeline.Run(context.Background(), req); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(recorder.last.Sources, []string{"tiktok"}) {
		t.Fatalf("request sources must win, got %v", recorder.last.Sources)
	}
}

func TestRunRejectsMalformedMonth(t *testing.T) {
	req := marchRequest()
	req.Month = "march-2025"
	if _, err := newTestFlow(t).Run(context.Background(), req); err == nil {
		t.Fatalf("malformed month must fail fast")
	}
}

func TestResolveToggles(t *testing.T) {
	defaults := resolveToggles(nil)
	want := Toggles{
		UseCalendarTotal: true,
		UseLocalEvents:   true,
		UseTrends:        false,
		UsePerformance:   false,
		UseKnowledgeBase: true,
	}
	if !reflect.DeepEqual(defaults, want) {
		t.Fatalf("defaults = %+v", defaults)
	}

	off := false
	resolved := resolveToggles(&RequestToggles{UseCalendarTotal: &off})
	if resolved.UseCalendarTotal {
		t.Fatalf("override ignored")
	}
	if !resolved.UseLocalEvents {
		t.Fatalf("unrelated toggle changed")
	}
}

func TestRunDebugBag(t *testing.T) {
	pipeline := newTestFlow(t)
	req := marchRequest()
	req.IncludeDebug = true

	resp, err := pipeline.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if resp.Debug == nil {
		t.Fatalf("debug bag missing when requested")
	}
}
