package calendar

import (
	"strings"
	"testing"
)

func testClient() ClientProfile {
	return ClientProfile{
		ID:             "c1",
		Name:           "Padaria Estrela",
		Country:        "BR",
		SegmentPrimary: "gastronomia",
		ToneProfile:    ToneBalanced,
		RiskTolerance:  RiskMedium,
	}
}

func TestRuleScorerBaseRationale(t *testing.T) {
	scorer := RuleScorer{Rules: DefaultScoring()}
	ev := Event{
		ID:            "e1",
		Name:          "Dia do Consumidor",
		Categories:    []Category{CategoryComercial},
		Tags:          []string{"promo"},
		BaseRelevance: 50,
		SegmentBoosts: map[string]int{"gastronomia": 10},
		PlatformAffinity: map[Platform]int{
			PlatformInstagram: 8,
		},
	}

	got := scorer.ScoreEvent(ev, testClient(), PlatformInstagram, NewSaturationState())

	// 50 base + 10 segment + 8 platform + 25 comercial.
	if got.Score != 93 {
		t.Fatalf("score = %d, want 93", got.Score)
	}
	for _, part := range []string{"base:50", "segment:+10", "platform:+8", "category:+25"} {
		if !strings.Contains(got.Why, part) {
			t.Fatalf("rationale missing %q: %s", part, got.Why)
		}
	}
	if strings.Contains(got.Why, "sat:") || strings.Contains(got.Why, "risk:") {
		t.Fatalf("unexpected penalty in rationale: %s", got.Why)
	}
}

func TestScoreClamping(t *testing.T) {
	scorer := RuleScorer{Rules: DefaultScoring()}
	ev := Event{
		ID:            "e1",
		Name:          "Mega evento",
		Categories:    []Category{CategoryComercial, CategorySazonal},
		BaseRelevance: 100,
		SegmentBoosts: map[string]int{"gastronomia": 40},
	}
	got := scorer.ScoreEvent(ev, testClient(), PlatformInstagram, NewSaturationState())
	if got.Score != 100 {
		t.Fatalf("score should clamp to 100, got %d", got.Score)
	}

	risk := 100
	low := Event{
		ID:            "e2",
		Name:          "Evento arriscado",
		Categories:    []Category{CategoryGeekPop},
		BaseRelevance: 0,
		RiskWeight:    &risk,
	}
	client := testClient()
	client.RiskTolerance = RiskLow
	got = scorer.ScoreEvent(low, client, PlatformInstagram, NewSaturationState())
	if got.Score != 0 {
		t.Fatalf("score should clamp to 0, got %d", got.Score)
	}
}

func TestSaturationPenalizesOnlySharedTags(t *testing.T) {
	scorer := RuleScorer{Rules: DefaultScoring()}
	client := testClient()
	ev := func(id string, tags ...string) Event {
		return Event{ID: id, Name: id, BaseRelevance: 70, Tags: tags}
	}

	sat := NewSaturationState()
	first := scorer.ScoreEvent(ev("a", "pix", "promo"), client, PlatformInstagram, sat)
	sat = sat.Observe([]string{"pix", "promo"})

	// An unrelated event scored later is untouched by saturation.
	unrelated := scorer.ScoreEvent(ev("b", "outro"), client, PlatformInstagram, sat)
	if unrelated.Score != first.Score {
		t.Fatalf("unrelated event penalized: %d vs %d", unrelated.Score, first.Score)
	}
	sat = sat.Observe([]string{"outro"})

	sat = sat.Observe([]string{"promo"})
	// "promo" now observed twice; a shared-tag event pays the 2x penalty.
	shared := scorer.ScoreEvent(ev("c", "promo"), client, PlatformInstagram, sat)
	if want := first.Score - DefaultScoring().Penalties.Saturation2x; shared.Score != want {
		t.Fatalf("shared-tag score = %d, want %d", shared.Score, want)
	}
	if !strings.Contains(shared.Why, "sat:-10") {
		t.Fatalf("rationale missing saturation: %s", shared.Why)
	}
}

func TestSaturationSecondEventNeverBetterOff(t *testing.T) {
	scorer := RuleScorer{Rules: DefaultScoring()}
	client := testClient()
	ev := Event{ID: "a", Name: "a", BaseRelevance: 70, Tags: []string{"pix"}}

	fresh := scorer.ScoreEvent(ev, client, PlatformInstagram, NewSaturationState())

	sat := NewSaturationState()
	for i := 0; i < 4; i++ {
		sat = sat.Observe([]string{"pix"})
	}
	later := scorer.ScoreEvent(ev, client, PlatformInstagram, sat)
	if later.Score > fresh.Score {
		t.Fatalf("later-iterated event better off: %d > %d", later.Score, fresh.Score)
	}
}

func TestComputeTierThresholdsAreConfig(t *testing.T) {
	rules := DefaultScoring()
	if ComputeTier(80, rules) != TierA || ComputeTier(79, rules) != TierB {
		t.Fatalf("default tier_a_min boundary broken")
	}
	if ComputeTier(55, rules) != TierB || ComputeTier(54, rules) != TierC {
		t.Fatalf("default tier_b_min boundary broken")
	}

	rules.TierAMin = 70
	if ComputeTier(70, rules) != TierA {
		t.Fatalf("changing tier_a_min should move exactly the boundary")
	}
	if ComputeTier(54, rules) != TierC {
		t.Fatalf("tier_b_min behavior changed unexpectedly")
	}

	prev := TierC
	for score := 0; score <= 100; score++ {
		tier := ComputeTier(score, rules)
		if tierRank(tier) < tierRank(prev) {
			t.Fatalf("tier not monotone at score %d", score)
		}
		prev = tier
	}
}

func tierRank(tier Tier) int {
	switch tier {
	case TierA:
		return 2
	case TierB:
		return 1
	}
	return 0
}

func TestRiskPenalties(t *testing.T) {
	rules := DefaultScoring()
	scorer := RuleScorer{Rules: rules}

	blocked := Event{
		ID:            "e1",
		Name:          "Aposta do dia",
		BaseRelevance: 70,
		AvoidSegments: []string{"gastronomia"},
	}
	got := scorer.ScoreEvent(blocked, testClient(), PlatformInstagram, NewSaturationState())
	if want := 70 - rules.Penalties.RiskBlock; got.Score != want {
		t.Fatalf("avoid_segments score = %d, want %d", got.Score, want)
	}

	conservative := testClient()
	conservative.ToneProfile = ToneConservative
	geek := Event{
		ID:            "e2",
		Name:          "Meme day",
		BaseRelevance: 70,
		Categories:    []Category{CategoryGeekPop},
	}
	got = scorer.ScoreEvent(geek, conservative, PlatformInstagram, NewSaturationState())
	// -20 geek_pop category (not allowed) and -20 conservative-tone penalty.
	if want := 70 - 20 - rules.Penalties.RiskMedium; got.Score != want {
		t.Fatalf("conservative geek score = %d, want %d", got.Score, want)
	}
}
