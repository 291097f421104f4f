package calendar

import (
	"fmt"
	"math"
	"strings"
)

// ScoringWeights scale each component of the base score.
type ScoringWeights struct {
	Base        float64 `yaml:"base" json:"base"`
	Segment     float64 `yaml:"segment" json:"segment"`
	Local       float64 `yaml:"local" json:"local"`
	Platform    float64 `yaml:"platform" json:"platform"`
	Trend       float64 `yaml:"trend" json:"trend"`
	Seasonality float64 `yaml:"seasonality" json:"seasonality"`
}

// ScoringPenalties are the subtractive rules.
type ScoringPenalties struct {
	Saturation2x int `yaml:"saturation_2x" json:"saturation_2x"`
	Saturation3x int `yaml:"saturation_3x" json:"saturation_3x"`
	Saturation4x int `yaml:"saturation_4x" json:"saturation_4x"`
	RiskBlock    int `yaml:"risk_block" json:"risk_block"`
	RiskHigh     int `yaml:"risk_high" json:"risk_high"`
	RiskMedium   int `yaml:"risk_medium" json:"risk_medium"`
}

// ScoringRules is the replaceable scoring policy table. Tier thresholds and
// penalties are configuration, not code.
type ScoringRules struct {
	ID        string           `yaml:"id" json:"id"`
	Name      string           `yaml:"name" json:"name"`
	TierAMin  int              `yaml:"tier_a_min" json:"tier_a_min"`
	TierBMin  int              `yaml:"tier_b_min" json:"tier_b_min"`
	Weights   ScoringWeights   `yaml:"weights" json:"weights"`
	Penalties ScoringPenalties `yaml:"penalties" json:"penalties"`
}

// DefaultScoring returns the default_v1 policy table.
func DefaultScoring() ScoringRules {
	return ScoringRules{
		ID:       "scoring_default_v1",
		Name:     "default_v1",
		TierAMin: 80,
		TierBMin: 55,
		Weights: ScoringWeights{
			Base:        1.0,
			Segment:     1.0,
			Local:       1.0,
			Platform:    1.0,
			Trend:       1.0,
			Seasonality: 1.0,
		},
		Penalties: ScoringPenalties{
			Saturation2x: 10,
			Saturation3x: 20,
			Saturation4x: 35,
			RiskBlock:    50,
			RiskHigh:     30,
			RiskMedium:   20,
		},
	}
}

// ComputeTier buckets a score using the policy thresholds.
func ComputeTier(score int, rules ScoringRules) Tier {
	if score >= rules.TierAMin {
		return TierA
	}
	if score >= rules.TierBMin {
		return TierB
	}
	return TierC
}

// ClampScore bounds a raw score to the 0-100 contract.
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// SaturationState counts how often each tag has already been scored within
// one pass. It is an explicit accumulator: the caller threads it through the
// scoring loop and calls Observe only after an event has been scored, so an
// event is never penalized for its own tags.
type SaturationState map[string]int

// NewSaturationState returns an empty per-pass accumulator.
func NewSaturationState() SaturationState {
	return make(SaturationState)
}

// Observe records the event's tags and returns the updated state.
func (s SaturationState) Observe(tags []string) SaturationState {
	for _, tag := range tags {
		s[tag]++
	}
	return s
}

// MaxCount returns the highest prior occurrence count among the given tags.
func (s SaturationState) MaxCount(tags []string) int {
	max := 0
	for _, tag := range tags {
		if c := s[tag]; c > max {
			max = c
		}
	}
	return max
}

// BaseScore is the policy output for one event before live boosts.
type BaseScore struct {
	Score int
	Why   string
}

// BaseScorer is the pluggable scoring policy contract. The flow calls it in
// expansion order and folds the saturation state between calls.
type BaseScorer interface {
	ScoreEvent(ev Event, client ClientProfile, platform Platform, sat SaturationState) BaseScore
}

// RuleScorer is the default BaseScorer over a ScoringRules table.
type RuleScorer struct {
	Rules ScoringRules
}

// ScoreEvent computes the static base score and its rationale trace.
func (r RuleScorer) ScoreEvent(ev Event, client ClientProfile, platform Platform, sat SaturationState) BaseScore {
	rules := r.Rules

	base := float64(ev.BaseRelevance) * rules.Weights.Base
	seg := float64(segmentBoost(ev, client)) * rules.Weights.Segment
	plat := float64(platformAffinity(ev, platform)) * rules.Weights.Platform
	cat := float64(categoryBoost(ev, client))
	seas := math.Round(20*float64(client.CalendarProfile.CalendarWeight)/100) * rules.Weights.Seasonality

	satPen := saturationPenalty(ev, sat, rules)
	risk := riskPenalty(ev, client, rules)

	raw := base + seg + plat + cat + seas - float64(satPen) - float64(risk)
	score := ClampScore(int(math.Round(raw)))

	parts := []string{
		fmt.Sprintf("base:%d", ev.BaseRelevance),
		fmt.Sprintf("segment:+%d", int(seg)),
		fmt.Sprintf("platform:%+d", int(plat)),
		fmt.Sprintf("category:+%d", int(cat)),
		fmt.Sprintf("season:+%d", int(seas)),
	}
	if satPen > 0 {
		parts = append(parts, fmt.Sprintf("sat:-%d", satPen))
	}
	if risk > 0 {
		parts = append(parts, fmt.Sprintf("risk:-%d", risk))
	}

	return BaseScore{Score: score, Why: strings.Join(parts, " | ")}
}

func segmentBoost(ev Event, client ClientProfile) int {
	primary := ev.SegmentBoosts[client.SegmentPrimary]
	bestSecondary := 0
	for _, segment := range client.SegmentSecondary {
		if b := ev.SegmentBoosts[segment]; b > bestSecondary {
			bestSecondary = b
		}
	}
	return primary + bestSecondary
}

func platformAffinity(ev Event, platform Platform) int {
	return ev.PlatformAffinity[platform]
}

var gastroTags = map[string]struct{}{
	"pizza": {}, "hamburguer": {}, "chocolate": {}, "cafe": {}, "gastronomia": {}, "doces": {},
}

func categoryBoost(ev Event, client ClientProfile) int {
	boost := 0
	if ev.HasCategory(CategoryComercial) {
		boost += 25
	}
	if ev.HasCategory(CategorySazonal) {
		boost += 20
	}
	if ev.HasCategory(CategoryCultural) {
		for _, tag := range ev.Tags {
			if _, ok := gastroTags[tag]; ok {
				boost += 15
				break
			}
		}
	}
	if ev.HasCategory(CategoryCausaSocial) && !client.CalendarProfile.RestrictSensitiveCauses {
		boost += 5
	}
	if ev.HasCategory(CategoryProfissao) {
		boost += 5
	}
	if ev.HasCategory(CategoryGeekPop) {
		if client.CalendarProfile.AllowGeekPop {
			boost += 8
		} else {
			boost -= 20
		}
	}
	return boost
}

func saturationPenalty(ev Event, sat SaturationState, rules ScoringRules) int {
	switch max := sat.MaxCount(ev.Tags); {
	case max >= 4:
		return rules.Penalties.Saturation4x
	case max == 3:
		return rules.Penalties.Saturation3x
	case max == 2:
		return rules.Penalties.Saturation2x
	}
	return 0
}

func riskPenalty(ev Event, client ClientProfile, rules ScoringRules) int {
	for _, segment := range ev.AvoidSegments {
		if segment == client.SegmentPrimary {
			return rules.Penalties.RiskBlock
		}
	}

	penalty := 0
	if client.ToneProfile == ToneConservative {
		if ev.HasCategory(CategoryGeekPop) {
			penalty += rules.Penalties.RiskMedium
		}
		if ev.HasCategory(CategoryCausaSocial) && client.CalendarProfile.RestrictSensitiveCauses {
			penalty += rules.Penalties.RiskHigh
		}
	}
	if client.RiskTolerance == RiskLow && ev.HasCategory(CategoryGeekPop) {
		penalty += 10
	}

	if ev.RiskWeight != nil {
		weight := ClampScore(*ev.RiskWeight)
		base := float64(weight) / 100 * float64(rules.Penalties.RiskHigh)
		factor := 0.3
		switch client.RiskTolerance {
		case RiskLow:
			factor = 1
		case RiskMedium:
			factor = 0.6
		}
		penalty += int(math.Round(base * factor))
	}

	return penalty
}
