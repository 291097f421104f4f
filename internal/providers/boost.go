package providers

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// RuleBoostEngine is the default live boost engine. It derives additive
// boosts from trend signal matches and historical performance matches
// against the event's tags and the platform's formats. Results are computed
// fresh per event and are fully deterministic for fixed inputs.
type RuleBoostEngine struct {
	name string
	// PerformanceFloor is the minimum historical score that earns a boost.
	PerformanceFloor float64
	// MaxTrendBoost caps the summed trend contribution per event.
	MaxTrendBoost int
}

// NewRuleBoostEngine returns an engine with the default thresholds.
func NewRuleBoostEngine(name string) *RuleBoostEngine {
	if name == "" {
		name = "rule_boost_engine"
	}
	return &RuleBoostEngine{name: name, PerformanceFloor: 70, MaxTrendBoost: 30}
}

// Name returns the engine name.
func (e *RuleBoostEngine) Name() string { return e.name }

// ComputeBoosts returns the boosts that apply to the event.
func (e *RuleBoostEngine) ComputeBoosts(ctx context.Context, req BoostRequest) ([]Boost, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var boosts []Boost
	boosts = append(boosts, e.trendBoosts(req)...)
	boosts = append(boosts, e.performanceBoosts(req)...)
	return boosts, nil
}

func (e *RuleBoostEngine) trendBoosts(req BoostRequest) []Boost {
	if req.TrendAggregate == nil || !req.Event.IsTrendSensitive {
		return nil
	}
	if !req.Client.TrendProfile.EnableTrends {
		return nil
	}

	eventTags := make(map[string]struct{}, len(req.Event.Tags))
	for _, tag := range req.Event.Tags {
		eventTags[tag] = struct{}{}
	}

	weight := float64(req.Client.TrendProfile.TrendWeight) / 100
	total := 0
	var boosts []Boost
	for _, signal := range req.TrendAggregate.Signals {
		matched := matchedTags(signal, eventTags)
		if len(matched) == 0 {
			continue
		}

		momentum := 5.0
		switch signal.Momentum {
		case "high":
			momentum = 18
		case "medium":
			momentum = 10
		}
		confidence := signal.Confidence
		if confidence <= 0 {
			confidence = 0.5
		}

		value := int(math.Round(momentum * confidence * weight))
		if value == 0 {
			continue
		}
		if total+value > e.MaxTrendBoost {
			value = e.MaxTrendBoost - total
		}
		if value <= 0 {
			break
		}
		total += value

		boosts = append(boosts, Boost{
			Kind:         "trend",
			Boost:        value,
			Reason:       fmt.Sprintf("tendencia %q com tracao (%s)", signal.Topic, signal.Momentum),
			TagsAffected: matched,
			Confidence:   confidence,
		})
	}
	return boosts
}

func matchedTags(signal TrendSignal, eventTags map[string]struct{}) []string {
	var matched []string
	if _, ok := eventTags[strings.ToLower(signal.Topic)]; ok {
		matched = append(matched, strings.ToLower(signal.Topic))
	}
	for _, tag := range signal.RelatedTags {
		tag = strings.ToLower(tag)
		if _, ok := eventTags[tag]; ok {
			matched = append(matched, tag)
		}
	}
	return matched
}

func (e *RuleBoostEngine) performanceBoosts(req BoostRequest) []Boost {
	if req.Performance == nil {
		return nil
	}

	var boosts []Boost
	for _, entry := range req.Performance.ByFormat {
		if entry.Score < e.PerformanceFloor {
			continue
		}
		value := int(math.Round((entry.Score - e.PerformanceFloor) / 5))
		if value <= 0 {
			continue
		}
		boosts = append(boosts, Boost{
			Kind:            "performance",
			Boost:           value,
			Reason:          fmt.Sprintf("formato %s performou %.0f no historico", entry.Format, entry.Score),
			FormatsAffected: []string{entry.Format},
		})
	}

	eventTags := make(map[string]struct{}, len(req.Event.Tags))
	for _, tag := range req.Event.Tags {
		eventTags[tag] = struct{}{}
	}
	for _, entry := range req.Performance.ByTag {
		if _, ok := eventTags[strings.ToLower(entry.Tag)]; !ok {
			continue
		}
		if entry.Score < e.PerformanceFloor {
			continue
		}
		value := int(math.Round((entry.Score - e.PerformanceFloor) / 5))
		if value <= 0 {
			continue
		}
		boosts = append(boosts, Boost{
			Kind:         "performance",
			Boost:        value,
			Reason:       fmt.Sprintf("tema %q performou %.0f no historico", entry.Tag, entry.Score),
			TagsAffected: []string{strings.ToLower(entry.Tag)},
		})
	}
	return boosts
}
