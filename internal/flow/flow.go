// Package flow runs the monthly content-calendar pipeline: expand events,
// score them with saturation and live boosts, spread dates, pick formats,
// and fill each slot with validated copy.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"contentcal/internal/calendar"
	"contentcal/internal/copywriting"
	"contentcal/internal/metrics"
	"contentcal/internal/providers"
)

const (
	defaultTrendWindow       providers.TimeWindow = "7d"
	defaultPerformanceWindow providers.TimeWindow = "30d"
	editorialWhy                                  = "Sem eventos relevantes; editorial padrao."
	maxTrendTopics                                = 30
	tagScanLimit                                  = 40
	topEventsLimit                                = 10
)

// Flow holds the injected collaborators for one pipeline instance. Every
// provider field except Scorer and Copy may be nil; nil means the signal
// family is unavailable and the pipeline degrades.
type Flow struct {
	BaseEvents  []calendar.Event
	LocalEvents providers.LocalEventsProvider
	Trends      providers.TrendAggregator
	Performance providers.PerformanceProvider
	Knowledge   providers.KnowledgeBaseProvider
	Boosts      providers.LiveBoostEngine

	Scorer  calendar.BaseScorer
	Scoring calendar.ScoringRules
	Copy    *copywriting.Orchestrator

	Metrics *metrics.Metrics
}

// NewFlow wires a pipeline with the required collaborators in place.
func NewFlow(base []calendar.Event, scorer calendar.BaseScorer, rules calendar.ScoringRules, orchestrator *copywriting.Orchestrator) (*Flow, error) {
	if scorer == nil {
		return nil, errors.New("flow: requires a scorer")
	}
	if orchestrator == nil {
		orchestrator = &copywriting.Orchestrator{}
	}
	return &Flow{BaseEvents: base, Scorer: scorer, Scoring: rules, Copy: orchestrator}, nil
}

// Run executes the pipeline once. Only precondition violations surface as
// errors; collaborator failures degrade to "no signal".
func (f *Flow) Run(ctx context.Context, req MonthlyFlowRequest) (*MonthlyFlowResponse, error) {
	started := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ym := calendar.YearMonth(req.Month)
	year, _, err := calendar.ParseYearMonth(ym)
	if err != nil {
		return nil, fmt.Errorf("flow: %w", err)
	}

	toggles := resolveToggles(req.Toggles)
	locality := resolveLocality(req.Client)

	var base []calendar.Event
	if toggles.UseCalendarTotal {
		base = f.BaseEvents
	}
	local := f.fetchLocalEvents(ctx, toggles, year, locality, req.Client.TenantID)

	merged := make([]calendar.Event, 0, len(base)+len(local))
	merged = append(merged, base...)
	merged = append(merged, local...)

	hits, err := calendar.ExpandEventsForMonth(merged, ym)
	if err != nil {
		return nil, fmt.Errorf("flow: %w", err)
	}
	candidates := hits[:0:0]
	for _, hit := range hits {
		if calendar.MatchesLocality(hit.Event, req.Client) {
			candidates = append(candidates, hit)
		}
	}

	knowledge := f.fetchKnowledge(ctx, toggles, req.Client)
	trends := f.fetchTrends(ctx, toggles, req, locality, candidates)
	performance := f.fetchPerformance(ctx, toggles, req)

	scored := f.scoreCandidates(ctx, req, candidates, trends, performance)

	sorted := make([]ScoredEvent, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	posts, err := f.assemblePosts(ctx, req, ym, sorted, knowledge)
	if err != nil {
		return nil, err
	}

	resp := &MonthlyFlowResponse{
		Month:     req.Month,
		Platform:  req.Platform,
		Objective: req.Objective,
		Locality:  locality,
		Toggles:   toggles,
		Used: Used{
			BaseEvents:           len(base),
			LocalEvents:          len(local),
			TotalCandidateEvents: len(candidates),
			TrendSignals:         trendSignalCount(trends),
		},
		TopEvents: topEvents(sorted),
		Posts:     posts,
	}
	if req.IncludeDebug {
		resp.Debug = &Debug{TrendAggregate: trends, Performance: performance, Knowledge: knowledge}
	}

	f.Metrics.ObserveRun(time.Since(started).Seconds(), len(posts))
	return resp, nil
}

func resolveLocality(client calendar.ClientProfile) providers.Locality {
	country := client.Country
	if country == "" {
		country = "BR"
	}
	return providers.Locality{Country: country, UF: client.UF, City: client.City}
}

func (f *Flow) fetchLocalEvents(ctx context.Context, toggles Toggles, year int, loc providers.Locality, tenantID string) []calendar.Event {
	if !toggles.UseLocalEvents || f.LocalEvents == nil {
		return nil
	}
	outcome := func() providers.Outcome[[]calendar.Event] {
		events, err := f.LocalEvents.GetLocalEvents(ctx, providers.LocalEventsRequest{
			Year:     year,
			Locality: loc,
			TenantID: tenantID,
		})
		if err != nil {
			return providers.Failed[[]calendar.Event](err)
		}
		return providers.Ok(events)
	}()
	if !outcome.OK() {
		f.degrade(f.LocalEvents.Name(), outcome.Err())
	}
	return outcome.Or(nil)
}

func (f *Flow) fetchKnowledge(ctx context.Context, toggles Toggles, client calendar.ClientProfile) *providers.ClientKnowledge {
	if !toggles.UseKnowledgeBase || f.Knowledge == nil {
		return nil
	}
	knowledge, err := f.Knowledge.GetClientKnowledge(ctx, providers.KnowledgeRequest{
		ClientID: client.ID,
		TenantID: client.TenantID,
	})
	if err != nil {
		f.degrade(f.Knowledge.Name(), err)
		return nil
	}
	return knowledge
}

func (f *Flow) fetchTrends(ctx context.Context, toggles Toggles, req MonthlyFlowRequest, loc providers.Locality, hits []calendar.EventHit) *providers.TrendAggregate {
	if !toggles.UseTrends || !req.Client.TrendProfile.EnableTrends || f.Trends == nil {
		return nil
	}
	window := req.Trend.Window
	if window == "" {
		window = defaultTrendWindow
	}
	sources := req.Trend.Sources
	if len(sources) == 0 {
		sources = req.Client.TrendProfile.Sources
	}
	aggregate, err := f.Trends.Aggregate(ctx, providers.TrendRequest{
		Topics:   trendTopics(req.Trend.Topics, hits),
		Locality: loc,
		Window:   window,
		Sources:  sources,
	})
	if err != nil {
		f.degrade(f.Trends.Name(), err)
		return nil
	}
	return aggregate
}

func (f *Flow) fetchPerformance(ctx context.Context, toggles Toggles, req MonthlyFlowRequest) *providers.PerformanceBreakdown {
	if !toggles.UsePerformance || f.Performance == nil {
		return nil
	}
	window := req.Performance.Window
	if window == "" {
		window = defaultPerformanceWindow
	}
	breakdown, err := f.Performance.GetPerformance(ctx, providers.PerformanceRequest{
		Client:   req.Client,
		Platform: req.Platform,
		Window:   window,
	})
	if err != nil {
		f.degrade(f.Performance.Name(), err)
		return nil
	}
	return breakdown
}

// trendTopics merges the caller's topics with tags seen on the expanded
// events, lowercased and deduplicated.
func trendTopics(requested []string, hits []calendar.EventHit) []string {
	seen := make(map[string]struct{})
	topics := make([]string, 0, maxTrendTopics)
	add := func(topic string) {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic == "" || len(topics) >= maxTrendTopics {
			return
		}
		if _, ok := seen[topic]; ok {
			return
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}

	for _, topic := range requested {
		add(topic)
	}
	scanned := 0
	for _, hit := range hits {
		for _, tag := range hit.Event.Tags {
			if scanned >= tagScanLimit {
				return topics
			}
			scanned++
			add(tag)
		}
	}
	return topics
}

// scoreCandidates walks the candidates in expansion order, folding the
// saturation state forward and applying live boosts on top of each base
// score. The state is observed only after the event's own score is fixed.
func (f *Flow) scoreCandidates(ctx context.Context, req MonthlyFlowRequest, hits []calendar.EventHit, trends *providers.TrendAggregate, performance *providers.PerformanceBreakdown) []ScoredEvent {
	sat := calendar.NewSaturationState()
	scored := make([]ScoredEvent, 0, len(hits))
	for _, hit := range hits {
		base := f.Scorer.ScoreEvent(hit.Event, req.Client, req.Platform, sat)

		boosts := f.computeBoosts(ctx, req, hit.Event, trends, performance)
		boostSum := 0
		for _, b := range boosts {
			boostSum += b.Boost
		}

		why := base.Why
		if boostSum != 0 {
			why = fmt.Sprintf("%s | live:%+d", why, boostSum)
		}
		score := calendar.ClampScore(base.Score + boostSum)

		var firstDate calendar.ISODate
		if len(hit.HitDates) > 0 {
			firstDate = hit.HitDates[0]
		}
		scored = append(scored, ScoredEvent{
			Event:  hit.Event,
			ID:     hit.Event.ID,
			Name:   hit.Event.Name,
			Date:   firstDate,
			Score:  score,
			Tier:   calendar.ComputeTier(score, f.Scoring),
			Why:    why,
			Boosts: boosts,
		})

		sat = sat.Observe(hit.Event.Tags)
	}
	return scored
}

func (f *Flow) computeBoosts(ctx context.Context, req MonthlyFlowRequest, ev calendar.Event, trends *providers.TrendAggregate, performance *providers.PerformanceBreakdown) []providers.Boost {
	if f.Boosts == nil {
		return nil
	}
	boosts, err := f.Boosts.ComputeBoosts(ctx, providers.BoostRequest{
		Client:         req.Client,
		Platform:       req.Platform,
		Event:          ev,
		TrendAggregate: trends,
		Performance:    performance,
	})
	if err != nil {
		f.degrade(f.Boosts.Name(), err)
		return nil
	}
	return boosts
}

func (f *Flow) assemblePosts(ctx context.Context, req MonthlyFlowRequest, ym calendar.YearMonth, sorted []ScoredEvent, knowledge *providers.ClientKnowledge) ([]Post, error) {
	count := calendar.EstimatePostCount(req.PostsPerWeek)
	dates, err := calendar.SpreadDates(ym, count)
	if err != nil {
		return nil, fmt.Errorf("flow: %w", err)
	}
	profile, err := calendar.GetPlatformProfile(req.Platform)
	if err != nil {
		return nil, fmt.Errorf("flow: %w", err)
	}
	pool := calendar.ChooseFormatMix(profile, req.Client)

	posts := make([]Post, 0, count)
	for i := 0; i < count; i++ {
		var chosen *ScoredEvent
		if len(sorted) > 0 {
			chosen = &sorted[i%len(sorted)]
		}

		format := calendar.PickFormat(pool, i)
		if boosted := boostedFormats(chosen, profile); len(boosted) > 0 {
			format = boosted[i%len(boosted)]
		}

		var event *calendar.Event
		eventScore := 0
		if chosen != nil {
			event = &chosen.Event
			eventScore = chosen.Score
		}
		theme := copywriting.PickTheme(event, req.Platform)

		slot := f.Copy.FillSlot(ctx, copywriting.SlotRequest{
			Client:     req.Client,
			Knowledge:  knowledge,
			Platform:   req.Platform,
			Format:     format,
			Objective:  req.Objective,
			Theme:      theme,
			Event:      event,
			EventScore: eventScore,
		})

		post := Post{
			ID:             fmt.Sprintf("post_%s_%s_%d", req.Month, req.Platform, i),
			Date:           dates[i],
			Platform:       req.Platform,
			Format:         format,
			Objective:      req.Objective,
			Theme:          theme,
			Score:          slot.CopyScore,
			Tier:           calendar.TierB,
			WhyThisExists:  editorialWhy,
			Copy:           slot.Copy,
			Alternatives:   slot.Alternatives,
			LibrarySources: slot.LibrarySources,
		}
		if chosen != nil {
			post.EventIDs = []string{chosen.ID}
			post.Tier = chosen.Tier
			post.WhyThisExists = chosen.Why
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// boostedFormats returns the platform-supported formats a boost singled
// out; these override the weighted pool pick.
func boostedFormats(chosen *ScoredEvent, profile calendar.PlatformProfile) []string {
	if chosen == nil {
		return nil
	}
	var formats []string
	seen := make(map[string]struct{})
	for _, boost := range chosen.Boosts {
		for _, format := range boost.FormatsAffected {
			if !profile.Supports(format) {
				continue
			}
			if _, ok := seen[format]; ok {
				continue
			}
			seen[format] = struct{}{}
			formats = append(formats, format)
		}
	}
	return formats
}

func topEvents(sorted []ScoredEvent) []ScoredEvent {
	if len(sorted) <= topEventsLimit {
		return sorted
	}
	return sorted[:topEventsLimit]
}

func trendSignalCount(trends *providers.TrendAggregate) int {
	if trends == nil {
		return 0
	}
	return len(trends.Signals)
}

func (f *Flow) degrade(provider string, err error) {
	log.Printf("flow: provider %s degraded: %v", provider, err)
	f.Metrics.ObserveProviderFailure(provider)
}
