package providers

import (
	"context"

	"contentcal/internal/calendar"
)

// Locality is the client's resolved place, constant for one request.
type Locality struct {
	Country string `json:"country"`
	UF      string `json:"uf,omitempty"`
	City    string `json:"city,omitempty"`
}

// TimeWindow is a lookback window such as "7d" or "30d".
type TimeWindow string

// TrendSignal is one observed trend data point.
type TrendSignal struct {
	Source      string     `json:"source,omitempty"`
	Topic       string     `json:"topic,omitempty"`
	Score       float64    `json:"score,omitempty"`
	Confidence  float64    `json:"confidence,omitempty"`
	Momentum    string     `json:"momentum,omitempty"`
	RelatedTags []string   `json:"related_tags,omitempty"`
	Window      TimeWindow `json:"window,omitempty"`
	ObservedAt  string     `json:"observed_at,omitempty"`
}

// TrendAggregate is the merged trend picture for one request.
type TrendAggregate struct {
	Signals          []TrendSignal `json:"signals"`
	NormalizedTopics []TrendSignal `json:"normalized_topics,omitempty"`
	ObservedAt       string        `json:"observed_at,omitempty"`
	Sources          []string      `json:"sources,omitempty"`
}

// PerformanceByFormat is historical performance for one content format.
type PerformanceByFormat struct {
	Format string   `json:"format"`
	Score  float64  `json:"score"`
	Notes  []string `json:"notes,omitempty"`
}

// PerformanceByTag is historical performance for one theme tag.
type PerformanceByTag struct {
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
}

// PerformanceBreakdown aggregates a client's historical results on a platform.
type PerformanceBreakdown struct {
	Platform   calendar.Platform     `json:"platform,omitempty"`
	Window     TimeWindow            `json:"window,omitempty"`
	ByFormat   []PerformanceByFormat `json:"by_format,omitempty"`
	ByTag      []PerformanceByTag    `json:"by_tag,omitempty"`
	ObservedAt string                `json:"observed_at,omitempty"`
}

// ClientKnowledge is the curated brand repertoire for a client.
type ClientKnowledge struct {
	ToneDescription string   `json:"tone_description,omitempty"`
	ForbiddenClaims []string `json:"forbidden_claims,omitempty"`
	MustMentions    []string `json:"must_mentions,omitempty"`
	ApprovedTerms   []string `json:"approved_terms,omitempty"`
	Hashtags        []string `json:"hashtags,omitempty"`
	Audience        string   `json:"audience,omitempty"`
	BrandPromise    string   `json:"brand_promise,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// Boost is a signed score adjustment with a stated cause. Produced fresh per
// event; never cached across events.
type Boost struct {
	Kind            string   `json:"kind"`
	Boost           int      `json:"boost"`
	Reason          string   `json:"reason"`
	TagsAffected    []string `json:"tags_affected,omitempty"`
	FormatsAffected []string `json:"formats_affected,omitempty"`
	Confidence      float64  `json:"confidence,omitempty"`
}

// LocalEventsRequest scopes a local-events lookup.
type LocalEventsRequest struct {
	Year     int
	Locality Locality
	TenantID string
}

// TrendRequest scopes a trend aggregation.
type TrendRequest struct {
	Topics   []string
	Locality Locality
	Window   TimeWindow
	Sources  []string
}

// PerformanceRequest scopes a performance lookup.
type PerformanceRequest struct {
	Client   calendar.ClientProfile
	Platform calendar.Platform
	Window   TimeWindow
}

// KnowledgeRequest scopes a knowledge-base lookup.
type KnowledgeRequest struct {
	ClientID string
	TenantID string
}

// BoostRequest carries everything the live boost engine may consult.
type BoostRequest struct {
	Client         calendar.ClientProfile
	Platform       calendar.Platform
	Event          calendar.Event
	TrendAggregate *TrendAggregate
	Performance    *PerformanceBreakdown
}

// LocalEventsProvider supplies location-scoped events for a year.
type LocalEventsProvider interface {
	Name() string
	GetLocalEvents(ctx context.Context, req LocalEventsRequest) ([]calendar.Event, error)
}

// TrendAggregator merges trend signals for a set of topics.
type TrendAggregator interface {
	Name() string
	Aggregate(ctx context.Context, req TrendRequest) (*TrendAggregate, error)
}

// PerformanceProvider supplies historical performance breakdowns.
type PerformanceProvider interface {
	Name() string
	GetPerformance(ctx context.Context, req PerformanceRequest) (*PerformanceBreakdown, error)
}

// KnowledgeBaseProvider supplies the curated client repertoire. A nil
// result with nil error means the client has no knowledge record.
type KnowledgeBaseProvider interface {
	Name() string
	GetClientKnowledge(ctx context.Context, req KnowledgeRequest) (*ClientKnowledge, error)
}

// LiveBoostEngine computes additive and subtractive boosts for one event.
type LiveBoostEngine interface {
	Name() string
	ComputeBoosts(ctx context.Context, req BoostRequest) ([]Boost, error)
}
