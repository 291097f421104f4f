package flow

import (
	"contentcal/internal/calendar"
	"contentcal/internal/copywriting"
	"contentcal/internal/library"
	"contentcal/internal/providers"
)

// ScoredEvent is one event after scoring and boosting. Transient: built
// during one run, summarized into the response, then discarded.
type ScoredEvent struct {
	Event  calendar.Event    `json:"-"`
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Date   calendar.ISODate  `json:"date,omitempty"`
	Score  int               `json:"score"`
	Tier   calendar.Tier     `json:"tier"`
	Why    string            `json:"why"`
	Boosts []providers.Boost `json:"boosts,omitempty"`
}

// Post is one assembled calendar slot.
type Post struct {
	ID             string                    `json:"id"`
	Date           calendar.ISODate          `json:"date"`
	Platform       calendar.Platform         `json:"platform"`
	Format         string                    `json:"format"`
	Objective      calendar.Objective        `json:"objective,omitempty"`
	Theme          string                    `json:"theme"`
	EventIDs       []string                  `json:"event_ids,omitempty"`
	Score          int                       `json:"score"`
	Tier           calendar.Tier             `json:"tier"`
	WhyThisExists  string                    `json:"why_this_exists"`
	Copy           copywriting.CopyPack      `json:"copy"`
	Alternatives   []copywriting.Alternative `json:"alternatives,omitempty"`
	LibrarySources []library.SourceRef       `json:"library_sources,omitempty"`
}

// Used counts the signals that fed one run.
type Used struct {
	BaseEvents           int `json:"base_events"`
	LocalEvents          int `json:"local_events"`
	TotalCandidateEvents int `json:"total_candidate_events"`
	TrendSignals         int `json:"trend_signals"`
}

// Debug carries raw provider payloads for inspection tooling. Omitted
// unless the caller asks for it.
type Debug struct {
	TrendAggregate *providers.TrendAggregate       `json:"trend_aggregate,omitempty"`
	Performance    *providers.PerformanceBreakdown `json:"performance,omitempty"`
	Knowledge      *providers.ClientKnowledge      `json:"knowledge,omitempty"`
}

// MonthlyFlowResponse is the full flow result.
type MonthlyFlowResponse struct {
	Month     string             `json:"month"`
	Platform  calendar.Platform  `json:"platform"`
	Objective calendar.Objective `json:"objective,omitempty"`
	Locality  providers.Locality `json:"locality"`
	Toggles   Toggles            `json:"toggles"`
	Used      Used               `json:"used"`
	TopEvents []ScoredEvent      `json:"top_events"`
	Posts     []Post             `json:"posts"`
	Debug     *Debug             `json:"debug,omitempty"`
}
