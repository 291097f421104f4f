package flow

import (
	"errors"
	"fmt"

	"contentcal/internal/calendar"
	"contentcal/internal/providers"
)

// TrendOptions scope the trend aggregation for one request.
type TrendOptions struct {
	Window  providers.TimeWindow `json:"window,omitempty"`
	Sources []string             `json:"sources,omitempty"`
	Topics  []string             `json:"topics,omitempty"`
}

// PerformanceOptions scope the performance lookup for one request.
type PerformanceOptions struct {
	Window providers.TimeWindow `json:"window,omitempty"`
}

// RequestToggles lets callers switch signal families on and off. Nil means
// "use the default".
type RequestToggles struct {
	UseCalendarTotal *bool `json:"use_calendar_total,omitempty"`
	UseLocalEvents   *bool `json:"use_local_events,omitempty"`
	UseTrends        *bool `json:"use_trends,omitempty"`
	UsePerformance   *bool `json:"use_performance,omitempty"`
	UseKnowledgeBase *bool `json:"use_knowledge_base,omitempty"`
}

// Toggles is the resolved, defaulted view reported back in the response.
type Toggles struct {
	UseCalendarTotal bool `json:"use_calendar_total"`
	UseLocalEvents   bool `json:"use_local_events"`
	UseTrends        bool `json:"use_trends"`
	UsePerformance   bool `json:"use_performance"`
	UseKnowledgeBase bool `json:"use_knowledge_base"`
}

func resolveToggles(req *RequestToggles) Toggles {
	resolved := Toggles{
		UseCalendarTotal: true,
		UseLocalEvents:   true,
		UseTrends:        false,
		UsePerformance:   false,
		UseKnowledgeBase: true,
	}
	if req == nil {
		return resolved
	}
	if req.UseCalendarTotal != nil {
		resolved.UseCalendarTotal = *req.UseCalendarTotal
	}
	if req.UseLocalEvents != nil {
		resolved.UseLocalEvents = *req.UseLocalEvents
	}
	if req.UseTrends != nil {
		resolved.UseTrends = *req.UseTrends
	}
	if req.UsePerformance != nil {
		resolved.UsePerformance = *req.UsePerformance
	}
	if req.UseKnowledgeBase != nil {
		resolved.UseKnowledgeBase = *req.UseKnowledgeBase
	}
	return resolved
}

// MonthlyFlowRequest is everything one flow execution needs.
type MonthlyFlowRequest struct {
	Month        string                 `json:"month"`
	Platform     calendar.Platform      `json:"platform"`
	Objective    calendar.Objective     `json:"objective,omitempty"`
	PostsPerWeek int                    `json:"posts_per_week,omitempty"`
	Client       calendar.ClientProfile `json:"client"`
	Toggles      *RequestToggles        `json:"toggles,omitempty"`
	Trend        TrendOptions           `json:"trend,omitempty"`
	Performance  PerformanceOptions     `json:"performance,omitempty"`
	IncludeDebug bool                   `json:"-"`
}

// Validate enforces the preconditions that must fail fast.
func (r MonthlyFlowRequest) Validate() error {
	if _, _, err := calendar.ParseYearMonth(calendar.YearMonth(r.Month)); err != nil {
		return fmt.Errorf("flow: %w", err)
	}
	if r.Platform == "" {
		return errors.New("flow: platform is required")
	}
	if _, err := calendar.GetPlatformProfile(r.Platform); err != nil {
		return fmt.Errorf("flow: %w", err)
	}
	if r.Client.ID == "" {
		return errors.New("flow: client id is required")
	}
	return nil
}
