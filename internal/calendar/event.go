package calendar

// DateType describes how an event resolves to concrete dates.
type DateType string

const (
	DateFixed   DateType = "fixed"
	DateMovable DateType = "movable_rule"
	DatePeriod  DateType = "period"
)

// Scope is the locality reach of an event.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeBR     Scope = "BR"
	ScopeUF     Scope = "UF"
	ScopeCity   Scope = "CITY"
)

// Category buckets an event by editorial nature.
type Category string

const (
	CategoryOficial     Category = "oficial"
	CategoryComercial   Category = "comercial"
	CategoryCultural    Category = "cultural"
	CategoryCausaSocial Category = "causa_social"
	CategoryProfissao   Category = "profissao"
	CategorySazonal     Category = "sazonalidade"
	CategoryEsportivo   Category = "esportivo"
	CategoryGeekPop     Category = "geek_pop"
	CategorySetorial    Category = "setorial"
	CategoryLocal       Category = "local"
)

// Platform identifies a social platform or ad channel.
type Platform string

const (
	PlatformInstagram Platform = "Instagram"
	PlatformTikTok    Platform = "TikTok"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformYouTube   Platform = "YouTube"
	PlatformX         Platform = "X"
	PlatformPinterest Platform = "Pinterest"
	PlatformMetaAds   Platform = "MetaAds"
	PlatformGoogleAds Platform = "GoogleAds"
	PlatformEmail     Platform = "EmailMarketing"
)

// Objective is the marketing goal a post serves.
type Objective string

const (
	ObjectiveAwareness  Objective = "awareness"
	ObjectiveEngagement Objective = "engagement"
	ObjectiveConversion Objective = "conversion"
	ObjectiveLeads      Objective = "leads"
)

// Tier is the coarse relevance bucket derived from a score.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// Event is a calendar event definition owned by the calendar seed or a
// local-events provider. The engine reads it and expands it per month; it
// never mutates or persists it.
type Event struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`

	DateType DateType `json:"date_type"`
	// fixed: a "YYYY-MM-DD" date, possibly with a literal "YYYY" year
	// placeholder; Recurrence "monthly" repeats the day every month.
	Date       ISODate `json:"date,omitempty"`
	Recurrence string  `json:"recurrence,omitempty"`
	// movable_rule
	Rule string `json:"rule,omitempty"`
	// period
	StartDate ISODate `json:"start_date,omitempty"`
	EndDate   ISODate `json:"end_date,omitempty"`

	Scope   Scope  `json:"scope"`
	Country string `json:"country,omitempty"`
	UF      string `json:"uf,omitempty"`
	City    string `json:"city,omitempty"`

	Categories []Category `json:"categories"`
	Tags       []string   `json:"tags"`

	BaseRelevance int `json:"base_relevance"`
	// RiskWeight 0-100 marks how sensitive the event is; nil means none.
	RiskWeight *int `json:"risk_weight,omitempty"`

	SegmentBoosts    map[string]int   `json:"segment_boosts,omitempty"`
	PlatformAffinity map[Platform]int `json:"platform_affinity,omitempty"`
	AvoidSegments    []string         `json:"avoid_segments,omitempty"`

	IsTrendSensitive bool   `json:"is_trend_sensitive,omitempty"`
	Source           string `json:"source,omitempty"`
}

// HasCategory reports whether the event carries the given category.
func (e Event) HasCategory(c Category) bool {
	for _, cat := range e.Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// EventHit is an event resolved to the concrete dates on which it occurs
// inside one target month.
type EventHit struct {
	Event    Event
	HitDates []ISODate
}
