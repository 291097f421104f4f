package calendar

// ToneProfile is how conservative a client wants its voice to be.
type ToneProfile string

const (
	ToneConservative ToneProfile = "conservative"
	ToneBalanced     ToneProfile = "balanced"
	ToneBold         ToneProfile = "bold"
)

// RiskTolerance is how much edgy content a client accepts.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// CalendarProfile controls which parts of the seed calendar a client uses.
type CalendarProfile struct {
	EnableCalendarTotal        bool `json:"enable_calendar_total"`
	CalendarWeight             int  `json:"calendar_weight"` // 0-100
	RetailMode                 bool `json:"retail_mode"`
	AllowCulturalOpportunities bool `json:"allow_cultural_opportunities"`
	AllowGeekPop               bool `json:"allow_geek_pop"`
	AllowProfessionDays        bool `json:"allow_profession_days"`
	RestrictSensitiveCauses    bool `json:"restrict_sensitive_causes"`
}

// TrendProfile controls trend signal consumption for a client.
type TrendProfile struct {
	EnableTrends bool     `json:"enable_trends"`
	TrendWeight  int      `json:"trend_weight"` // 0-100
	Sources      []string `json:"sources,omitempty"`
}

// PlatformPreference pins or blocks formats for one platform.
type PlatformPreference struct {
	PreferredFormats []string `json:"preferredFormats,omitempty"`
	BlockedFormats   []string `json:"blockedFormats,omitempty"`
}

// ClientProfile is the full client record the engine scores against.
type ClientProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TenantID string `json:"tenant_id,omitempty"`

	Country string `json:"country"`
	UF      string `json:"uf,omitempty"`
	City    string `json:"city,omitempty"`

	SegmentPrimary   string   `json:"segment_primary"`
	SegmentSecondary []string `json:"segment_secondary,omitempty"`

	ToneProfile   ToneProfile   `json:"tone_profile"`
	RiskTolerance RiskTolerance `json:"risk_tolerance"`

	Keywords []string `json:"keywords,omitempty"`
	Pillars  []string `json:"pillars,omitempty"`

	CalendarProfile CalendarProfile `json:"calendar_profile"`
	TrendProfile    TrendProfile    `json:"trend_profile"`

	PlatformPreferences map[Platform]PlatformPreference `json:"platform_preferences,omitempty"`
}
