package providers

import (
	"context"
	"time"

	"contentcal/internal/calendar"
)

// StaticPerformanceProvider serves a fixed historical breakdown per
// platform. It stands in for a reporting integration; the engine only sees
// the breakdown shape.
type StaticPerformanceProvider struct {
	name     string
	byFormat map[calendar.Platform][]PerformanceByFormat
	byTag    map[calendar.Platform][]PerformanceByTag
}

// NewStaticPerformanceProvider returns a provider with a representative
// breakdown table.
func NewStaticPerformanceProvider(name string) *StaticPerformanceProvider {
	if name == "" {
		name = "performance_static"
	}
	return &StaticPerformanceProvider{
		name: name,
		byFormat: map[calendar.Platform][]PerformanceByFormat{
			calendar.PlatformInstagram: {
				{Format: "Reels", Score: 82, Notes: []string{"alcance acima da media"}},
				{Format: "Carrossel", Score: 74},
				{Format: "Feed", Score: 58},
				{Format: "Stories", Score: 51},
			},
			calendar.PlatformTikTok: {
				{Format: "Video", Score: 79},
				{Format: "Carousel", Score: 55},
			},
			calendar.PlatformLinkedIn: {
				{Format: "Documento", Score: 77},
				{Format: "Texto", Score: 69},
			},
		},
		byTag: map[calendar.Platform][]PerformanceByTag{
			calendar.PlatformInstagram: {
				{Tag: "promocao", Score: 80},
				{Tag: "familia", Score: 66},
			},
			calendar.PlatformTikTok: {
				{Tag: "promocao", Score: 73},
			},
		},
	}
}

// Name returns the provider name.
func (p *StaticPerformanceProvider) Name() string { return p.name }

// GetPerformance returns the breakdown for the requested platform. Unknown
// platforms get an empty breakdown, not an error.
func (p *StaticPerformanceProvider) GetPerformance(ctx context.Context, req PerformanceRequest) (*PerformanceBreakdown, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return &PerformanceBreakdown{
		Platform:   req.Platform,
		Window:     req.Window,
		ByFormat:   p.byFormat[req.Platform],
		ByTag:      p.byTag[req.Platform],
		ObservedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}
