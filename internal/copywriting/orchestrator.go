package copywriting

import (
	"context"
	"log"
	"strings"

	"contentcal/internal/calendar"
	"contentcal/internal/library"
	"contentcal/internal/providers"
)

const (
	maxVariationsPerSlot = 8
	maxAlternatives      = 3
	fallbackCopyScore    = 60
)

// SlotRequest describes one post slot to fill with copy.
type SlotRequest struct {
	Client    calendar.ClientProfile
	Knowledge *providers.ClientKnowledge
	Platform  calendar.Platform
	Format    string
	Objective calendar.Objective
	Theme     string
	Event     *calendar.Event
	// EventScore seeds the copy score when validation is unavailable.
	EventScore int
}

// Alternative is a secondary copy the caller may swap in.
type Alternative struct {
	Format string   `json:"format"`
	Copy   CopyPack `json:"copy"`
	Score  int      `json:"score"`
	Why    string   `json:"why"`
}

// SlotResult always carries a usable copy; degradation is internal.
type SlotResult struct {
	Copy           CopyPack
	CopyScore      int
	Alternatives   []Alternative
	LibrarySources []library.SourceRef
	UsedFallback   bool
}

// Orchestrator runs the generate-validate-fallback ladder for one slot.
// Every collaborator is optional; missing or failing ones degrade to the
// deterministic stub instead of surfacing errors.
type Orchestrator struct {
	Generator Generator
	Validator Validator
	Library   library.ContextPackProvider
	// OnFallback is invoked once per slot that degraded to stub copy.
	OnFallback func(reason string)
}

// FillSlot produces the copy for a slot. It never returns an error.
func (o *Orchestrator) FillSlot(ctx context.Context, req SlotRequest) SlotResult {
	pack := o.buildPack(ctx, req)

	result := SlotResult{}
	if pack != nil {
		result.LibrarySources = pack.Sources
	}

	validated := o.generateAndValidate(ctx, req, pack)
	if validated != nil && validated.Best != nil {
		best := validated.Best
		result.Copy = CopyPack{Headline: best.Headline, Body: best.Body, CTA: best.CTA}
		if strings.TrimSpace(result.Copy.Headline) == "" {
			result.Copy.Headline = req.Theme
		}
		result.CopyScore = calendar.ClampScore(validated.Score)
		result.Alternatives = o.validatedAlternatives(validated, result.CopyScore)
		if len(result.Alternatives) == 0 {
			result.Alternatives = o.formatVariations(req, result.CopyScore)
		}
		return result
	}

	result.UsedFallback = true
	result.Copy = StubCopy(req.Theme)
	if req.Event != nil {
		result.CopyScore = req.EventScore
	} else {
		result.CopyScore = fallbackCopyScore
	}
	result.Alternatives = o.formatVariations(req, result.CopyScore)
	return result
}

func (o *Orchestrator) buildPack(ctx context.Context, req SlotRequest) *library.ContextPack {
	if o.Library == nil || req.Client.TenantID == "" {
		return nil
	}

	candidates := []string{req.Theme, string(req.Objective), string(req.Platform), req.Format, req.Client.Name}
	if req.Event != nil {
		candidates = append(candidates, req.Event.Name)
	}
	parts := candidates[:0]
	for _, part := range candidates {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	pack, err := o.Library.BuildPack(ctx, library.PackRequest{
		TenantID: req.Client.TenantID,
		ClientID: req.Client.ID,
		Query:    strings.Join(parts, " | "),
		K:        12,
	})
	if err != nil {
		log.Printf("copywriting: context pack unavailable: %v", err)
		return nil
	}
	return pack
}

func (o *Orchestrator) generateAndValidate(ctx context.Context, req SlotRequest, pack *library.ContextPack) *ValidationResult {
	if o.Generator == nil || o.Validator == nil {
		return nil
	}

	genReq := GenerationRequest{
		Client:        req.Client,
		Knowledge:     req.Knowledge,
		Platform:      req.Platform,
		Format:        req.Format,
		Objective:     req.Objective,
		Theme:         req.Theme,
		MaxVariations: maxVariationsPerSlot,
	}
	if pack != nil {
		genReq.ContextPack = pack.PackedText
	}

	generated, err := o.Generator.GenerateCopies(ctx, genReq)
	if err != nil {
		o.reportFallback("generation: " + err.Error())
		return nil
	}

	validated, err := o.Validator.Validate(ctx, ValidationRequest{
		Client:     req.Client,
		Knowledge:  req.Knowledge,
		Platform:   req.Platform,
		Format:     req.Format,
		Candidates: generated.Candidates,
	})
	if err != nil {
		o.reportFallback("validation: " + err.Error())
		return nil
	}
	if validated.Best == nil {
		o.reportFallback("validation: no best candidate")
		return nil
	}
	return validated
}

func (o *Orchestrator) validatedAlternatives(validated *ValidationResult, score int) []Alternative {
	if validated.Normalized == nil {
		return nil
	}
	alts := make([]Alternative, 0, maxAlternatives)
	for _, c := range validated.Normalized.Alternatives {
		if len(alts) == maxAlternatives {
			break
		}
		alts = append(alts, Alternative{
			Format: c.Format,
			Copy:   CopyPack{Headline: c.Headline, Body: c.Body, CTA: c.CTA},
			Score:  score,
			Why:    "Alternativa validada pelo validador.",
		})
	}
	return alts
}

// formatVariations proposes fresh stub copies in the platform's other
// formats when no validated alternatives exist.
func (o *Orchestrator) formatVariations(req SlotRequest, score int) []Alternative {
	profile, err := calendar.GetPlatformProfile(req.Platform)
	if err != nil {
		return nil
	}

	var alts []Alternative
	for _, format := range profile.SupportedFormats {
		if len(alts) == 2 {
			break
		}
		if format == req.Format {
			continue
		}
		theme := req.Theme + " (variacao " + format + ")"
		alts = append(alts, Alternative{
			Format: format,
			Copy:   StubCopy(theme),
			Score:  score,
			Why:    "Variacao de formato dentro de " + string(req.Platform) + ".",
		})
	}
	return alts
}

func (o *Orchestrator) reportFallback(reason string) {
	log.Printf("copywriting: falling back to stub copy: %s", reason)
	if o.OnFallback != nil {
		o.OnFallback(reason)
	}
}
