package copywriting

import (
	"context"
	"fmt"
	"strings"

	"contentcal/internal/calendar"
)

// TemplateGenerator builds deterministic copy candidates from the theme
// and the platform profile, without any model call.
type TemplateGenerator struct{}

// Name identifies the generator.
func (TemplateGenerator) Name() string { return "template_copy_generator" }

// GenerateCopies derives candidates from the theme and platform style.
func (TemplateGenerator) GenerateCopies(_ context.Context, req GenerationRequest) (*GenerationResult, error) {
	theme := strings.TrimSpace(req.Theme)
	if theme == "" {
		theme = "Conteudo da marca"
	}

	hooks := []string{
		"%s: o que voce precisa saber hoje.",
		"%s em 30 segundos.",
		"Por que %s importa para voce.",
	}
	ctas := []string{"Saiba mais", "Comente aqui", "Salve este post"}

	if profile, err := calendar.GetPlatformProfile(req.Platform); err == nil {
		if strings.Contains(profile.LanguageStyle, "profissional") {
			ctas[0] = "Fale com a gente"
		}
	}

	max := req.MaxVariations
	if max <= 0 || max > len(hooks) {
		max = len(hooks)
	}

	candidates := make([]Candidate, 0, max)
	for i := 0; i < max; i++ {
		candidates = append(candidates, Candidate{
			Format:   req.Format,
			Headline: theme,
			Body:     fmt.Sprintf(hooks[i], theme),
			CTA:      ctas[i%len(ctas)],
		})
	}
	return &GenerationResult{Candidates: candidates}, nil
}

// HeuristicValidator elects the best candidate with simple length and
// completeness checks. It never fails with candidates present.
type HeuristicValidator struct{}

// Name identifies the validator.
func (HeuristicValidator) Name() string { return "heuristic_copy_validator" }

// Validate scores each candidate and picks the highest.
func (HeuristicValidator) Validate(_ context.Context, req ValidationRequest) (*ValidationResult, error) {
	if len(req.Candidates) == 0 {
		return nil, fmt.Errorf("copywriting: no candidates to validate")
	}

	bodyLimit := 0
	if profile, err := calendar.GetPlatformProfile(req.Platform); err == nil {
		bodyLimit = profile.MaxChars["body"]
	}

	var issues []ValidationIssue
	bestIdx, bestScore := 0, -1
	for i, c := range req.Candidates {
		score := 60
		if strings.TrimSpace(c.Headline) != "" {
			score += 10
		}
		if strings.TrimSpace(c.Body) != "" {
			score += 10
		}
		if strings.TrimSpace(c.CTA) != "" {
			score += 10
		}
		if bodyLimit > 0 && len([]rune(c.Body)) > bodyLimit {
			score -= 20
			issues = append(issues, ValidationIssue{
				Code:     "body_too_long",
				Message:  fmt.Sprintf("candidato %d excede o limite de %d caracteres", i+1, bodyLimit),
				Severity: "medium",
			})
		}
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	best := req.Candidates[bestIdx]
	alternatives := make([]Candidate, 0, len(req.Candidates)-1)
	for i, c := range req.Candidates {
		if i != bestIdx {
			alternatives = append(alternatives, c)
		}
	}

	return &ValidationResult{
		Approved: bestScore >= 60,
		Score:    clampScore(bestScore),
		Issues:   issues,
		Best:     &best,
		Normalized: &NormalizedPayload{
			Platform:     string(req.Platform),
			Format:       req.Format,
			Best:         &best,
			Alternatives: alternatives,
		},
	}, nil
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
