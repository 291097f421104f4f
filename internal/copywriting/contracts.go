// Package copywriting turns a post slot (theme, format, platform) into
// validated copy, degrading to deterministic stubs whenever the generation
// or validation collaborators fail.
package copywriting

import (
	"context"

	"contentcal/internal/calendar"
	"contentcal/internal/providers"
)

// CopyPack is the final text of one post.
type CopyPack struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
	CTA      string `json:"cta"`
}

// Candidate is one generated copy variation.
type Candidate struct {
	Format   string   `json:"format,omitempty"`
	Headline string   `json:"headline"`
	Body     string   `json:"body"`
	CTA      string   `json:"cta"`
	Tags     []string `json:"tags,omitempty"`
}

// GenerationRequest asks a generator for copy variations.
type GenerationRequest struct {
	Client        calendar.ClientProfile
	Knowledge     *providers.ClientKnowledge
	Platform      calendar.Platform
	Format        string
	Objective     calendar.Objective
	Theme         string
	MaxVariations int
	ContextPack   string
}

// GenerationResult is the generator output.
type GenerationResult struct {
	Candidates []Candidate `json:"candidates"`
}

// ValidationIssue flags one problem found in the candidates.
type ValidationIssue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// NormalizedPayload is the validator's cleaned-up view of the candidates.
type NormalizedPayload struct {
	Platform     string      `json:"platform,omitempty"`
	Format       string      `json:"format,omitempty"`
	Best         *Candidate  `json:"best,omitempty"`
	Alternatives []Candidate `json:"alternatives,omitempty"`
}

// ValidationRequest asks a validator to pick and normalize the best copy.
type ValidationRequest struct {
	Client     calendar.ClientProfile
	Knowledge  *providers.ClientKnowledge
	Platform   calendar.Platform
	Format     string
	Candidates []Candidate
}

// ValidationResult is the validator verdict.
type ValidationResult struct {
	Approved   bool               `json:"approved"`
	Score      int                `json:"score"`
	Issues     []ValidationIssue  `json:"issues,omitempty"`
	Best       *Candidate         `json:"best,omitempty"`
	Normalized *NormalizedPayload `json:"normalized_payload,omitempty"`
}

// Generator produces copy candidates. It may fail; the orchestrator
// tolerates that.
type Generator interface {
	Name() string
	GenerateCopies(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}

// Validator reviews generated candidates and elects the best one.
type Validator interface {
	Name() string
	Validate(ctx context.Context, req ValidationRequest) (*ValidationResult, error)
}
