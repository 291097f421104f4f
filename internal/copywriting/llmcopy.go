package copywriting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"contentcal/internal/calendar"
	"contentcal/internal/llm"
	"contentcal/internal/providers"
)

// LLMGenerator produces copy candidates through a chat-completion model.
type LLMGenerator struct {
	Client      llm.ChatClient
	Model       string
	Temperature float64
	MaxTokens   int
}

// Name identifies the generator.
func (g LLMGenerator) Name() string { return "llm_copy_generator" }

// GenerateCopies asks the model for candidate copies as strict JSON.
func (g LLMGenerator) GenerateCopies(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	if g.Client == nil || g.Model == "" {
		return nil, fmt.Errorf("copywriting: generator misconfigured")
	}

	profile, err := calendar.GetPlatformProfile(req.Platform)
	if err != nil {
		return nil, err
	}

	messages := []llm.Message{
		{
			Role:    "system",
			Content: "Voce e um copywriter senior de social media. Responda ESTRITAMENTE com JSON valido.",
		},
		{Role: "user", Content: buildGenerationPrompt(req, profile)},
	}

	resp, err := g.Client.ChatCompletion(ctx, llm.ChatCompletionRequest{
		Model:       g.Model,
		Messages:    messages,
		Temperature: g.Temperature,
		MaxTokens:   g.MaxTokens,
		TopP:        0.9,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("copywriting: generation response missing choices")
	}

	payload := llm.ExtractJSON(resp.Choices[0].Message.Content)
	if payload == "" {
		return nil, fmt.Errorf("copywriting: generation response missing json payload")
	}

	var result GenerationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("copywriting: generation response decode: %w", err)
	}
	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("copywriting: generation returned no candidates")
	}
	return &result, nil
}

func buildGenerationPrompt(req GenerationRequest, profile calendar.PlatformProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Gere ate %d variacoes de copy para %s/%s.\n", req.MaxVariations, req.Platform, req.Format)
	fmt.Fprintf(&b, "CLIENTE: %s\n", req.Client.Name)
	fmt.Fprintf(&b, "OBJETIVO: %s\n", req.Objective)
	fmt.Fprintf(&b, "TEMA: %s\n", req.Theme)
	fmt.Fprintf(&b, "ESTILO DA PLATAFORMA: %s\n", profile.LanguageStyle)
	if limit, ok := profile.MaxChars["body"]; ok && limit > 0 {
		fmt.Fprintf(&b, "LIMITE DE CORPO: %d caracteres\n", limit)
	}
	if len(profile.BestPractices) > 0 {
		fmt.Fprintf(&b, "BOAS PRATICAS: %s\n", strings.Join(profile.BestPractices, "; "))
	}
	if len(profile.Avoid) > 0 {
		fmt.Fprintf(&b, "EVITAR: %s\n", strings.Join(profile.Avoid, "; "))
	}

	if summary := knowledgeSummary(req.Knowledge); summary != "" {
		b.WriteString("REPERTORIO DO CLIENTE:\n")
		b.WriteString(summary)
		b.WriteString("\n")
	}
	if strings.TrimSpace(req.ContextPack) != "" {
		b.WriteString("CONTEXTO DA BIBLIOTECA:\n")
		b.WriteString(req.ContextPack)
		b.WriteString("\n")
	}

	b.WriteString(`Responda com JSON neste formato:
{
  "candidates": [
    {"format": "...", "headline": "...", "body": "...", "cta": "...", "tags": ["..."]}
  ]
}`)
	return b.String()
}

func knowledgeSummary(k *providers.ClientKnowledge) string {
	if k == nil {
		return ""
	}
	var lines []string
	if k.ToneDescription != "" {
		lines = append(lines, "Tom: "+k.ToneDescription)
	}
	if k.Audience != "" {
		lines = append(lines, "Publico: "+k.Audience)
	}
	if k.BrandPromise != "" {
		lines = append(lines, "Promessa: "+k.BrandPromise)
	}
	if len(k.MustMentions) > 0 {
		lines = append(lines, "Mencionar: "+strings.Join(k.MustMentions, ", "))
	}
	if len(k.ApprovedTerms) > 0 {
		lines = append(lines, "Termos aprovados: "+strings.Join(k.ApprovedTerms, ", "))
	}
	if len(k.ForbiddenClaims) > 0 {
		lines = append(lines, "Proibido: "+strings.Join(k.ForbiddenClaims, "; "))
	}
	if len(k.Hashtags) > 0 {
		lines = append(lines, "Hashtags: "+strings.Join(k.Hashtags, " "))
	}
	return strings.Join(lines, "\n")
}

// LLMValidator reviews candidates through a chat-completion model and
// returns the normalized verdict.
type LLMValidator struct {
	Client      llm.ChatClient
	Model       string
	Temperature float64
	MaxTokens   int
}

// Name identifies the validator.
func (v LLMValidator) Name() string { return "llm_copy_validator" }

// Validate asks the model for a verdict over the candidates.
func (v LLMValidator) Validate(ctx context.Context, req ValidationRequest) (*ValidationResult, error) {
	if v.Client == nil || v.Model == "" {
		return nil, fmt.Errorf("copywriting: validator misconfigured")
	}
	if len(req.Candidates) == 0 {
		return nil, fmt.Errorf("copywriting: no candidates to validate")
	}

	encoded, err := json.MarshalIndent(req.Candidates, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("copywriting: encode candidates: %w", err)
	}

	tone := "equilibrado"
	forbidden := ""
	if req.Knowledge != nil {
		if req.Knowledge.ToneDescription != "" {
			tone = req.Knowledge.ToneDescription
		}
		forbidden = strings.Join(req.Knowledge.ForbiddenClaims, "; ")
	}

	prompt := fmt.Sprintf(`Voce e um revisor e organizador de copy.
TAREFA:
1) Validar se as copies respeitam boas praticas de %s/%s.
2) Detectar problemas (clareza, promessas, tom, tamanho, compliance).
3) Escolher a melhor e devolver JSON normalizado.

CLIENTE: %s
TOM: %s
PROIBICOES: %s

ENTRADA CANDIDATOS:
%s

SAIDA (JSON):
{
  "approved": true,
  "score": 0,
  "issues": [{"code": "...", "message": "...", "severity": "low|medium|high"}],
  "best": {"format": "...", "headline": "...", "body": "...", "cta": "...", "tags": []},
  "normalized_payload": {"platform": "...", "format": "...", "best": {}, "alternatives": []}
}`, req.Platform, req.Format, req.Client.Name, tone, forbidden, string(encoded))

	resp, err := v.Client.ChatCompletion(ctx, llm.ChatCompletionRequest{
		Model:       v.Model,
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: v.Temperature,
		MaxTokens:   v.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("copywriting: validation response missing choices")
	}

	payload := llm.ExtractJSON(resp.Choices[0].Message.Content)
	if payload == "" {
		return nil, fmt.Errorf("copywriting: validation response missing json payload")
	}

	var result ValidationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("copywriting: validation response decode: %w", err)
	}
	return &result, nil
}
