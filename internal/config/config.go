package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"contentcal/internal/calendar"
)

// Config captures runtime configuration for the content-calendar service.
type Config struct {
	ListenAddr       string
	SeedEventsPath   string
	LocalEventsPath  string
	TrendDataPath    string
	KnowledgePath    string
	LibraryPath      string
	ScoringRulesPath string

	LLMAPIKey      string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int

	TrendCacheSeconds int
}

// FromEnv creates a configuration instance sourced from environment variables.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:        getEnv("FLOW_LISTEN_ADDR", ":8080"),
		SeedEventsPath:    getEnv("FLOW_SEED_EVENTS", "data/seed_events.json"),
		LocalEventsPath:   getEnv("FLOW_LOCAL_EVENTS", "data/local_events.json"),
		TrendDataPath:     getEnv("FLOW_TREND_DATA", "data/trend_signals.json"),
		KnowledgePath:     getEnv("FLOW_KNOWLEDGE_DATA", "data/knowledge.json"),
		LibraryPath:       getEnv("FLOW_LIBRARY_DATA", "data/library_items.json"),
		ScoringRulesPath:  getEnv("FLOW_SCORING_RULES", ""),
		LLMAPIKey:         getEnv("FLOW_LLM_API_KEY", ""),
		LLMModel:          getEnv("FLOW_LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:    0.4,
		LLMMaxTokens:      2048,
		TrendCacheSeconds: 120,
	}

	if temp := os.Getenv("FLOW_LLM_TEMPERATURE"); temp != "" {
		if _, err := fmt.Sscanf(temp, "%f", &cfg.LLMTemperature); err != nil {
			return Config{}, fmt.Errorf("parse FLOW_LLM_TEMPERATURE: %w", err)
		}
	}

	if tokens := os.Getenv("FLOW_LLM_MAX_TOKENS"); tokens != "" {
		if _, err := fmt.Sscanf(tokens, "%d", &cfg.LLMMaxTokens); err != nil {
			return Config{}, fmt.Errorf("parse FLOW_LLM_MAX_TOKENS: %w", err)
		}
	}

	if ttl := os.Getenv("FLOW_TREND_CACHE_SECONDS"); ttl != "" {
		if _, err := fmt.Sscanf(ttl, "%d", &cfg.TrendCacheSeconds); err != nil {
			return Config{}, fmt.Errorf("parse FLOW_TREND_CACHE_SECONDS: %w", err)
		}
	}

	return cfg, nil
}

// ScoringRules loads the scoring policy: the built-in defaults, optionally
// overridden by a YAML file named in FLOW_SCORING_RULES.
func (c Config) ScoringRules() (calendar.ScoringRules, error) {
	rules := calendar.DefaultScoring()
	if c.ScoringRulesPath == "" {
		return rules, nil
	}
	data, err := os.ReadFile(c.ScoringRulesPath)
	if err != nil {
		return rules, fmt.Errorf("read scoring rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse scoring rules: %w", err)
	}
	return rules, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
