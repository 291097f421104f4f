package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"contentcal/internal/calendar"
	"contentcal/internal/config"
	"contentcal/internal/copywriting"
	"contentcal/internal/flow"
	"contentcal/internal/library"
	"contentcal/internal/llm"
	"contentcal/internal/metrics"
	"contentcal/internal/providers"
	transporthttp "contentcal/internal/transport/http"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	rules, err := cfg.ScoringRules()
	if err != nil {
		log.Fatalf("load scoring rules: %v", err)
	}

	seedData, err := os.ReadFile(cfg.SeedEventsPath)
	if err != nil {
		log.Fatalf("read seed events: %v", err)
	}
	baseEvents, err := providers.DecodeEvents(seedData)
	if err != nil {
		log.Fatalf("decode seed events: %v", err)
	}

	ingest := providers.NewIngestEventsProvider("ingest")
	localSet, err := providers.NewLocalEventSet(ingest)
	if err != nil {
		log.Fatalf("init local events: %v", err)
	}
	if static, err := providers.NewStaticEventsProvider("local_file", cfg.LocalEventsPath); err != nil {
		log.Printf("local events file disabled: %v", err)
	} else {
		localSet.Add(static)
	}

	registry := prometheus.NewRegistry()
	instruments := metrics.New(registry)

	orchestrator := &copywriting.Orchestrator{
		Generator:  copywriting.TemplateGenerator{},
		Validator:  copywriting.HeuristicValidator{},
		OnFallback: func(string) { instruments.ObserveCopyFallback() },
	}
	if cfg.LLMAPIKey != "" {
		client := llm.NewClient(cfg.LLMAPIKey)
		orchestrator.Generator = copywriting.LLMGenerator{
			Client:      client,
			Model:       cfg.LLMModel,
			Temperature: cfg.LLMTemperature,
			MaxTokens:   cfg.LLMMaxTokens,
		}
		orchestrator.Validator = copywriting.LLMValidator{
			Client:    client,
			Model:     cfg.LLMModel,
			MaxTokens: cfg.LLMMaxTokens,
		}
		log.Printf("LLM copywriting enabled with model %s", cfg.LLMModel)
	}
	if lib, err := library.NewFileLibrary("library", cfg.LibraryPath); err != nil {
		log.Printf("content library disabled: %v", err)
	} else {
		orchestrator.Library = lib
	}

	pipeline, err := flow.NewFlow(baseEvents, calendar.RuleScorer{Rules: rules}, rules, orchestrator)
	if err != nil {
		log.Fatalf("init flow: %v", err)
	}
	pipeline.LocalEvents = localSet
	pipeline.Boosts = providers.NewRuleBoostEngine("live_boosts")
	pipeline.Performance = providers.NewStaticPerformanceProvider("performance")
	pipeline.Metrics = instruments

	if trends, err := providers.NewStaticTrendAggregator("trends", cfg.TrendDataPath); err != nil {
		log.Printf("trend aggregation disabled: %v", err)
	} else {
		pipeline.Trends = providers.NewCachedTrendAggregator(trends, time.Duration(cfg.TrendCacheSeconds)*time.Second)
	}
	if knowledge, err := providers.NewFileKnowledgeProvider("knowledge", cfg.KnowledgePath); err != nil {
		log.Printf("knowledge base disabled: %v", err)
	} else {
		pipeline.Knowledge = knowledge
	}

	server := transporthttp.NewServer(pipeline, ingest, registry)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      withLogging(withCORS(server.Routes())),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("contentcal API listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("signal received: %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
