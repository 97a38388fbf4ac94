package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/example/planassist/internal/api"
	"github.com/example/planassist/internal/config"
	"github.com/example/planassist/internal/extract"
	"github.com/example/planassist/internal/generate"
	"github.com/example/planassist/internal/metrics"
	"github.com/example/planassist/internal/providers/llm"
	"github.com/example/planassist/internal/store"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	for _, warn := range cfg.Warnings() {
		logger.Warn(warn)
	}

	rec := metrics.New()

	gen := &generate.Service{
		AmbientKey: cfg.GeminiAPIKey,
		NewClients: func(apiKey string) []llm.Client {
			return llm.NewChainClients(apiKey, cfg.PrimaryModel, cfg.FallbackModel,
				cfg.Transport, cfg.RequestTimeout)
		},
		Logger: logger,
	}

	srv := &api.Server{
		Generator: gen,
		Extractor: &extract.Pipeline{
			Engine: &extract.TesseractEngine{Language: cfg.OCRLanguage},
			Logger: logger,
		},
		Tasks:   store.NewMemory(rec),
		Metrics: rec,
		Logger:  logger,
	}

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)

	addr := ":" + cfg.Port
	logger.Info("server listening", "addr", addr,
		"primary_model", cfg.PrimaryModel, "fallback_model", cfg.FallbackModel)
	if err := http.ListenAndServe(addr, cors(mux)); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// simple CORS middleware for local dev
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
