package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baxromumarov/intern-scout/internal/ai"
	"github.com/baxromumarov/intern-scout/internal/api"
	"github.com/baxromumarov/intern-scout/internal/config"
	"github.com/baxromumarov/intern-scout/internal/contact"
	"github.com/baxromumarov/intern-scout/internal/core"
	"github.com/baxromumarov/intern-scout/internal/ledger"
	"github.com/baxromumarov/intern-scout/internal/mailer"
	"github.com/baxromumarov/intern-scout/internal/resume"
	"github.com/baxromumarov/intern-scout/internal/search"
	"github.com/baxromumarov/intern-scout/internal/serp"
	"github.com/baxromumarov/intern-scout/internal/store"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	led := ledger.New(cfg.Paths.SentLog, logger)

	resumeText, err := resume.ExtractText(cfg.Paths.Resume)
	if err != nil {
		slog.Warn("could not read resume, emails are generated without it", "path", cfg.Paths.Resume, "error", err)
	}

	provider := serp.NewClient(cfg.SerpAPIKey)
	orchestrator := search.NewOrchestrator(
		provider,
		cfg.Search.Filters,
		cfg.Search.RetryAttempts,
		time.Duration(cfg.Search.DelaySeconds)*time.Second,
		cfg.Search.Locale,
		logger,
	).WithFallback(search.NewDuckDuckGo(logger))

	extractor := contact.NewExtractor(logger)

	generator := ai.NewGenerator(cfg.OpenAIKey, ai.Params{
		Model:                cfg.EmailGeneration.Model,
		Temperature:          cfg.EmailGeneration.Temperature,
		MaxTokens:            cfg.EmailGeneration.MaxTokens,
		SystemPrompt:         cfg.EmailGeneration.SystemPrompt,
		IncludeResumeSummary: cfg.EmailGeneration.ResumeSummaryEnabled(),
	}, logger)

	sender := mailer.New(cfg.EmailSending.SMTPServer, cfg.EmailSending.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, logger)

	runner := core.NewRunner(cfg, orchestrator, extractor, generator, sender, led, resumeText, logger)

	if cfg.DatabaseURL != "" {
		archive, err := store.NewStore(cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to store", "error", err)
			os.Exit(1)
		}
		defer archive.Close()
		if err := archive.EnsureSchema(); err != nil {
			slog.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		runner.WithArchive(archive)
	}

	if cfg.StatusPort != "" {
		srv := api.NewServer(led, cfg.EmailSending.RateLimitPerDay)
		go func() {
			slog.Info("starting status server", "port", cfg.StatusPort)
			if err := http.ListenAndServe(":"+cfg.StatusPort, srv.Router()); err != nil {
				slog.Error("status server failed", "error", err)
			}
		}()
	}

	if err := runner.Run(ctx); err != nil {
		slog.Error("run aborted", "error", err)
		os.Exit(1)
	}
}
