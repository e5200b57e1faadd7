package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rfp-optimize/platform/internal/auth"
	"github.com/rfp-optimize/platform/internal/config"
	"github.com/rfp-optimize/platform/internal/core/analysis"
	"github.com/rfp-optimize/platform/internal/core/ports"
	"github.com/rfp-optimize/platform/internal/core/usecase"
	"github.com/rfp-optimize/platform/internal/infrastructure/catalog"
	"github.com/rfp-optimize/platform/internal/infrastructure/extractor/pdfdoc"
	"github.com/rfp-optimize/platform/internal/infrastructure/llm/gemini"
	"github.com/rfp-optimize/platform/internal/infrastructure/llm/ollama"
	natsqueue "github.com/rfp-optimize/platform/internal/infrastructure/queue/nats"
	"github.com/rfp-optimize/platform/internal/infrastructure/repository/postgres"
	"github.com/rfp-optimize/platform/internal/infrastructure/resilience"
	"github.com/rfp-optimize/platform/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Auth  *auth.Service
	Queue ports.AnalysisQueue

	RFPs          ports.RFPRepository
	Users         ports.UserRepository
	Rules         ports.RuleRepository
	Prices        ports.PriceRepository
	Notifications ports.NotificationRepository
	Demos         ports.DemoRepository
	SweepJobs     ports.SweepJobRepository

	SubmitUC  *usecase.SubmitRFPUseCase
	AnalyzeUC *usecase.AnalyzeRFPUseCase
	DemoUC    *usecase.DemoUseCase
	SweepUC   *usecase.SweepUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	rfps := postgres.NewRFPRepository(db)
	users := postgres.NewUserRepository(db)
	rules := postgres.NewRuleRepository(db)
	prices := postgres.NewPriceRepository(db)
	notifications := postgres.NewNotificationRepository(db)
	demos := postgres.NewDemoRepository(db)
	sweepJobs := postgres.NewSweepJobRepository(db)

	if err := seed(ctx, demos, sweepJobs); err != nil {
		_ = db.Close()
		return nil, err
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultPolicy()),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init analysis queue: %w", err)
	}

	llm, err := newCompletionClient(ctx, cfg)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, err
	}

	analyzer := analysis.NewOrchestrator(llm, catalog.NewProvider(prices), rules)
	extractor := pdfdoc.NewExtractor(storage)

	authSvc, err := auth.NewService(users, cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init auth service: %w", err)
	}

	submitUC := usecase.NewSubmitRFPUseCase(rfps, storage, queue)
	analyzeUC := usecase.NewAnalyzeRFPUseCase(rfps, analyzer, extractor, demos, notifications)
	demoUC := usecase.NewDemoUseCase(demos, rfps, notifications)
	sweepUC := usecase.NewSweepUseCase(rfps, sweepJobs, analyzeUC)

	return &App{
		Config: cfg,

		Auth:  authSvc,
		Queue: queue,

		RFPs:          rfps,
		Users:         users,
		Rules:         rules,
		Prices:        prices,
		Notifications: notifications,
		Demos:         demos,
		SweepJobs:     sweepJobs,

		SubmitUC:  submitUC,
		AnalyzeUC: analyzeUC,
		DemoUC:    demoUC,
		SweepUC:   sweepUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func newCompletionClient(ctx context.Context, cfg config.Config) (ports.CompletionClient, error) {
	executor := resilience.NewExecutor(resilience.LLMPolicy())

	switch cfg.LLMProvider {
	case "ollama":
		return ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, executor), nil
	case "gemini":
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiRPS, executor)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

func seed(ctx context.Context, demos *postgres.DemoRepository, sweepJobs *postgres.SweepJobRepository) error {
	if err := demos.SeedCenters(ctx); err != nil {
		return fmt.Errorf("seed demo centers: %w", err)
	}
	if err := sweepJobs.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed sweep jobs: %w", err)
	}
	slog.Debug("reference data seeded")
	return nil
}
