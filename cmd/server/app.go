package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pathwise/pathwise-api/internal/config"
	"github.com/pathwise/pathwise-api/internal/content"
	"github.com/pathwise/pathwise-api/internal/events"
	"github.com/pathwise/pathwise-api/internal/generation"
	"github.com/pathwise/pathwise-api/internal/lookup"
	"github.com/pathwise/pathwise-api/internal/platform/gemini"
	"github.com/pathwise/pathwise-api/internal/platform/openai"
	"github.com/pathwise/pathwise-api/internal/platform/postgres"
	"github.com/pathwise/pathwise-api/internal/progression"
	"github.com/pathwise/pathwise-api/internal/service"
	"github.com/pathwise/pathwise-api/internal/service/auth"
	"github.com/pathwise/pathwise-api/internal/store"
)

// progressionEventLogger logs progression events as they are emitted. It is
// the default handler; richer consumers (notifications, analytics) register
// the same way.
type progressionEventLogger struct {
	logger *slog.Logger
}

func (h *progressionEventLogger) HandleEvent(ctx context.Context, event *events.ProgressionEvent) error {
	h.logger.Info("progression event",
		"event_id", event.ID,
		"event_type", event.Type,
		"created_at", event.CreatedAt)
	return nil
}

// application holds the shared application dependencies so wiring and
// shutdown stay in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	planStore    store.PlanStore
	dayStore     store.DayStore
	attemptStore store.AttemptStore

	jwtService auth.JWTService
	generator  generation.TextGenerator
	translator generation.Translator

	eventEmitter events.EventEmitter

	resourceFinder *content.ResourceFinder
	contentCache   *content.Cache
	engine         *progression.Engine
	planService    *service.PlanService
}

// newApplication creates an application with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenLifetimeMinutes)*time.Minute,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.planStore = postgres.NewPostgresPlanStore(db, logger)
	app.dayStore = postgres.NewPostgresDayStore(db, logger)
	app.attemptStore = postgres.NewPostgresAttemptStore(db, logger)

	app.generator, err = gemini.NewGenerator(ctx, logger, gemini.Config{
		APIKey:            cfg.Generation.GeminiAPIKey,
		Model:             cfg.Generation.GeminiModel,
		MaxRetries:        cfg.Generation.MaxRetries,
		RetryDelaySeconds: cfg.Generation.RetryDelaySeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text generator: %w", err)
	}
	logger.Info("Text generator initialized", "model", cfg.Generation.GeminiModel)

	app.translator, err = openai.NewTranslator(logger, openai.Config{
		APIKey:  cfg.Translation.OpenAIAPIKey,
		Model:   cfg.Translation.OpenAIModel,
		BaseURL: cfg.Translation.OpenAIBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize translator: %w", err)
	}
	logger.Info("Translator initialized", "model", cfg.Translation.OpenAIModel)

	app.resourceFinder = setupResourceFinder(cfg, logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.(*events.InMemoryEventEmitter).RegisterHandler(&progressionEventLogger{
		logger: logger.With(slog.String("component", "progression_event_logger")),
	})

	app.contentCache = content.NewCache(
		app.planStore,
		app.dayStore,
		app.generator,
		app.translator,
		app.resourceFinder,
		logger,
	)

	txRunner := progression.NewSQLTxRunner(db)
	app.engine = progression.NewEngine(
		txRunner,
		app.userStore,
		app.planStore,
		app.dayStore,
		app.attemptStore,
		app.eventEmitter,
		logger,
	)

	app.planService = service.NewPlanService(
		txRunner,
		app.planStore,
		app.dayStore,
		app.generator,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupResourceFinder wires the credential pools and lookup clients. Empty
// key lists are allowed; the finder then serves degraded fallbacks.
func setupResourceFinder(cfg *config.Config, logger *slog.Logger) *content.ResourceFinder {
	videoPool := lookup.NewPool(cfg.Lookup.VideoAPIKeys, logger)
	encyclopediaPool := lookup.NewPool(cfg.Lookup.EncyclopediaAPIKeys, logger)
	articlePool := lookup.NewPool(cfg.Lookup.ArticleAPIKeys, logger)

	if videoPool.Size() == 0 || encyclopediaPool.Size() == 0 || articlePool.Size() == 0 {
		logger.Warn("some lookup credential pools are empty, resources will degrade",
			"video_keys", videoPool.Size(),
			"encyclopedia_keys", encyclopediaPool.Size(),
			"article_keys", articlePool.Size())
	}

	return content.NewResourceFinder(
		lookup.NewVideoClient(videoPool, cfg.Lookup.VideoBaseURL, logger),
		lookup.NewEncyclopediaClient(encyclopediaPool, cfg.Lookup.EncyclopediaBaseURL, logger),
		lookup.NewArticleClient(articlePool, cfg.Lookup.ArticleBaseURL, logger),
		logger,
	)
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
