package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NancyCima/Azure-Dashboard/internal/analysis"
	"github.com/NancyCima/Azure-Dashboard/internal/criteria"
	"github.com/NancyCima/Azure-Dashboard/internal/llm"
	"github.com/NancyCima/Azure-Dashboard/internal/llm/anthropic"
	"github.com/NancyCima/Azure-Dashboard/internal/llm/openai"
	"github.com/NancyCima/Azure-Dashboard/internal/services/health"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/auth"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/config"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/server"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/storage/cache"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/storage/db"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
	"github.com/NancyCima/Azure-Dashboard/internal/users"
	"github.com/NancyCima/Azure-Dashboard/internal/workitems"
)

// App holds the dependencies built once at startup.
type App struct {
	Config   config.Config
	Logger   telemetry.Logger
	Router   *gin.Engine
	DB       *sql.DB
	Cache    *cache.RedisClient
	Issuer   *auth.Issuer
	Catalog  criteria.Catalog
	Source   workitems.Source
	LLM      llm.Client
	Health   *health.Service
	Users    *users.Service
	Tickets  *workitems.Service
	Analysis *analysis.Service
}

// Options overrides infrastructure for tests and local tools.
type Options struct {
	Logger telemetry.Logger
	Source workitems.Source
	LLM    llm.Client
	Users  users.Repo
}

// Build prepares every dependency and the router.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(context.Background(), cfg, Options{})
}

// BuildWith is Build with injectable collaborators.
func BuildWith(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.NewStructured(cfg.LogLevel, cfg.LogFormat)
		telemetry.SetDefault(logger)
	}

	app := &App{Config: cfg, Logger: logger, Health: health.NewService()}

	cat, err := criteria.Load(cfg.CriteriaPath)
	if err != nil {
		return nil, fmt.Errorf("load criteria catalog: %w", err)
	}
	app.Catalog = cat

	app.Source = opts.Source
	if app.Source == nil {
		app.Source, err = BuildSource(cfg)
		if err != nil {
			return nil, err
		}
	}

	app.LLM = opts.LLM
	if app.LLM == nil {
		app.LLM, err = BuildLLM(cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	userRepo := opts.Users
	if userRepo == nil {
		userRepo, err = app.buildUserRepo(ctx)
		if err != nil {
			return nil, err
		}
	}

	app.Issuer = auth.NewIssuer(cfg.JWTSecret, 0)
	app.Users = users.NewService(userRepo, app.Issuer, logger)
	app.Tickets = workitems.NewService(app.Source, cfg.CheckedTag, logger)

	app.Analysis = analysis.NewService(app.LLM, app.Catalog, ProviderName(cfg.LLMProvider), logger)
	if lang, ok := analysis.ParseLanguage(cfg.DefaultLanguage); ok {
		app.Analysis.DefaultLanguage = lang
	}
	app.Analysis.Timeout = cfg.LLMTimeout
	if cfg.LLMMaxTokens > 0 {
		app.Analysis.MaxTokens = cfg.LLMMaxTokens
	}
	app.Analysis.Temperature = cfg.LLMTemperature

	app.Router = server.NewRouter(server.RouterDeps{
		Logger:       logger,
		CORSOrigins:  cfg.CORSAllowOrigin,
		Issuer:       app.Issuer,
		AuthRequired: cfg.AuthRequired,
		Health:       app.Health.Handler,
		RateLimits:   server.DefaultRateLimits(),
		Features: []server.RouteRegistrar{
			workitems.NewHandler(app.Tickets),
			analysis.NewHandler(app.Analysis, cfg.MaxImages, cfg.MaxImageBytes),
			users.NewHandler(app.Users),
		},
	})
	return app, nil
}

// Close releases database and cache connections.
func (a *App) Close() error {
	var errs []string
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close: %s", strings.Join(errs, "; "))
	}
	return nil
}

// BuildSource selects the tracker adapter for cfg.TrackerMode.
func BuildSource(cfg config.Config) (workitems.Source, error) {
	switch cfg.TrackerMode {
	case "azure":
		return workitems.Instrument(workitems.NewAzureSource(cfg.AzureOrgURL, cfg.AzureProject, cfg.AzurePAT, cfg.TrackerTimeout)), nil
	case "gateway", "":
		return workitems.Instrument(workitems.NewGatewaySource(cfg.TrackerBaseURL, cfg.TrackerTimeout)), nil
	default:
		return nil, fmt.Errorf("tracker mode %q not supported", cfg.TrackerMode)
	}
}

// BuildLLM selects the completion client for cfg.LLMProvider. A provider
// without an API key falls back to the placeholder outside production.
func BuildLLM(cfg config.Config, logger telemetry.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" && cfg.IsDevLike() {
			logger.Warn("bootstrap.llm_placeholder", map[string]any{"provider": cfg.LLMProvider, "reason": "missing api key"})
			return llm.PlaceholderClient{}, nil
		}
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, logger)
	case "anthropic":
		if strings.TrimSpace(cfg.AnthropicAPIKey) == "" && cfg.IsDevLike() {
			logger.Warn("bootstrap.llm_placeholder", map[string]any{"provider": cfg.LLMProvider, "reason": "missing api key"})
			return llm.PlaceholderClient{}, nil
		}
		return anthropic.NewClient(cfg.AnthropicAPIKey, anthropicModel(cfg.LLMModel), logger)
	case "placeholder", "":
		return llm.PlaceholderClient{}, nil
	default:
		return nil, fmt.Errorf("llm provider %q not supported", cfg.LLMProvider)
	}
}

// ProviderName is the display name used in error messages.
func ProviderName(provider string) string {
	switch provider {
	case "openai":
		return "OpenAI"
	case "anthropic":
		return "Anthropic"
	default:
		return "LLM"
	}
}

func anthropicModel(model string) string {
	if strings.HasPrefix(model, "claude") {
		return model
	}
	return anthropic.DefaultModel
}

func (a *App) buildUserRepo(ctx context.Context) (users.Repo, error) {
	cfg := a.Config
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			a.Logger.Warn("bootstrap.users_in_memory", map[string]any{"reason": "DATABASE_URL empty"})
			return users.NewMemoryRepo(), nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			a.Logger.Warn("bootstrap.users_in_memory", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return users.NewMemoryRepo(), nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB, cfg.DatabaseDriver); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	a.DB = sqlDB
	a.Health.Add("database", health.CheckFunc(sqlDB.PingContext))

	var repo users.Repo
	if cfg.DatabaseDriver == "mysql" {
		repo = &users.MySQLRepo{DB: sqlDB}
	} else {
		repo = &users.PGRepo{DB: sqlDB}
	}

	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return repo, nil
	}
	rc := cache.NewRedis(cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err := rc.Ping(ctx); err != nil {
		a.Logger.Warn("bootstrap.cache_disabled", map[string]any{"error": err.Error()})
		_ = rc.Close()
		return repo, nil
	}
	a.Cache = rc
	a.Health.Add("redis", rc)
	return users.NewCachedRepo(repo, rc, cfg.CredentialCacheTTL, a.Logger), nil
}
