package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/kyra/interntrack/internal/app/auth"
	appControllers "github.com/kyra/interntrack/internal/app/controllers"
	appMigrations "github.com/kyra/interntrack/internal/app/migrations"
	"github.com/kyra/interntrack/internal/app/models"
	appRepos "github.com/kyra/interntrack/internal/app/repositories"
	"github.com/kyra/interntrack/internal/app/repositories/inmem"
	appRoutes "github.com/kyra/interntrack/internal/app/routes"
	appServices "github.com/kyra/interntrack/internal/app/services"
	"github.com/kyra/interntrack/internal/config"
	"github.com/kyra/interntrack/internal/db"
	appMiddleware "github.com/kyra/interntrack/internal/middleware"
	pkgAuth "github.com/kyra/interntrack/internal/pkg/auth"
	"github.com/kyra/interntrack/internal/pkg/cache"
	"github.com/kyra/interntrack/internal/pkg/helpers"
	"github.com/kyra/interntrack/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store             *appRepos.Store
	TrackerService    *appServices.TrackerService
	AuthService       *appServices.AuthService
	AuthController    *appControllers.AuthController
	TrackerController *appControllers.TrackerController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	JWTService        *pkgAuth.JWTService
	Logger            zerolog.Logger
}

// ConfigPath returns the config file location, overridable with CONFIG_PATH
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return filepath.Join("configs", "config.yaml")
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(ConfigPath())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Format: cfg.Logging.Format,
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// Store is the opened persistence layer together with its release function
type Store struct {
	Repos *appRepos.Store
	Close func()
}

// SetupStore opens the configured store. For Postgres it connects and creates the schema;
// any failure there aborts startup.
func SetupStore(cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory store, data is lost on restart")
		return &Store{Repos: inmem.NewStore(inmem.NewDB()), Close: func() {}}, nil
	}

	lgr.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := appMigrations.NewMigrator(database.Pool, lgr).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return &Store{Repos: appRepos.NewRepositories(database.Pool), Close: database.Close}, nil
}

// BuildDependencies initializes services, controllers and middleware over the store.
func BuildDependencies(cfg *config.Config, store *appRepos.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Logger: lgr}

	deps.TrackerService = appServices.NewTrackerService(store, appServices.TrackerOptions{
		CacheTTL:    helpers.DurationSetting("cache.ttl", cfg.Cache.TTL, cache.DefaultTTL),
		ReportLimit: cfg.Cache.ReportLimit,
	}, lgr.With().Str("component", "tracker").Logger())

	verifier, err := newStaticVerifier(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity verifier: %w", err)
	}
	lgr.Info().Int("accounts", len(cfg.Identity.Accounts)).Msg("Identity verifier ready")

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.DurationSetting("jwt.access_token_expiration", cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(verifier, deps.TrackerService, deps.JWTService, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.TrackerController = appControllers.NewTrackerController(deps.TrackerService, appAuth.DefaultViewPolicy(), lgr)

	return deps, nil
}

func newStaticVerifier(cfg *config.Config) (*appServices.StaticVerifier, error) {
	accounts := make([]appServices.StaticAccount, 0, len(cfg.Identity.Accounts))
	for _, acc := range cfg.Identity.Accounts {
		role, ok := models.ParseRole(acc.Role)
		if !ok {
			return nil, fmt.Errorf("account %s: unknown role %q", acc.Email, acc.Role)
		}
		accounts = append(accounts, appServices.StaticAccount{
			Email:        acc.Email,
			Name:         acc.Name,
			Role:         role,
			Password:     acc.Password,
			PasswordHash: acc.PasswordHash,
		})
	}
	return appServices.NewStaticVerifier(accounts, cfg.Identity.BcryptCost)
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterBindingValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.TrackerController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
