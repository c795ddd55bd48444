package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/academy/internal/app/controllers"
	appMigrations "github.com/yigit/academy/internal/app/migrations"
	appRepos "github.com/yigit/academy/internal/app/repositories"
	"github.com/yigit/academy/internal/app/repositories/memstore"
	appRoutes "github.com/yigit/academy/internal/app/routes"
	appServices "github.com/yigit/academy/internal/app/services"
	"github.com/yigit/academy/internal/config"
	"github.com/yigit/academy/internal/db"
	appMiddleware "github.com/yigit/academy/internal/middleware"
	pkgAuth "github.com/yigit/academy/internal/pkg/auth"
	"github.com/yigit/academy/internal/pkg/email"
	"github.com/yigit/academy/internal/pkg/helpers"
	"github.com/yigit/academy/internal/pkg/lock"
	"github.com/yigit/academy/internal/pkg/logger"
	"github.com/yigit/academy/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                  *appRepos.Repositories
	Services               *appServices.Services
	Issuer                 *pkgAuth.CredentialIssuer
	AuthController         *appControllers.AuthController
	RegistrationController *appControllers.RegistrationController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Logger                 zerolog.Logger
}

// Closer releases a resource opened during startup
type Closer func()

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the identity store, runs migrations and seeds default data.
// The "memory" driver keeps everything in process and is meant for demos and tests.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, Closer, error) {
	var (
		repos  *appRepos.Repositories
		closer Closer = func() {}
	)

	switch cfg.Database.Driver {
	case "memory":
		lgr.Warn().Msg("Using the in-memory store, data is lost on restart")
		repos = memstore.New().Repositories()

	default:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		lgr.Info().Str("dir", cfg.Database.MigrationsDir).Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(database.Pool)
		if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		repos = appRepos.NewRepositories(database)
		closer = database.Close
	}

	defaults := seed.Defaults{
		CategoryID:    cfg.Academy.DefaultCategoryID,
		CategoryName:  cfg.Academy.DefaultCategoryName,
		AdminEmail:    cfg.Academy.AdminEmail,
		AdminPassword: cfg.Academy.AdminPassword,
	}
	if err := seed.CreateDefaultData(ctx, repos, defaults, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return repos, closer, nil
}

// SetupLocker connects the claim lock to Redis. Without a reachable Redis the
// lock only covers this process.
func SetupLocker(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (lock.Locker, Closer) {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured, using in-process claim lock")
		return lock.NewLocalLocker(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, using in-process claim lock")
		_ = client.Close()
		return lock.NewLocalLocker(), func() {}
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Claim lock backed by Redis")
	return lock.NewRedisLocker(client), func() {
		if err := client.Close(); err != nil {
			lgr.Error().Err(err).Msg("Failed to close redis client")
		}
	}
}

// BuildDependencies initializes services, middleware and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, locker lock.Locker, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Repos: repos, Logger: lgr}

	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Issuer = pkgAuth.NewCredentialIssuer(jwtService, repos.TokenRepository)

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.SMTP.BaseURL,
	}, logger.Component("email"))
	if !mailer.Configured() {
		lgr.Warn().Msg("SMTP credentials missing, welcome emails will only be logged")
	}

	deps.Services = appServices.NewServices(repos, deps.Issuer, locker, mailer, appServices.Settings{
		DefaultCategoryID:       cfg.Academy.DefaultCategoryID,
		GeneratedPasswordLength: cfg.Academy.GeneratedPasswordLength,
		ClaimLockTTL:            helpers.ParseDuration(cfg.Academy.ClaimLockTTL, 10*time.Second),
	}, logger.Component("identity"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Issuer, logger.Component("auth"))
	deps.AuthController = appControllers.NewAuthController(deps.Services.ClaimService, deps.Services.AuthService, lgr)
	deps.RegistrationController = appControllers.NewRegistrationController(deps.Services.RegistrationService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.Component("http")))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.RegistrationController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
