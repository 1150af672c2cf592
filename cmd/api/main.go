package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/oddslip/oddslip/app"
	"github.com/oddslip/oddslip/app/api"
	"github.com/oddslip/oddslip/app/betting"
	"github.com/oddslip/oddslip/app/database"
	"github.com/oddslip/oddslip/app/user"
	"github.com/oddslip/oddslip/app/wallet"
	"github.com/oddslip/oddslip/internal/cache"
	"github.com/oddslip/oddslip/internal/deps"
	"github.com/oddslip/oddslip/internal/logger"
	"github.com/oddslip/oddslip/internal/router"
	"github.com/oddslip/oddslip/internal/sanitizer"
	"github.com/oddslip/oddslip/internal/security"
)

// @title Oddslip API
// @version 1.0
// @description Sports betting account platform: bets, settlement, wallet and ledger.

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.New(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := database.MigrateUp(&cfg.DB, cfg.MigrationsURL); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	appLogger := logger.NewZeroLogger(os.Stdout, logLevel(cfg.Env), logger.Fields{"service": "oddslip-api"})

	tokenMaker, err := security.NewPasetoMaker(cfg.TokenSymmetricKey)
	if err != nil {
		log.Fatal("Failed to create token maker:", err)
	}

	cacheService := newCache(cfg)

	container := deps.NewContainer(db, tokenMaker, sanitizer.NewHTMLStripper(), appLogger, cacheService, cfg.AccessTokenDuration)
	user.InitRepositories(container)
	betting.InitRepositories(container)
	wallet.InitRepositories(container)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(api.CorsMiddleware())
	engine.GET("/healthz", api.HealthCheck)

	mounter := router.NewMounter(container)

	mounter.Public(engine).
		Mount(user.MountPublic).
		Mount(wallet.MountPublic)

	mounter.Authenticated(engine).
		WithAuth(user.AuthMiddleware(tokenMaker, cacheService)).
		Mount(user.MountAuthenticated).
		Mount(betting.MountAuthenticated).
		Mount(wallet.MountAuthenticated)

	addr := fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)
	appLogger.Info("starting API server", logger.Fields{"addr": addr, "env": cfg.Env})
	if err := engine.Run(addr); err != nil {
		appLogger.Fatal(err, nil)
	}
}

func newCache(cfg *app.Config) cache.Cache[string] {
	if cfg.CacheBackend == cache.RedisBackend {
		return cache.NewCache[string](cache.RedisBackend, &cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}
	return cache.NewCache[string](cache.MemoryBackend)
}

func logLevel(env string) logger.Level {
	if env == "development" {
		return logger.LevelDebug
	}
	return logger.LevelInfo
}
