package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samantha-blablabla/MyVault-sub000/internal/infra/postgres"
	infraRedis "github.com/samantha-blablabla/MyVault-sub000/internal/infra/redis"
	"github.com/samantha-blablabla/MyVault-sub000/internal/market"
	"github.com/samantha-blablabla/MyVault-sub000/internal/platform/user"
	"github.com/samantha-blablabla/MyVault-sub000/internal/receipt"
	"github.com/samantha-blablabla/MyVault-sub000/internal/transport/httpapi"
	"github.com/samantha-blablabla/MyVault-sub000/internal/transport/httpapi/handler"
	"github.com/samantha-blablabla/MyVault-sub000/internal/transport/httpapi/middleware"
	"github.com/samantha-blablabla/MyVault-sub000/internal/vault"
	"github.com/samantha-blablabla/MyVault-sub000/pkg/config"
	"github.com/samantha-blablabla/MyVault-sub000/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting MyVault API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Initialize database connection pool
	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Redis client for quote caching
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established")

	// Initialize market data provider
	quoteCache := infraRedis.NewCache(redisClient, cfg.QuoteTTL, log)
	if cfg.MarketSeed != 0 {
		// Quotes cached by a previous run would pin the feed and break
		// seeded reproducibility
		if err := quoteCache.Clear(ctx); err != nil {
			log.Warn("Failed to clear quote cache", "error", err)
		}
	}
	marketProvider := market.NewStubProvider(cfg.MarketSeed, quoteCache, log)
	log.Info("Market provider initialized", "seed", cfg.MarketSeed)

	// Initialize vault with its persistence mirrors
	txRepo := postgres.NewTransactionRepository(db.Pool)
	stateRepo := postgres.NewStateRepository(db.Pool)
	v := vault.New(txRepo, stateRepo, marketProvider, log)
	v.Load(ctx)
	log.Info("Vault hydrated from mirror")

	// Initialize the single vault owner and auth services
	owner, err := user.NewOwner(cfg.VaultEmail, cfg.VaultPassword)
	if err != nil {
		log.Error("Failed to initialize vault owner", "error", err)
		os.Exit(1)
	}
	authSvc := user.NewService(owner)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)

	// Initialize receipt parser: OpenAI when configured, regex rules otherwise
	var parser receipt.Parser
	if cfg.OpenAIAPIKey != "" {
		parser = receipt.NewOpenAIParser(cfg.OpenAIAPIKey, log)
		log.Info("Receipt scanning using OpenAI")
	} else {
		parser = receipt.NewRulesParser()
		log.Warn("OPENAI_API_KEY not configured, receipt scanning falls back to rules")
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authSvc, jwtSvc)
	transactionHandler := handler.NewTransactionHandler(v, parser)
	portfolioHandler := handler.NewPortfolioHandler(v)
	budgetHandler := handler.NewBudgetHandler(v)
	advisoryHandler := handler.NewAdvisoryHandler(v)
	goalHandler := handler.NewGoalHandler(v)
	marketHandler := handler.NewMarketHandler(marketProvider)
	healthHandler := handler.NewHealthHandler(db, handler.PingerFunc(func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	}))

	// Create JWT middleware
	jwtMiddleware := middleware.JWTMiddleware(jwtSvc)

	// Determine allowed origins for CORS
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:5174"} // Vite ports
	if cfg.IsProduction() {
		if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
			allowedOrigins = []string{origins}
		}
	}

	// Create HTTP router
	r := httpapi.NewRouter(httpapi.Config{
		Logger:             log,
		AllowedOrigins:     allowedOrigins,
		AuthHandler:        authHandler,
		TransactionHandler: transactionHandler,
		PortfolioHandler:   portfolioHandler,
		BudgetHandler:      budgetHandler,
		AdvisoryHandler:    advisoryHandler,
		GoalHandler:        goalHandler,
		MarketHandler:      marketHandler,
		HealthHandler:      healthHandler,
		JWTMiddleware:      jwtMiddleware,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
