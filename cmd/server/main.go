package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"galaxy-explorer/internal/auth"
	"galaxy-explorer/internal/explorer"
	"galaxy-explorer/internal/layout"
	"galaxy-explorer/internal/middleware"
	"galaxy-explorer/internal/scene"
	"galaxy-explorer/internal/server"
	serverHandlers "galaxy-explorer/internal/server/handlers"
	"galaxy-explorer/internal/session"
	"galaxy-explorer/internal/shared/config"
	"galaxy-explorer/internal/shared/database"
	"galaxy-explorer/internal/shared/logger"
	"galaxy-explorer/internal/shared/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize config: %v\n", err)
		os.Exit(1)
	}

	logger.Init()
	log := slog.With("component", "main")

	if err := run(log); err != nil {
		log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}

func run(log *slog.Logger) error {
	cfg := config.GlobalConfig

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, layout cache disabled", "error", err)
		redisClient = nil
	}
	defer redisClient.Close()

	explorerService := explorer.NewService(explorer.NewRepository(db.DB), slog.Default())
	authService := auth.NewService(auth.NewRepository(db.DB), slog.Default())
	layoutService := layout.NewService(
		layout.NewRepository(db.DB),
		layout.NewCache(redisClient, cfg.Layout.CacheTTL, slog.Default()),
		cfg.Galaxy,
		cfg.Sky,
		slog.Default(),
	)

	sessionManager := session.NewManager(session.Config{
		TickRate:      cfg.Scene.TickRate,
		MaxSessions:   cfg.Scene.MaxSessions,
		IdleTimeout:   cfg.Scene.IdleTimeout,
		DefaultLayout: cfg.Layout.DefaultName,
		Scene:         sceneConfig(cfg),
	}, layout.Chain{layoutService, layout.NewFileStore(cfg.Layout.Dir)}, slog.Default())

	cors := middleware.NewCORS(cfg.Frontend)

	deps := server.Dependencies{
		DB:              db,
		ExplorerService: explorerService,
		AuthService:     authService,
		LayoutService:   layoutService,
		SessionManager:  sessionManager,
		OAuthConfig:     auth.InitOAuth(),
		CheckOrigin:     cors.CheckOrigin,
		Logger:          slog.Default(),
	}
	if redisClient != nil {
		deps.Cache = serverHandlers.Pinger(redisClient)
	}
	mux := server.NewRoutes(deps).Setup()

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		Enabled:           cfg.RateLimit.Enabled,
		TrustProxy:        cfg.RateLimit.TrustProxy,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      cors.Middleware(rateLimiter.Middleware(mux)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Galaxy server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"frontend_url", cfg.Frontend.URL,
			"tick_rate", cfg.Scene.TickRate,
			"max_sessions", cfg.Scene.MaxSessions,
		)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		sessionManager.StartReaper(gctx)
		return nil
	})

	g.Go(func() error {
		rateLimiter.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		sessionManager.Shutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func sceneConfig(cfg *config.Config) scene.Config {
	sc := scene.DefaultConfig()
	sc.Galaxy = cfg.Galaxy
	sc.Sky = cfg.Sky
	sc.QuadCapacity = cfg.Scene.QuadCapacity
	sc.PickRadius = cfg.Scene.PickRadius
	sc.PickOffset = cfg.Scene.PickOffset
	sc.MarkerPool = cfg.Scene.MarkerPool
	sc.DebugLevels = cfg.Scene.DebugLevels
	return sc
}
