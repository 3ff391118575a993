// Command server runs the GamerLink scoring engine HTTP API with its
// background scheduler.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vinverse/gamerlink-engine/internal/api/gamerlink"
	"github.com/vinverse/gamerlink-engine/internal/cache"
	"github.com/vinverse/gamerlink-engine/internal/config"
	"github.com/vinverse/gamerlink-engine/internal/repository"
	"github.com/vinverse/gamerlink-engine/internal/service/badges"
	"github.com/vinverse/gamerlink-engine/internal/service/insights"
	"github.com/vinverse/gamerlink-engine/internal/service/leaderboard"
	"github.com/vinverse/gamerlink-engine/internal/service/matchmaking"
	"github.com/vinverse/gamerlink-engine/internal/service/performance"
	"github.com/vinverse/gamerlink-engine/internal/service/scheduler"
	"github.com/vinverse/gamerlink-engine/internal/service/streak"
	"github.com/vinverse/gamerlink-engine/internal/textgen"
	"github.com/vinverse/gamerlink-engine/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log.Info().Str("environment", cfg.Server.Environment).Msg("Starting GamerLink engine")

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.RunMigrations(log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	var c cache.Cache
	redisCache, err := cache.NewRedisCache(&cfg.Database.Redis, log)
	if err != nil {
		// Leaderboards recompute on every request without the cache;
		// everything else is unaffected.
		log.Warn().Err(err).Msg("Redis unavailable, running without leaderboard cache")
	} else {
		c = redisCache
		defer redisCache.Close()
	}

	userRepo := repository.NewUserRepository(db)
	tournamentRepo := repository.NewTournamentRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	lftRepo := repository.NewLFTRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	insightRepo := repository.NewInsightRepository(db)

	streakTracker := streak.NewTracker(userRepo, log)
	badgeService := badges.NewService(badgeRepo, userRepo, tournamentRepo, log)
	performanceService := performance.NewService(userRepo, tournamentRepo, teamRepo, log)
	generator := textgen.NewClient(&cfg.Insights.TextGen, log)
	estimator := insights.NewEstimator(cfg.Insights.UseFeatureModel)
	insightService := insights.NewService(
		userRepo, tournamentRepo, teamRepo, insightRepo,
		generator, estimator, cfg.Insights.JobTimeout, log,
	)
	matchmakingService := matchmaking.NewService(
		userRepo, tournamentRepo, teamRepo, lftRepo,
		cfg.Matchmaking.PoolLimit, log,
	)
	leaderboardService := leaderboard.NewService(userRepo, tournamentRepo, c, log)

	if err := badgeService.SeedCatalog(cfg.Badges); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed badge catalog")
	}

	schedulerService := scheduler.NewService(&cfg.Scheduler, badgeService, lftRepo, log)
	if err := schedulerService.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer schedulerService.Stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(ctx *gin.Context) {
		if err := db.Health(); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := gamerlink.NewHandler(
		streakTracker,
		badgeService,
		performanceService,
		insightService,
		matchmakingService,
		leaderboardService,
		log,
	)
	handler.RegisterRoutes(router.Group("/api/v1"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
	log.Info().Msg("Server stopped")
}
