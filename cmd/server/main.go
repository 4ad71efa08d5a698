package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/spdavis3/golf-pool/internal/api"
	"github.com/spdavis3/golf-pool/internal/api/middleware"
	"github.com/spdavis3/golf-pool/internal/models"
	"github.com/spdavis3/golf-pool/internal/providers"
	"github.com/spdavis3/golf-pool/internal/services"
	"github.com/spdavis3/golf-pool/pkg/config"
	"github.com/spdavis3/golf-pool/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Cache backend: redis when configured, in-process otherwise
	var cache services.Cache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cache = services.NewRedisCache(redisClient)
		logrus.Info("Using redis cache")
	} else {
		cache = services.NewMemoryCache()
		logrus.Info("Using in-process cache")
	}

	// Pool store, seeded from config on first run
	store, err := services.NewPoolStore(db, models.TournamentSettings{
		Name:        cfg.TournamentName,
		Dates:       cfg.TournamentDates,
		Course:      cfg.TournamentCourse,
		ESPNEventID: cfg.ESPNEventID,
		Year:        cfg.TournamentYear,
		EntryFee:    cfg.EntryFee,
	}, logrus.StandardLogger())
	if err != nil {
		logrus.Fatalf("Failed to initialize pool store: %v", err)
	}

	// Feed clients
	feedOpts := providers.Options{
		Timeout:          cfg.ExternalAPITimeout,
		RateLimit:        cfg.ESPNRateLimit,
		BreakerThreshold: cfg.CircuitBreakerThreshold,
	}
	espn := providers.NewESPNClient(cache, logrus.StandardLogger(), feedOpts)
	owgr := providers.NewOWGRClient(cache, logrus.StandardLogger(), cfg.RankingsTTL, feedOpts)

	// Background cache warming
	refresher := services.NewRefresher(store, espn, owgr, logrus.StandardLogger(), cfg.RefreshInterval)
	if err := refresher.Start(); err != nil {
		logrus.Errorf("Failed to start refresher: %v", err)
	}
	defer refresher.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("golfpool", sessionStore))

	router.LoadHTMLGlob("templates/*.html")
	router.Static("/static", "./static")

	api.SetupRoutes(router, store, espn, owgr, cfg.AdminPassword, logrus.StandardLogger())

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
