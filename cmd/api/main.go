package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/coderr-app/coderr-backend/internal/handlers"
	"github.com/coderr-app/coderr-backend/internal/mailer"
	"github.com/coderr-app/coderr-backend/internal/repository"
	"github.com/coderr-app/coderr-backend/internal/service"
	"github.com/coderr-app/coderr-backend/pkg/config"
	"github.com/coderr-app/coderr-backend/pkg/database"
	"github.com/coderr-app/coderr-backend/pkg/events"
	"github.com/coderr-app/coderr-backend/pkg/logger"
	mw "github.com/coderr-app/coderr-backend/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	if err := database.Migrate(cfg.Database.URL); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to event bus
	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Redis cache for aggregate stats
	var cache *redis.Client
	if opts, err := redis.ParseURL(cfg.Redis.URL); err != nil {
		logger.Warn("Invalid Redis URL, stats caching disabled", "error", err)
	} else {
		if cfg.Redis.Password != "" {
			opts.Password = cfg.Redis.Password
		}
		opts.DB = cfg.Redis.DB
		cache = redis.NewClient(opts)
		defer cache.Close()
	}

	// Outbound email
	var mail mailer.Service
	if cfg.Email.DevMode || cfg.Email.MailerSendKey == "" {
		mail = mailer.NewDevMailer()
	} else {
		mail = mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	offerRepo := repository.NewOfferRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	// Initialize services
	authService := service.NewAuthService(userRepo, profileRepo, mail, eventBus, cfg)
	profileService := service.NewProfileService(profileRepo)
	offerService := service.NewOfferService(offerRepo, eventBus)
	orderService := service.NewOrderService(orderRepo, profileRepo, eventBus)
	reviewService := service.NewReviewService(reviewRepo, profileRepo, eventBus)
	statsService := service.NewStatsService(statsRepo, cache, cfg.Redis.StatsTTL)

	// Initialize handlers
	h := handlers.New(authService, offerService, orderService, reviewService, profileService, statsService, cfg)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000", "*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(mw.Health)

	r.Mount("/api", h.Routes())

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API server", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}
