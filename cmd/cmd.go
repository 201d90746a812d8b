package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marktx-backend/internal/config"
	"marktx-backend/internal/handlers"
	"marktx-backend/internal/middleware"
	"marktx-backend/internal/relay"
	"marktx-backend/internal/repository"
	"marktx-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Connect to redis (change-feed and optional presence backend)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping redis")
	}
	log.Info().Msg("Redis connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	adRepo := repository.NewAdRepository(db)
	imageRepo := repository.NewImageRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	requestRepo := repository.NewPurchaseRequestRepository(db)
	reportRepo := repository.NewReportRepository(db)
	recRepo := repository.NewRecommendationRepository(db)

	// Presence store
	var presence relay.PresenceStore
	if cfg.Relay.Presence == "redis" {
		presence = relay.NewRedisPresence(rdb)
	} else {
		presence = relay.NewMemoryPresence()
	}

	// Relay
	hub := relay.NewHub(presence)
	feed := relay.NewChangeFeed(rdb, hub)

	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()
	go feed.Run(feedCtx)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWT.Secret)
	adService := services.NewAdService(adRepo)
	chatService := services.NewChatService(chatRepo, userRepo)
	messageService := services.NewMessageService(messageRepo, chatService)
	pusher, err := services.NewPushSender(cfg.APNS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push sender")
	}
	notifService := services.NewNotificationService(notifRepo, userRepo, presence, pusher)
	requestService := services.NewPurchaseRequestService(requestRepo, adRepo, chatService, notifService)
	reportService := services.NewReportService(reportRepo)
	recService := services.NewRecommendationService(recRepo)
	imageService, err := services.NewImageService(imageRepo, adRepo, cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create image service")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	adHandler := handlers.NewAdHandler(adService)
	chatHandler := handlers.NewChatHandler(chatService)
	messageHandler := handlers.NewMessageHandler(messageService, feed)
	notifHandler := handlers.NewNotificationHandler(notifService)
	requestHandler := handlers.NewPurchaseRequestHandler(requestService)
	reportHandler := handlers.NewReportHandler(reportService)
	imageHandler := handlers.NewImageHandler(imageService)
	recHandler := handlers.NewRecommendationHandler(recService)
	wsHandler := handlers.NewWebSocketHandler(hub, feed, userService, chatService, messageService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/images/{adId}", imageHandler.ListByAd)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(userService))

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/logout", authHandler.Logout)
			r.Put("/users/push-token", authHandler.UpdatePushToken)
			r.Get("/users/{id}", authHandler.Profile)

			r.Get("/ads", adHandler.List)
			r.Post("/ads", adHandler.Create)
			r.Get("/ads/{id}", adHandler.Get)
			r.Patch("/ads/{id}", adHandler.Update)
			r.Patch("/ads/{id}/sold", adHandler.MarkSold)
			r.Delete("/ads/{id}", adHandler.Delete)

			r.Get("/chats", chatHandler.List)
			r.Post("/chats/start", chatHandler.Start)
			r.Get("/chats/{chatId}/partner", chatHandler.Partner)

			r.Get("/messages/{chatId}", messageHandler.ListForChat)
			r.Post("/messages", messageHandler.Send)

			r.Get("/notifications", notifHandler.List)
			r.Patch("/notifications/{id}/read", notifHandler.MarkRead)

			r.Post("/requests", requestHandler.Create)
			r.Get("/requests", requestHandler.List)
			r.Patch("/requests/{id}", requestHandler.Decide)

			r.Post("/reports/general", reportHandler.CreateGeneral)
			r.Post("/reports/ad", reportHandler.CreateForAd)

			r.Post("/images", imageHandler.Add)
			r.Post("/images/upload", imageHandler.Upload)
			r.Delete("/images/{imageId}", imageHandler.Delete)

			r.Get("/recommendations/personalized", recHandler.Personalized)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	stopFeed()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
