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

	"github.com/transitx/marketplace/internal/handlers"
	"github.com/transitx/marketplace/internal/repository"
	"github.com/transitx/marketplace/internal/service"
	"github.com/transitx/marketplace/pkg/auth"
	"github.com/transitx/marketplace/pkg/cache"
	"github.com/transitx/marketplace/pkg/config"
	"github.com/transitx/marketplace/pkg/database"
	"github.com/transitx/marketplace/pkg/events"
	"github.com/transitx/marketplace/pkg/logger"
	mw "github.com/transitx/marketplace/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Connect to the document store
	connectCtx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	client, err := database.Connect(connectCtx, cfg.Mongo.URI)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect error", "error", err)
		}
	}()
	db := client.Database(cfg.Mongo.Database)

	// Connect to redis (idempotency cache)
	redisClient, err := cache.Connect(connectCtx, cfg.Redis.URL)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Connect to event bus
	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo, eventBus)
	ticketService := service.NewTicketService(ticketRepo, eventBus)
	bookingService := service.NewBookingService(bookingRepo, ticketRepo, eventBus)

	// Initialize handlers
	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret)
	h := handlers.New(userService, ticketService, bookingService, verifier)

	idempotencyStore := cache.NewIdempotencyStore(redisClient)

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("TransitX marketplace API"))
	})

	// Public routes
	r.Post("/user", h.UpsertLogin)
	r.Get("/user/role/{email}", h.GetRole)
	r.Get("/tickets/approved", h.ListApprovedTickets)
	r.Get("/tickets/{id}", h.GetApprovedTicket)
	r.Post("/tickets", h.SubmitTicket)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.With(mw.Idempotency(idempotencyStore)).Post("/bookings", h.CreateBooking)
		r.Get("/my-tickets/{email}", h.MyTickets)
		r.Get("/my-bookings/{email}", h.MyBookings)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)

			r.Get("/tickets", h.ListAllTickets)
			r.Patch("/tickets/{id}/approve", h.ApproveTicket)
			r.Patch("/tickets/{id}/reject", h.RejectTicket)
		})
	})

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

		logger.Info("Shutting down marketplace...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting marketplace", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
