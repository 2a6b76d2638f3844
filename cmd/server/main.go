package main

import (
	"encoding/gob"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"park-ticketing-platform/internal/config"
	"park-ticketing-platform/internal/handlers"
	"park-ticketing-platform/internal/middleware"
	"park-ticketing-platform/internal/models"
	"park-ticketing-platform/internal/services"
	"park-ticketing-platform/internal/storage"
)

func main() {
	// Register types for session serialization
	gob.Register(&models.Cart{})
	gob.Register(models.CartLineItem{})
	gob.Register([]models.CartLineItem{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Build the storage backend; unreachable backends degrade to memory
	kv := storage.NewKV(storage.Config{
		Backend:       cfg.Storage.Backend,
		FilePath:      cfg.Storage.FilePath,
		SQLitePath:    cfg.Storage.SQLitePath,
		RedisAddr:     cfg.Storage.RedisAddr,
		RedisPassword: cfg.Storage.RedisPassword,
		RedisDB:       cfg.Storage.RedisDB,
	})
	stateStore := storage.NewStateStore(kv)
	log.Printf("Storage backend: %s", cfg.Storage.Backend)

	// Session store carries the cart between requests
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.Server.Env == "production",
		SameSite: http.SameSiteLaxMode,
	}

	// Services
	cartService := services.NewCartService(cfg.Cart.MaxItems)
	orderService := services.NewOrderService(stateStore, cfg.Orders.CancellationWindowDays)
	authService := services.NewAuthService(stateStore, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	reviewService := services.NewReviewService(stateStore)
	statsService := services.NewStatsService(stateStore)

	// Handlers
	cartHandler := handlers.NewCartHandler(cartService, sessionStore, cfg.Orders.AdultTicketPrice, cfg.Orders.ChildTicketPrice)
	orderHandler := handlers.NewOrderHandler(orderService, statsService, sessionStore)
	authHandler := handlers.NewAuthHandler(authService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	statsHandler := handlers.NewStatsHandler(statsService)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.OptionalAuth(authService))

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/cart", cartHandler.GetCart)
		r.Post("/cart/tickets", cartHandler.AddTickets)
		r.Post("/cart/merch", cartHandler.AddMerch)
		r.Post("/cart/items/{itemID}/quantity", cartHandler.ChangeQuantity)
		r.Delete("/cart/items/{itemID}", cartHandler.RemoveItem)

		r.Post("/checkout", orderHandler.Checkout)
		r.Get("/orders", orderHandler.List)
		r.Get("/orders/{orderID}", orderHandler.Get)
		r.Get("/orders/{orderID}/qr", orderHandler.QRPayload)
		r.Post("/orders/{orderID}/cancellation", orderHandler.RequestCancellation)

		r.Post("/reviews", reviewHandler.Submit)
		r.Get("/reviews", reviewHandler.List)
		r.Put("/reviews/{reviewID}", reviewHandler.Edit)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/admin/statistics", statsHandler.Report)
		})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Listening on http://%s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal("Server error:", err)
	}
}
