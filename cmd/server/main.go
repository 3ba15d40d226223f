package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aithaytham/Webkaru/internal/cart"
	"github.com/aithaytham/Webkaru/internal/catalog"
	"github.com/aithaytham/Webkaru/internal/checkout"
	"github.com/aithaytham/Webkaru/internal/config"
	h "github.com/aithaytham/Webkaru/internal/http"
	"github.com/aithaytham/Webkaru/internal/payment"
	"github.com/aithaytham/Webkaru/internal/ratelimit"
	"github.com/aithaytham/Webkaru/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Payment gateway and session service. The allowlist always covers the
	// catalog's own price IDs so a default deployment can sell what it lists;
	// env-sourced IDs extend it.
	cat := catalog.Default()
	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, payment.DefaultPolicy())
	allowed := checkout.NewAllowedPriceSet(append(cat.PriceIDs(), cfg.AllowedPriceIDs...))
	sessionService := checkout.NewService(gateway, allowed, cfg.FrontendURL)

	// Webhook receiver with a persistent event ledger.
	ledger, err := webhook.NewBoltLedger(cfg.WebhookLedgerPath)
	if err != nil {
		log.Fatalf("failed to open webhook ledger: %v", err)
	}
	defer ledger.Close()

	if cfg.StripeWebhookSecret == "" {
		log.Println("WARNING: STRIPE_WEBHOOK_SECRET not set, webhook deliveries will be rejected")
	}
	receiver := webhook.NewReceiver(cfg.StripeWebhookSecret, ledger)
	receiver.Handle(webhook.EventCheckoutSessionCompleted, webhook.CompletedSessionHandler(gateway))
	receiver.Handle(webhook.EventPaymentIntentSucceeded, webhook.SucceededPaymentHandler())
	receiver.Handle(webhook.EventPaymentIntentFailed, webhook.FailedPaymentHandler())

	// Carts and rate limiters share the Redis connection when one is
	// configured, falling back to in-process stores otherwise.
	var (
		cartStore                       cart.Store
		generalLimiter, checkoutLimiter ratelimit.Limiter
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		cartStore = cart.NewRedisStore(redisClient)
		generalLimiter = ratelimit.NewRedisLimiter(redisClient, "api", cfg.RateLimitWindow, cfg.RateLimitMax)
		checkoutLimiter = ratelimit.NewRedisLimiter(redisClient, "checkout", cfg.RateLimitWindow, cfg.CheckoutRateLimitMax)
	} else {
		cartStore = cart.NewMemoryStore()
		generalLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)
		checkoutLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimitWindow, cfg.CheckoutRateLimitMax)
	}

	cartService := cart.NewService(cartStore, cat)

	checkoutHandler := h.NewCheckoutHandler(sessionService, cfg.RequestTimeout, cfg.IsDevelopment())
	cartHandler := h.NewCartHandler(cartService, sessionService, cat, cfg.RequestTimeout, cfg.IsDevelopment())
	webhookHandler := h.NewWebhookHandler(receiver, cfg.MaxRequestBodySize)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(corsOptions(cfg)))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status":      "OK",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.Environment,
		})
	})

	generalLimit := h.RateLimit(generalLimiter, "Too many requests from this IP, please try again later.")
	checkoutLimit := h.RateLimit(checkoutLimiter, "Too many payment attempts, please try again later.")

	r.Route("/api", func(r chi.Router) {
		r.With(generalLimit, checkoutLimit).Post("/create-checkout-session", checkoutHandler.CreateCheckoutSession)
		r.With(generalLimit).Get("/checkout-session/{sessionID}", checkoutHandler.GetCheckoutSession)

		r.Route("/cart/{cartID}", func(r chi.Router) {
			r.Use(generalLimit)
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productKey}", cartHandler.UpdateQuantity)
			r.Delete("/items/{productKey}", cartHandler.RemoveItem)
			r.With(checkoutLimit).Post("/checkout", cartHandler.CheckoutCart)
		})
	})

	r.Post("/webhook", webhookHandler.HandleWebhook)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "checkout-backend"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("checkout backend starting on :%s (env=%s)", cfg.HTTPPort, cfg.Environment)
		if cfg.LiveMode() {
			log.Println("WARNING: live Stripe key configured, real payments will be processed")
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

// corsOptions is permissive when no origin allowlist is configured and
// strict when one is.
func corsOptions(cfg *config.Config) cors.Options {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: len(cfg.AllowedOrigins) > 0,
		MaxAge:           300,
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
