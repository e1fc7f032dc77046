package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/dedup"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/normalize"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/notify/brevo"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/notify/broker"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/notify/twilio"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/payment"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/render"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/webhook"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/pkg/logger"
)

// configurable is implemented by every channel adapter.
type configurable interface {
	notify.Channel
	Configured() bool
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting order notification server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	m := metrics.New()
	shop := render.Shop{Name: cfg.Shop.Name, Address: cfg.Shop.Address, Phone: cfg.Shop.Phone}
	httpClient := &http.Client{Timeout: cfg.Notify.Timeout}

	// Notification channels
	emailClient := brevo.NewClient(cfg.Brevo, httpClient)
	channels := []configurable{
		twilio.New(cfg.Twilio, shop, httpClient),
		brevo.NewCustomerAdapter(emailClient, shop),
		brevo.NewOperatorAdapter(emailClient, shop),
	}

	var mq *broker.RabbitMQ
	if cfg.Broker.URL != "" {
		mq, err = broker.Dial(cfg.Broker.URL, log)
		if err == nil {
			err = mq.DeclareQueue(cfg.Broker.Queue)
		}
		if err != nil {
			log.Error("order event broker unavailable, channel disabled", "error", err)
			if mq != nil {
				_ = mq.Close()
			}
			mq = nil
		}
	}
	if mq != nil {
		defer mq.Close()
		channels = append(channels, broker.NewAdapter(mq, cfg.Broker.Queue))
	} else {
		channels = append(channels, broker.NewAdapter(nil, cfg.Broker.Queue))
	}

	dispatchTo := make([]notify.Channel, len(channels))
	channelStatus := make(map[string]bool, len(channels))
	for i, ch := range channels {
		dispatchTo[i] = ch
		channelStatus[ch.Name()] = ch.Configured()
		if !ch.Configured() {
			log.Warn("notification channel not configured, sends will be skipped", "channel", ch.Name())
		}
	}
	dispatcher := notify.NewDispatcher(dispatchTo, cfg.Notify.Timeout, m, log)

	// Duplicate sightings: shared through Redis when available, in-process otherwise
	var tracker dedup.Tracker = dedup.NewBloomTracker(cfg.Dedup.Capacity)
	if cfg.Dedup.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := dedup.Connect(pingCtx, cfg.Dedup.RedisAddr)
		cancel()
		if err != nil {
			log.Error("redis unavailable, using in-process duplicate tracker", "error", err)
		} else {
			defer client.Close()
			tracker = dedup.NewRedisTracker(client, cfg.Dedup.TTL)
			log.Info("connected to Redis", "addr", cfg.Dedup.RedisAddr)
		}
	}

	var sessions payment.Sessions
	if cfg.Stripe.SecretKey != "" {
		sessions = payment.NewStripe(cfg.Stripe.SecretKey, payment.BackendsWithClient(httpClient))
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, webhook orders use the event payload only")
	}
	if cfg.Stripe.WebhookSecret == "" {
		log.Warn("STRIPE_WEBHOOK_SECRET not set, every webhook will be rejected")
	}

	// Initialize services
	normalizer := normalize.New(normalize.WithDeliveryFeeLabel(cfg.Stripe.DeliveryFeeLabel))
	orderService := service.NewOrderService(normalizer, dispatcher, sessions, log,
		service.WithTracker(tracker),
		service.WithRecorder(m),
		service.WithGatewayTimeout(cfg.Notify.Timeout),
	)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log, channelStatus)
	orderHandler := handlers.NewOrderHandler(orderService, log)
	webhookHandler := handlers.NewWebhookHandler(webhook.NewGuard(cfg.Stripe.WebhookSecret, cfg.Stripe.WebhookTolerance), orderService, log)
	checkoutHandler := handlers.NewCheckoutHandler(orderService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log, m))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Stripe-Signature"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", m.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", orderHandler.CreateOrder)
		r.Post("/create-pickup-order", orderHandler.CreateOrder)

		r.Post("/webhook/stripe", webhookHandler.HandleStripe)
		r.Post("/webhook-stripe", webhookHandler.HandleStripe)

		r.Get("/checkout-session", checkoutHandler.GetSession)
		r.Get("/get-checkout-session", checkoutHandler.GetSession)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr, "channels", dispatcher.Channels())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("server failed to start", "error", err)
		os.Exit(1)
	}

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
