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
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/stg-catalog/catalog-api/internal/auth"
	"github.com/stg-catalog/catalog-api/internal/cart"
	"github.com/stg-catalog/catalog-api/internal/checkout"
	"github.com/stg-catalog/catalog-api/internal/config"
	"github.com/stg-catalog/catalog-api/internal/coupon"
	"github.com/stg-catalog/catalog-api/internal/handlers"
	"github.com/stg-catalog/catalog-api/internal/middleware"
	"github.com/stg-catalog/catalog-api/internal/repository"
	"github.com/stg-catalog/catalog-api/internal/service"
	"github.com/stg-catalog/catalog-api/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting catalog api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	ctx := context.Background()

	// Initialize repositories. Without a Mongo URI everything runs on the
	// in-memory implementations, which is enough for local development.
	var (
		productRepo repository.ProductRepository
		cartRepo    repository.CartRepository
		couponRepo  repository.CouponRepository
		orderRepo   repository.OrderRepository
		userRepo    repository.UserRepository
	)

	if cfg.Mongo.URI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err := repository.Connect(connectCtx, cfg.Mongo.URI)
		cancel()
		if err != nil {
			log.Error("failed to connect to mongodb", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error("failed to disconnect from mongodb", "error", err)
			}
		}()

		db := client.Database(cfg.Mongo.Database)
		productRepo = repository.NewMongoProductRepository(db)
		cartRepo = repository.NewMongoCartRepository(db)
		couponRepo = repository.NewMongoCouponRepository(db)
		orderRepo = repository.NewMongoOrderRepository(db)
		userRepo = repository.NewMongoUserRepository(db)

		log.Info("connected to mongodb", "database", cfg.Mongo.Database)
	} else {
		log.Warn("MONGO_URI not set, using in-memory repositories")
		memProducts := repository.NewInMemoryProductRepository()
		productRepo = memProducts
		cartRepo = repository.NewInMemoryCartRepository(memProducts)
		couponRepo = repository.NewInMemoryCouponRepository()
		orderRepo = repository.NewInMemoryOrderRepository()
		userRepo = repository.NewInMemoryUserRepository()
	}

	// Session store, Redis-backed when configured.
	var sessions auth.SessionStore
	if cfg.Redis.Addr != "" {
		redisStore := auth.NewRedisSessionStore(cfg.Redis.Addr, cfg.Redis.Password)
		if err := redisStore.Ping(ctx); err != nil {
			log.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		sessions = redisStore
		log.Info("connected to redis", "addr", cfg.Redis.Addr)
	} else {
		log.Warn("REDIS_ADDR not set, using in-memory session store")
		sessions = auth.NewInMemorySessionStore()
	}

	// Warm the coupon cache
	couponResolver := coupon.NewResolver(couponRepo)
	if err := couponResolver.Load(ctx); err != nil {
		log.Error("failed to load coupons", "error", err)
		os.Exit(1)
	}
	stats := couponResolver.Stats()
	log.Info("coupons loaded", "cached_coupons", stats["cached_coupons"])

	// Initialize services
	authService := auth.NewService(
		userRepo,
		sessions,
		[]byte(cfg.Auth.JWTSecret),
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
		log,
	)
	productService := service.NewProductService(productRepo)
	orderService := service.NewOrderService(orderRepo, log)
	cartManager := cart.NewManager(cartRepo, log)
	checkoutBuilder := checkout.NewBuilder(cfg.Checkout.WhatsAppNumber, cfg.Checkout.StoreName)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	productHandler := handlers.NewProductHandler(productService, log)
	couponHandler := handlers.NewCouponHandler(couponResolver, log)
	authHandler := handlers.NewAuthHandler(authService, cartManager, log)
	cartHandler := handlers.NewCartHandler(cartManager, productService, couponResolver, log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutBuilder, cartManager, couponResolver, log)
	orderHandler := handlers.NewOrderHandler(orderService, cartManager, couponResolver, log)

	authLimiter := middleware.NewRateLimiter(rate.Limit(cfg.Auth.RateLimitRPS), cfg.Auth.RateLimitBurst)
	requireSession := middleware.Authenticate(authService)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Auth endpoints, login and registration are rate limited per IP
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Limit)
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
			})
			r.Group(func(r chi.Router) {
				r.Use(requireSession)
				r.Post("/logout", authHandler.Logout)
				r.Get("/session", authHandler.Session)
			})
		})

		// Product endpoints
		r.Get("/product", productHandler.ListProducts)
		r.Get("/product/{productId}", productHandler.GetProduct)

		// Coupon endpoints
		r.Get("/coupon/stats", couponHandler.GetStats)
		r.Get("/coupon/{couponCode}", couponHandler.ValidateCoupon)

		// Everything below requires a signed-in session
		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Post("/", cartHandler.AddItem)
				r.Delete("/", cartHandler.ClearCart)
				r.Get("/quote", cartHandler.Quote)
				r.Put("/{itemId}", cartHandler.UpdateItem)
				r.Delete("/{itemId}", cartHandler.RemoveItem)
			})

			r.Get("/checkout/whatsapp", checkoutHandler.WhatsApp)
			r.Get("/checkout/whatsapp/qr", checkoutHandler.WhatsAppQR)

			r.Post("/order", orderHandler.CreateOrder)
			r.Get("/order", orderHandler.ListOrders)
		})
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
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
