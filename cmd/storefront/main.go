// @title			Storefront API
// @version		1.0
// @description	Cart, discount, checkout and payment API for the storefront.
// @BasePath		/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/aaravmahajanofficial/storefront/docs"
	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/events"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/telemetry"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/pkg/sendGrid"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	cartRepo := repository.NewCartRepository(redisCache, cfg.Cache.CartTTL)
	productRepo := repository.NewCachedProductRepository(repos.Product, redisCache, cfg.Cache.DefaultTTL)
	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg.RateConfig)

	publisher := events.NewNoopPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka)
		slog.Info("Order events publishing to Kafka", slog.Any("brokers", cfg.Kafka.Brokers))
	}

	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Error("⚠️ Error closing event publisher", slog.String("error", err.Error()))
		}
	}()

	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	sendGridClient := sendGrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	notificationService := service.NewNotificationService(sendGridClient)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo, cfg.Checkout.Currency)
	discountService := service.NewDiscountService(repos.Discount, productRepo, cfg.Checkout.Currency)
	pricingService := service.NewPricingService(service.NewFlatRateShipping(cfg.Shipping))
	orderService := service.NewOrderService(service.OrderDeps{
		Tx:             repos.Tx,
		Orders:         repos.Order,
		Discounts:      repos.Discount,
		Reconciliation: repos.Reconciliation,
		Carts:          cartRepo,
		Stripe:         stripeClient,
		Publisher:      publisher,
		Notifier:       notificationService,
	})
	checkoutService := service.NewCheckoutService(cartRepo, discountService, pricingService, orderService)
	paymentService := service.NewPaymentService(orderService, stripeClient)
	authService := service.NewAuthService(cfg.Security, rateLimiter)
	reconciliationService := service.NewReconciliationService(repos.Reconciliation)

	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	discountHandler := handlers.NewDiscountHandler(discountService, cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, paymentService, orderService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	adminHandler := handlers.NewAdminHandler(authService, reconciliationService)

	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))
	verifyLimit := middleware.RateLimit(rateLimiter, "discount_verify", utils.ClientIP)

	healthChecker, err := health.NewHealthHandler(cfg, &health.Endpoints{
		DB:           repos.DB,
		RedisClient:  redisClient,
		StripeClient: stripeClient,
	})
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()

	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())

	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("PUT /api/v1/cart/items", cartHandler.UpdateItem())
	routerMux.HandleFunc("DELETE /api/v1/cart/items", cartHandler.RemoveItem())
	routerMux.HandleFunc("DELETE /api/v1/cart", cartHandler.ClearCart())

	routerMux.HandleFunc("POST /api/v1/discounts/verify", verifyLimit(discountHandler.VerifyDiscount()))
	routerMux.HandleFunc("GET /api/v1/discounts", authMiddleware.RequireAdmin(discountHandler.ListDiscounts()))
	routerMux.HandleFunc("POST /api/v1/discounts", authMiddleware.RequireAdmin(discountHandler.CreateDiscount()))

	routerMux.HandleFunc("POST /api/v1/checkout", checkoutHandler.StartCheckout())
	routerMux.HandleFunc("POST /api/v1/checkout/{id}/confirm", checkoutHandler.ConfirmPayment())
	routerMux.HandleFunc("POST /api/v1/checkout/{id}/cancel", checkoutHandler.CancelCheckout())
	routerMux.HandleFunc("GET /api/v1/orders/{id}", orderHandler.GetOrder())

	routerMux.HandleFunc("POST /api/v1/payments/webhook", paymentHandler.HandleStripeWebhook())

	routerMux.HandleFunc("POST /api/v1/admin/login", adminHandler.Login())
	routerMux.HandleFunc("GET /api/v1/admin/orders", authMiddleware.RequireAdmin(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/admin/orders/{id}", authMiddleware.RequireAdmin(orderHandler.GetOrderAdmin()))
	routerMux.HandleFunc("POST /api/v1/admin/orders/{id}/refund", authMiddleware.RequireAdmin(paymentHandler.RefundOrder()))
	routerMux.HandleFunc("GET /api/v1/admin/reconciliation", authMiddleware.RequireAdmin(adminHandler.ListReconciliationIssues()))
	routerMux.HandleFunc("POST /api/v1/admin/reconciliation/{id}/resolve", authMiddleware.RequireAdmin(adminHandler.ResolveReconciliationIssue()))

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthChecker.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Session(handler)
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, "storefront")

	// Setup http server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}

		slog.Info("✅ Server shut down gracefully. All connections closed.")

		return shutdownTracer(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("⚠️ Server stopped with error", slog.String("error", err.Error()))
	}
}
