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

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/oskarn/go-storefront/internal/cache"
	"github.com/oskarn/go-storefront/internal/config"
	"github.com/oskarn/go-storefront/internal/handler"
	"github.com/oskarn/go-storefront/internal/middleware"
	"github.com/oskarn/go-storefront/internal/payment"
	"github.com/oskarn/go-storefront/internal/repository"
	"github.com/oskarn/go-storefront/internal/service"
	"github.com/oskarn/go-storefront/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// In-process response cache, shared by every service.
	store := cache.NewStore()

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	reviewRepo := repository.NewReviewRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	couponRepo := repository.NewCouponRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	statsRepo := repository.NewStatsRepository(dbPool)

	// Services
	authSvc := service.NewAuthService(userRepo, store, cfg.JWT.Secret, cfg.JWT.Expiration)
	productSvc := service.NewProductService(productRepo, store)
	reviewSvc := service.NewReviewService(reviewRepo, productRepo, store)
	ledger := service.NewStockLedger(productRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, ledger, store, amqpCh)
	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.Currency)
	paymentSvc := service.NewPaymentService(couponRepo, productRepo, userRepo, gateway)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	statsSvc := service.NewStatsService(statsRepo, store)

	// Handlers
	userH := handler.NewUserHandler(authSvc)
	productH := handler.NewProductHandler(productSvc)
	reviewH := handler.NewReviewHandler(reviewSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)
	cartH := handler.NewCartHandler(cartSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	mailer := worker.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)
	orderWorker := worker.NewOrderWorker(amqpCh, userRepo, mailer, redisClient, log)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	authed := middleware.AuthMiddleware(cfg.JWT.Secret)

	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users")
		users.POST("/register", userH.Register)
		users.POST("/login", userH.Login)

		usersAdmin := users.Group("", authed, middleware.AdminOnly())
		usersAdmin.GET("", userH.List)
		usersAdmin.GET("/:id", userH.Get)
		usersAdmin.DELETE("/:id", userH.Delete)

		products := v1.Group("/products")
		products.GET("/latest", productH.Latest)
		products.GET("/categories", productH.Categories)
		products.GET("/search", productH.Search)
		products.GET("/:id", productH.GetByID)
		products.GET("/:id/reviews", reviewH.ListByProduct)
		products.POST("/:id/reviews", authed, reviewH.Upsert)

		productsAdmin := products.Group("", authed, middleware.AdminOnly())
		productsAdmin.GET("/admin", productH.AdminList)
		productsAdmin.POST("", productH.Create)
		productsAdmin.PUT("/:id", productH.Update)
		productsAdmin.DELETE("/:id", productH.Delete)

		reviews := v1.Group("/reviews", authed)
		reviews.DELETE("/:id", reviewH.Delete)

		orders := v1.Group("/orders", authed)
		orders.POST("", orderH.Create)
		orders.GET("/my", orderH.My)
		orders.GET("/:id", orderH.Get)

		ordersAdmin := orders.Group("", middleware.AdminOnly())
		ordersAdmin.GET("", orderH.All)
		ordersAdmin.PUT("/:id", orderH.Advance)
		ordersAdmin.DELETE("/:id", orderH.Delete)

		cart := v1.Group("/cart", authed)
		cart.GET("", cartH.Get)
		cart.PUT("", cartH.Update)
		cart.DELETE("", cartH.Clear)

		pay := v1.Group("/payment")
		pay.POST("/create", authed, paymentH.CreateIntent)
		pay.POST("/discount", paymentH.ApplyDiscount)

		coupons := v1.Group("/coupons", authed, middleware.AdminOnly())
		coupons.POST("", paymentH.NewCoupon)
		coupons.GET("", paymentH.Coupons)
		coupons.GET("/:id", paymentH.GetCoupon)
		coupons.PUT("/:id", paymentH.UpdateCoupon)
		coupons.DELETE("/:id", paymentH.DeleteCoupon)

		dashboard := v1.Group("/dashboard", authed, middleware.AdminOnly())
		dashboard.GET("/stats", statsH.Stats)
		dashboard.GET("/pie", statsH.Pie)
		dashboard.GET("/bar", statsH.Bar)
		dashboard.GET("/line", statsH.Line)
	}

	if err := orderWorker.Start(ctx); err != nil {
		log.Error("start order worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	orderWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
