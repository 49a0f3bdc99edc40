package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/internal/api"
	"storefront-service/internal/broker"
	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/gateway"
	"storefront-service/internal/geo"
	"storefront-service/internal/kvstore"
	"storefront-service/internal/pricing"
	"storefront-service/internal/service"
	"storefront-service/internal/util"
	"storefront-service/internal/wallet"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	var kv kvstore.Store = kvstore.NewMemoryStore()
	if cfg.Redis.Enabled {
		redisStore, err := kvstore.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		kv = redisStore
		log.Println("Redis connected")
	}

	var publisher *broker.EventPublisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		log.Println("Kafka producer initialized")
	}

	cat := catalog.NewSeeded()

	calc := pricing.NewCalculator(pricing.Config{
		TaxRate:               cfg.Business.TaxRate,
		FreeShippingThreshold: cfg.Business.FreeShippingThreshold,
		FlatShippingFee:       cfg.Business.FlatShippingFee,
	}, pricing.DefaultRules())

	gw := gateway.NewClient(cfg.Gateway.KeyID, cfg.Gateway.KeySecret, cfg.Gateway.DeclineRate, nil)
	geocoder := geo.NewClient(cfg.Geo.BaseURL)

	checkoutCfg := service.Config{
		CurrencyCode:    cfg.Business.CurrencyCode,
		WalletRateMinor: cfg.Business.WalletRateMinor,
		DeliveryDays:    cfg.Business.DeliveryDays,
	}

	var checkoutPublisher service.EventPublisher
	if publisher != nil {
		checkoutPublisher = publisher
	}
	checkoutService := service.NewCheckoutService(calc, gw, gw, checkoutPublisher, kv, checkoutCfg, nil)

	sessions := service.NewSessionManager(func(id string) *service.Session {
		w := wallet.New(kvstore.WithPrefix(kv, "session:"+id+":"), nil, nil)
		if publisher != nil {
			w.SetPublisher(publisher)
		}
		return service.NewSession(id, cart.New(), w)
	})

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(cat, sessions, checkoutService, gw, geocoder)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
