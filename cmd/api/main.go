package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/example/boutique/internal/api"
	"github.com/example/boutique/internal/auth"
	"github.com/example/boutique/internal/catalog"
	"github.com/example/boutique/internal/checkout"
	"github.com/example/boutique/internal/infrastructure/kafka"
	"github.com/example/boutique/internal/metrics"
	"github.com/example/boutique/internal/order"
	"github.com/example/boutique/internal/settings"
	"github.com/example/boutique/internal/storage"
	"github.com/example/boutique/internal/visit"
)

const cartTTL = 30 * 24 * time.Hour

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	addr := getEnv("ADDR", ":8080")
	postgresConnStr := os.Getenv("DATABASE_URL")
	redisAddr := os.Getenv("REDIS_ADDR")
	orderBackend := getEnv("ORDER_STORE", "postgres")
	dynamoTable := getEnv("DYNAMO_ORDERS_TABLE", "boutique-orders")
	kafkaBrokersStr := os.Getenv("KAFKA_BROKERS")
	kafkaTopic := getEnv("KAFKA_TOPIC", "boutique-orders")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("[API] JWT_SECRET environment variable is required")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("[API] JWT_SECRET must be at least 32 characters long")
	}

	adminEmail := getEnv("ADMIN_EMAIL", "admin@maboutique.com")
	adminPasswordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminPasswordHash == "" {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			log.Fatal("[API] ADMIN_PASSWORD_HASH or ADMIN_PASSWORD is required")
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatalf("[API] Invalid admin password: %v", err)
		}
		adminPasswordHash = hash
	}

	log.Println("[API] ========================================")
	log.Println("[API] Boutique - Storefront & Back Office")
	log.Println("[API] ========================================")

	// Stores: PostgreSQL when configured, seeded sample data otherwise.
	var (
		productStore  catalog.Store
		orderStore    order.Store
		settingsStore settings.Store
		visitStore    visit.Store
	)

	if postgresConnStr != "" {
		db, err := catalog.ConnectPostgres(postgresConnStr)
		if err != nil {
			log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()
		log.Println("[API] Connected to PostgreSQL")

		if productStore, err = catalog.NewPostgresStore(db); err != nil {
			log.Fatalf("[API] Failed to init product store: %v", err)
		}
		if settingsStore, err = settings.NewPostgresStore(db); err != nil {
			log.Fatalf("[API] Failed to init settings store: %v", err)
		}
		if visitStore, err = visit.NewPostgresStore(db); err != nil {
			log.Fatalf("[API] Failed to init visit store: %v", err)
		}

		switch orderBackend {
		case "dynamo":
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				log.Fatalf("[API] Failed to load AWS config: %v", err)
			}
			orderStore = order.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), dynamoTable)
			log.Printf("[API] Order store: DynamoDB (%s)", dynamoTable)
		default:
			if orderStore, err = order.NewPostgresStore(db); err != nil {
				log.Fatalf("[API] Failed to init order store: %v", err)
			}
			log.Println("[API] Order store: PostgreSQL")
		}
	} else {
		log.Println("[API] DATABASE_URL not set - using in-memory stores with sample data")
		productStore = catalog.NewSampleStore()
		orderStore = order.NewMemoryStore()
		settingsStore = settings.NewMemoryStore()
		visitStore = visit.NewMemoryStore()
	}

	// Cart persistence: Redis when configured, process memory otherwise.
	var kv storage.KV
	if redisAddr != "" {
		redisKV := storage.NewRedisKV(redisAddr, cartTTL)
		if err := redisKV.Ping(ctx); err != nil {
			log.Fatalf("[API] Failed to connect to Redis: %v", err)
		}
		defer redisKV.Close()
		kv = redisKV
		log.Printf("[API] Cart storage: Redis (%s)", redisAddr)
	} else {
		kv = storage.NewMemoryKV()
		log.Println("[API] Cart storage: in-memory")
	}

	// Order events: enabled only when Kafka brokers are configured.
	var publisher checkout.EventPublisher
	if kafkaBrokersStr != "" {
		producer := kafka.NewProducer(strings.Split(kafkaBrokersStr, ","), kafkaTopic)
		defer producer.Close()
		publisher = producer
		log.Printf("[API] Order events: Kafka topic %s", kafkaTopic)
	} else {
		log.Println("[API] Order events: disabled (KAFKA_BROKERS not set)")
	}

	jwtService := auth.NewJWTService(jwtSecret, 15*time.Minute)
	checkoutSvc := checkout.NewService(orderStore, publisher)
	serverMetrics := metrics.NewServerMetrics("api")

	handlers := api.NewHandlers(productStore, orderStore, settingsStore, visitStore, kv, checkoutSvc)
	authHandlers := api.NewAuthHandlers(jwtService, adminEmail, adminPasswordHash)
	router := api.NewRouter(api.RouterConfig{
		Handlers:     handlers,
		AuthHandlers: authHandlers,
		JWTService:   jwtService,
		Metrics:      serverMetrics,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
