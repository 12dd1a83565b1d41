package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/cartstore"
	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/fixtures"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/logger"
	"github.com/example/storefront/internal/projection"
	"github.com/example/storefront/internal/query"
	"github.com/example/storefront/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const sweepInterval = time.Minute

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(logger.Options{Service: "storefront-api", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting storefront",
		zap.String("instance_id", cfg.InstanceID),
		zap.String("storage", cfg.StorageBackend),
		zap.Strings("kafka_brokers", cfg.KafkaBrokers),
		zap.String("kafka_topic", cfg.KafkaTopic),
	)

	products, err := fixtures.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal("failed to load catalog", zap.Error(err))
	}
	reviews, err := fixtures.LoadReviews(cfg.ReviewsPath)
	if err != nil {
		log.Fatal("failed to load reviews", zap.Error(err))
	}
	log.Info("fixtures loaded", zap.Int("products", products.Len()), zap.Int("reviews", len(reviews.All())))

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open cart storage", zap.Error(err))
	}
	defer closeStorage()

	storeOpts := []cartstore.Option{cartstore.WithSource(cfg.InstanceID)}
	cmdOpts := []command.Option{command.WithLogger(log)}

	if cfg.KafkaEnabled() {
		cartProducer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		defer cartProducer.Close()
		// the dynamodb table stream feeds the topic through the cartfeed lambda
		if cfg.StorageBackend != config.BackendDynamoDB {
			storeOpts = append(storeOpts, cartstore.WithPublisher(cartProducer))
		}

		orderProducer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaOrderTopic, log)
		defer orderProducer.Close()
		cmdOpts = append(cmdOpts, command.WithOrderPublisher(orderProducer))
	}

	registry := session.NewRegistry(storage, reviews,
		session.WithCartKey(cfg.CartStorageKey),
		session.WithStoreOptions(storeOpts...),
		session.WithLogger(log),
	)
	checkout := order.NewService(order.WithDelay(cfg.CheckoutDelay), order.WithLogger(log))

	cmdHandler := command.NewHandler(products, registry, checkout, cmdOpts...)
	queryHandler := query.NewHandler(products, registry)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		registry.RunSweeper(ctx, sweepInterval, cfg.SessionIdleTimeout)
	}()

	if cfg.KafkaEnabled() {
		// every instance needs every change, so each gets its own group
		groupID := cfg.KafkaConsumerGroup + "-" + cfg.InstanceID
		// earlier changes are already in storage
		consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, groupID, log, kafka.StartAtLatest())
		defer consumer.Close()

		projector := projection.NewProjector(registry, cfg.InstanceID, log)

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("starting cart change consumer", zap.String("group", groupID))
			if err := consumer.Consume(ctx, projector.HandleEvent); err != nil && ctx.Err() == nil {
				log.Error("cart change consumer stopped", zap.Error(err))
			}
		}()
	}

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	jwtService := auth.NewJWTService(cfg.SessionSecret, cfg.SessionTTL)
	router := api.NewRouter(api.NewHandlers(cmdHandler, queryHandler), api.RouterOptions{
		JWT:          jwtService,
		SecureCookie: cfg.AppEnv != "dev",
		Logger:       log,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server started", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", zap.Error(err))
	}

	wg.Wait()
}

// openStorage returns the configured cart storage and a function releasing it.
func openStorage(ctx context.Context, cfg config.Config) (store.Storage, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		s := store.NewPostgresStore(db)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, func() { _ = db.Close() }, nil

	case config.BackendDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return store.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable, store.WithWriter(cfg.InstanceID)), func() {}, nil

	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}
