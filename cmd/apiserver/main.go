// API server entry point for ClauseMatch: wires configuration, storage,
// search backends and the HTTP interface together, then serves until a
// termination signal arrives.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/ClauseMatch/internal/config"
	"github.com/turtacn/ClauseMatch/internal/domain/document"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/corpus"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/database/postgres"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/database/redis"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/embedding"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/search/milvus"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/search/opensearch"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/storage/minio"
	"github.com/turtacn/ClauseMatch/internal/ingestion"
	httpserver "github.com/turtacn/ClauseMatch/internal/interfaces/http"
	"github.com/turtacn/ClauseMatch/internal/interfaces/http/handlers"
	"github.com/turtacn/ClauseMatch/internal/matching"
	"github.com/turtacn/ClauseMatch/internal/retrieval"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, portOverride int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if portOverride > 0 {
		cfg.Server.Port = portOverride
	}

	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logging.SetGlobalLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL: corpus of record.
	dbURL := postgres.BuildDSN(cfg.Database)
	if err := postgres.RunMigrations(dbURL); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	pool, err := postgres.NewConnectionPool(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()
	repo := postgres.NewChunkRepository(pool, log)

	// Redis: read-through corpus cache and ingestion run locks.
	redisClient, err := redis.NewClient(&redis.RedisConfig{
		Mode:         "standalone",
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		KeyPrefix:    cfg.Redis.KeyPrefix,
	}, log)
	if err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	defer redisClient.Close()

	locks := redis.NewLockFactory(redisClient, log)
	cache := redis.NewRedisCache(redisClient, log)
	cachedRepo := corpus.NewCachedRepository(repo, cache, cfg.Redis.DefaultTTL, log)

	// Milvus: dense (body + title) indexes.
	milvusClient, err := milvus.NewClient(milvus.ClientConfig{
		Address: cfg.Milvus.Addr,
		DBName:  cfg.Milvus.DBName,
	}, log)
	if err != nil {
		return fmt.Errorf("milvus connection failed: %w", err)
	}
	defer milvusClient.Close()

	collections, err := milvus.NewCollectionManager(milvusClient, milvus.CollectionConfig{
		Prefix:             cfg.Milvus.CollectionPrefix,
		Dimension:          cfg.Embedding.Dimension,
		IndexType:          cfg.Milvus.IndexType,
		HNSWM:              cfg.Milvus.HNSWM,
		HNSWEfConstruction: cfg.Milvus.HNSWEfConstruction,
	}, log)
	if err != nil {
		return fmt.Errorf("milvus collection manager failed: %w", err)
	}
	vectorStore := milvus.NewStore(milvusClient, collections, milvus.StoreConfig{}, log)

	// OpenSearch: lexical (BM25) index with alias-swapped generations.
	osClient, err := opensearch.NewClient(opensearch.ClientConfig{
		Addresses: cfg.OpenSearch.Addresses,
		Username:  cfg.OpenSearch.User,
		Password:  cfg.OpenSearch.Password,
	}, log)
	if err != nil {
		return fmt.Errorf("opensearch connection failed: %w", err)
	}
	defer osClient.Close()

	indexer := opensearch.NewIndexer(osClient, opensearch.IndexerConfig{
		Prefix:        cfg.OpenSearch.IndexPrefix,
		BulkBatchSize: cfg.OpenSearch.BulkBatchSize,
	}, log)
	lexicalSearcher := opensearch.NewSearcher(osClient, indexer, opensearch.SearcherConfig{
		Prefix: cfg.OpenSearch.IndexPrefix,
	}, log)

	// MinIO: raw-document audit archive.
	minioClient, err := minio.NewClient(&minio.ClientConfig{
		Endpoint:      cfg.MinIO.Endpoint,
		AccessKey:     cfg.MinIO.AccessKey,
		SecretKey:     cfg.MinIO.SecretKey,
		Bucket:        cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		PresignExpiry: cfg.MinIO.PresignExpiry,
	}, log)
	if err != nil {
		return fmt.Errorf("minio connection failed: %w", err)
	}
	archive := minio.NewDocumentArchive(minioClient, log)

	// Kafka: ingestion lifecycle events.
	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:    cfg.Kafka.Brokers,
		Acks:       "all",
		MaxRetries: cfg.Kafka.ProducerRetries,
		BatchSize:  cfg.Kafka.BatchSize,
	}, log)
	if err != nil {
		return fmt.Errorf("kafka producer failed: %w", err)
	}
	defer producer.Close()

	if cfg.Kafka.AutoCreateTopics {
		topics, err := kafka.NewTopicManager(cfg.Kafka.Brokers, log)
		if err != nil {
			return fmt.Errorf("kafka topic manager failed: %w", err)
		}
		if err := topics.EnsureDefaultTopics(ctx); err != nil {
			log.Warn("failed to ensure kafka topics", logging.Err(err))
		}
		topics.Close()
	}

	// Embedding service and dual (body/title) embedder.
	embedClient, err := embedding.NewClient(cfg.Embedding, log)
	if err != nil {
		return fmt.Errorf("embedding client failed: %w", err)
	}
	dualEmbedder := embedding.NewDualEmbedder(embedClient, cfg.Embedding.BatchSize,
		cfg.Ingestion.Concurrency, log)

	// Application services.
	pipeline := ingestion.NewPipeline(document.NewParser(log), cachedRepo, dualEmbedder,
		vectorStore, indexer, locks, producer, archive, log)

	searcher := retrieval.NewSearcher(embedClient, vectorStore, lexicalSearcher, cachedRepo,
		retrieval.Config{
			DefaultTopK:         cfg.Retrieval.DefaultTopK,
			CandidateMultiplier: cfg.Retrieval.CandidateMultiplier,
		}, log)

	aggregator := matching.NewAggregator(searcher, cachedRepo, matching.Config{
		Threshold:      cfg.Matching.Threshold,
		MaxDeepCompare: cfg.Matching.MaxDeepCompare,
		TopK:           cfg.Retrieval.DefaultTopK,
		DenseWeight:    cfg.Retrieval.DefaultDenseWeight,
	}, log)

	// Metrics.
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "clausematch",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, log)
	if err != nil {
		return fmt.Errorf("metrics collector failed: %w", err)
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	// HTTP interface.
	health := handlers.NewHealthHandler(map[string]handlers.CheckFunc{
		"postgres": func(ctx context.Context) error {
			return postgres.HealthCheck(ctx, pool)
		},
		"redis":      redisClient.Ping,
		"opensearch": osClient.Ping,
		"milvus":     milvusClient.CheckHealth,
		"minio":      minioClient.CheckHealth,
	}, appMetrics, log)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Search:         handlers.NewSearchHandler(searcher, cfg.Retrieval, appMetrics, log),
		Match:          handlers.NewMatchHandler(aggregator, appMetrics, log),
		Ingest:         handlers.NewIngestHandler(pipeline, appMetrics, log),
		Corpus:         handlers.NewCorpusHandler(cachedRepo, log),
		Health:         health,
		Logger:         log,
		Metrics:        appMetrics,
		MetricsHandler: collector.Handler(),
		Mode:           cfg.Server.Mode,
	})

	server := httpserver.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("apiserver started",
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, draining")
	if err := server.Stop(context.Background()); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("apiserver stopped")
	return nil
}

// loadConfig reads the YAML file when present, otherwise falls back to
// CLAUSEMATCH_* environment variables (the 12-factor path).
func loadConfig(configPath string) (*config.Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		return config.Load(configPath)
	}
	return config.LoadFromEnv()
}

//Personal.AI order the ending
