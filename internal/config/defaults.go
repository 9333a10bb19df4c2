// Package config provides configuration loading, defaults, and validation for
// the ClauseMatch retrieval service.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "clausematch"
	DefaultDBMaxConns = 25

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisDB        = 0
	DefaultRedisKeyPrefix = "clausematch"

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "clausematch-group"

	DefaultOpenSearchAddress = "http://localhost:9200"
	DefaultOpenSearchPrefix  = "std_contract"

	DefaultMilvusAddr             = "localhost:19530"
	DefaultMilvusCollectionPrefix = "std_contract"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "clausematch-docs"

	DefaultEmbeddingModel     = "text-embedding-3-small"
	DefaultEmbeddingDimension = 1536
	DefaultEmbeddingBatchSize = 100

	DefaultDenseWeight         = 0.5
	DefaultTopK                = 10
	DefaultCandidateMultiplier = 3

	DefaultMatchThreshold = 0.35
	DefaultMaxDeepCompare = 4

	DefaultIngestionConcurrency = 4

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling raw config data and before Validate() so that
// optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = time.Hour
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}

	// ── OpenSearch ────────────────────────────────────────────────────────────
	if len(cfg.OpenSearch.Addresses) == 0 {
		cfg.OpenSearch.Addresses = []string{DefaultOpenSearchAddress}
	}
	if cfg.OpenSearch.IndexPrefix == "" {
		cfg.OpenSearch.IndexPrefix = DefaultOpenSearchPrefix
	}
	if cfg.OpenSearch.BulkBatchSize == 0 {
		cfg.OpenSearch.BulkBatchSize = 500
	}

	// ── Milvus ────────────────────────────────────────────────────────────────
	if cfg.Milvus.Addr == "" {
		cfg.Milvus.Addr = DefaultMilvusAddr
	}
	if cfg.Milvus.CollectionPrefix == "" {
		cfg.Milvus.CollectionPrefix = DefaultMilvusCollectionPrefix
	}
	if cfg.Milvus.IndexType == "" {
		cfg.Milvus.IndexType = "HNSW"
	}
	if cfg.Milvus.HNSWM == 0 {
		cfg.Milvus.HNSWM = 16
	}
	if cfg.Milvus.HNSWEfConstruction == 0 {
		cfg.Milvus.HNSWEfConstruction = 200
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = 15 * time.Minute
	}

	// ── Embedding ─────────────────────────────────────────────────────────────
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = DefaultEmbeddingModel
	}
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = DefaultEmbeddingDimension
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = DefaultEmbeddingBatchSize
	}
	if cfg.Embedding.RequestTimeout == 0 {
		cfg.Embedding.RequestTimeout = 30 * time.Second
	}
	if cfg.Embedding.MaxRetries == 0 {
		cfg.Embedding.MaxRetries = 2
	}

	// ── Retrieval ─────────────────────────────────────────────────────────────
	if cfg.Retrieval.DefaultDenseWeight == 0 {
		cfg.Retrieval.DefaultDenseWeight = DefaultDenseWeight
	}
	if cfg.Retrieval.DefaultTopK == 0 {
		cfg.Retrieval.DefaultTopK = DefaultTopK
	}
	if cfg.Retrieval.CandidateMultiplier == 0 {
		cfg.Retrieval.CandidateMultiplier = DefaultCandidateMultiplier
	}

	// ── Matching ──────────────────────────────────────────────────────────────
	if cfg.Matching.Threshold == 0 {
		cfg.Matching.Threshold = DefaultMatchThreshold
	}
	if cfg.Matching.MaxDeepCompare == 0 {
		cfg.Matching.MaxDeepCompare = DefaultMaxDeepCompare
	}

	// ── Ingestion ─────────────────────────────────────────────────────────────
	if cfg.Ingestion.Concurrency == 0 {
		cfg.Ingestion.Concurrency = DefaultIngestionConcurrency
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}
}

//Personal.AI order the ending
