// Package config defines all configuration structures for the ClauseMatch
// retrieval service.  No I/O or parsing logic lives here — only plain data
// types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer/consumer parameters.
type KafkaConfig struct {
	Brokers          []string `mapstructure:"brokers"`
	GroupID          string   `mapstructure:"group_id"`
	AutoOffsetReset  string   `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	TimeoutMS        int      `mapstructure:"timeout_ms"`
	ProducerRetries  int      `mapstructure:"producer_retries"`
	BatchSize        int      `mapstructure:"batch_size"`
	AutoCreateTopics bool     `mapstructure:"auto_create_topics"`
}

// OpenSearchConfig holds OpenSearch cluster connection parameters used by the
// lexical (BM25) index.
type OpenSearchConfig struct {
	Addresses          []string `mapstructure:"addresses"`
	User               string   `mapstructure:"user"`
	Password           string   `mapstructure:"password"`
	InsecureSkipVerify bool     `mapstructure:"insecure_skip_verify"`
	BulkBatchSize      int      `mapstructure:"bulk_batch_size"`
	IndexPrefix        string   `mapstructure:"index_prefix"`
}

// MilvusConfig holds Milvus vector-store connection parameters used by the
// dense (embedding) indexes.
type MilvusConfig struct {
	Addr               string `mapstructure:"addr"`
	DBName             string `mapstructure:"db_name"`
	IndexType          string `mapstructure:"index_type"`
	HNSWM              int    `mapstructure:"hnsw_m"`
	HNSWEfConstruction int    `mapstructure:"hnsw_ef_construction"`
	CollectionPrefix   string `mapstructure:"collection_prefix"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters for raw
// standard-contract documents.
type MinIOConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// EmbeddingConfig holds parameters of the external embedding service.  The
// service speaks the OpenAI-compatible /v1/embeddings protocol.
type EmbeddingConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	Dimension      int           `mapstructure:"dimension"`
	BatchSize      int           `mapstructure:"batch_size"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
}

// RetrievalConfig holds hybrid-search tunables.
type RetrievalConfig struct {
	DefaultDenseWeight  float64 `mapstructure:"default_dense_weight"`
	DefaultTopK         int     `mapstructure:"default_top_k"`
	CandidateMultiplier int     `mapstructure:"candidate_multiplier"` // M = multiplier × top_k
}

// MatchingConfig holds article-matching aggregation tunables.
type MatchingConfig struct {
	Threshold      float64 `mapstructure:"threshold"`        // minimum aggregate score to report a match
	MaxDeepCompare int     `mapstructure:"max_deep_compare"` // candidates forwarded to deep content comparison
}

// IngestionConfig holds document-ingestion pipeline parameters.
type IngestionConfig struct {
	Concurrency int    `mapstructure:"concurrency"` // parallel embedding batches
	CorpusDir   string `mapstructure:"corpus_dir"`  // chunk-corpus JSON directory
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the entire service.  Every
// infrastructure component and application service reads its settings from
// the relevant sub-struct.
type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Database   DatabaseConfig    `mapstructure:"database"`
	Redis      RedisConfig       `mapstructure:"redis"`
	Kafka      KafkaConfig       `mapstructure:"kafka"`
	OpenSearch OpenSearchConfig  `mapstructure:"opensearch"`
	Milvus     MilvusConfig      `mapstructure:"milvus"`
	MinIO      MinIOConfig       `mapstructure:"minio"`
	Embedding  EmbeddingConfig   `mapstructure:"embedding"`
	Retrieval  RetrievalConfig   `mapstructure:"retrieval"`
	Matching   MatchingConfig    `mapstructure:"matching"`
	Ingestion  IngestionConfig   `mapstructure:"ingestion"`
	Log        logging.LogConfig `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Database
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be ≥ 1, got %d", c.Database.MaxConns)
	}

	// Redis
	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Kafka
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("config: kafka.group_id is required")
	}

	// OpenSearch
	if len(c.OpenSearch.Addresses) == 0 {
		return fmt.Errorf("config: opensearch.addresses must contain at least one node address")
	}

	// Milvus
	if c.Milvus.Addr == "" {
		return fmt.Errorf("config: milvus.addr is required")
	}

	// Embedding
	if c.Embedding.BaseURL == "" {
		return fmt.Errorf("config: embedding.base_url is required")
	}
	if c.Embedding.Dimension < 1 {
		return fmt.Errorf("config: embedding.dimension must be ≥ 1, got %d", c.Embedding.Dimension)
	}
	if c.Embedding.BatchSize < 1 {
		return fmt.Errorf("config: embedding.batch_size must be ≥ 1, got %d", c.Embedding.BatchSize)
	}

	// Retrieval
	if c.Retrieval.DefaultDenseWeight < 0 || c.Retrieval.DefaultDenseWeight > 1 {
		return fmt.Errorf("config: retrieval.default_dense_weight %v is out of range [0, 1]", c.Retrieval.DefaultDenseWeight)
	}
	if c.Retrieval.DefaultTopK < 1 {
		return fmt.Errorf("config: retrieval.default_top_k must be ≥ 1, got %d", c.Retrieval.DefaultTopK)
	}
	if c.Retrieval.CandidateMultiplier < 1 {
		return fmt.Errorf("config: retrieval.candidate_multiplier must be ≥ 1, got %d", c.Retrieval.CandidateMultiplier)
	}

	// Matching
	if c.Matching.Threshold < 0 || c.Matching.Threshold > 1 {
		return fmt.Errorf("config: matching.threshold %v is out of range [0, 1]", c.Matching.Threshold)
	}
	if c.Matching.MaxDeepCompare < 1 {
		return fmt.Errorf("config: matching.max_deep_compare must be ≥ 1, got %d", c.Matching.MaxDeepCompare)
	}

	// Ingestion
	if c.Ingestion.Concurrency < 1 {
		return fmt.Errorf("config: ingestion.concurrency must be ≥ 1, got %d", c.Ingestion.Concurrency)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
