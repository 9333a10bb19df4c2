package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{DefaultOpenSearchAddress}, cfg.OpenSearch.Addresses)
	assert.Equal(t, DefaultMilvusCollectionPrefix, cfg.Milvus.CollectionPrefix)
	assert.Equal(t, DefaultEmbeddingBatchSize, cfg.Embedding.BatchSize)
	assert.Equal(t, DefaultDenseWeight, cfg.Retrieval.DefaultDenseWeight)
	assert.Equal(t, DefaultCandidateMultiplier, cfg.Retrieval.CandidateMultiplier)
	assert.Equal(t, DefaultMatchThreshold, cfg.Matching.Threshold)
	assert.Equal(t, DefaultMaxDeepCompare, cfg.Matching.MaxDeepCompare)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, []string{"stdout"}, cfg.Log.OutputPaths)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Retrieval.DefaultDenseWeight = 0.7
	cfg.Embedding.BatchSize = 32
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 0.7, cfg.Retrieval.DefaultDenseWeight)
	assert.Equal(t, 32, cfg.Embedding.BatchSize)
}

func TestApplyDefaults_NilConfig(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
