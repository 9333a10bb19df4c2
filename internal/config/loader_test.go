package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8080
  mode: "debug"
database:
  host: "localhost"
  port: 5432
  user: "clausematch"
  password: "secret"
  db_name: "clausematch"
redis:
  addr: "localhost:6379"
kafka:
  brokers: ["localhost:9092"]
  group_id: "clausematch-group"
opensearch:
  addresses: ["http://localhost:9200"]
milvus:
  addr: "localhost:19530"
embedding:
  base_url: "http://localhost:8000"
  model: "text-embedding-3-small"
retrieval:
  default_dense_weight: 0.5
  default_top_k: 10
matching:
  threshold: 0.35
  max_deep_compare: 4
log:
  level: "info"
  format: "json"
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		os.Setenv(k, v)
	}
	t.Cleanup(func() {
		for k := range vars {
			os.Unsetenv(k)
		}
	})
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "clausematch", cfg.Database.User)
	assert.Equal(t, 0.5, cfg.Retrieval.DefaultDenseWeight)
	assert.Equal(t, 4, cfg.Matching.MaxDeepCompare)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load("non_existent_config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "invalid_yaml: [")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	bad := validConfigYAML + "\n"
	path := createTempConfigFile(t, bad)
	// Break the dense weight so defaults cannot repair it.
	setEnvVars(t, map[string]string{
		"CLAUSEMATCH_RETRIEVAL_DEFAULT_DENSE_WEIGHT": "1.7",
	})
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg, err := Load(path)
	require.NoError(t, err)
	// Not present in the YAML — filled by ApplyDefaults.
	assert.Equal(t, DefaultEmbeddingBatchSize, cfg.Embedding.BatchSize)
	assert.Equal(t, DefaultCandidateMultiplier, cfg.Retrieval.CandidateMultiplier)
	assert.Equal(t, DefaultOpenSearchPrefix, cfg.OpenSearch.IndexPrefix)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	setEnvVars(t, map[string]string{
		"CLAUSEMATCH_SERVER_PORT": "9999",
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoad_EnvOverride_NestedKey(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	setEnvVars(t, map[string]string{
		"CLAUSEMATCH_DATABASE_HOST":      "db-host",
		"CLAUSEMATCH_EMBEDDING_BASE_URL": "http://embed:8000",
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "db-host", cfg.Database.Host)
	assert.Equal(t, "http://embed:8000", cfg.Embedding.BaseURL)
}

func TestMustLoad_Success(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	assert.NotPanics(t, func() {
		MustLoad(path)
	})
}

func TestMustLoad_Panic(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad("non_existent.yaml")
	})
}

//Personal.AI order the ending
