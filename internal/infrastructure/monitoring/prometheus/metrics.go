package prometheus

import (
	"fmt"
	"time"
)

// AppMetrics holds every application-level metric.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Ingestion
	IngestRunsTotal     CounterVec
	IngestRunDuration   HistogramVec
	IngestChunksTotal   CounterVec
	CorpusChunkCount    GaugeVec
	IndexRebuildsTotal  CounterVec
	IndexSwapDuration   HistogramVec

	// Embedding
	EmbeddingRequestsTotal CounterVec
	EmbeddingDuration      HistogramVec
	VectorsSkippedTotal    CounterVec
	VectorsFailedTotal     CounterVec

	// Retrieval
	SearchRequestsTotal CounterVec
	SearchDuration      HistogramVec
	SearchResultCount   HistogramVec
	MatchRequestsTotal  CounterVec
	MatchDuration       HistogramVec

	// Infrastructure
	DBQueryDuration  HistogramVec
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	EventsPublished  CounterVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultIngestDurationBuckets = []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800}
	DefaultSearchResultBuckets   = []float64{0, 1, 5, 10, 25, 50, 100}
	DefaultDBDurationBuckets     = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Ingestion
	m.IngestRunsTotal = collector.RegisterCounter("ingest_runs_total", "Ingestion runs", "contract_type", "status")
	m.IngestRunDuration = collector.RegisterHistogram("ingest_run_duration_seconds", "Ingestion run duration", DefaultIngestDurationBuckets, "contract_type")
	m.IngestChunksTotal = collector.RegisterCounter("ingest_chunks_total", "Chunks produced by ingestion", "contract_type", "granularity")
	m.CorpusChunkCount = collector.RegisterGauge("corpus_chunk_count", "Chunks in the active corpus", "contract_type", "granularity")
	m.IndexRebuildsTotal = collector.RegisterCounter("index_rebuilds_total", "Index rebuilds", "contract_type", "index", "status")
	m.IndexSwapDuration = collector.RegisterHistogram("index_swap_duration_seconds", "Lexical alias swap duration", DefaultHTTPDurationBuckets, "contract_type")

	// Embedding
	m.EmbeddingRequestsTotal = collector.RegisterCounter("embedding_requests_total", "Embedding service requests", "status")
	m.EmbeddingDuration = collector.RegisterHistogram("embedding_duration_seconds", "Embedding request duration", DefaultHTTPDurationBuckets, "field")
	m.VectorsSkippedTotal = collector.RegisterCounter("vectors_skipped_total", "Chunks skipped for empty source text", "contract_type", "field")
	m.VectorsFailedTotal = collector.RegisterCounter("vectors_failed_total", "Chunks whose embedding failed permanently", "contract_type", "field")

	// Retrieval
	m.SearchRequestsTotal = collector.RegisterCounter("search_requests_total", "Hybrid search requests", "contract_type", "granularity", "status")
	m.SearchDuration = collector.RegisterHistogram("search_duration_seconds", "Hybrid search latency", DefaultHTTPDurationBuckets, "contract_type", "granularity")
	m.SearchResultCount = collector.RegisterHistogram("search_result_count", "Hybrid search result count", DefaultSearchResultBuckets, "contract_type")
	m.MatchRequestsTotal = collector.RegisterCounter("match_requests_total", "Article match requests", "contract_type", "mode", "status")
	m.MatchDuration = collector.RegisterHistogram("match_duration_seconds", "Article match latency", DefaultHTTPDurationBuckets, "contract_type", "mode")

	// Infrastructure
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Events published", "topic", "status")

	// System health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// Helpers

func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, fmt.Sprintf("%d", statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordIngestRun(m *AppMetrics, contractType string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.IngestRunsTotal.WithLabelValues(contractType, status).Inc()
	m.IngestRunDuration.WithLabelValues(contractType).Observe(duration.Seconds())
}

func RecordCorpus(m *AppMetrics, contractType, granularity string, chunks int) {
	m.IngestChunksTotal.WithLabelValues(contractType, granularity).Add(float64(chunks))
	m.CorpusChunkCount.WithLabelValues(contractType, granularity).Set(float64(chunks))
}

func RecordVectorSkips(m *AppMetrics, contractType, field string, skipped, failed int) {
	if skipped > 0 {
		m.VectorsSkippedTotal.WithLabelValues(contractType, field).Add(float64(skipped))
	}
	if failed > 0 {
		m.VectorsFailedTotal.WithLabelValues(contractType, field).Add(float64(failed))
	}
}

func RecordSearch(m *AppMetrics, contractType, granularity string, err error, duration time.Duration, results int) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.SearchRequestsTotal.WithLabelValues(contractType, granularity, status).Inc()
	m.SearchDuration.WithLabelValues(contractType, granularity).Observe(duration.Seconds())
	if err == nil {
		m.SearchResultCount.WithLabelValues(contractType).Observe(float64(results))
	}
}

func RecordMatch(m *AppMetrics, contractType, mode string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.MatchRequestsTotal.WithLabelValues(contractType, mode, status).Inc()
	m.MatchDuration.WithLabelValues(contractType, mode).Observe(duration.Seconds())
}

func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordEventPublished(m *AppMetrics, topic string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.EventsPublished.WithLabelValues(topic, status).Inc()
}

func RecordError(m *AppMetrics, component, errorType string) {
	m.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

//Personal.AI order the ending
