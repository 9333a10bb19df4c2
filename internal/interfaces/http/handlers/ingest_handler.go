package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseMatch/internal/domain/document"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ClauseMatch/internal/ingestion"
)

// IngestRunner is the pipeline dependency; *ingestion.Pipeline satisfies it.
type IngestRunner interface {
	Run(ctx context.Context, req *ingestion.Request) (*ingestion.Summary, error)
}

// IngestRequest is the POST /api/v1/ingest body: the unit stream of one
// standard contract.  RawDocument carries the original file bytes (base64 in
// JSON) for the audit archive.
type IngestRequest struct {
	ContractType   string          `json:"contract_type" binding:"required"`
	Units          []document.Unit `json:"units" binding:"required"`
	SourceFilename string          `json:"source_filename"`
	RawDocument    []byte          `json:"raw_document,omitempty"`
}

// IngestResponse reports what the run produced.
type IngestResponse struct {
	RunID          string `json:"run_id"`
	ContractType   string `json:"contract_type"`
	ArticleChunks  int    `json:"article_chunks"`
	ClauseChunks   int    `json:"clause_chunks"`
	SkippedVectors int    `json:"skipped_vectors"`
	FailedVectors  int    `json:"failed_vectors"`
	ArchiveKey     string `json:"archive_key,omitempty"`
	DurationMS     int64  `json:"duration_ms"`
}

// IngestHandler serves standard-contract ingestion requests.
type IngestHandler struct {
	pipeline IngestRunner
	metrics  *prometheus.AppMetrics
	log      logging.Logger
}

// NewIngestHandler builds an IngestHandler.  metrics may be nil.
func NewIngestHandler(pipeline IngestRunner, metrics *prometheus.AppMetrics, log logging.Logger) *IngestHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &IngestHandler{pipeline: pipeline, metrics: metrics, log: log.Named("ingest_handler")}
}

// Ingest handles POST /api/v1/ingest.  The run is synchronous: the response
// arrives after the index swap, so a following search already sees the new
// corpus.
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	start := time.Now()
	summary, err := h.pipeline.Run(c.Request.Context(), &ingestion.Request{
		ContractType:   req.ContractType,
		Units:          req.Units,
		SourceFilename: req.SourceFilename,
		RawDocument:    req.RawDocument,
	})
	if h.metrics != nil {
		prometheus.RecordIngestRun(h.metrics, req.ContractType, err == nil, time.Since(start))
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if h.metrics != nil {
		prometheus.RecordCorpus(h.metrics, summary.ContractType, "article", summary.ArticleChunks)
		prometheus.RecordCorpus(h.metrics, summary.ContractType, "clause", summary.ClauseChunks)
	}

	c.JSON(http.StatusOK, IngestResponse{
		RunID:          summary.RunID,
		ContractType:   summary.ContractType,
		ArticleChunks:  summary.ArticleChunks,
		ClauseChunks:   summary.ClauseChunks,
		SkippedVectors: summary.SkippedVectors,
		FailedVectors:  summary.FailedVectors,
		ArchiveKey:     summary.ArchiveKey,
		DurationMS:     summary.Duration.Milliseconds(),
	})
}

//Personal.AI order the ending
