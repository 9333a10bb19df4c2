package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseMatch/internal/config"
	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/embedding"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ClauseMatch/internal/retrieval"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// HybridSearcher is the search dependency; *retrieval.Searcher satisfies it.
type HybridSearcher interface {
	Search(ctx context.Context, contractType, query string, opts retrieval.Options) ([]*retrieval.Result, error)
}

// SearchRequest is the POST /api/v1/search body.
type SearchRequest struct {
	ContractType string   `json:"contract_type" binding:"required"`
	Query        string   `json:"query" binding:"required"`
	TopK         int      `json:"top_k"`
	DenseWeight  *float64 `json:"dense_weight"`
	Granularity  string   `json:"granularity"`
	Field        string   `json:"field"`
}

// SearchResponse carries the fused ranking.
type SearchResponse struct {
	ContractType string              `json:"contract_type"`
	Granularity  string              `json:"granularity"`
	DenseWeight  float64             `json:"dense_weight"`
	Count        int                 `json:"count"`
	Results      []*retrieval.Result `json:"results"`
}

// SearchHandler serves hybrid search requests.
type SearchHandler struct {
	searcher HybridSearcher
	defaults config.RetrievalConfig
	metrics  *prometheus.AppMetrics
	log      logging.Logger
}

// NewSearchHandler builds a SearchHandler.  metrics may be nil.
func NewSearchHandler(searcher HybridSearcher, defaults config.RetrievalConfig,
	metrics *prometheus.AppMetrics, log logging.Logger) *SearchHandler {

	if log == nil {
		log = logging.NewNopLogger()
	}
	return &SearchHandler{
		searcher: searcher,
		defaults: defaults,
		metrics:  metrics,
		log:      log.Named("search_handler"),
	}
}

// Search handles POST /api/v1/search.
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	granularity := chunk.Granularity(req.Granularity)
	if req.Granularity == "" {
		granularity = chunk.GranularityClause
	}
	if !granularity.IsValid() {
		respondError(c, errors.InvalidParam(fmt.Sprintf("invalid granularity %q", req.Granularity)))
		return
	}

	var field embedding.VectorField
	switch req.Field {
	case "", string(embedding.FieldBody):
		field = embedding.FieldBody
	case string(embedding.FieldTitle):
		field = embedding.FieldTitle
	default:
		respondError(c, errors.InvalidParam(fmt.Sprintf("invalid field %q", req.Field)))
		return
	}

	denseWeight := h.defaults.DefaultDenseWeight
	if req.DenseWeight != nil {
		denseWeight = *req.DenseWeight
	}

	start := time.Now()
	results, err := h.searcher.Search(c.Request.Context(), req.ContractType, req.Query, retrieval.Options{
		TopK:        req.TopK,
		DenseWeight: denseWeight,
		Granularity: granularity,
		Field:       field,
	})
	if h.metrics != nil {
		prometheus.RecordSearch(h.metrics, req.ContractType, string(granularity), err, time.Since(start), len(results))
	}
	if err != nil {
		h.log.Warn("search request failed",
			logging.String("contract_type", req.ContractType),
			logging.Err(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		ContractType: req.ContractType,
		Granularity:  string(granularity),
		DenseWeight:  denseWeight,
		Count:        len(results),
		Results:      results,
	})
}

//Personal.AI order the ending
