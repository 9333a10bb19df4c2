package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ClauseMatch/internal/matching"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// ArticleMatcher is the matching dependency; *matching.Aggregator satisfies it.
type ArticleMatcher interface {
	Match(ctx context.Context, contractType, userArticleText string, mode matching.Mode) (*matching.Report, error)
}

// MatchRequest is the POST /api/v1/match body: one user-contract article to
// check against the standard corpus.
type MatchRequest struct {
	ContractType string `json:"contract_type" binding:"required"`
	ArticleText  string `json:"article_text" binding:"required"`
	Mode         string `json:"mode"`
}

// MatchResponse wraps the aggregation report.
type MatchResponse struct {
	ContractType string           `json:"contract_type"`
	Mode         string           `json:"mode"`
	Report       *matching.Report `json:"report"`
}

// MatchHandler serves article-matching requests.
type MatchHandler struct {
	matcher ArticleMatcher
	metrics *prometheus.AppMetrics
	log     logging.Logger
}

// NewMatchHandler builds a MatchHandler.  metrics may be nil.
func NewMatchHandler(matcher ArticleMatcher, metrics *prometheus.AppMetrics, log logging.Logger) *MatchHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &MatchHandler{matcher: matcher, metrics: metrics, log: log.Named("match_handler")}
}

// Match handles POST /api/v1/match.
func (h *MatchHandler) Match(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	mode := matching.Mode(req.Mode)
	if req.Mode == "" {
		mode = matching.ModeClause
	}
	if !mode.IsValid() {
		respondError(c, errors.InvalidParam(fmt.Sprintf("invalid matching mode %q", req.Mode)))
		return
	}

	start := time.Now()
	report, err := h.matcher.Match(c.Request.Context(), req.ContractType, req.ArticleText, mode)
	if h.metrics != nil {
		prometheus.RecordMatch(h.metrics, req.ContractType, string(mode), err, time.Since(start))
	}
	if err != nil {
		h.log.Warn("match request failed",
			logging.String("contract_type", req.ContractType),
			logging.Err(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MatchResponse{
		ContractType: req.ContractType,
		Mode:         string(mode),
		Report:       report,
	})
}

//Personal.AI order the ending
