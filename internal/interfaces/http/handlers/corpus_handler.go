package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// CorpusHandler exposes read access to the ingested chunk corpora.
type CorpusHandler struct {
	repo chunk.Repository
	log  logging.Logger
}

// NewCorpusHandler builds a CorpusHandler.
func NewCorpusHandler(repo chunk.Repository, log logging.Logger) *CorpusHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &CorpusHandler{repo: repo, log: log.Named("corpus_handler")}
}

// ListContractTypes handles GET /api/v1/contract-types.
func (h *CorpusHandler) ListContractTypes(c *gin.Context) {
	types, err := h.repo.ListContractTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if types == nil {
		types = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"contract_types": types})
}

// GetChunk handles GET /api/v1/chunks.  The global id is passed as a query
// parameter because URNs contain path-separator-unfriendly colons.
func (h *CorpusHandler) GetChunk(c *gin.Context) {
	contractType := c.Query("contract_type")
	globalID := c.Query("global_id")
	if contractType == "" || globalID == "" {
		respondError(c, errors.InvalidParam("contract_type and global_id query parameters are required"))
		return
	}

	chk, err := h.repo.GetByGlobalID(c.Request.Context(), contractType, globalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chk)
}

//Personal.AI order the ending
