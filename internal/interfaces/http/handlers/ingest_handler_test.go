package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ClauseMatch/internal/domain/document"
	"github.com/turtacn/ClauseMatch/internal/ingestion"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

type fakeRunner struct {
	gotReq  *ingestion.Request
	summary *ingestion.Summary
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, req *ingestion.Request) (*ingestion.Summary, error) {
	f.gotReq = req
	return f.summary, f.err
}

func TestIngestHandler_RunsPipeline(t *testing.T) {
	runner := &fakeRunner{summary: &ingestion.Summary{
		RunID:         "run-1",
		ContractType:  "provide",
		ArticleChunks: 3,
		ClauseChunks:  5,
		ArchiveKey:    "provide/run-1/standard.docx",
		Duration:      1200 * time.Millisecond,
	}}
	h := NewIngestHandler(runner, nil, nil)

	w := postJSON(t, h.Ingest, IngestRequest{
		ContractType:   "provide",
		Units:          []document.Unit{{Text: "제1조(목적)", Bold: true}},
		SourceFilename: "standard.docx",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp.RunID)
	assert.Equal(t, 3, resp.ArticleChunks)
	assert.Equal(t, 5, resp.ClauseChunks)
	assert.Equal(t, int64(1200), resp.DurationMS)

	require.NotNil(t, runner.gotReq)
	assert.Equal(t, "standard.docx", runner.gotReq.SourceFilename)
}

func TestIngestHandler_ConcurrentRunIsConflict(t *testing.T) {
	runner := &fakeRunner{err: errors.New(errors.ErrCodeConflict, "ingestion already running")}
	h := NewIngestHandler(runner, nil, nil)

	w := postJSON(t, h.Ingest, IngestRequest{
		ContractType: "provide",
		Units:        []document.Unit{{Text: "제1조(목적)", Bold: true}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestIngestHandler_MissingUnits(t *testing.T) {
	h := NewIngestHandler(&fakeRunner{}, nil, nil)
	w := postJSON(t, h.Ingest, map[string]interface{}{"contract_type": "provide"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

//Personal.AI order the ending
