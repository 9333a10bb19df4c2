package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// IngestRequest is the body of POST /api/v1/ingest.  Units carries the
// extractor's unit-stream JSON verbatim; the SDK does not interpret it.
// RawDocument holds the original file bytes for the audit archive and is
// base64-encoded on the wire.
type IngestRequest struct {
	ContractType   string          `json:"contract_type"`
	Units          json.RawMessage `json:"units"`
	SourceFilename string          `json:"source_filename,omitempty"`
	RawDocument    []byte          `json:"raw_document,omitempty"`
}

// IngestResponse reports what one ingestion run produced.
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

// Ingest runs the full ingestion pipeline for one standard contract.  The
// call is synchronous: it returns after the index swap, so a following
// Search already sees the new corpus.
func (c *Client) Ingest(ctx context.Context, req *IngestRequest) (*IngestResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("client: ingest request is required")
	}
	if req.ContractType == "" {
		return nil, fmt.Errorf("client: contract_type is required")
	}
	if len(req.Units) == 0 {
		return nil, fmt.Errorf("client: units are required")
	}

	var resp IngestResponse
	if err := c.post(ctx, "/api/v1/ingest", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

//Personal.AI order the ending
