package client

import (
	"context"
	"fmt"
)

// SearchRequest is the body of POST /api/v1/search.  DenseWeight is a
// pointer so the zero weight (pure lexical ranking) stays distinguishable
// from "use the server default".
type SearchRequest struct {
	ContractType string   `json:"contract_type"`
	Query        string   `json:"query"`
	TopK         int      `json:"top_k,omitempty"`
	DenseWeight  *float64 `json:"dense_weight,omitempty"`
	Granularity  string   `json:"granularity,omitempty"`
	Field        string   `json:"field,omitempty"`
}

// SearchResponse is the fused ranking returned by the server.
type SearchResponse struct {
	ContractType string          `json:"contract_type"`
	Granularity  string          `json:"granularity"`
	DenseWeight  float64         `json:"dense_weight"`
	Count        int             `json:"count"`
	Results      []*SearchResult `json:"results"`
}

// Search runs a hybrid search against one standard-contract corpus.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("client: search request is required")
	}
	if req.ContractType == "" {
		return nil, fmt.Errorf("client: contract_type is required")
	}
	if req.Query == "" {
		return nil, fmt.Errorf("client: query is required")
	}

	var resp SearchResponse
	if err := c.post(ctx, "/api/v1/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

//Personal.AI order the ending
