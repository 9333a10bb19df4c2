package client

import (
	"context"
	"fmt"
	"net/url"
)

// ContractTypes lists the contract types with an ingested corpus.
func (c *Client) ContractTypes(ctx context.Context) ([]string, error) {
	var resp struct {
		ContractTypes []string `json:"contract_types"`
	}
	if err := c.get(ctx, "/api/v1/contract-types", &resp); err != nil {
		return nil, err
	}
	return resp.ContractTypes, nil
}

// GetChunk fetches one chunk by its URN global_id.  The lookup prefers the
// article-granularity corpus, matching the server's resolution order.
func (c *Client) GetChunk(ctx context.Context, contractType, globalID string) (*Chunk, error) {
	if contractType == "" {
		return nil, fmt.Errorf("client: contractType is required")
	}
	if globalID == "" {
		return nil, fmt.Errorf("client: globalID is required")
	}

	q := url.Values{}
	q.Set("contract_type", contractType)
	q.Set("global_id", globalID)

	var chunk Chunk
	if err := c.get(ctx, "/api/v1/chunks?"+q.Encode(), &chunk); err != nil {
		return nil, err
	}
	return &chunk, nil
}

// Ready probes the server's readiness endpoint.  A nil error means every
// backing component reported healthy.
func (c *Client) Ready(ctx context.Context) error {
	return c.get(ctx, "/readyz", nil)
}

//Personal.AI order the ending
