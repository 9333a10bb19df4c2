package client

import (
	"context"
	"fmt"
)

// MatchRequest is the body of POST /api/v1/match.  Mode selects the search
// granularity: "clause" (default) or "article".
type MatchRequest struct {
	ContractType string `json:"contract_type"`
	ArticleText  string `json:"article_text"`
	Mode         string `json:"mode,omitempty"`
}

// MatchResponse wraps the aggregation report.
type MatchResponse struct {
	ContractType string  `json:"contract_type"`
	Mode         string  `json:"mode"`
	Report       *Report `json:"report"`
}

// Match runs one user article against a standard-contract corpus and
// returns the aggregated coverage report.
func (c *Client) Match(ctx context.Context, req *MatchRequest) (*MatchResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("client: match request is required")
	}
	if req.ContractType == "" {
		return nil, fmt.Errorf("client: contract_type is required")
	}
	if req.ArticleText == "" {
		return nil, fmt.Errorf("client: article_text is required")
	}

	var resp MatchResponse
	if err := c.post(ctx, "/api/v1/match", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

//Personal.AI order the ending
