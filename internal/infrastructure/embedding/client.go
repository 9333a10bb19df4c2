// Package embedding calls the external embedding service and computes the
// dual (body, title) vector sets for chunk corpora.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/turtacn/ClauseMatch/internal/config"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// Embedder is the minimal embedding contract consumed by the dual embedder
// and the hybrid searcher.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Client speaks the OpenAI-compatible POST /v1/embeddings protocol.
type Client struct {
	httpClient *http.Client
	cfg        config.EmbeddingConfig
	log        logging.Logger
}

// NewClient validates cfg and builds a Client.  A nil logger falls back to
// the nop logger.
func NewClient(cfg config.EmbeddingConfig, log logging.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New(errors.ErrCodeValidation, "embedding base_url is required")
	}
	if cfg.Dimension < 1 {
		return nil, errors.New(errors.ErrCodeValidation, "embedding dimension must be ≥ 1")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:        cfg,
		log:        log.Named("embedding"),
	}, nil
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed requests vectors for texts in one service call.  The response is
// re-ordered by index so output position N always corresponds to input N,
// and every vector is checked against the configured dimensionality.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embeddingsRequest{Model: c.cfg.Model, Input: texts})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "marshal embeddings request")
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEmbeddingFailed, "create embeddings request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(err, errors.ErrCodeEmbeddingTimeout, "embeddings request cancelled")
		}
		return nil, errors.Wrap(err, errors.ErrCodeEmbeddingServiceDown, "embeddings request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.New(errors.ErrCodeEmbeddingFailed,
			fmt.Sprintf("embedding service returned %s", resp.Status)).
			WithDetail(strings.TrimSpace(string(raw)))
	}

	var parsed embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEmbeddingFailed, "decode embeddings response")
	}
	if len(parsed.Data) != len(texts) {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed,
			fmt.Sprintf("embedding service returned %d vectors for %d inputs", len(parsed.Data), len(texts)))
	}

	sort.Slice(parsed.Data, func(i, j int) bool { return parsed.Data[i].Index < parsed.Data[j].Index })

	out := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		if len(d.Embedding) != c.cfg.Dimension {
			return nil, errors.New(errors.ErrCodeVectorDimMismatch,
				fmt.Sprintf("vector %d has dimension %d, want %d", i, len(d.Embedding), c.cfg.Dimension))
		}
		out[i] = d.Embedding
	}
	return out, nil
}

//Personal.AI order the ending
