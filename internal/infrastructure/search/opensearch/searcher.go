package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/internal/retrieval"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// SearcherConfig holds the lexical search tunables.
type SearcherConfig struct {
	Prefix        string
	TitleBoost    float64
	SearchTimeout time.Duration
}

// Searcher answers BM25 keyword queries against the per-contract-type chunk
// alias.  It implements retrieval.LexicalSearcher.
type Searcher struct {
	client  *Client
	indexer *Indexer
	config  SearcherConfig
	logger  logging.Logger
}

// NewSearcher creates a Searcher.
func NewSearcher(client *Client, indexer *Indexer, cfg SearcherConfig, logger logging.Logger) *Searcher {
	if cfg.Prefix == "" {
		cfg.Prefix = "std_contract"
	}
	if cfg.TitleBoost == 0 {
		cfg.TitleBoost = 2.0
	}
	if cfg.SearchTimeout == 0 {
		cfg.SearchTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Searcher{client: client, indexer: indexer, config: cfg, logger: logger.Named("opensearch_searcher")}
}

// lexicalQuery is the multi_match body: the clause body carries the base
// weight, the article title a configurable boost.
func (s *Searcher) lexicalQuery(query string, topK int) map[string]interface{} {
	return map[string]interface{}{
		"size":    topK,
		"_source": false,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query": query,
				"fields": []string{
					"text_norm",
					fmt.Sprintf("title^%g", s.config.TitleBoost),
				},
			},
		},
	}
}

// Search returns the top-K BM25 hits for one contract type.  A missing alias
// means the lexical index was never built: ErrCodeIndexNotReady, never an
// empty result.
func (s *Searcher) Search(ctx context.Context, contractType string, query string, topK int) ([]retrieval.LexicalHit, error) {
	alias := AliasName(s.config.Prefix, contractType)

	exists, err := s.indexer.AliasExists(ctx, contractType)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.New(errors.ErrCodeIndexNotReady,
			fmt.Sprintf("lexical index %s has not been built", alias))
	}

	body, err := json.Marshal(s.lexicalQuery(query, topK))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal search query")
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.config.SearchTimeout)
	defer cancel()

	req := opensearchapi.SearchRequest{
		Index: []string{alias},
		Body:  bytes.NewReader(body),
	}
	resp, err := req.Do(searchCtx, s.client.GetClient())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLexicalSearchFailed, "search request failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, errors.New(errors.ErrCodeLexicalSearchFailed,
			fmt.Sprintf("search on %s returned status %d", alias, resp.StatusCode))
	}

	var payload struct {
		Hits struct {
			Hits []struct {
				ID    string  `json:"_id"`
				Score float64 `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode search response")
	}

	hits := make([]retrieval.LexicalHit, 0, len(payload.Hits.Hits))
	for _, h := range payload.Hits.Hits {
		hits = append(hits, retrieval.LexicalHit{GlobalID: h.ID, Score: h.Score})
	}

	s.logger.Debug("lexical search executed",
		logging.String("alias", alias),
		logging.Int("hits", len(hits)))
	return hits, nil
}

//Personal.AI order the ending
