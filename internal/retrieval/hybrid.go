// Package retrieval fuses dense (embedding) and sparse (BM25) signals into
// one deterministic ranking over a contract type's chunk corpus.
package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/embedding"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// DenseHit is one nearest-neighbor result from a dense index: raw similarity
// before normalization.
type DenseHit struct {
	GlobalID string
	Score    float64
}

// LexicalHit is one ranked result from the lexical index: raw BM25 score.
type LexicalHit struct {
	GlobalID string
	Score    float64
}

// DenseSearcher retrieves nearest neighbors from one contract type's dense
// index for the given vector field.  Implementations return
// ErrCodeIndexNotReady when the index has not been built.
type DenseSearcher interface {
	Search(ctx context.Context, contractType string, field embedding.VectorField, vector []float32, topK int) ([]DenseHit, error)
}

// LexicalSearcher retrieves ranked keyword matches from one contract type's
// lexical index.  Implementations return ErrCodeIndexNotReady when the index
// has not been built.
type LexicalSearcher interface {
	Search(ctx context.Context, contractType string, query string, topK int) ([]LexicalHit, error)
}

// Result is one fused candidate.  CombinedScore is always
// denseWeight·DenseScore + (1−denseWeight)·SparseScore over the normalized
// signals; the raw scores are carried for audit output.
type Result struct {
	Chunk          *chunk.Chunk `json:"chunk"`
	GlobalID       string       `json:"global_id"`
	DenseScore     float64      `json:"dense_score"`
	DenseScoreRaw  float64      `json:"dense_score_raw"`
	SparseScore    float64      `json:"sparse_score"`
	SparseScoreRaw float64      `json:"sparse_score_raw"`
	CombinedScore  float64      `json:"combined_score"`
	// orderIndex is the stable tie-break key: original corpus order.
	orderIndex int
}

// Options tunes one search call.
type Options struct {
	// TopK bounds the result list length.  Zero falls back to the default.
	TopK int
	// DenseWeight is the dense-signal weight in [0,1].  1.0 reproduces pure
	// dense ranking, 0.0 pure lexical ranking.
	DenseWeight float64
	// Granularity selects the corpus to search (article vs clause chunks).
	Granularity chunk.Granularity
	// Field selects which dense index answers the vector search; defaults
	// to the body index.
	Field embedding.VectorField
}

// Config carries the searcher defaults resolved from configuration.
type Config struct {
	DefaultTopK         int
	CandidateMultiplier int
}

// Searcher runs hybrid search: one query embedding, top-M retrieval from
// both signal families, per-family normalization, weighted fusion.
type Searcher struct {
	embedder embedding.Embedder
	dense    DenseSearcher
	lexical  LexicalSearcher
	corpus   chunk.Repository
	cfg      Config
	log      logging.Logger
}

// NewSearcher builds a hybrid Searcher.
func NewSearcher(embedder embedding.Embedder, dense DenseSearcher, lexical LexicalSearcher,
	corpus chunk.Repository, cfg Config, log logging.Logger) *Searcher {
	if cfg.DefaultTopK < 1 {
		cfg.DefaultTopK = 10
	}
	if cfg.CandidateMultiplier < 1 {
		cfg.CandidateMultiplier = 3
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Searcher{
		embedder: embedder,
		dense:    dense,
		lexical:  lexical,
		corpus:   corpus,
		cfg:      cfg,
		log:      log.Named("hybrid_search"),
	}
}

// Search returns the fused top-K ranking for query against one contract
// type's corpus.  The ranking is deterministic given identical inputs and
// index state: ties on combined score break by original corpus order, then
// global id.  A missing underlying index fails the whole call — callers must
// be able to distinguish "no results" from "system not ready".
func (s *Searcher) Search(ctx context.Context, contractType, query string, opts Options) ([]*Result, error) {
	if opts.DenseWeight < 0 || opts.DenseWeight > 1 {
		return nil, errors.New(errors.ErrCodeDenseWeightInvalid,
			fmt.Sprintf("dense_weight %v is out of range [0, 1]", opts.DenseWeight))
	}
	topK := opts.TopK
	if topK < 1 {
		topK = s.cfg.DefaultTopK
	}
	granularity := opts.Granularity
	if granularity == "" {
		granularity = chunk.GranularityClause
	}
	field := opts.Field
	if field == "" {
		field = embedding.FieldBody
	}

	// Candidate headroom for re-ranking: M = multiplier × topK.
	m := topK * s.cfg.CandidateMultiplier

	vec, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchFailed, "embed query")
	}
	if len(vec) != 1 {
		return nil, errors.New(errors.ErrCodeSearchFailed, "query embedding returned no vector")
	}

	denseHits, err := s.dense.Search(ctx, contractType, field, vec[0], m)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDenseSearchFailed,
			fmt.Sprintf("dense search failed for contract type %q", contractType))
	}
	lexicalHits, err := s.lexical.Search(ctx, contractType, query, m)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLexicalSearchFailed,
			fmt.Sprintf("lexical search failed for contract type %q", contractType))
	}

	chunks, err := s.corpus.LoadCorpus(ctx, contractType, granularity)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchFailed,
			fmt.Sprintf("load corpus for contract type %q", contractType))
	}
	byID := make(map[string]*chunk.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.GlobalID] = c
	}

	results := fuse(denseHits, lexicalHits, opts.DenseWeight, byID)

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		if results[i].orderIndex != results[j].orderIndex {
			return results[i].orderIndex < results[j].orderIndex
		}
		return results[i].GlobalID < results[j].GlobalID
	})

	if len(results) > topK {
		results = results[:topK]
	}

	s.log.Debug("hybrid search completed",
		logging.String("contract_type", contractType),
		logging.Int("dense_hits", len(denseHits)),
		logging.Int("lexical_hits", len(lexicalHits)),
		logging.Int("results", len(results)))

	return results, nil
}

// fuse merges the two signal families into one candidate set.  Candidates
// present in only one family receive 0 for the missing signal — a
// lexical-only match must still be retrievable.  Hits whose chunk is absent
// from the corpus are dropped (stale index entries).
func fuse(dense []DenseHit, lexical []LexicalHit, denseWeight float64, byID map[string]*chunk.Chunk) []*Result {
	merged := make(map[string]*Result, len(dense)+len(lexical))

	for _, h := range dense {
		c, ok := byID[h.GlobalID]
		if !ok {
			continue
		}
		merged[h.GlobalID] = &Result{
			Chunk:         c,
			GlobalID:      h.GlobalID,
			DenseScore:    normalizeDense(h.Score),
			DenseScoreRaw: h.Score,
			orderIndex:    c.OrderIndex,
		}
	}

	sparseMax := maxLexicalScore(lexical)
	for _, h := range lexical {
		c, ok := byID[h.GlobalID]
		if !ok {
			continue
		}
		r, ok := merged[h.GlobalID]
		if !ok {
			r = &Result{Chunk: c, GlobalID: h.GlobalID, orderIndex: c.OrderIndex}
			merged[h.GlobalID] = r
		}
		r.SparseScore = normalizeSparse(h.Score, sparseMax)
		r.SparseScoreRaw = h.Score
	}

	out := make([]*Result, 0, len(merged))
	for _, r := range merged {
		r.CombinedScore = denseWeight*r.DenseScore + (1-denseWeight)*r.SparseScore
		out = append(out, r)
	}
	return out
}

//Personal.AI order the ending
