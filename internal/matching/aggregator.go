// Package matching determines which standard articles a user article
// satisfies, by aggregating hybrid-search hits per standard article and
// resolving cross-references for downstream content comparison.
package matching

import (
	"context"
	"fmt"
	"sort"

	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/internal/retrieval"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// Mode selects the matching granularity.
type Mode string

const (
	// ModeArticle matches against whole-article chunks.
	ModeArticle Mode = "article"
	// ModeClause matches against clause/sub-clause chunks and aggregates
	// them back to their owning article.
	ModeClause Mode = "clause"
)

func (m Mode) IsValid() bool { return m == ModeArticle || m == ModeClause }

func (m Mode) granularity() chunk.Granularity {
	if m == ModeArticle {
		return chunk.GranularityArticle
	}
	return chunk.GranularityClause
}

// Searcher is the hybrid-search dependency; *retrieval.Searcher satisfies it.
type Searcher interface {
	Search(ctx context.Context, contractType, query string, opts retrieval.Options) ([]*retrieval.Result, error)
}

// ResolvedReference is one cross-referenced chunk pulled into a match for
// prompt evidence.  Exhibits carry only their verbatim LLM text; article
// references carry normalized text plus interpretive commentary.
type ResolvedReference struct {
	GlobalID          string         `json:"global_id"`
	ItemType          chunk.ItemType `json:"item_type"`
	LLMText           string         `json:"llm_text,omitempty"`
	TextNorm          string         `json:"text_norm,omitempty"`
	CommentarySummary string         `json:"commentary_summary,omitempty"`
}

// ArticleMatch is one (user article, standard article) candidate pair.
type ArticleMatch struct {
	ParentID string `json:"parent_id"`
	GlobalID string `json:"global_id"`
	Title    string `json:"title"`
	// CombinedScore is the MAX of the matched sub-item combined scores:
	// ranking follows "does any part of this standard article cover the
	// user text", which averaging would dilute for long articles.
	CombinedScore float64 `json:"combined_score"`
	// NumSubItems is the corpus sub-item count of this standard article.
	NumSubItems int `json:"num_sub_items"`
	// MatchedSubItems lists the chunk-local sub-item ids that contributed
	// hits, e.g. "cla:002" or "sub:002", ascending.  Clauses and clause-less
	// sub-clauses number independently, so the item type is part of the id.
	// Empty for article-granularity hits.
	MatchedSubItems []string `json:"matched_sub_items"`
	// SubItemsScores carries the per-chunk score breakdown for audit.
	SubItemsScores []*retrieval.Result `json:"sub_items_scores"`
	// References is the resolved cross-reference evidence.
	References []ResolvedReference `json:"references,omitempty"`
	// DeepCompare marks the candidates forwarded to content comparison;
	// only the top-N qualify, to bound comparison cost.
	DeepCompare bool `json:"deep_compare"`
	// orderIndex is the earliest corpus position of the group, used as the
	// stable tie-break key.
	orderIndex int
}

// Report is the per-user-article output: matched=false when no candidate
// cleared the threshold, otherwise the ranked candidate list.
type Report struct {
	Matched         bool            `json:"matched"`
	MatchedArticles []*ArticleMatch `json:"matched_articles"`
}

// Config carries the aggregation tunables.
type Config struct {
	Threshold      float64
	MaxDeepCompare int
	TopK           int
	DenseWeight    float64
}

// Aggregator groups raw hybrid hits by their owning standard article and
// decides coverage.
type Aggregator struct {
	searcher Searcher
	corpus   chunk.Repository
	cfg      Config
	log      logging.Logger
}

// NewAggregator builds an Aggregator.
func NewAggregator(searcher Searcher, corpus chunk.Repository, cfg Config, log logging.Logger) *Aggregator {
	if cfg.MaxDeepCompare < 1 {
		cfg.MaxDeepCompare = 4
	}
	if cfg.TopK < 1 {
		cfg.TopK = 10
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Aggregator{searcher: searcher, corpus: corpus, cfg: cfg, log: log.Named("matching")}
}

// Match issues one hybrid search for the user article text and aggregates
// the hits per standard article.  An empty candidate set is not an error; it
// yields matched=false.
func (a *Aggregator) Match(ctx context.Context, contractType, userArticleText string, mode Mode) (*Report, error) {
	if !mode.IsValid() {
		return nil, errors.InvalidParam(fmt.Sprintf("invalid matching mode %q", mode))
	}

	hits, err := a.searcher.Search(ctx, contractType, userArticleText, retrieval.Options{
		TopK:        a.cfg.TopK,
		DenseWeight: a.cfg.DenseWeight,
		Granularity: mode.granularity(),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMatchFailed,
			fmt.Sprintf("hybrid search failed for contract type %q", contractType))
	}

	subItemCounts, err := a.countSubItems(ctx, contractType, mode)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*ArticleMatch)
	for _, h := range hits {
		parent := h.Chunk.ParentID
		g, ok := groups[parent]
		if !ok {
			g = &ArticleMatch{
				ParentID:    parent,
				GlobalID:    parent,
				Title:       h.Chunk.Title,
				NumSubItems: subItemCounts[parent],
				orderIndex:  h.Chunk.OrderIndex,
			}
			groups[parent] = g
		}
		if h.CombinedScore > g.CombinedScore {
			g.CombinedScore = h.CombinedScore
		}
		if h.Chunk.OrderIndex < g.orderIndex {
			g.orderIndex = h.Chunk.OrderIndex
		}
		if id, ok := subItemID(h.GlobalID); ok {
			g.MatchedSubItems = append(g.MatchedSubItems, id)
		}
		g.SubItemsScores = append(g.SubItemsScores, h)
	}

	var matches []*ArticleMatch
	for _, g := range groups {
		if g.CombinedScore < a.cfg.Threshold {
			continue
		}
		sort.Strings(g.MatchedSubItems)
		g.References = a.resolveReferences(ctx, contractType, g.SubItemsScores)
		matches = append(matches, g)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].CombinedScore != matches[j].CombinedScore {
			return matches[i].CombinedScore > matches[j].CombinedScore
		}
		if matches[i].orderIndex != matches[j].orderIndex {
			return matches[i].orderIndex < matches[j].orderIndex
		}
		return matches[i].ParentID < matches[j].ParentID
	})

	for i, m := range matches {
		m.DeepCompare = i < a.cfg.MaxDeepCompare
	}

	return &Report{Matched: len(matches) > 0, MatchedArticles: matches}, nil
}

// countSubItems maps each parent id to its corpus sub-item count.
func (a *Aggregator) countSubItems(ctx context.Context, contractType string, mode Mode) (map[string]int, error) {
	chunks, err := a.corpus.LoadCorpus(ctx, contractType, mode.granularity())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMatchFailed,
			fmt.Sprintf("load corpus for contract type %q", contractType))
	}
	counts := make(map[string]int, len(chunks))
	for _, c := range chunks {
		counts[c.ParentID]++
	}
	return counts, nil
}

// resolveReferences pulls in every cross-referenced chunk declared by the
// matched sub-items.  Exhibit targets contribute verbatim LLM text only;
// article targets contribute normalized text and commentary.  Unresolvable
// references are logged and skipped, never fatal to the match.
func (a *Aggregator) resolveReferences(ctx context.Context, contractType string, hits []*retrieval.Result) []ResolvedReference {
	var out []ResolvedReference
	seen := make(map[string]bool)

	for _, h := range hits {
		for _, ref := range h.Chunk.References {
			if seen[ref] {
				continue
			}
			seen[ref] = true

			gid, err := chunk.ParseGlobalID(ref)
			if err != nil {
				a.log.Warn("unresolvable chunk reference",
					logging.String("reference", ref), logging.Err(err))
				continue
			}
			target, err := a.corpus.GetByGlobalID(ctx, contractType, ref)
			if err != nil {
				a.log.Warn("referenced chunk not found",
					logging.String("reference", ref), logging.Err(err))
				continue
			}

			r := ResolvedReference{GlobalID: ref, ItemType: gid.ItemType()}
			if gid.IsExhibit() {
				r.LLMText = target.LLMText()
			} else {
				r.TextNorm = target.TextNorm
				r.CommentarySummary = target.CommentarySummary
			}
			out = append(out, r)
		}
	}
	return out
}

// subItemID extracts the chunk-local sub-item id ("cla:002", "sub:002")
// from a clause/sub-clause global id.  Article-granularity ids return false.
// The zero-padded form keeps lexicographic and numeric order aligned.
func subItemID(globalID string) (string, bool) {
	gid, err := chunk.ParseGlobalID(globalID)
	if err != nil || len(gid.Segments) < 2 {
		return "", false
	}
	last := gid.Segments[len(gid.Segments)-1]
	if last.Item != chunk.ItemTypeClause && last.Item != chunk.ItemTypeSubClause {
		return "", false
	}
	return fmt.Sprintf("%s:%03d", last.Item, last.Number), true
}

//Personal.AI order the ending
