package retrieval

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/embedding"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeEmbedder struct{ err error }

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

type fakeDense struct {
	hits []DenseHit
	err  error
}

func (f *fakeDense) Search(_ context.Context, _ string, _ embedding.VectorField, _ []float32, topK int) ([]DenseHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.hits) > topK {
		return f.hits[:topK], nil
	}
	return f.hits, nil
}

type fakeLexical struct {
	hits []LexicalHit
	err  error
}

func (f *fakeLexical) Search(_ context.Context, _ string, _ string, topK int) ([]LexicalHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.hits) > topK {
		return f.hits[:topK], nil
	}
	return f.hits, nil
}

type memRepo struct{ chunks []*chunk.Chunk }

func (m *memRepo) SaveCorpus(context.Context, string, chunk.Granularity, []*chunk.Chunk) error {
	return nil
}

func (m *memRepo) LoadCorpus(context.Context, string, chunk.Granularity) ([]*chunk.Chunk, error) {
	return m.chunks, nil
}

func (m *memRepo) GetByGlobalID(_ context.Context, _ string, gid string) (*chunk.Chunk, error) {
	for _, c := range m.chunks {
		if c.GlobalID == gid {
			return c, nil
		}
	}
	return nil, errors.New(errors.ErrCodeChunkNotFound, "chunk not found")
}

func (m *memRepo) ListContractTypes(context.Context) ([]string, error) {
	return []string{"provide"}, nil
}

func fiveArticleCorpus() *memRepo {
	var chunks []*chunk.Chunk
	titles := []string{"목적", "정의", "제공 목적", "보안", "해지"}
	for i := 1; i <= 5; i++ {
		chunks = append(chunks, &chunk.Chunk{
			GlobalID:   fmt.Sprintf("urn:std:provide:art:%03d", i),
			ParentID:   fmt.Sprintf("urn:std:provide:art:%03d", i),
			Title:      titles[i-1],
			TextNorm:   fmt.Sprintf("제%d조 본문", i),
			OrderIndex: i - 1,
		})
	}
	return &memRepo{chunks: chunks}
}

func newTestSearcher(dense *fakeDense, lexical *fakeLexical, repo *memRepo) *Searcher {
	return NewSearcher(&fakeEmbedder{}, dense, lexical, repo, Config{DefaultTopK: 10, CandidateMultiplier: 3}, nil)
}

func gid(n int) string { return fmt.Sprintf("urn:std:provide:art:%03d", n) }

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestSearch_InvalidDenseWeight(t *testing.T) {
	s := newTestSearcher(&fakeDense{}, &fakeLexical{}, fiveArticleCorpus())
	for _, w := range []float64{-0.1, 1.7} {
		_, err := s.Search(context.Background(), "provide", "질의", Options{DenseWeight: w})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeDenseWeightInvalid))
	}
}

func TestSearch_CombinedScoreFormula(t *testing.T) {
	dense := &fakeDense{hits: []DenseHit{{GlobalID: gid(1), Score: 0.8}}}
	lexical := &fakeLexical{hits: []LexicalHit{{GlobalID: gid(1), Score: 4.0}}}
	s := newTestSearcher(dense, lexical, fiveArticleCorpus())

	res, err := s.Search(context.Background(), "provide", "질의", Options{DenseWeight: 0.6})
	require.NoError(t, err)
	require.Len(t, res, 1)

	r := res[0]
	assert.InDelta(t, 0.8, r.DenseScore, 1e-9)
	assert.Equal(t, 0.8, r.DenseScoreRaw)
	assert.InDelta(t, 1.0, r.SparseScore, 1e-9) // max-normalized
	assert.Equal(t, 4.0, r.SparseScoreRaw)
	assert.InDelta(t, 0.6*0.8+0.4*1.0, r.CombinedScore, 1e-9)
}

func TestSearch_PureDenseAtWeightOne(t *testing.T) {
	dense := &fakeDense{hits: []DenseHit{
		{GlobalID: gid(2), Score: 0.9},
		{GlobalID: gid(1), Score: 0.5},
	}}
	lexical := &fakeLexical{hits: []LexicalHit{
		{GlobalID: gid(1), Score: 10}, // would dominate at any sparse weight
	}}
	s := newTestSearcher(dense, lexical, fiveArticleCorpus())

	res, err := s.Search(context.Background(), "provide", "질의", Options{DenseWeight: 1.0})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, gid(2), res[0].GlobalID)
	assert.InDelta(t, 0.9, res[0].CombinedScore, 1e-9)
	assert.InDelta(t, 0.5, res[1].CombinedScore, 1e-9)
}

func TestSearch_PureLexicalAtWeightZero(t *testing.T) {
	dense := &fakeDense{hits: []DenseHit{{GlobalID: gid(2), Score: 0.99}}}
	lexical := &fakeLexical{hits: []LexicalHit{
		{GlobalID: gid(1), Score: 8},
		{GlobalID: gid(3), Score: 4},
	}}
	s := newTestSearcher(dense, lexical, fiveArticleCorpus())

	res, err := s.Search(context.Background(), "provide", "질의", Options{DenseWeight: 0.0})
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, gid(1), res[0].GlobalID)
	assert.InDelta(t, 1.0, res[0].CombinedScore, 1e-9)
	assert.Equal(t, gid(3), res[1].GlobalID)
	assert.InDelta(t, 0.5, res[1].CombinedScore, 1e-9)
	// Dense-only hit carries combined 0 at weight 0 but is still present.
	assert.Equal(t, gid(2), res[2].GlobalID)
	assert.InDelta(t, 0.0, res[2].CombinedScore, 1e-9)
}

func TestSearch_MissingSignalScoresZeroNotExcluded(t *testing.T) {
	// Lexical-only candidate must still be retrievable.
	dense := &fakeDense{hits: []DenseHit{{GlobalID: gid(1), Score: 0.4}}}
	lexical := &fakeLexical{hits: []LexicalHit{{GlobalID: gid(5), Score: 7}}}
	s := newTestSearcher(dense, lexical, fiveArticleCorpus())

	res, err := s.Search(context.Background(), "provide", "질의", Options{DenseWeight: 0.5})
	require.NoError(t, err)
	require.Len(t, res, 2)

	byID := map[string]*Result{}
	for _, r := range res {
		byID[r.GlobalID] = r
	}
	assert.Equal(t, 0.0, byID[gid(5)].DenseScore)
	assert.InDelta(t, 1.0, byID[gid(5)].SparseScore, 1e-9)
	assert.Equal(t, 0.0, byID[gid(1)].SparseScore)
}

func TestSearch_TopKBoundAndNonIncreasingOrder(t *testing.T) {
	var hits []DenseHit
	for i := 1; i <= 5; i++ {
		hits = append(hits, DenseHit{GlobalID: gid(i), Score: float64(i) / 10})
	}
	s := newTestSearcher(&fakeDense{hits: hits}, &fakeLexical{}, fiveArticleCorpus())

	res, err := s.Search(context.Background(), "provide", "질의", Options{TopK: 3, DenseWeight: 1.0})
	require.NoError(t, err)
	require.Len(t, res, 3)
	for i := 1; i < len(res); i++ {
		assert.GreaterOrEqual(t, res[i-1].CombinedScore, res[i].CombinedScore)
	}
}

func TestSearch_TieBreaksByCorpusOrder(t *testing.T) {
	dense := &fakeDense{hits: []DenseHit{
		{GlobalID: gid(4), Score: 0.5},
		{GlobalID: gid(2), Score: 0.5},
		{GlobalID: gid(3), Score: 0.5},
	}}
	s := newTestSearcher(dense, &fakeLexical{}, fiveArticleCorpus())

	res, err := s.Search(context.Background(), "provide", "질의", Options{DenseWeight: 1.0})
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, []string{gid(2), gid(3), gid(4)},
		[]string{res[0].GlobalID, res[1].GlobalID, res[2].GlobalID})
}

func TestSearch_DeterministicAcrossRuns(t *testing.T) {
	dense := &fakeDense{hits: []DenseHit{
		{GlobalID: gid(1), Score: 0.5},
		{GlobalID: gid(2), Score: 0.5},
		{GlobalID: gid(3), Score: 0.7},
	}}
	lexical := &fakeLexical{hits: []LexicalHit{{GlobalID: gid(2), Score: 3}}}
	s := newTestSearcher(dense, lexical, fiveArticleCorpus())

	var prev []string
	for i := 0; i < 5; i++ {
		res, err := s.Search(context.Background(), "provide", "질의", Options{DenseWeight: 0.5})
		require.NoError(t, err)
		var ids []string
		for _, r := range res {
			ids = append(ids, r.GlobalID)
		}
		if prev != nil {
			assert.Equal(t, prev, ids)
		}
		prev = ids
	}
}

func TestSearch_IndexNotReadyFailsFast(t *testing.T) {
	notReady := errors.New(errors.ErrCodeIndexNotReady, "index not ready for contract type").
		WithDetail("contract_type=provide")

	s := newTestSearcher(&fakeDense{err: notReady}, &fakeLexical{}, fiveArticleCorpus())
	_, err := s.Search(context.Background(), "provide", "질의", Options{DenseWeight: 0.5})
	require.Error(t, err)
	assert.True(t, errors.IsIndexNotReady(err), "index-not-ready must survive wrapping")

	s = newTestSearcher(&fakeDense{}, &fakeLexical{err: notReady}, fiveArticleCorpus())
	_, err = s.Search(context.Background(), "provide", "질의", Options{DenseWeight: 0.5})
	require.Error(t, err)
	assert.True(t, errors.IsIndexNotReady(err))
}

func TestSearch_StaleIndexEntriesDropped(t *testing.T) {
	dense := &fakeDense{hits: []DenseHit{
		{GlobalID: "urn:std:provide:art:099", Score: 0.9}, // not in corpus
		{GlobalID: gid(1), Score: 0.3},
	}}
	s := newTestSearcher(dense, &fakeLexical{}, fiveArticleCorpus())

	res, err := s.Search(context.Background(), "provide", "질의", Options{DenseWeight: 1.0})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, gid(1), res[0].GlobalID)
}

// Query "데이터 제공 목적" against a five-article corpus where only article 3's
// title lexically matches and no article is dense-near: with dense_weight
// 0.3 the lexical contribution must put article 3 first while the dense-only
// candidates remain below it.
func TestSearch_LexicalDominatesLowDenseWeight(t *testing.T) {
	dense := &fakeDense{hits: []DenseHit{
		{GlobalID: gid(1), Score: 0.11},
		{GlobalID: gid(2), Score: 0.12},
		{GlobalID: gid(3), Score: 0.10},
		{GlobalID: gid(4), Score: 0.13},
		{GlobalID: gid(5), Score: 0.09},
	}}
	lexical := &fakeLexical{hits: []LexicalHit{{GlobalID: gid(3), Score: 9.4}}}
	s := newTestSearcher(dense, lexical, fiveArticleCorpus())

	res, err := s.Search(context.Background(), "provide", "데이터 제공 목적", Options{DenseWeight: 0.3})
	require.NoError(t, err)
	require.Len(t, res, 5)

	assert.Equal(t, gid(3), res[0].GlobalID)
	assert.InDelta(t, 0.3*0.10+0.7*1.0, res[0].CombinedScore, 1e-9)
	for _, r := range res[1:] {
		assert.NotEqual(t, gid(3), r.GlobalID)
		assert.Greater(t, r.CombinedScore, 0.0)
		assert.Equal(t, 0.0, r.SparseScore)
	}
}

func TestSearch_EmbedFailure(t *testing.T) {
	s := NewSearcher(&fakeEmbedder{err: fmt.Errorf("boom")}, &fakeDense{}, &fakeLexical{},
		fiveArticleCorpus(), Config{}, nil)
	_, err := s.Search(context.Background(), "provide", "질의", Options{DenseWeight: 0.5})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSearchFailed))
}

//Personal.AI order the ending
