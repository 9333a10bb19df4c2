package ingestion

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/domain/document"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/database/redis"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/embedding"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/search/opensearch"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// sampleUnits is a minimal standard contract: two articles (the first with
// two clauses) and one exhibit.
func sampleUnits() []document.Unit {
	return []document.Unit{
		{Text: "제1장 총칙", Bold: true},
		{Text: "제1조(목적) 이 계약은 공정한 거래질서 확립을 목적으로 한다.", Bold: true},
		{Text: "① 갑은 을에게 상품을 공급한다."},
		{Text: "② 을은 공급받은 상품의 대금을 지급한다."},
		{Text: "제2조(정의)", Bold: true},
		{Text: "이 계약에서 사용하는 용어의 뜻은 다음 각 호와 같다."},
		{Text: "[별표 1] 지급 기준", Bold: true},
		{Text: "지급 기준 표"},
	}
}

type memRepo struct {
	corpora map[string][]*chunk.Chunk
	saveErr error
}

func newMemRepo() *memRepo {
	return &memRepo{corpora: map[string][]*chunk.Chunk{}}
}

func (r *memRepo) key(contractType string, g chunk.Granularity) string {
	return contractType + "/" + string(g)
}

func (r *memRepo) SaveCorpus(ctx context.Context, contractType string, g chunk.Granularity, chunks []*chunk.Chunk) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.corpora[r.key(contractType, g)] = chunks
	return nil
}

func (r *memRepo) LoadCorpus(ctx context.Context, contractType string, g chunk.Granularity) ([]*chunk.Chunk, error) {
	chunks, ok := r.corpora[r.key(contractType, g)]
	if !ok {
		return nil, errors.New(errors.ErrCodeCorpusNotFound, "no corpus")
	}
	return chunks, nil
}

func (r *memRepo) GetByGlobalID(ctx context.Context, contractType, globalID string) (*chunk.Chunk, error) {
	for _, chunks := range r.corpora {
		for _, c := range chunks {
			if c.GlobalID == globalID {
				return c, nil
			}
		}
	}
	return nil, errors.New(errors.ErrCodeChunkNotFound, "not found")
}

func (r *memRepo) ListContractTypes(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var types []string
	for k := range r.corpora {
		t := strings.SplitN(k, "/", 2)[0]
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types, nil
}

type fakeEmbedder struct {
	err     error
	skipped []embedding.SkippedVector
	failed  []embedding.FailedVector
}

func (f *fakeEmbedder) EmbedChunks(ctx context.Context, chunks []*chunk.Chunk) (*embedding.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	res := &embedding.Result{Skipped: f.skipped, Failed: f.failed}
	for _, c := range chunks {
		if c.IsExhibit() {
			continue
		}
		if c.TextNorm != "" {
			res.Body.GlobalIDs = append(res.Body.GlobalIDs, c.GlobalID)
			res.Body.Vectors = append(res.Body.Vectors, []float32{0.1, 0.2, 0.3, 0.4})
		}
		if c.Title != "" {
			res.Title.GlobalIDs = append(res.Title.GlobalIDs, c.GlobalID)
			res.Title.Vectors = append(res.Title.Vectors, []float32{0.4, 0.3, 0.2, 0.1})
		}
	}
	return res, nil
}

type fakeVectorStore struct {
	calls  map[embedding.VectorField]embedding.FieldVectors
	orders map[string]int
	err    error
}

func (f *fakeVectorStore) ReplaceVectors(ctx context.Context, contractType string, field embedding.VectorField,
	vectors embedding.FieldVectors, orderByID map[string]int) error {
	if f.err != nil {
		return f.err
	}
	if f.calls == nil {
		f.calls = map[embedding.VectorField]embedding.FieldVectors{}
	}
	f.calls[field] = vectors
	f.orders = orderByID
	return nil
}

type fakeLexical struct {
	chunks []*chunk.Chunk
	result *opensearch.BulkResult
	err    error
}

func (f *fakeLexical) RebuildIndex(ctx context.Context, contractType string, chunks []*chunk.Chunk) (*opensearch.BulkResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.chunks = chunks
	if f.result != nil {
		return f.result, nil
	}
	return &opensearch.BulkResult{Succeeded: len(chunks)}, nil
}

type fakePublisher struct {
	messages []*kafka.Message
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, msg *kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

type fakeArchiver struct {
	key string
	err error
}

func (f *fakeArchiver) Archive(ctx context.Context, contractType, runID, filename string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key = contractType + "/" + runID + "/" + filename
	return f.key, nil
}

type fakeLock struct {
	lockErr  error
	locked   bool
	unlocked bool
}

func (f *fakeLock) Lock(ctx context.Context) error {
	if f.lockErr != nil {
		return f.lockErr
	}
	f.locked = true
	return nil
}

func (f *fakeLock) TryLock(ctx context.Context) (bool, error) {
	return f.lockErr == nil, f.lockErr
}

func (f *fakeLock) Unlock(ctx context.Context) error {
	f.unlocked = true
	return nil
}

func (f *fakeLock) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	return true, nil
}

func (f *fakeLock) TTL(ctx context.Context) (time.Duration, error) {
	return time.Second, nil
}

type fakeLockFactory struct {
	lock *fakeLock
	name string
}

func (f *fakeLockFactory) NewMutex(name string, opts ...redis.LockOption) redis.DistributedLock {
	f.name = name
	return f.lock
}

type pipelineFixture struct {
	pipeline  *Pipeline
	repo      *memRepo
	embedder  *fakeEmbedder
	vectors   *fakeVectorStore
	lexical   *fakeLexical
	publisher *fakePublisher
	archiver  *fakeArchiver
	locks     *fakeLockFactory
}

func newFixture() *pipelineFixture {
	f := &pipelineFixture{
		repo:      newMemRepo(),
		embedder:  &fakeEmbedder{},
		vectors:   &fakeVectorStore{},
		lexical:   &fakeLexical{},
		publisher: &fakePublisher{},
		archiver:  &fakeArchiver{},
		locks:     &fakeLockFactory{lock: &fakeLock{}},
	}
	f.pipeline = NewPipeline(document.NewParser(nil), f.repo, f.embedder,
		f.vectors, f.lexical, f.locks, f.publisher, f.archiver, logging.NewNopLogger())
	return f
}

func decodePayload(t *testing.T, msg *kafka.Message, target interface{}) {
	t.Helper()
	var env kafka.EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	require.NoError(t, env.DecodePayload(target))
}

func TestRun_ProducesBothCorporaAndSwapsIndexes(t *testing.T) {
	f := newFixture()

	summary, err := f.pipeline.Run(context.Background(), &Request{
		ContractType:   "provide",
		Units:          sampleUnits(),
		SourceFilename: "standard.docx",
		RawDocument:    []byte("raw bytes"),
	})
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.NotEmpty(t, summary.RunID)

	// Article granularity: two articles plus one exhibit.
	assert.Equal(t, 3, summary.ArticleChunks)
	articles, err := f.repo.LoadCorpus(context.Background(), "provide", chunk.GranularityArticle)
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, "urn:std:provide:art:001", articles[0].GlobalID)
	assert.Equal(t, "urn:std:provide:ex:001", articles[2].GlobalID)

	// Clause granularity: two clauses of article 1 plus the clause-less
	// article 2 kept as a single chunk.
	assert.Equal(t, 3, summary.ClauseChunks)
	clauses, err := f.repo.LoadCorpus(context.Background(), "provide", chunk.GranularityClause)
	require.NoError(t, err)
	require.Len(t, clauses, 3)
	assert.Equal(t, "urn:std:provide:art:001:cla:001", clauses[0].GlobalID)
	assert.Equal(t, "urn:std:provide:art:001:cla:002", clauses[1].GlobalID)

	// Both dense collections were rebuilt and the lexical index got the
	// combined corpus minus the exhibit and the duplicate clause-less shell.
	assert.Contains(t, f.vectors.calls, embedding.FieldBody)
	assert.Contains(t, f.vectors.calls, embedding.FieldTitle)
	assert.Len(t, f.lexical.chunks, 4)

	// The raw source was archived under the run prefix.
	assert.Equal(t, "provide/"+summary.RunID+"/standard.docx", summary.ArchiveKey)

	// Lock was taken for this contract type and released.
	assert.Equal(t, "ingest:provide", f.locks.name)
	assert.True(t, f.locks.lock.locked)
	assert.True(t, f.locks.lock.unlocked)
}

func TestRun_PublishesCompletedEventAfterSwap(t *testing.T) {
	f := newFixture()

	summary, err := f.pipeline.Run(context.Background(), &Request{
		ContractType: "provide",
		Units:        sampleUnits(),
	})
	require.NoError(t, err)

	require.Len(t, f.publisher.messages, 1)
	msg := f.publisher.messages[0]
	assert.Equal(t, kafka.TopicIngestionCompleted, msg.Topic)
	assert.Equal(t, "provide", string(msg.Key))

	var payload kafka.IngestionCompletedPayload
	decodePayload(t, msg, &payload)
	assert.Equal(t, summary.RunID, payload.RunID)
	assert.Equal(t, 3, payload.ArticleChunks)
	assert.Equal(t, 3, payload.ClauseChunks)
}

func TestRun_RejectsEmptyInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.pipeline.Run(ctx, &Request{Units: sampleUnits()})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeContractTypeInvalid))

	_, err = f.pipeline.Run(ctx, &Request{ContractType: "provide"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDocEmpty))
}

func TestRun_EmbedFailurePublishesFailureEvent(t *testing.T) {
	f := newFixture()
	f.embedder.err = errors.New(errors.ErrCodeEmbeddingServiceDown, "embedding service unavailable")

	_, err := f.pipeline.Run(context.Background(), &Request{
		ContractType: "provide",
		Units:        sampleUnits(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmbeddingServiceDown))

	require.Len(t, f.publisher.messages, 1)
	msg := f.publisher.messages[0]
	assert.Equal(t, kafka.TopicIngestionFailed, msg.Topic)

	var payload kafka.IngestionFailedPayload
	decodePayload(t, msg, &payload)
	assert.Equal(t, "embed", payload.Stage)
	assert.Equal(t, "provide", payload.ContractType)

	// The corpora were already persisted; only the index rebuild aborted.
	_, corpusErr := f.repo.LoadCorpus(context.Background(), "provide", chunk.GranularityArticle)
	assert.NoError(t, corpusErr)
}

func TestRun_ConcurrentRunForSameTypeIsRejected(t *testing.T) {
	f := newFixture()
	f.locks.lock.lockErr = redis.ErrLockNotAcquired

	_, err := f.pipeline.Run(context.Background(), &Request{
		ContractType: "provide",
		Units:        sampleUnits(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConflict))

	// Nothing was written.
	assert.Empty(t, f.repo.corpora)
	assert.Nil(t, f.vectors.calls)
}

func TestRun_ArchiveFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.archiver.err = errors.New(errors.ErrCodeInternal, "minio unreachable")

	summary, err := f.pipeline.Run(context.Background(), &Request{
		ContractType: "provide",
		Units:        sampleUnits(),
		RawDocument:  []byte("raw bytes"),
	})
	require.NoError(t, err)
	assert.Empty(t, summary.ArchiveKey)
}

func TestRun_PublishFailureDoesNotFailRun(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New(errors.ErrCodeInternal, "broker unavailable")

	_, err := f.pipeline.Run(context.Background(), &Request{
		ContractType: "provide",
		Units:        sampleUnits(),
	})
	assert.NoError(t, err)
}

func TestRun_ExhibitChunksStayOutOfLexicalIndex(t *testing.T) {
	f := newFixture()

	_, err := f.pipeline.Run(context.Background(), &Request{
		ContractType: "provide",
		Units:        sampleUnits(),
	})
	require.NoError(t, err)

	require.NotEmpty(t, f.lexical.chunks)
	var ids []string
	for _, c := range f.lexical.chunks {
		assert.False(t, c.IsExhibit(), "exhibit chunk %s must not reach the lexical index", c.GlobalID)
		ids = append(ids, c.GlobalID)
	}
	// The articles and clauses are still all indexed.
	assert.Contains(t, ids, "urn:std:provide:art:001")
	assert.Contains(t, ids, "urn:std:provide:art:001:cla:001")
	assert.NotContains(t, ids, "urn:std:provide:ex:001")
}

func TestRun_ClauselessArticleIsIndexedOnce(t *testing.T) {
	f := newFixture()

	_, err := f.pipeline.Run(context.Background(), &Request{
		ContractType: "provide",
		Units:        sampleUnits(),
	})
	require.NoError(t, err)

	// Article 2 has no clauses, so the clause corpus keeps it as a shell
	// under the same global id.  Only one copy reaches the indexes, and the
	// chunk order comes from the article corpus.
	count := 0
	for _, c := range f.lexical.chunks {
		if c.GlobalID == "urn:std:provide:art:002" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	articles, err := f.repo.LoadCorpus(context.Background(), "provide", chunk.GranularityArticle)
	require.NoError(t, err)
	assert.Equal(t, articles[1].OrderIndex, f.vectors.orders["urn:std:provide:art:002"])
}

func TestRun_VectorSkipCountsSurfaceInSummary(t *testing.T) {
	f := newFixture()
	f.embedder.skipped = []embedding.SkippedVector{
		{GlobalID: "urn:std:provide:art:002", Field: embedding.FieldTitle},
	}
	f.embedder.failed = []embedding.FailedVector{
		{GlobalID: "urn:std:provide:art:001:cla:001", Field: embedding.FieldBody},
	}

	summary, err := f.pipeline.Run(context.Background(), &Request{
		ContractType: "provide",
		Units:        sampleUnits(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SkippedVectors)
	assert.Equal(t, 1, summary.FailedVectors)
}

//Personal.AI order the ending
