// Package ingestion drives a full standard-contract ingestion run:
// parse, chunk at both granularities, persist the corpora, embed, rebuild
// the dense and lexical indexes, then announce the swap.
package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/domain/document"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/database/redis"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/embedding"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/search/opensearch"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// Embedder computes the dual vector sets for a chunk corpus.
type Embedder interface {
	EmbedChunks(ctx context.Context, chunks []*chunk.Chunk) (*embedding.Result, error)
}

// VectorStore rebuilds one dense collection from a fresh vector set.
type VectorStore interface {
	ReplaceVectors(ctx context.Context, contractType string, field embedding.VectorField,
		vectors embedding.FieldVectors, orderByID map[string]int) error
}

// LexicalIndexer rebuilds the BM25 index of one contract type and swaps its
// alias.  Satisfied by *opensearch.Indexer.
type LexicalIndexer interface {
	RebuildIndex(ctx context.Context, contractType string, chunks []*chunk.Chunk) (*opensearch.BulkResult, error)
}

// EventPublisher emits ingestion lifecycle events.  Satisfied by
// *kafka.Producer.
type EventPublisher interface {
	Publish(ctx context.Context, msg *kafka.Message) error
}

// Archiver keeps the raw source document for audit.  Satisfied by
// *minio.DocumentArchive.
type Archiver interface {
	Archive(ctx context.Context, contractType, runID, filename string, data []byte) (string, error)
}

// Request is one ingestion job: the parsed-unit stream of a single standard
// contract plus, optionally, the original bytes for the audit archive.
type Request struct {
	ContractType   string
	Units          []document.Unit
	SourceFilename string
	RawDocument    []byte
}

// Summary reports what a completed run produced.
type Summary struct {
	RunID          string
	ContractType   string
	ArticleChunks  int
	ClauseChunks   int
	SkippedVectors int
	FailedVectors  int
	ArchiveKey     string
	Duration       time.Duration
}

// Pipeline wires the ingestion stages together.  Events and archival are
// optional: a nil publisher or archiver disables that stage without failing
// the run.
type Pipeline struct {
	parser    *document.Parser
	repo      chunk.Repository
	embedder  Embedder
	vectors   VectorStore
	lexical   LexicalIndexer
	publisher EventPublisher
	archiver  Archiver
	locks     redis.LockFactory
	log       logging.Logger
}

// NewPipeline builds a Pipeline.  parser, repo, embedder, vectors and
// lexical are required.
func NewPipeline(parser *document.Parser, repo chunk.Repository, embedder Embedder,
	vectors VectorStore, lexical LexicalIndexer, locks redis.LockFactory,
	publisher EventPublisher, archiver Archiver, log logging.Logger) *Pipeline {

	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Pipeline{
		parser:    parser,
		repo:      repo,
		embedder:  embedder,
		vectors:   vectors,
		lexical:   lexical,
		publisher: publisher,
		archiver:  archiver,
		locks:     locks,
		log:       log.Named("ingestion"),
	}
}

// Run executes one full ingestion for req.ContractType.  Runs for the same
// contract type are serialized through a distributed lock; a second run
// started while one is in flight fails with a conflict instead of racing the
// index swap.  Until the lexical alias swap completes, searches keep hitting
// the previous index generation.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*Summary, error) {
	if req.ContractType == "" {
		return nil, errors.New(errors.ErrCodeContractTypeInvalid, "contract type is required")
	}
	if len(req.Units) == 0 {
		return nil, errors.New(errors.ErrCodeDocEmpty, "document contains no parsable units")
	}

	runID := uuid.New().String()
	start := time.Now()
	log := p.log.Named(req.ContractType)

	if p.locks != nil {
		lock := p.locks.NewMutex("ingest:" + req.ContractType)
		if err := lock.Lock(ctx); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConflict,
				fmt.Sprintf("ingestion already running for contract type %q", req.ContractType))
		}
		defer func() {
			if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
				log.Warn("failed to release ingestion lock", logging.Err(err))
			}
		}()
	}

	log.Info("ingestion run started",
		logging.String("run_id", runID),
		logging.Int("units", len(req.Units)))

	summary := &Summary{RunID: runID, ContractType: req.ContractType}

	// Audit archival is best effort: the operator still holds the source
	// file, and a missing audit copy must not block a rebuild.
	if p.archiver != nil && len(req.RawDocument) > 0 {
		key, err := p.archiver.Archive(ctx, req.ContractType, runID, req.SourceFilename, req.RawDocument)
		if err != nil {
			log.Warn("raw document archival failed", logging.Err(err))
		} else {
			summary.ArchiveKey = key
		}
	}

	parsed := p.parser.Parse(req.Units)

	articleChunks, clauseChunks, err := p.chunkBoth(req.ContractType, parsed)
	if err != nil {
		return nil, p.fail(ctx, runID, req.ContractType, "chunk", err)
	}
	summary.ArticleChunks = len(articleChunks)
	summary.ClauseChunks = len(clauseChunks)

	if err := p.repo.SaveCorpus(ctx, req.ContractType, chunk.GranularityArticle, articleChunks); err != nil {
		return nil, p.fail(ctx, runID, req.ContractType, "persist", err)
	}
	if err := p.repo.SaveCorpus(ctx, req.ContractType, chunk.GranularityClause, clauseChunks); err != nil {
		return nil, p.fail(ctx, runID, req.ContractType, "persist", err)
	}

	// Both granularities share one index per contract type; search filters
	// by granularity through corpus membership.  An article without clauses
	// appears in both corpora under the same global id, so the combined list
	// is deduplicated with the article-granularity chunk winning.
	combined := make([]*chunk.Chunk, 0, len(articleChunks)+len(clauseChunks))
	seen := make(map[string]bool, len(articleChunks)+len(clauseChunks))
	for _, c := range articleChunks {
		seen[c.GlobalID] = true
		combined = append(combined, c)
	}
	for _, c := range clauseChunks {
		if seen[c.GlobalID] {
			continue
		}
		seen[c.GlobalID] = true
		combined = append(combined, c)
	}

	embedded, err := p.embedder.EmbedChunks(ctx, combined)
	if err != nil {
		return nil, p.fail(ctx, runID, req.ContractType, "embed", err)
	}
	summary.SkippedVectors = len(embedded.Skipped)
	summary.FailedVectors = len(embedded.Failed)

	orderByID := make(map[string]int, len(combined))
	for _, c := range combined {
		orderByID[c.GlobalID] = c.OrderIndex
	}

	if err := p.vectors.ReplaceVectors(ctx, req.ContractType, embedding.FieldBody, embedded.Body, orderByID); err != nil {
		return nil, p.fail(ctx, runID, req.ContractType, "index_dense", err)
	}
	if err := p.vectors.ReplaceVectors(ctx, req.ContractType, embedding.FieldTitle, embedded.Title, orderByID); err != nil {
		return nil, p.fail(ctx, runID, req.ContractType, "index_dense", err)
	}

	// Exhibits are matched by reference, never by independent search; they
	// stay out of the lexical index just as they stay out of the embedder.
	lexicalDocs := make([]*chunk.Chunk, 0, len(combined))
	for _, c := range combined {
		if c.IsExhibit() {
			continue
		}
		lexicalDocs = append(lexicalDocs, c)
	}

	// The alias swap is the commit point of the run.
	bulk, err := p.lexical.RebuildIndex(ctx, req.ContractType, lexicalDocs)
	if err != nil {
		return nil, p.fail(ctx, runID, req.ContractType, "index_lexical", err)
	}
	if bulk != nil && bulk.Failed > 0 {
		log.Warn("some chunks were rejected by the lexical index",
			logging.String("run_id", runID),
			logging.Int("failed", bulk.Failed))
	}

	summary.Duration = time.Since(start)

	p.publishCompleted(ctx, summary)

	log.Info("ingestion run completed",
		logging.String("run_id", runID),
		logging.Int("article_chunks", summary.ArticleChunks),
		logging.Int("clause_chunks", summary.ClauseChunks),
		logging.Int("skipped_vectors", summary.SkippedVectors),
		logging.Int("failed_vectors", summary.FailedVectors),
		logging.Int64("duration_ms", summary.Duration.Milliseconds()))
	return summary, nil
}

func (p *Pipeline) chunkBoth(contractType string, parsed *document.ParseResult) ([]*chunk.Chunk, []*chunk.Chunk, error) {
	articleChunker, err := chunk.NewArticleChunker(contractType)
	if err != nil {
		return nil, nil, err
	}
	clauseChunker, err := chunk.NewClauseChunker(contractType)
	if err != nil {
		return nil, nil, err
	}
	return articleChunker.Chunk(parsed), clauseChunker.Chunk(parsed), nil
}

// fail publishes the failure event and returns the stage error.  The
// previous index generation keeps serving, so failures are advisory for
// consumers.
func (p *Pipeline) fail(ctx context.Context, runID, contractType, stage string, err error) error {
	p.log.Error("ingestion run failed",
		logging.String("run_id", runID),
		logging.String("contract_type", contractType),
		logging.String("stage", stage),
		logging.Err(err))

	if p.publisher != nil {
		env, envErr := kafka.NewEventEnvelope("ingestion.failed", "clausematch", kafka.IngestionFailedPayload{
			RunID:        runID,
			ContractType: contractType,
			Stage:        stage,
			Reason:       err.Error(),
			FailedAt:     time.Now().UTC(),
		})
		if envErr == nil {
			if msg, msgErr := env.ToMessage(kafka.TopicIngestionFailed, contractType); msgErr == nil {
				if pubErr := p.publisher.Publish(context.WithoutCancel(ctx), msg); pubErr != nil {
					p.log.Warn("failed to publish ingestion.failed event", logging.Err(pubErr))
				}
			}
		}
	}
	return err
}

func (p *Pipeline) publishCompleted(ctx context.Context, summary *Summary) {
	if p.publisher == nil {
		return
	}
	env, err := kafka.NewEventEnvelope("ingestion.completed", "clausematch", kafka.IngestionCompletedPayload{
		RunID:          summary.RunID,
		ContractType:   summary.ContractType,
		ArticleChunks:  summary.ArticleChunks,
		ClauseChunks:   summary.ClauseChunks,
		SkippedVectors: summary.SkippedVectors,
		FailedVectors:  summary.FailedVectors,
		SourceObject:   summary.ArchiveKey,
		CompletedAt:    time.Now().UTC(),
	})
	if err != nil {
		p.log.Warn("failed to build ingestion.completed event", logging.Err(err))
		return
	}
	msg, err := env.ToMessage(kafka.TopicIngestionCompleted, summary.ContractType)
	if err != nil {
		p.log.Warn("failed to build ingestion.completed event", logging.Err(err))
		return
	}
	if err := p.publisher.Publish(ctx, msg); err != nil {
		// The indexes are already swapped; consumers catch up on the next
		// successful publish.
		p.log.Warn("failed to publish ingestion.completed event", logging.Err(err))
	}
}

//Personal.AI order the ending
