package embedding

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
)

// VectorField names which of the two vectors an embedding belongs to.
type VectorField string

const (
	FieldBody  VectorField = "body"
	FieldTitle VectorField = "title"
)

// SkippedVector records a chunk that was not embedded for one field because
// its source text is empty.  Skips are warnings, never errors, and never
// produce zero/placeholder vectors.
type SkippedVector struct {
	GlobalID string
	Field    VectorField
}

// FailedVector records a chunk whose embedding failed even after the
// per-item retry.  It is surfaced to the operator, not silently dropped.
type FailedVector struct {
	GlobalID string
	Field    VectorField
	Err      error
}

// FieldVectors is one dense vector set with its position-aligned id list:
// Vectors[i] belongs to GlobalIDs[i].  Skipped chunks shift the alignment,
// which is why the mapping is carried explicitly instead of reusing chunk
// row order.
type FieldVectors struct {
	GlobalIDs []string
	Vectors   [][]float32
}

// Result is the dual-embedding output for one corpus.
type Result struct {
	Body    FieldVectors
	Title   FieldVectors
	Skipped []SkippedVector
	Failed  []FailedVector
}

// DualEmbedder computes two independent vector sets per corpus: one over
// normalized body text and one over titles.  Exhibit chunks are excluded
// entirely — exhibits are matched by reference, not semantic search.
type DualEmbedder struct {
	client      Embedder
	batchSize   int
	concurrency int
	log         logging.Logger
}

// NewDualEmbedder builds a DualEmbedder.  batchSize and concurrency fall
// back to 100 and 1 when out of range.
func NewDualEmbedder(client Embedder, batchSize, concurrency int, log logging.Logger) *DualEmbedder {
	if batchSize < 1 {
		batchSize = 100
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &DualEmbedder{
		client:      client,
		batchSize:   batchSize,
		concurrency: concurrency,
		log:         log.Named("dual_embedder"),
	}
}

// EmbedChunks embeds a corpus.  Batches run in parallel, each writing into
// its own position range of a pre-sized slice, so completion order never
// affects output order.  A batch failure falls back to per-item retries;
// only items that fail individually are recorded as Failed.
func (d *DualEmbedder) EmbedChunks(ctx context.Context, chunks []*chunk.Chunk) (*Result, error) {
	res := &Result{}

	var bodyIDs, bodyTexts, titleIDs, titleTexts []string
	for _, c := range chunks {
		if c.IsExhibit() {
			continue
		}
		if c.TextNorm == "" {
			res.Skipped = append(res.Skipped, SkippedVector{GlobalID: c.GlobalID, Field: FieldBody})
		} else {
			bodyIDs = append(bodyIDs, c.GlobalID)
			bodyTexts = append(bodyTexts, c.TextNorm)
		}
		if c.Title == "" {
			res.Skipped = append(res.Skipped, SkippedVector{GlobalID: c.GlobalID, Field: FieldTitle})
		} else {
			titleIDs = append(titleIDs, c.GlobalID)
			titleTexts = append(titleTexts, c.Title)
		}
	}

	for _, s := range res.Skipped {
		d.log.Warn("chunk skipped for embedding: empty source text",
			logging.String("global_id", s.GlobalID),
			logging.String("field", string(s.Field)))
	}

	body, failedBody, err := d.embedField(ctx, FieldBody, bodyIDs, bodyTexts)
	if err != nil {
		return nil, err
	}
	title, failedTitle, err := d.embedField(ctx, FieldTitle, titleIDs, titleTexts)
	if err != nil {
		return nil, err
	}

	res.Body = body
	res.Title = title
	res.Failed = append(res.Failed, failedBody...)
	res.Failed = append(res.Failed, failedTitle...)
	return res, nil
}

// embedField embeds one text list in parallel batches.  vectors[i] is nil
// when item i failed permanently; nils are compacted out afterwards so the
// returned vector set stays position-aligned with its id list.
func (d *DualEmbedder) embedField(ctx context.Context, field VectorField, ids, texts []string) (FieldVectors, []FailedVector, error) {
	vectors := make([][]float32, len(texts))

	var mu sync.Mutex
	var failed []FailedVector

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for start := 0; start < len(texts); start += d.batchSize {
		start := start
		end := start + d.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		g.Go(func() error {
			batchFailed := d.embedBatch(gctx, field, ids[start:end], texts[start:end], vectors[start:end])
			if len(batchFailed) > 0 {
				mu.Lock()
				failed = append(failed, batchFailed...)
				mu.Unlock()
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return FieldVectors{}, nil, err
	}

	out := FieldVectors{}
	for i, v := range vectors {
		if v == nil {
			continue
		}
		out.GlobalIDs = append(out.GlobalIDs, ids[i])
		out.Vectors = append(out.Vectors, v)
	}
	return out, failed, nil
}

// embedBatch tries the whole batch once; on failure it retries item by item
// so a single unembeddable chunk never blocks the rest.
func (d *DualEmbedder) embedBatch(ctx context.Context, field VectorField, ids, texts []string, out [][]float32) []FailedVector {
	vecs, err := d.client.Embed(ctx, texts)
	if err == nil {
		copy(out, vecs)
		return nil
	}

	d.log.Warn("batch embedding failed, retrying per item",
		logging.String("field", string(field)),
		logging.Int("batch_size", len(texts)),
		logging.Err(err))

	var failed []FailedVector
	for i, text := range texts {
		if ctx.Err() != nil {
			break
		}
		vec, itemErr := d.client.Embed(ctx, []string{text})
		if itemErr != nil || len(vec) != 1 {
			d.log.Error("chunk embedding permanently failed",
				logging.String("global_id", ids[i]),
				logging.String("field", string(field)),
				logging.Err(itemErr))
			failed = append(failed, FailedVector{GlobalID: ids[i], Field: field, Err: itemErr})
			continue
		}
		out[i] = vec[0]
	}
	return failed
}

//Personal.AI order the ending
