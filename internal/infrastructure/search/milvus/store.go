package milvus

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/embedding"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/internal/retrieval"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// StoreConfig holds the vector store tunables.
type StoreConfig struct {
	InsertBatchSize int
	SearchEf        int
	SearchNProbe    int
	SearchTimeout   time.Duration
}

// Store writes chunk vectors into the per-contract-type collections and
// answers nearest-neighbor queries.  It implements retrieval.DenseSearcher.
type Store struct {
	client      *Client
	collections *CollectionManager
	config      StoreConfig
	logger      logging.Logger
}

// NewStore creates a Store.
func NewStore(client *Client, collections *CollectionManager, cfg StoreConfig, logger logging.Logger) *Store {
	if cfg.InsertBatchSize == 0 {
		cfg.InsertBatchSize = 1000
	}
	if cfg.SearchEf == 0 {
		cfg.SearchEf = 64
	}
	if cfg.SearchNProbe == 0 {
		cfg.SearchNProbe = 16
	}
	if cfg.SearchTimeout == 0 {
		cfg.SearchTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Store{
		client:      client,
		collections: collections,
		config:      cfg,
		logger:      logger.Named("milvus_store"),
	}
}

// ReplaceVectors rebuilds one collection from a freshly embedded vector set.
// The old collection is dropped first so a re-ingested corpus never leaves
// stale entries behind.  orderByID maps each global id to its corpus order.
func (s *Store) ReplaceVectors(ctx context.Context, contractType string, field embedding.VectorField,
	vectors embedding.FieldVectors, orderByID map[string]int) error {

	if len(vectors.GlobalIDs) != len(vectors.Vectors) {
		return errors.New(errors.ErrCodeIndexBuildFailed, "global id and vector counts differ")
	}

	name := CollectionName(s.collections.config.Prefix, contractType, field)

	if err := s.collections.DropCollection(ctx, name); err != nil && !errors.IsCode(err, errors.ErrCodeNotFound) {
		return err
	}
	if err := s.collections.EnsureCollection(ctx, name); err != nil {
		return err
	}

	mc := s.client.GetMilvusClient()
	total := len(vectors.GlobalIDs)
	for start := 0; start < total; start += s.config.InsertBatchSize {
		end := start + s.config.InsertBatchSize
		if end > total {
			end = total
		}

		ids := vectors.GlobalIDs[start:end]
		vecs := vectors.Vectors[start:end]
		orders := make([]int64, len(ids))
		for i, id := range ids {
			orders[i] = int64(orderByID[id])
		}

		dim := 0
		if len(vecs) > 0 {
			dim = len(vecs[0])
		}
		_, err := mc.Insert(ctx, name, "",
			entity.NewColumnVarChar(fieldGlobalID, ids),
			entity.NewColumnFloatVector(fieldVector, dim, vecs),
			entity.NewColumnInt64(fieldChunkOrder, orders),
		)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeIndexBuildFailed,
				fmt.Sprintf("failed to insert vectors into %s", name))
		}
	}

	if err := mc.Flush(ctx, name, false); err != nil {
		return errors.Wrap(err, errors.ErrCodeIndexBuildFailed,
			fmt.Sprintf("failed to flush collection %s", name))
	}

	s.logger.Info("vector collection rebuilt",
		logging.String("collection", name),
		logging.Int("vectors", total))
	return nil
}

// Search returns the top-K nearest neighbors from one contract type's dense
// collection.  A missing collection means the index was never built:
// ErrCodeIndexNotReady, so callers can distinguish it from an empty result.
func (s *Store) Search(ctx context.Context, contractType string, field embedding.VectorField,
	vector []float32, topK int) ([]retrieval.DenseHit, error) {

	name := CollectionName(s.collections.config.Prefix, contractType, field)

	has, err := s.collections.HasCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, errors.New(errors.ErrCodeIndexNotReady,
			fmt.Sprintf("dense index %s has not been built", name))
	}

	sp, err := s.searchParam()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDenseSearchFailed, "failed to build search params")
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.config.SearchTimeout)
	defer cancel()

	results, err := s.client.GetMilvusClient().Search(searchCtx, name, nil, "",
		[]string{fieldGlobalID},
		[]entity.Vector{entity.FloatVector(vector)},
		fieldVector, entity.COSINE, topK, sp)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDenseSearchFailed,
			fmt.Sprintf("vector search on %s failed", name))
	}

	var hits []retrieval.DenseHit
	for _, res := range results {
		for j := 0; j < res.ResultCount; j++ {
			id, err := res.IDs.GetAsString(j)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeDenseSearchFailed, "unexpected primary key type")
			}
			hits = append(hits, retrieval.DenseHit{
				GlobalID: id,
				Score:    float64(res.Scores[j]),
			})
		}
	}

	s.logger.Debug("dense search executed",
		logging.String("collection", name),
		logging.Int("hits", len(hits)))
	return hits, nil
}

func (s *Store) searchParam() (entity.SearchParam, error) {
	if s.collections.config.IndexType == "IVF_FLAT" {
		return entity.NewIndexIvfFlatSearchParam(s.config.SearchNProbe)
	}
	return entity.NewIndexHNSWSearchParam(s.config.SearchEf)
}

//Personal.AI order the ending
