package corpus

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/database/redis"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
)

// CachedRepository decorates a chunk.Repository with a Redis read-through
// cache.  Saving a corpus invalidates every key of that contract type, so a
// re-ingested standard never serves stale chunks.
type CachedRepository struct {
	inner chunk.Repository
	cache redis.Cache
	ttl   time.Duration
	log   logging.Logger
}

// NewCachedRepository wraps inner with the cache.
func NewCachedRepository(inner chunk.Repository, cache redis.Cache, ttl time.Duration, log logging.Logger) *CachedRepository {
	if ttl == 0 {
		ttl = time.Hour
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &CachedRepository{inner: inner, cache: cache, ttl: ttl, log: log.Named("corpus_cache")}
}

func corpusKey(contractType string, granularity chunk.Granularity) string {
	return fmt.Sprintf("corpus:%s:%s", contractType, granularity)
}

func chunkKey(contractType, globalID string) string {
	return fmt.Sprintf("chunk:%s:%s", contractType, globalID)
}

func (r *CachedRepository) SaveCorpus(ctx context.Context, contractType string, granularity chunk.Granularity, chunks []*chunk.Chunk) error {
	if err := r.inner.SaveCorpus(ctx, contractType, granularity, chunks); err != nil {
		return err
	}
	for _, prefix := range []string{"corpus:" + contractType + ":", "chunk:" + contractType + ":"} {
		if _, err := r.cache.DeleteByPrefix(ctx, prefix); err != nil {
			// The store already holds the new corpus; stale cache entries
			// expire with their TTL.
			r.log.Warn("cache invalidation failed",
				logging.String("prefix", prefix), logging.Err(err))
		}
	}
	return nil
}

func (r *CachedRepository) LoadCorpus(ctx context.Context, contractType string, granularity chunk.Granularity) ([]*chunk.Chunk, error) {
	var chunks []*chunk.Chunk
	err := r.cache.GetOrSet(ctx, corpusKey(contractType, granularity), &chunks, r.ttl,
		func(ctx context.Context) (interface{}, error) {
			loaded, err := r.inner.LoadCorpus(ctx, contractType, granularity)
			if err != nil {
				return nil, err
			}
			return loaded, nil
		})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

func (r *CachedRepository) GetByGlobalID(ctx context.Context, contractType string, globalID string) (*chunk.Chunk, error) {
	var c chunk.Chunk
	err := r.cache.GetOrSet(ctx, chunkKey(contractType, globalID), &c, r.ttl,
		func(ctx context.Context) (interface{}, error) {
			loaded, err := r.inner.GetByGlobalID(ctx, contractType, globalID)
			if err != nil {
				return nil, err
			}
			return loaded, nil
		})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CachedRepository) ListContractTypes(ctx context.Context) ([]string, error) {
	return r.inner.ListContractTypes(ctx)
}

var _ chunk.Repository = (*CachedRepository)(nil)

//Personal.AI order the ending
