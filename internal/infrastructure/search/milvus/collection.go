package milvus

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/embedding"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

var (
	ErrCollectionAlreadyExists = errors.New(errors.ErrCodeConflict, "collection already exists")
	ErrCollectionNotFound      = errors.New(errors.ErrCodeNotFound, "collection not found")
)

const (
	fieldGlobalID   = "global_id"
	fieldVector     = "vector"
	fieldChunkOrder = "chunk_order"

	globalIDMaxLength = 128
)

// CollectionName derives the dense collection name for one contract type and
// vector field, e.g. "provide_std_contract_text" / "provide_std_contract_title".
func CollectionName(prefix, contractType string, field embedding.VectorField) string {
	suffix := "text"
	if field == embedding.FieldTitle {
		suffix = "title"
	}
	return fmt.Sprintf("%s_%s_%s", contractType, prefix, suffix)
}

// CollectionConfig holds the vector-collection build parameters.
type CollectionConfig struct {
	Prefix             string
	Dimension          int
	IndexType          string // "HNSW" (default) or "IVF_FLAT"
	HNSWM              int
	HNSWEfConstruction int
	IVFNList           int
	ShardsNum          int32
	ConsistencyLevel   entity.ConsistencyLevel
	LoadTimeout        time.Duration
}

// CollectionManager creates, drops and loads the per-contract-type chunk
// vector collections.
type CollectionManager struct {
	client *Client
	config CollectionConfig
	logger logging.Logger
}

// NewCollectionManager creates a CollectionManager.
func NewCollectionManager(client *Client, cfg CollectionConfig, logger logging.Logger) (*CollectionManager, error) {
	if cfg.Dimension < 1 {
		return nil, errors.New(errors.ErrCodeValidation, "vector dimension must be positive")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "std_contract"
	}
	if cfg.IndexType == "" {
		cfg.IndexType = "HNSW"
	}
	if cfg.HNSWM == 0 {
		cfg.HNSWM = 16
	}
	if cfg.HNSWEfConstruction == 0 {
		cfg.HNSWEfConstruction = 200
	}
	if cfg.IVFNList == 0 {
		cfg.IVFNList = 1024
	}
	if cfg.ShardsNum == 0 {
		cfg.ShardsNum = 2
	}
	if cfg.ConsistencyLevel == 0 {
		cfg.ConsistencyLevel = entity.ClBounded
	}
	if cfg.LoadTimeout == 0 {
		cfg.LoadTimeout = 120 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CollectionManager{client: client, config: cfg, logger: logger.Named("milvus_collections")}, nil
}

// chunkVectorSchema is the schema shared by the text and title collections:
// a varchar global-id primary key, the embedding vector and the corpus order
// for stable secondary sorting.
func (m *CollectionManager) chunkVectorSchema(name string) *entity.Schema {
	return &entity.Schema{
		CollectionName: name,
		Description:    "standard contract chunk vectors",
		Fields: []*entity.Field{
			{
				Name:       fieldGlobalID,
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{"max_length": fmt.Sprintf("%d", globalIDMaxLength)},
			},
			{
				Name:       fieldVector,
				DataType:   entity.FieldTypeFloatVector,
				TypeParams: map[string]string{"dim": fmt.Sprintf("%d", m.config.Dimension)},
			},
			{
				Name:     fieldChunkOrder,
				DataType: entity.FieldTypeInt64,
			},
		},
	}
}

func (m *CollectionManager) vectorIndex() (entity.Index, error) {
	if m.config.IndexType == "IVF_FLAT" {
		return entity.NewIndexIvfFlat(entity.COSINE, m.config.IVFNList)
	}
	return entity.NewIndexHNSW(entity.COSINE, m.config.HNSWM, m.config.HNSWEfConstruction)
}

// HasCollection reports whether the collection exists.
func (m *CollectionManager) HasCollection(ctx context.Context, name string) (bool, error) {
	has, err := m.client.GetMilvusClient().HasCollection(ctx, name)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternal, "failed to check collection existence")
	}
	return has, nil
}

// EnsureCollection creates the collection with its vector index if missing,
// then loads it.  Safe to call repeatedly.
func (m *CollectionManager) EnsureCollection(ctx context.Context, name string) error {
	has, err := m.HasCollection(ctx, name)
	if err != nil {
		return err
	}

	mc := m.client.GetMilvusClient()
	if !has {
		if err := mc.CreateCollection(ctx, m.chunkVectorSchema(name), m.config.ShardsNum); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal,
				fmt.Sprintf("failed to create collection %s", name))
		}
		idx, err := m.vectorIndex()
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to build index definition")
		}
		if err := mc.CreateIndex(ctx, name, fieldVector, idx, false); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal,
				fmt.Sprintf("failed to create vector index on %s", name))
		}
		m.logger.Info("collection created",
			logging.String("collection", name),
			logging.String("index_type", m.config.IndexType),
			logging.Int("dimension", m.config.Dimension))
	}

	loadCtx, cancel := context.WithTimeout(ctx, m.config.LoadTimeout)
	defer cancel()
	if err := mc.LoadCollection(loadCtx, name, false); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal,
			fmt.Sprintf("failed to load collection %s", name))
	}
	return nil
}

// DropCollection removes the collection.  Missing collections return
// ErrCollectionNotFound.
func (m *CollectionManager) DropCollection(ctx context.Context, name string) error {
	has, err := m.HasCollection(ctx, name)
	if err != nil {
		return err
	}
	if !has {
		return ErrCollectionNotFound
	}
	if err := m.client.GetMilvusClient().DropCollection(ctx, name); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal,
			fmt.Sprintf("failed to drop collection %s", name))
	}
	m.logger.Warn("collection dropped", logging.String("collection", name))
	return nil
}

//Personal.AI order the ending
