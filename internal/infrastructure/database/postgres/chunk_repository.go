package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

const chunkColumns = `global_id, local_id, parent_id, title, text_norm, text_raw,
	order_index, refs, commentary_summary`

// ChunkRepository is the PostgreSQL-backed chunk corpus store.  A corpus
// replacement is a single transaction, so concurrent readers see either the
// old corpus or the new one, never a mix.
type ChunkRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewChunkRepository builds a repository over an established pool.
func NewChunkRepository(pool *pgxpool.Pool, log logging.Logger) *ChunkRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ChunkRepository{pool: pool, log: log.Named("chunk_repo")}
}

// SaveCorpus replaces the corpus for one (contract type, granularity).
func (r *ChunkRepository) SaveCorpus(ctx context.Context, contractType string, granularity chunk.Granularity, chunks []*chunk.Chunk) error {
	if contractType == "" {
		return errors.New(errors.ErrCodeContractTypeInvalid, "contract type is required")
	}
	if !granularity.IsValid() {
		return errors.New(errors.ErrCodeValidation, fmt.Sprintf("invalid granularity %q", granularity))
	}
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	err := WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO corpora (contract_type, granularity, generated_at, chunk_count)
			VALUES ($1, $2, now(), $3)
			ON CONFLICT (contract_type, granularity)
			DO UPDATE SET generated_at = now(), chunk_count = EXCLUDED.chunk_count`,
			contractType, string(granularity), len(chunks))
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert corpus record")
		}

		_, err = tx.Exec(ctx,
			`DELETE FROM chunks WHERE contract_type = $1 AND granularity = $2`,
			contractType, string(granularity))
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to clear previous corpus")
		}

		if len(chunks) == 0 {
			return nil
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"chunks"},
			[]string{"contract_type", "granularity", "global_id", "local_id", "parent_id",
				"title", "text_norm", "text_raw", "order_index", "refs", "commentary_summary"},
			pgx.CopyFromSlice(len(chunks), func(i int) ([]any, error) {
				c := chunks[i]
				refs := c.References
				if refs == nil {
					refs = []string{}
				}
				return []any{contractType, string(granularity), c.GlobalID, c.ID, c.ParentID,
					c.Title, c.TextNorm, c.TextRaw, c.OrderIndex, refs, c.CommentarySummary}, nil
			}))
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert corpus chunks")
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info("corpus saved",
		logging.String("contract_type", contractType),
		logging.String("granularity", string(granularity)),
		logging.Int("chunks", len(chunks)))
	return nil
}

// LoadCorpus returns the corpus in OrderIndex order.
func (r *ChunkRepository) LoadCorpus(ctx context.Context, contractType string, granularity chunk.Granularity) ([]*chunk.Chunk, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT chunk_count FROM corpora WHERE contract_type = $1 AND granularity = $2`,
		contractType, string(granularity)).Scan(&count)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeCorpusNotFound,
			fmt.Sprintf("no %s corpus for contract type %q", granularity, contractType))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCorpusLoadFailed, "failed to query corpus record")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+chunkColumns+`
		FROM chunks
		WHERE contract_type = $1 AND granularity = $2
		ORDER BY order_index`,
		contractType, string(granularity))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCorpusLoadFailed, "failed to query corpus chunks")
	}
	defer rows.Close()

	chunks := make([]*chunk.Chunk, 0, count)
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCorpusLoadFailed, "failed to read corpus chunks")
	}
	return chunks, nil
}

// GetByGlobalID resolves one chunk across both granularities.  Article
// granularity wins when the id exists in both, since exhibits and referenced
// articles live there.
func (r *ChunkRepository) GetByGlobalID(ctx context.Context, contractType string, globalID string) (*chunk.Chunk, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+chunkColumns+`
		FROM chunks
		WHERE contract_type = $1 AND global_id = $2
		ORDER BY CASE granularity WHEN 'article' THEN 0 ELSE 1 END
		LIMIT 1`,
		contractType, globalID)

	c, err := scanChunk(row)
	if errors.IsCode(err, errors.ErrCodeChunkNotFound) {
		return nil, errors.New(errors.ErrCodeChunkNotFound,
			fmt.Sprintf("chunk %s not found for contract type %q", globalID, contractType))
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListContractTypes returns every contract type with at least one corpus.
func (r *ChunkRepository) ListContractTypes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT contract_type FROM corpora ORDER BY contract_type`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list contract types")
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan contract type")
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read contract types")
	}
	return types, nil
}

func scanChunk(row pgx.Row) (*chunk.Chunk, error) {
	var c chunk.Chunk
	err := row.Scan(&c.GlobalID, &c.ID, &c.ParentID, &c.Title, &c.TextNorm, &c.TextRaw,
		&c.OrderIndex, &c.References, &c.CommentarySummary)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeChunkNotFound, "chunk not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan chunk row")
	}
	if len(c.References) == 0 {
		c.References = nil
	}
	return &c, nil
}

var _ chunk.Repository = (*ChunkRepository)(nil)

//Personal.AI order the ending
