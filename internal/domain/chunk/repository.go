package chunk

import "context"

// Repository is the contract-type-keyed chunk corpus store.  A corpus is
// written once per ingestion run and assumed immutable during a search
// session.
type Repository interface {
	// SaveCorpus replaces the corpus for one (contract type, granularity).
	SaveCorpus(ctx context.Context, contractType string, granularity Granularity, chunks []*Chunk) error

	// LoadCorpus returns the corpus in OrderIndex order.  Returns
	// ErrCodeCorpusNotFound when no corpus has been ingested.
	LoadCorpus(ctx context.Context, contractType string, granularity Granularity) ([]*Chunk, error)

	// GetByGlobalID resolves one chunk by its global id across both
	// granularities.  Returns ErrCodeChunkNotFound when absent.
	GetByGlobalID(ctx context.Context, contractType string, globalID string) (*Chunk, error)

	// ListContractTypes returns every contract type with at least one corpus.
	ListContractTypes(ctx context.Context) ([]string, error)
}

//Personal.AI order the ending
