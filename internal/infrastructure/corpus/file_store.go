// Package corpus persists parsed chunk corpora.  The file store is the
// source of truth (one JSON document per contract type and granularity);
// the cached repository layers Redis on top for the hot search path.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// corpusFile is the on-disk document shape.
type corpusFile struct {
	ContractType string         `json:"contract_type"`
	Granularity  string         `json:"granularity"`
	GeneratedAt  time.Time      `json:"generated_at"`
	Chunks       []*chunk.Chunk `json:"chunks"`
}

// FileStore keeps each corpus as <dir>/<contract_type>/<granularity>.json.
// Writes go through a temp file and rename, so readers never observe a
// partially written corpus.
type FileStore struct {
	dir string
	log logging.Logger
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string, log logging.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeValidation, "corpus directory is required")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal,
			fmt.Sprintf("failed to create corpus directory %s", dir))
	}
	return &FileStore{dir: dir, log: log.Named("corpus_store")}, nil
}

func (s *FileStore) corpusPath(contractType string, granularity chunk.Granularity) string {
	return filepath.Join(s.dir, contractType, string(granularity)+".json")
}

// SaveCorpus replaces the corpus for one (contract type, granularity).
func (s *FileStore) SaveCorpus(ctx context.Context, contractType string, granularity chunk.Granularity, chunks []*chunk.Chunk) error {
	if contractType == "" {
		return errors.New(errors.ErrCodeContractTypeInvalid, "contract type is required")
	}
	if !granularity.IsValid() {
		return errors.New(errors.ErrCodeValidation, fmt.Sprintf("invalid granularity %q", granularity))
	}

	doc := corpusFile{
		ContractType: contractType,
		Granularity:  string(granularity),
		GeneratedAt:  time.Now().UTC(),
		Chunks:       chunks,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal corpus")
	}

	path := s.corpusPath(contractType, granularity)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create contract type directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+string(granularity)+"-*.json")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create temp corpus file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write corpus file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to close corpus file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to replace corpus file")
	}

	s.log.Info("corpus saved",
		logging.String("contract_type", contractType),
		logging.String("granularity", string(granularity)),
		logging.Int("chunks", len(chunks)))
	return nil
}

// LoadCorpus returns the corpus sorted by OrderIndex.
func (s *FileStore) LoadCorpus(ctx context.Context, contractType string, granularity chunk.Granularity) ([]*chunk.Chunk, error) {
	data, err := os.ReadFile(s.corpusPath(contractType, granularity))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeCorpusNotFound,
			fmt.Sprintf("no %s corpus for contract type %q", granularity, contractType))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCorpusLoadFailed, "failed to read corpus file")
	}

	var doc corpusFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCorpusLoadFailed, "failed to decode corpus file")
	}

	sort.SliceStable(doc.Chunks, func(i, j int) bool {
		return doc.Chunks[i].OrderIndex < doc.Chunks[j].OrderIndex
	})
	return doc.Chunks, nil
}

// GetByGlobalID resolves one chunk across both granularities.  Article
// granularity is checked first since exhibits and referenced articles live
// there.
func (s *FileStore) GetByGlobalID(ctx context.Context, contractType string, globalID string) (*chunk.Chunk, error) {
	for _, g := range []chunk.Granularity{chunk.GranularityArticle, chunk.GranularityClause} {
		chunks, err := s.LoadCorpus(ctx, contractType, g)
		if err != nil {
			if errors.IsCode(err, errors.ErrCodeCorpusNotFound) {
				continue
			}
			return nil, err
		}
		for _, c := range chunks {
			if c.GlobalID == globalID {
				return c, nil
			}
		}
	}
	return nil, errors.New(errors.ErrCodeChunkNotFound,
		fmt.Sprintf("chunk %s not found for contract type %q", globalID, contractType))
}

// ListContractTypes returns every contract type with at least one corpus.
func (s *FileStore) ListContractTypes(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list corpus directory")
	}
	var types []string
	for _, e := range entries {
		if e.IsDir() {
			types = append(types, e.Name())
		}
	}
	sort.Strings(types)
	return types, nil
}

var _ chunk.Repository = (*FileStore)(nil)

//Personal.AI order the ending
