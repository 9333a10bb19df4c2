package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

var (
	ErrIndexNotFound       = errors.New(errors.ErrCodeNotFound, "index not found")
	ErrIndexCreationFailed = errors.New(errors.ErrCodeIndexBuildFailed, "index creation failed")
)

// IndexMapping is the settings+mappings body sent on index creation.
type IndexMapping struct {
	Settings map[string]interface{} `json:"settings,omitempty"`
	Mappings map[string]interface{} `json:"mappings,omitempty"`
}

// BulkItemError describes one failed document in a bulk request.
type BulkItemError struct {
	DocID     string `json:"doc_id"`
	ErrorType string `json:"error_type"`
	Reason    string `json:"reason"`
}

// BulkResult summarizes a bulk indexing run.
type BulkResult struct {
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Errors    []BulkItemError `json:"errors,omitempty"`
}

// IndexerConfig holds the indexer tunables.
type IndexerConfig struct {
	Prefix        string
	BulkBatchSize int
	RefreshPolicy string
	Shards        int
	Replicas      int
}

// AliasName is the stable read alias queried at search time, e.g.
// "provide_std_contract_chunks".  Physical indices sit behind it.
func AliasName(prefix, contractType string) string {
	return fmt.Sprintf("%s_%s_chunks", contractType, prefix)
}

// physicalIndexName stamps a new physical index with the build time so
// successive rebuilds never collide.
func physicalIndexName(alias string, now time.Time) string {
	return fmt.Sprintf("%s_v%d", alias, now.Unix())
}

// Indexer builds the per-contract-type lexical chunk indices and swaps the
// read alias atomically, so searches never observe a half-built index.
type Indexer struct {
	client *Client
	config IndexerConfig
	logger logging.Logger
	now    func() time.Time
}

// NewIndexer creates an Indexer.
func NewIndexer(client *Client, cfg IndexerConfig, logger logging.Logger) *Indexer {
	if cfg.Prefix == "" {
		cfg.Prefix = "std_contract"
	}
	if cfg.BulkBatchSize == 0 {
		cfg.BulkBatchSize = 500
	}
	if cfg.RefreshPolicy == "" {
		cfg.RefreshPolicy = "false"
	}
	if cfg.Shards == 0 {
		cfg.Shards = 1
	}
	if cfg.Replicas == 0 {
		cfg.Replicas = 1
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Indexer{client: client, config: cfg, logger: logger.Named("opensearch_indexer"), now: time.Now}
}

// ChunkIndexMapping is the lexical mapping for contract chunks: Korean text
// analyzed with nori, identifiers kept as keywords.
func (i *Indexer) ChunkIndexMapping() IndexMapping {
	koreanText := map[string]interface{}{
		"type":            "text",
		"analyzer":        "korean",
		"search_analyzer": "korean",
	}
	return IndexMapping{
		Settings: map[string]interface{}{
			"number_of_shards":   i.config.Shards,
			"number_of_replicas": i.config.Replicas,
			"analysis": map[string]interface{}{
				"analyzer": map[string]interface{}{
					"korean": map[string]interface{}{
						"type":      "custom",
						"tokenizer": "nori_tokenizer",
						"filter":    []string{"nori_readingform", "lowercase"},
					},
				},
			},
		},
		Mappings: map[string]interface{}{
			"properties": map[string]interface{}{
				"global_id":   map[string]interface{}{"type": "keyword"},
				"parent_id":   map[string]interface{}{"type": "keyword"},
				"title":       koreanText,
				"text_norm":   koreanText,
				"order_index": map[string]interface{}{"type": "integer"},
			},
		},
	}
}

// chunkDocument is the indexed shape of one chunk.
type chunkDocument struct {
	GlobalID   string `json:"global_id"`
	ParentID   string `json:"parent_id"`
	Title      string `json:"title"`
	TextNorm   string `json:"text_norm"`
	OrderIndex int    `json:"order_index"`
}

// RebuildIndex indexes the full chunk corpus of one contract type into a
// fresh physical index, then atomically repoints the read alias and removes
// the superseded physical indices.
func (i *Indexer) RebuildIndex(ctx context.Context, contractType string, chunks []*chunk.Chunk) (*BulkResult, error) {
	alias := AliasName(i.config.Prefix, contractType)
	physical := physicalIndexName(alias, i.now())

	if err := i.createIndex(ctx, physical, i.ChunkIndexMapping()); err != nil {
		return nil, err
	}

	docs := make(map[string]interface{}, len(chunks))
	for _, c := range chunks {
		docs[c.GlobalID] = chunkDocument{
			GlobalID:   c.GlobalID,
			ParentID:   c.ParentID,
			Title:      c.Title,
			TextNorm:   c.TextNorm,
			OrderIndex: c.OrderIndex,
		}
	}

	result, err := i.bulkIndex(ctx, physical, docs)
	if err != nil {
		return result, err
	}

	if err := i.refresh(ctx, physical); err != nil {
		return result, err
	}
	if err := i.swapAlias(ctx, alias, physical); err != nil {
		return result, err
	}

	i.logger.Info("lexical index rebuilt",
		logging.String("alias", alias),
		logging.String("physical", physical),
		logging.Int("indexed", result.Succeeded),
		logging.Int("failed", result.Failed))
	return result, nil
}

// AliasExists reports whether the read alias has ever been built.
func (i *Indexer) AliasExists(ctx context.Context, contractType string) (bool, error) {
	alias := AliasName(i.config.Prefix, contractType)
	req := opensearchapi.IndicesExistsAliasRequest{Name: []string{alias}}

	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternal, "failed to check alias existence")
	}
	defer resp.Body.Close()

	return resp.StatusCode == 200, nil
}

func (i *Indexer) createIndex(ctx context.Context, indexName string, mapping IndexMapping) error {
	body, err := json.Marshal(mapping)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal index mapping")
	}

	req := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create index request")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return i.handleErrorResponse(resp, ErrIndexCreationFailed)
	}

	i.logger.Info("index created", logging.String("index", indexName))
	return nil
}

// DeleteIndex deletes one physical index.
func (i *Indexer) DeleteIndex(ctx context.Context, indexName string) error {
	req := opensearchapi.IndicesDeleteRequest{Index: []string{indexName}}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete index request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return ErrIndexNotFound
	}
	if resp.IsError() {
		return i.handleErrorResponse(resp, errors.New(errors.ErrCodeIndexDeleteFailed, "delete index failed"))
	}

	i.logger.Warn("index deleted", logging.String("index", indexName))
	return nil
}

// swapAlias repoints the alias at the new physical index in one atomic
// aliases action, then drops the indices it used to cover.
func (i *Indexer) swapAlias(ctx context.Context, alias, newIndex string) error {
	old, err := i.aliasIndices(ctx, alias)
	if err != nil {
		return err
	}

	actions := []map[string]interface{}{
		{"add": map[string]interface{}{"index": newIndex, "alias": alias}},
	}
	for _, idx := range old {
		actions = append(actions, map[string]interface{}{
			"remove": map[string]interface{}{"index": idx, "alias": alias},
		})
	}

	body, err := json.Marshal(map[string]interface{}{"actions": actions})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal alias actions")
	}

	req := opensearchapi.IndicesUpdateAliasesRequest{Body: bytes.NewReader(body)}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeIndexSwapFailed, "alias swap request failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return i.handleErrorResponse(resp, errors.New(errors.ErrCodeIndexSwapFailed, "alias swap failed"))
	}

	for _, idx := range old {
		if err := i.DeleteIndex(ctx, idx); err != nil && !errors.IsCode(err, errors.ErrCodeNotFound) {
			// Leaving an orphaned physical index behind is recoverable;
			// failing the rebuild here is not.
			i.logger.Warn("failed to delete superseded index",
				logging.String("index", idx), logging.Err(err))
		}
	}
	return nil
}

// aliasIndices lists the physical indices currently behind the alias.
func (i *Indexer) aliasIndices(ctx context.Context, alias string) ([]string, error) {
	req := opensearchapi.IndicesGetAliasRequest{Name: []string{alias}}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to resolve alias")
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return nil, nil
	}
	if resp.IsError() {
		return nil, i.handleErrorResponse(resp, errors.New(errors.ErrCodeInternal, "resolve alias failed"))
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode alias response")
	}
	indices := make([]string, 0, len(payload))
	for idx := range payload {
		indices = append(indices, idx)
	}
	return indices, nil
}

func (i *Indexer) refresh(ctx context.Context, indexName string) error {
	req := opensearchapi.IndicesRefreshRequest{Index: []string{indexName}}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to refresh index")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return i.handleErrorResponse(resp, errors.New(errors.ErrCodeInternal, "refresh failed"))
	}
	return nil
}

// bulkIndex streams the documents in NDJSON batches.  Individual document
// failures are collected rather than aborting the run.
func (i *Indexer) bulkIndex(ctx context.Context, indexName string, documents map[string]interface{}) (*BulkResult, error) {
	result := &BulkResult{}
	if len(documents) == 0 {
		return result, nil
	}

	docIDs := make([]string, 0, len(documents))
	for id := range documents {
		docIDs = append(docIDs, id)
	}

	batchSize := i.config.BulkBatchSize
	for start := 0; start < len(docIDs); start += batchSize {
		end := start + batchSize
		if end > len(docIDs) {
			end = len(docIDs)
		}

		var buf bytes.Buffer
		batchIDs := docIDs[start:end]
		for _, id := range batchIDs {
			docBytes, err := json.Marshal(documents[id])
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, BulkItemError{
					DocID:     id,
					ErrorType: "serialization_error",
					Reason:    err.Error(),
				})
				continue
			}
			buf.WriteString(fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, indexName, id))
			buf.WriteByte('\n')
			buf.Write(docBytes)
			buf.WriteByte('\n')
		}
		if buf.Len() == 0 {
			continue
		}

		req := opensearchapi.BulkRequest{
			Body:    bytes.NewReader(buf.Bytes()),
			Refresh: i.config.RefreshPolicy,
		}
		resp, err := req.Do(ctx, i.client.GetClient())
		if err != nil {
			return result, errors.Wrap(err, errors.ErrCodeIndexBuildFailed, "bulk request failed")
		}

		batchResult, err := decodeBulkResponse(resp.Body, len(batchIDs), resp.IsError())
		resp.Body.Close()
		if err != nil {
			return result, err
		}
		result.Succeeded += batchResult.Succeeded
		result.Failed += batchResult.Failed
		result.Errors = append(result.Errors, batchResult.Errors...)
	}

	return result, nil
}

func decodeBulkResponse(body io.Reader, batchSize int, httpError bool) (*BulkResult, error) {
	result := &BulkResult{}
	if httpError {
		raw, _ := io.ReadAll(body)
		result.Failed = batchSize
		result.Errors = append(result.Errors, BulkItemError{
			DocID:     "batch",
			ErrorType: "http_error",
			Reason:    strings.TrimSpace(string(raw)),
		})
		return result, nil
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error,omitempty"`
		} `json:"items"`
	}
	if err := json.NewDecoder(body).Decode(&bulkResp); err != nil {
		return result, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode bulk response")
	}

	for _, item := range bulkResp.Items {
		for _, info := range item {
			if info.Status >= 200 && info.Status < 300 {
				result.Succeeded++
			} else {
				result.Failed++
				result.Errors = append(result.Errors, BulkItemError{
					DocID:     info.ID,
					ErrorType: info.Error.Type,
					Reason:    info.Error.Reason,
				})
			}
			break
		}
	}
	return result, nil
}

func (i *Indexer) handleErrorResponse(resp *opensearchapi.Response, defaultErr error) error {
	var errResp struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	bodyBytes, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(bodyBytes, &errResp); err == nil && errResp.Error.Reason != "" {
		return errors.Wrapf(defaultErr, errors.ErrCodeInternal, "OpenSearch error: %s - %s", errResp.Error.Type, errResp.Error.Reason)
	}
	return errors.Wrapf(defaultErr, errors.ErrCodeInternal, "OpenSearch error status: %d", resp.StatusCode)
}

//Personal.AI order the ending
