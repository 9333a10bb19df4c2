//go:build integration

// Integration coverage for the lexical index against a real OpenSearch
// node started via testcontainers.  Run with:
//
//	go test -tags integration ./test/integration/...
//
// The test is skipped when Docker is unavailable.
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/ClauseMatch/internal/domain/chunk"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/search/opensearch"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

const opensearchImage = "opensearchproject/opensearch:2.11.1"

// startOpenSearch boots a single-node OpenSearch container with security
// disabled and returns its HTTP endpoint.
func startOpenSearch(t *testing.T) string {
	t.Helper()

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        opensearchImage,
		ExposedPorts: []string{"9200/tcp"},
		Env: map[string]string{
			"discovery.type":            "single-node",
			"plugins.security.disabled": "true",
			"OPENSEARCH_JAVA_OPTS":      "-Xms512m -Xmx512m",
		},
		WaitingFor: wait.ForHTTP("/_cluster/health").
			WithPort("9200/tcp").
			WithStartupTimeout(3 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("docker unavailable, skipping: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.Endpoint(ctx, "http")
	require.NoError(t, err)
	return endpoint
}

func newLexicalStack(t *testing.T, endpoint string) (*opensearch.Indexer, *opensearch.Searcher) {
	t.Helper()

	client, err := opensearch.NewClient(opensearch.ClientConfig{
		Addresses: []string{endpoint},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	indexer := opensearch.NewIndexer(client, opensearch.IndexerConfig{
		Prefix:        "it",
		BulkBatchSize: 100,
		RefreshPolicy: "wait_for",
	}, nil)
	searcher := opensearch.NewSearcher(client, indexer, opensearch.SearcherConfig{
		Prefix: "it",
	}, nil)
	return indexer, searcher
}

func paymentChunks() []*chunk.Chunk {
	return []*chunk.Chunk{
		{
			ID:         "art12",
			GlobalID:   "urn:std:provide:art:012",
			ParentID:   "urn:std:provide:art:012",
			Title:      "제12조(하도급대금의 지급)",
			TextNorm:   "제12조(하도급대금의 지급) ① 갑은 을에게 하도급대금을 목적물 수령일부터 60일 이내에 지급한다.",
			OrderIndex: 0,
		},
		{
			ID:         "art22",
			GlobalID:   "urn:std:provide:art:022",
			ParentID:   "urn:std:provide:art:022",
			Title:      "제22조(계약의 해제)",
			TextNorm:   "제22조(계약의 해제) ① 갑 또는 을은 상대방이 계약을 위반한 경우 계약을 해제할 수 있다.",
			OrderIndex: 1,
		},
	}
}

func TestLexicalIndex_RebuildAndSearch(t *testing.T) {
	endpoint := startOpenSearch(t)
	indexer, searcher := newLexicalStack(t, endpoint)
	ctx := context.Background()

	result, err := indexer.RebuildIndex(ctx, "provide", paymentChunks())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)

	hits, err := searcher.Search(ctx, "provide", "하도급대금 지급", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "urn:std:provide:art:012", hits[0].GlobalID)
	assert.Greater(t, hits[0].Score, 0.0)
}

func TestLexicalIndex_AliasSwapReplacesGeneration(t *testing.T) {
	endpoint := startOpenSearch(t)
	indexer, searcher := newLexicalStack(t, endpoint)
	ctx := context.Background()

	_, err := indexer.RebuildIndex(ctx, "provide", paymentChunks())
	require.NoError(t, err)

	// Second generation drops the termination article; the alias must serve
	// only the new corpus after the swap.
	replacement := paymentChunks()[:1]
	_, err = indexer.RebuildIndex(ctx, "provide", replacement)
	require.NoError(t, err)

	hits, err := searcher.Search(ctx, "provide", "계약의 해제", 10)
	require.NoError(t, err)
	for _, h := range hits {
		assert.NotEqual(t, "urn:std:provide:art:022", h.GlobalID,
			"previous index generation must not serve results after the swap")
	}
}

func TestLexicalIndex_SearchBeforeBuildReportsNotReady(t *testing.T) {
	endpoint := startOpenSearch(t)
	_, searcher := newLexicalStack(t, endpoint)

	_, err := searcher.Search(context.Background(), "agency", "지급", 10)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIndexNotReady))
}

func TestLexicalIndex_ContractTypesAreIsolated(t *testing.T) {
	endpoint := startOpenSearch(t)
	indexer, searcher := newLexicalStack(t, endpoint)
	ctx := context.Background()

	_, err := indexer.RebuildIndex(ctx, "provide", paymentChunks())
	require.NoError(t, err)

	agency := []*chunk.Chunk{{
		ID:         "a1",
		GlobalID:   "urn:std:agency:art:001",
		ParentID:   "urn:std:agency:art:001",
		Title:      "제1조(목적)",
		TextNorm:   "제1조(목적) 이 계약은 대리점 거래의 기본 사항을 정한다.",
		OrderIndex: 0,
	}}
	_, err = indexer.RebuildIndex(ctx, "agency", agency)
	require.NoError(t, err)

	hits, err := searcher.Search(ctx, "agency", "대리점 거래", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	for _, h := range hits {
		assert.Contains(t, h.GlobalID, ":agency:")
	}
}

//Personal.AI order the ending
