package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeAPI spins up a stub server answering one path with a fixed payload
// and records the decoded request body.
func newFakeAPI(t *testing.T, path string, status int, payload interface{}, gotBody *map[string]interface{}) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		if gotBody != nil && r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(gotBody)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, WithRetryMax(0))
	require.NoError(t, err)
	return c
}

func TestSearch_RoundTrip(t *testing.T) {
	var gotBody map[string]interface{}
	c := newFakeAPI(t, "/api/v1/search", http.StatusOK, SearchResponse{
		ContractType: "provide",
		Granularity:  "clause",
		DenseWeight:  0.7,
		Count:        1,
		Results: []*SearchResult{
			{GlobalID: "urn:std:provide:art:001:cla:002", CombinedScore: 0.83},
		},
	}, &gotBody)

	weight := 0.6
	resp, err := c.Search(context.Background(), &SearchRequest{
		ContractType: "provide",
		Query:        "대금 지급",
		TopK:         5,
		DenseWeight:  &weight,
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "urn:std:provide:art:001:cla:002", resp.Results[0].GlobalID)
	assert.Equal(t, "provide", gotBody["contract_type"])
	assert.Equal(t, 0.6, gotBody["dense_weight"])
}

func TestSearch_ZeroDenseWeightIsSent(t *testing.T) {
	var gotBody map[string]interface{}
	c := newFakeAPI(t, "/api/v1/search", http.StatusOK, SearchResponse{}, &gotBody)

	weight := 0.0
	_, err := c.Search(context.Background(), &SearchRequest{
		ContractType: "provide",
		Query:        "q",
		DenseWeight:  &weight,
	})
	require.NoError(t, err)

	v, ok := gotBody["dense_weight"]
	require.True(t, ok, "dense_weight must be present for pure lexical ranking")
	assert.Equal(t, 0.0, v)
}

func TestSearch_ValidatesInput(t *testing.T) {
	c, err := NewClient("http://localhost:1")
	require.NoError(t, err)

	_, err = c.Search(context.Background(), nil)
	assert.Error(t, err)
	_, err = c.Search(context.Background(), &SearchRequest{Query: "q"})
	assert.Error(t, err)
	_, err = c.Search(context.Background(), &SearchRequest{ContractType: "provide"})
	assert.Error(t, err)
}

func TestMatch_RoundTrip(t *testing.T) {
	var gotBody map[string]interface{}
	c := newFakeAPI(t, "/api/v1/match", http.StatusOK, MatchResponse{
		ContractType: "provide",
		Mode:         "clause",
		Report: &Report{
			Matched: true,
			MatchedArticles: []*ArticleMatch{
				{ParentID: "urn:std:provide:art:012", CombinedScore: 0.84, DeepCompare: true},
			},
		},
	}, &gotBody)

	resp, err := c.Match(context.Background(), &MatchRequest{
		ContractType: "provide",
		ArticleText:  "을은 갑에게 매월 대금을 지급한다.",
	})
	require.NoError(t, err)

	assert.True(t, resp.Report.Matched)
	require.Len(t, resp.Report.MatchedArticles, 1)
	assert.Equal(t, "urn:std:provide:art:012", resp.Report.MatchedArticles[0].ParentID)
	assert.Equal(t, "을은 갑에게 매월 대금을 지급한다.", gotBody["article_text"])
}

func TestIngest_RoundTrip(t *testing.T) {
	var gotBody map[string]interface{}
	c := newFakeAPI(t, "/api/v1/ingest", http.StatusOK, IngestResponse{
		RunID:         "run-1",
		ContractType:  "provide",
		ArticleChunks: 3,
		ClauseChunks:  5,
	}, &gotBody)

	resp, err := c.Ingest(context.Background(), &IngestRequest{
		ContractType:   "provide",
		Units:          json.RawMessage(`[{"text":"제1조(목적)","bold":true}]`),
		SourceFilename: "standard.docx",
	})
	require.NoError(t, err)

	assert.Equal(t, "run-1", resp.RunID)
	assert.Equal(t, 3, resp.ArticleChunks)

	units, ok := gotBody["units"].([]interface{})
	require.True(t, ok, "units must pass through as a JSON array")
	require.Len(t, units, 1)
}

func TestIngest_RequiresUnits(t *testing.T) {
	c, err := NewClient("http://localhost:1")
	require.NoError(t, err)

	_, err = c.Ingest(context.Background(), &IngestRequest{ContractType: "provide"})
	assert.Error(t, err)
}

func TestContractTypes(t *testing.T) {
	c := newFakeAPI(t, "/api/v1/contract-types", http.StatusOK,
		map[string][]string{"contract_types": {"agency", "provide"}}, nil)

	types, err := c.ContractTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"agency", "provide"}, types)
}

func TestGetChunk_EncodesQueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Chunk{GlobalID: "urn:std:provide:art:001", Title: "제1조(목적)"})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	chunk, err := c.GetChunk(context.Background(), "provide", "urn:std:provide:art:001")
	require.NoError(t, err)

	assert.Equal(t, "제1조(목적)", chunk.Title)
	assert.Contains(t, gotQuery, "contract_type=provide")
	assert.Contains(t, gotQuery, "global_id=urn%3Astd%3Aprovide%3Aart%3A001")
}

func TestReady_PropagatesFailure(t *testing.T) {
	c := newFakeAPI(t, "/readyz", http.StatusServiceUnavailable,
		map[string]string{"status": "not_ready"}, nil)

	err := c.Ready(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsServerError())
}

//Personal.AI order the ending
