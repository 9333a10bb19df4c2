package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ClauseMatch/pkg/client"
)

func TestCorpusTypesCmd(t *testing.T) {
	srv := newStubServer(t, map[string]interface{}{
		"/api/v1/contract-types": map[string][]string{
			"contract_types": {"agency", "provide"},
		},
	})

	stdout, _, err := runCLI(t, srv.URL, "", "corpus", "types")
	require.NoError(t, err)
	assert.Contains(t, stdout, "agency")
	assert.Contains(t, stdout, "provide")
}

func TestCorpusTypesCmd_Empty(t *testing.T) {
	srv := newStubServer(t, map[string]interface{}{
		"/api/v1/contract-types": map[string][]string{"contract_types": {}},
	})

	stdout, _, err := runCLI(t, srv.URL, "", "corpus", "types")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No corpora ingested yet.")
}

func TestCorpusGetCmd(t *testing.T) {
	srv := newStubServer(t, map[string]interface{}{
		"/api/v1/chunks": client.Chunk{
			GlobalID:   "urn:std:provide:art:012",
			ParentID:   "urn:std:provide:art:012",
			Title:      "제12조(하도급대금의 지급)",
			TextNorm:   "제12조(하도급대금의 지급) ① 갑은 을에게 ...",
			OrderIndex: 11,
			References: []string{"urn:std:provide:ex:001"},
		},
	})

	stdout, _, err := runCLI(t, srv.URL, "",
		"corpus", "get", "urn:std:provide:art:012", "--type", "provide")
	require.NoError(t, err)

	assert.Contains(t, stdout, "urn:std:provide:art:012")
	assert.Contains(t, stdout, "제12조(하도급대금의 지급)")
	assert.Contains(t, stdout, "① 갑은 을에게")
}

func TestCorpusGetCmd_RequiresType(t *testing.T) {
	srv := newStubServer(t, nil)
	_, _, err := runCLI(t, srv.URL, "", "corpus", "get", "urn:std:provide:art:012")
	assert.Error(t, err)
}

func TestCorpusGetCmd_NotFound(t *testing.T) {
	srv := newStubServer(t, nil)
	_, _, err := runCLI(t, srv.URL, "",
		"corpus", "get", "urn:std:provide:art:099", "--type", "provide")
	assert.Error(t, err)
}

//Personal.AI order the ending
