package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against a stub server and captures output.
func runCLI(t *testing.T, serverURL, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	root := NewRootCommand()
	var out, errBuf bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errBuf)
	if stdin != "" {
		root.SetIn(strings.NewReader(stdin))
	}

	full := append([]string{"--server", serverURL, "--no-color"}, args...)
	root.SetArgs(full)

	err = root.Execute()
	return out.String(), errBuf.String(), err
}

// newStubServer answers each registered path with its fixed JSON payload.
func newStubServer(t *testing.T, routes map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRootCommand_RejectsInvalidServerURL(t *testing.T) {
	_, _, err := runCLI(t, "not a url://", "", "status")
	assert.Error(t, err)
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	srv := newStubServer(t, nil)
	_, _, err := runCLI(t, srv.URL, "", "frobnicate")
	assert.Error(t, err)
}

func TestGetCLIContext_MissingContext(t *testing.T) {
	root := NewRootCommand()
	_, err := GetCLIContext(root)
	require.Error(t, err)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "1234567...", truncateString("1234567890123", 10))
	// Korean titles truncate on rune boundaries, not bytes.
	assert.Equal(t, "제1조(목...", truncateString("제1조(목적)과 더 긴 제목", 8))
}

func TestFormatSubItems(t *testing.T) {
	assert.Equal(t, "-", formatSubItems(nil, 0))
	assert.Equal(t, "-/7", formatSubItems(nil, 7))
	assert.Equal(t, "cla:002,cla:004/7", formatSubItems([]string{"cla:002", "cla:004"}, 7))
	// Clause and clause-less sub-clause families stay distinguishable.
	assert.Equal(t, "cla:002,sub:002/7", formatSubItems([]string{"cla:002", "sub:002"}, 7))
}

//Personal.AI order the ending
