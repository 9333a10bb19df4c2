package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmd_Ready(t *testing.T) {
	srv := newStubServer(t, map[string]interface{}{
		"/readyz": map[string]string{"status": "ready"},
	})

	stdout, _, err := runCLI(t, srv.URL, "", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "READY")
}

func TestStatusCmd_NotReady(t *testing.T) {
	srv := newStubServer(t, nil)

	stdout, _, err := runCLI(t, srv.URL, "", "status")
	require.Error(t, err)
	assert.Contains(t, stdout, "NOT READY")
}

//Personal.AI order the ending
