package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			"Generic NotFound",
			errors.NotFound("not found"),
			true,
		},
		{
			"Chunk NotFound",
			errors.New(errors.CodeChunkNotFound, "chunk not found"),
			true,
		},
		{
			"Corpus NotFound",
			errors.New(errors.CodeCorpusNotFound, "corpus not found"),
			true,
		},
		{
			"Index not ready is not a NotFound",
			errors.New(errors.CodeIndexNotReady, "index not ready"),
			false,
		},
		{
			"Internal Error",
			errors.Internal("internal error"),
			false,
		},
		{
			"Wrapped NotFound",
			errors.Wrap(errors.NotFound("not found"), errors.CodeInternal, "wrapped"),
			true,
		},
		{
			"Plain error",
			fmt.Errorf("plain error"),
			false,
		},
		{
			"Nil error",
			nil,
			false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, errors.IsNotFound(tc.err))
		})
	}
}

func TestIsIndexNotReady(t *testing.T) {
	err := errors.Wrap(errors.New(errors.ErrCodeIndexNotReady, "no lexical index"),
		errors.ErrCodeSearchFailed, "hybrid search failed")
	assert.True(t, errors.IsIndexNotReady(err))
	assert.False(t, errors.IsIndexNotReady(errors.Internal("boom")))
}

//Personal.AI order the ending
