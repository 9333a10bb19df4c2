package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeConflict, 409},
		{ErrCodeValidation, 422},
		{ErrCodeIndexNotReady, 503},
		{ErrCodeDenseWeightInvalid, 400},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code))
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "index not ready for contract type", DefaultMessageForCode(ErrCodeIndexNotReady))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsClientError(ErrCodeGlobalIDInvalid))
	assert.False(t, IsClientError(ErrCodeInternal))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeInternal))
	assert.True(t, IsServerError(ErrCodeIndexBuildFailed))
	assert.False(t, IsServerError(ErrCodeBadRequest))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "DOC", ModuleForCode(ErrCodeDocParseFailed))
	assert.Equal(t, "CHK", ModuleForCode(ErrCodeChunkNotFound))
	assert.Equal(t, "EMB", ModuleForCode(ErrCodeEmbeddingFailed))
	assert.Equal(t, "IDX", ModuleForCode(ErrCodeIndexNotReady))
	assert.Equal(t, "SRCH", ModuleForCode(ErrCodeSearchFailed))
	assert.Equal(t, "MATCH", ModuleForCode(ErrCodeMatchFailed))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestErrorCodeFormat_Convention(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	allCodes := []ErrorCode{
		ErrCodeInternal, ErrCodeBadRequest, ErrCodeDocParseFailed, ErrCodeChunkNotFound,
		ErrCodeGlobalIDInvalid, ErrCodeEmbeddingFailed, ErrCodeVectorSkipped,
		ErrCodeIndexNotReady, ErrCodeIndexSwapFailed, ErrCodeSearchFailed,
		ErrCodeDenseWeightInvalid, ErrCodeMatchFailed,
	}
	for _, code := range allCodes {
		assert.Regexp(t, re, string(code))
	}
}

func TestErrorCodeMappings_Completeness(t *testing.T) {
	// A sample of codes to check if they are in both maps
	allCodes := []ErrorCode{
		ErrCodeInternal, ErrCodeDocParseFailed, ErrCodeDocTableMalformed,
		ErrCodeChunkNotFound, ErrCodeCorpusLoadFailed, ErrCodeEmbeddingFailed,
		ErrCodeVectorSkipped, ErrCodeIndexNotReady, ErrCodeIndexSwapFailed,
		ErrCodeSearchFailed, ErrCodeLexicalSearchFailed, ErrCodeMatchFailed,
		ErrCodeReferenceUnresolvable,
	}
	for _, code := range allCodes {
		_, hasStatus := ErrorCodeHTTPStatus[code]
		_, hasMessage := ErrorCodeMessage[code]
		assert.True(t, hasStatus, "missing status for %s", code)
		assert.True(t, hasMessage, "missing message for %s", code)
	}
}

//Personal.AI order the ending
