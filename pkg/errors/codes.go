package errors

import (
	"net/http"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
)

// Aliases kept for call-site readability
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")
	CodeUnknown        = ErrorCode("UNKNOWN")

	// Domain specific aliases
	CodeChunkNotFound  = ErrCodeChunkNotFound
	CodeCorpusNotFound = ErrCodeCorpusNotFound
	CodeIndexNotReady  = ErrCodeIndexNotReady
)

// Document Parsing Error Codes
const (
	ErrCodeDocEmpty             ErrorCode = "DOC_001"
	ErrCodeDocParseFailed       ErrorCode = "DOC_002"
	ErrCodeDocTableMalformed    ErrorCode = "DOC_003"
	ErrCodeDocMarkerUnsupported ErrorCode = "DOC_004"
)

// Chunking Error Codes
const (
	ErrCodeChunkNotFound       ErrorCode = "CHK_001"
	ErrCodeChunkInvalid        ErrorCode = "CHK_002"
	ErrCodeGlobalIDInvalid     ErrorCode = "CHK_003"
	ErrCodeCorpusNotFound      ErrorCode = "CHK_004"
	ErrCodeCorpusLoadFailed    ErrorCode = "CHK_005"
	ErrCodeContractTypeInvalid ErrorCode = "CHK_006"
)

// Embedding Error Codes
const (
	ErrCodeEmbeddingFailed      ErrorCode = "EMB_001"
	ErrCodeEmbeddingTimeout     ErrorCode = "EMB_002"
	ErrCodeVectorSkipped        ErrorCode = "EMB_003"
	ErrCodeVectorDimMismatch    ErrorCode = "EMB_004"
	ErrCodeEmbeddingServiceDown ErrorCode = "EMB_005"
)

// Index Error Codes (dense and lexical)
const (
	ErrCodeIndexNotReady      ErrorCode = "IDX_001"
	ErrCodeIndexBuildFailed   ErrorCode = "IDX_002"
	ErrCodeIndexSwapFailed    ErrorCode = "IDX_003"
	ErrCodeIndexAlreadyExists ErrorCode = "IDX_004"
	ErrCodeIndexDeleteFailed  ErrorCode = "IDX_005"
)

// Search Error Codes
const (
	ErrCodeSearchFailed        ErrorCode = "SRCH_001"
	ErrCodeDenseSearchFailed   ErrorCode = "SRCH_002"
	ErrCodeLexicalSearchFailed ErrorCode = "SRCH_003"
	ErrCodeDenseWeightInvalid  ErrorCode = "SRCH_004"
)

// Matching Error Codes
const (
	ErrCodeMatchFailed           ErrorCode = "MATCH_001"
	ErrCodeReferenceUnresolvable ErrorCode = "MATCH_002"
)

// Infrastructure Error Codes (mapped from old names)
const (
	CodeDBConnectionError = ErrCodeDatabaseError
	CodeDatabaseError     = ErrCodeDatabaseError
	CodeDBQueryError      = ErrCodeDatabaseError
	CodeCacheError        = ErrCodeCacheError
	CodeSearchError       = ErrCodeSearchFailed
	CodeMessageQueueError = ErrCodeInternal
	CodeStorageError      = ErrCodeInternal
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeDocEmpty:             http.StatusBadRequest,
	ErrCodeDocParseFailed:       http.StatusUnprocessableEntity,
	ErrCodeDocTableMalformed:    http.StatusUnprocessableEntity,
	ErrCodeDocMarkerUnsupported: http.StatusUnprocessableEntity,

	ErrCodeChunkNotFound:       http.StatusNotFound,
	ErrCodeChunkInvalid:        http.StatusUnprocessableEntity,
	ErrCodeGlobalIDInvalid:     http.StatusBadRequest,
	ErrCodeCorpusNotFound:      http.StatusNotFound,
	ErrCodeCorpusLoadFailed:    http.StatusInternalServerError,
	ErrCodeContractTypeInvalid: http.StatusBadRequest,

	ErrCodeEmbeddingFailed:      http.StatusInternalServerError,
	ErrCodeEmbeddingTimeout:     http.StatusGatewayTimeout,
	ErrCodeVectorSkipped:        http.StatusInternalServerError,
	ErrCodeVectorDimMismatch:    http.StatusInternalServerError,
	ErrCodeEmbeddingServiceDown: http.StatusServiceUnavailable,

	ErrCodeIndexNotReady:      http.StatusServiceUnavailable,
	ErrCodeIndexBuildFailed:   http.StatusInternalServerError,
	ErrCodeIndexSwapFailed:    http.StatusInternalServerError,
	ErrCodeIndexAlreadyExists: http.StatusConflict,
	ErrCodeIndexDeleteFailed:  http.StatusInternalServerError,

	ErrCodeSearchFailed:        http.StatusInternalServerError,
	ErrCodeDenseSearchFailed:   http.StatusInternalServerError,
	ErrCodeLexicalSearchFailed: http.StatusInternalServerError,
	ErrCodeDenseWeightInvalid:  http.StatusBadRequest,

	ErrCodeMatchFailed:           http.StatusInternalServerError,
	ErrCodeReferenceUnresolvable: http.StatusUnprocessableEntity,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeDocEmpty:             "document contains no parsable units",
	ErrCodeDocParseFailed:       "failed to parse document structure",
	ErrCodeDocTableMalformed:    "malformed table unit",
	ErrCodeDocMarkerUnsupported: "unsupported structural marker",

	ErrCodeChunkNotFound:       "chunk not found",
	ErrCodeChunkInvalid:        "invalid chunk record",
	ErrCodeGlobalIDInvalid:     "invalid global id",
	ErrCodeCorpusNotFound:      "chunk corpus not found",
	ErrCodeCorpusLoadFailed:    "failed to load chunk corpus",
	ErrCodeContractTypeInvalid: "invalid contract type",

	ErrCodeEmbeddingFailed:      "embedding request failed",
	ErrCodeEmbeddingTimeout:     "embedding request timed out",
	ErrCodeVectorSkipped:        "chunk skipped: empty source text",
	ErrCodeVectorDimMismatch:    "embedding dimensionality mismatch",
	ErrCodeEmbeddingServiceDown: "embedding service unavailable",

	ErrCodeIndexNotReady:      "index not ready for contract type",
	ErrCodeIndexBuildFailed:   "index build failed",
	ErrCodeIndexSwapFailed:    "index alias swap failed",
	ErrCodeIndexAlreadyExists: "index already exists",
	ErrCodeIndexDeleteFailed:  "index deletion failed",

	ErrCodeSearchFailed:        "hybrid search failed",
	ErrCodeDenseSearchFailed:   "dense vector search failed",
	ErrCodeLexicalSearchFailed: "lexical search failed",
	ErrCodeDenseWeightInvalid:  "dense_weight must be within [0,1]",

	ErrCodeMatchFailed:           "article matching failed",
	ErrCodeReferenceUnresolvable: "chunk reference could not be resolved",
}

// HTTPStatusForCode returns the HTTP status mapped to code, or 500 when unmapped.
func HTTPStatusForCode(code ErrorCode) int {
	if s, ok := ErrorCodeHTTPStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default human-readable message for code.
func DefaultMessageForCode(code ErrorCode) string {
	if m, ok := ErrorCodeMessage[code]; ok {
		return m
	}
	return "unknown error"
}

// IsClientError reports whether code maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	s := HTTPStatusForCode(code)
	return s >= 400 && s < 500
}

// IsServerError reports whether code maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	return HTTPStatusForCode(code) >= 500
}

// ModuleForCode returns the module prefix of code ("COMMON", "DOC", "CHK",
// "EMB", "IDX", "SRCH", "MATCH"), or "UNKNOWN" when the code does not follow
// the <MODULE>_<NNN> convention.
func ModuleForCode(code ErrorCode) string {
	s := string(code)
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			if i == 0 {
				return "UNKNOWN"
			}
			return s[:i]
		}
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
