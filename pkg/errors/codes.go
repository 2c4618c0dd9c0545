package errors

import (
	"net/http"
	"sort"
	"strings"
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
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Aliases kept for call sites that read better with the short form.
const (
	CodeUnknown      = ErrorCode("")
	CodeOK           = ErrorCode("OK")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeCacheError   = ErrCodeCacheError
)

// Molecule Module Error Codes
const (
	ErrCodeMoleculeInvalidFormat ErrorCode = "MOL_003"
	ErrCodeMoleculeParsingFailed ErrorCode = "MOL_006"
	ErrCodeMoleculeTooLarge      ErrorCode = "MOL_010"
	ErrCodeAtomNotFound          ErrorCode = "MOL_016"
	ErrCodeDuplicateBond         ErrorCode = "MOL_017"
	ErrCodeUnknownElement        ErrorCode = "MOL_018"
	ErrCodeUnknownBondOrder      ErrorCode = "MOL_019"
)

// Perception Module Error Codes
const (
	ErrCodePerceptionFailed ErrorCode = "PER_001"
	ErrCodeAnalysisCanceled ErrorCode = "PER_002"
)

type codeInfo struct {
	status  int
	message string
}

// registry holds the HTTP status and default message of every known code.
var registry = map[ErrorCode]codeInfo{
	ErrCodeInternal:           {http.StatusInternalServerError, "internal server error"},
	ErrCodeBadRequest:         {http.StatusBadRequest, "bad request"},
	ErrCodeNotFound:           {http.StatusNotFound, "resource not found"},
	ErrCodeConflict:           {http.StatusConflict, "resource conflict"},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, "service unavailable"},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, "request timeout"},
	ErrCodeValidation:         {http.StatusUnprocessableEntity, "validation failed"},
	ErrCodeSerialization:      {http.StatusInternalServerError, "serialization failed"},
	ErrCodeCacheError:         {http.StatusInternalServerError, "cache error"},
	ErrCodeNotImplemented:     {http.StatusNotImplemented, "not implemented"},

	ErrCodeMoleculeInvalidFormat: {http.StatusBadRequest, "unsupported molecule format"},
	ErrCodeMoleculeParsingFailed: {http.StatusBadRequest, "failed to parse molecule"},
	ErrCodeMoleculeTooLarge:      {http.StatusUnprocessableEntity, "molecule exceeds configured size limits"},
	ErrCodeAtomNotFound:          {http.StatusUnprocessableEntity, "atom not found"},
	ErrCodeDuplicateBond:         {http.StatusUnprocessableEntity, "duplicate bond"},
	ErrCodeUnknownElement:        {http.StatusBadRequest, "unknown element symbol"},
	ErrCodeUnknownBondOrder:      {http.StatusBadRequest, "unknown bond order"},

	ErrCodePerceptionFailed: {http.StatusInternalServerError, "chemical perception failed"},
	ErrCodeAnalysisCanceled: {http.StatusServiceUnavailable, "analysis canceled"},
}

// Codes returns every registered ErrorCode in ascending order.
func Codes() []ErrorCode {
	codes := make([]ErrorCode, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.  Unknown
// codes map to 500.
func HTTPStatusForCode(code ErrorCode) int {
	if info, ok := registry[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if info, ok := registry[code]; ok {
		return info.message
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	module, _, _ := strings.Cut(string(code), "_")
	if module == "" {
		return "UNKNOWN"
	}
	return module
}

//Personal.AI order the ending
