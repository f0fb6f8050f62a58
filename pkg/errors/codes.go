package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Sentinel codes outside the numbered ranges.
const (
	ErrCodeOK      ErrorCode = "OK"
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Chart Module Error Codes
const (
	ErrCodeUnmappedTheme   ErrorCode = "CHART_001"
	ErrCodeUnknownDomain   ErrorCode = "CHART_002"
	ErrCodeInvalidTaxonomy ErrorCode = "CHART_003"
	ErrCodeRenderFailed    ErrorCode = "CHART_004"
	ErrCodeWrongChartKind  ErrorCode = "CHART_005"
)

// Dataset Module Error Codes
const (
	ErrCodeMissingColumn         ErrorCode = "DATA_001"
	ErrCodeInvalidData           ErrorCode = "DATA_002"
	ErrCodeDataSourceUnavailable ErrorCode = "DATA_003"
	ErrCodeUnsupportedSource     ErrorCode = "DATA_004"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeUnmappedTheme:   http.StatusUnprocessableEntity,
	ErrCodeUnknownDomain:   http.StatusBadRequest,
	ErrCodeInvalidTaxonomy: http.StatusInternalServerError,
	ErrCodeRenderFailed:    http.StatusInternalServerError,
	ErrCodeWrongChartKind:  http.StatusBadRequest,

	ErrCodeMissingColumn:         http.StatusUnprocessableEntity,
	ErrCodeInvalidData:           http.StatusUnprocessableEntity,
	ErrCodeDataSourceUnavailable: http.StatusBadGateway,
	ErrCodeUnsupportedSource:     http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeUnmappedTheme:   "theme has no domain mapping",
	ErrCodeUnknownDomain:   "unknown domain",
	ErrCodeInvalidTaxonomy: "invalid theme taxonomy",
	ErrCodeRenderFailed:    "chart rendering failed",
	ErrCodeWrongChartKind:  "operation not supported for this chart kind",

	ErrCodeMissingColumn:         "required column missing from dataset",
	ErrCodeInvalidData:           "dataset contains invalid data",
	ErrCodeDataSourceUnavailable: "dataset source unavailable",
	ErrCodeUnsupportedSource:     "unsupported dataset source",
}

// HTTPStatusFor returns the HTTP status mapped to code, or 500 when unmapped.
func HTTPStatusFor(code ErrorCode) int {
	if s, ok := ErrorCodeHTTPStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// DefaultMessage returns the default message for code, or the code itself.
func DefaultMessage(code ErrorCode) string {
	if m, ok := ErrorCodeMessage[code]; ok {
		return m
	}
	return code.String()
}
