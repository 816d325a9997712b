package dto

import (
	"net/http"
	"strings"
)

// Error codes emitted by the HTTP layer itself. Domain errors pass through
// with the code the aggregate or service attached.
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeValidation is used for request body validation failures
	ErrCodeValidation = "VALIDATION_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// State-conflict codes map to 409: the request was well formed but the
// document is not in a status that permits the operation.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeValidation: http.StatusBadRequest,

	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_STATE":        http.StatusConflict,

	"INVOICE_ALREADY_PAID":         http.StatusConflict,
	"INVOICE_CANNOT_BE_MODIFIED":   http.StatusConflict,
	"QUOTATION_ALREADY_ACCEPTED":   http.StatusConflict,
	"QUOTATION_ALREADY_DECLINED":   http.StatusConflict,
	"QUOTATION_ALREADY_CONVERTED":  http.StatusConflict,
	"QUOTATION_EXPIRED":            http.StatusConflict,
	"QUOTATION_CANNOT_BE_MODIFIED": http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Validation-style codes (INVALID_NRIC, INVALID_DUE_DATE, ...) all map to
// 400; anything unrecognised is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
