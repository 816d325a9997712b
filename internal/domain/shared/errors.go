package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Billing state-conflict error codes. The aggregates construct the errors
// themselves so the message can carry the offending status; callers switch
// on the code only.
const (
	CodeInvoiceAlreadyPaid        = "INVOICE_ALREADY_PAID"
	CodeInvoiceCannotBeModified   = "INVOICE_CANNOT_BE_MODIFIED"
	CodeQuotationAlreadyAccepted  = "QUOTATION_ALREADY_ACCEPTED"
	CodeQuotationAlreadyDeclined  = "QUOTATION_ALREADY_DECLINED"
	CodeQuotationAlreadyConverted = "QUOTATION_ALREADY_CONVERTED"
	CodeQuotationExpired          = "QUOTATION_EXPIRED"
	CodeQuotationCannotBeModified = "QUOTATION_CANNOT_BE_MODIFIED"
)

// IsDomainError reports whether err is a DomainError with the given code.
func IsDomainError(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
