package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/billing/backend/internal/domain/shared"
)

// Document number prefixes. The YYYYMM segment and the 4-digit sequence are
// an external contract consumed by accounting exports - do not change them.
const (
	invoiceNumberPrefix   = "INV"
	quotationNumberPrefix = "QUO"
)

// InvoiceNumber is an opaque invoice identifier: trimmed, non-empty and at
// most 50 characters. Uniqueness is enforced by the repository.
type InvoiceNumber struct {
	value string
}

// NewInvoiceNumber creates an InvoiceNumber from a raw string
func NewInvoiceNumber(value string) (InvoiceNumber, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return InvoiceNumber{}, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(trimmed) > 50 {
		return InvoiceNumber{}, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	return InvoiceNumber{value: trimmed}, nil
}

// String returns the invoice number
func (n InvoiceNumber) String() string {
	return n.value
}

// IsZero returns true for the zero value
func (n InvoiceNumber) IsZero() bool {
	return n.value == ""
}

// QuotationNumber is an opaque quotation identifier with the same
// constraints as InvoiceNumber.
type QuotationNumber struct {
	value string
}

// NewQuotationNumber creates a QuotationNumber from a raw string
func NewQuotationNumber(value string) (QuotationNumber, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return QuotationNumber{}, shared.NewDomainError("INVALID_QUOTATION_NUMBER", "Quotation number cannot be empty")
	}
	if len(trimmed) > 50 {
		return QuotationNumber{}, shared.NewDomainError("INVALID_QUOTATION_NUMBER", "Quotation number cannot exceed 50 characters")
	}
	return QuotationNumber{value: trimmed}, nil
}

// String returns the quotation number
func (n QuotationNumber) String() string {
	return n.value
}

// IsZero returns true for the zero value
func (n QuotationNumber) IsZero() bool {
	return n.value == ""
}

// InvoiceNumberPrefix returns the "INV-YYYYMM-" prefix for the given time.
// Repositories use it to find the highest existing sequence for the month.
func InvoiceNumberPrefix(t time.Time) string {
	return fmt.Sprintf("%s-%s-", invoiceNumberPrefix, t.Format("200601"))
}

// QuotationNumberPrefix returns the "QUO-YYYYMM-" prefix for the given time
func QuotationNumberPrefix(t time.Time) string {
	return fmt.Sprintf("%s-%s-", quotationNumberPrefix, t.Format("200601"))
}

// FormatInvoiceNumber renders an invoice number for the given month and
// sequence, e.g. INV-202608-0001. The sequence restarts every month.
func FormatInvoiceNumber(t time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", InvoiceNumberPrefix(t), seq)
}

// FormatQuotationNumber renders a quotation number for the given month and
// sequence, e.g. QUO-202608-0001
func FormatQuotationNumber(t time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", QuotationNumberPrefix(t), seq)
}

// ParseNumberSequence extracts the numeric suffix from a document number
// such as INV-202608-0042. Returns 0 when the suffix is not numeric.
func ParseNumberSequence(number string) int {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0
	}
	var seq int
	if _, err := fmt.Sscanf(number[idx+1:], "%d", &seq); err != nil {
		return 0
	}
	return seq
}
