package billing

import (
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Invoice DTOs ====================

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID                 `json:"customer_id" binding:"required"`
	IssuedAt   *time.Time                `json:"issued_at"`
	DueAt      *time.Time                `json:"due_at"`
	Items      []CreateDocumentItemInput `json:"items"`
	Notes      string                    `json:"notes"`
}

// CreateDocumentItemInput represents a line item in a create request
type CreateDocumentItemInput struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// UpdateInvoiceRequest represents a request to update a draft invoice
type UpdateInvoiceRequest struct {
	DueAt *time.Time `json:"due_at"`
	Notes *string    `json:"notes"`
}

// UpdateDocumentItemRequest represents a request to update a line item
type UpdateDocumentItemRequest struct {
	Quantity  *int64           `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// MarkInvoicePaidRequest represents a request to record payment
type MarkInvoicePaidRequest struct {
	PaidAt           *time.Time `json:"paid_at"`
	PaymentMethod    string     `json:"payment_method" binding:"required,min=1,max=100"`
	PaymentReference string     `json:"payment_reference" binding:"max=200"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Search     string                 `form:"search"`
	CustomerID *uuid.UUID             `form:"customer_id"`
	Status     *billing.InvoiceStatus `form:"status"`
	Statuses   []string               `form:"statuses"`
	StartDate  *time.Time             `form:"start_date"`
	EndDate    *time.Time             `form:"end_date"`
	Page       int                    `form:"page" binding:"min=0"`
	PageSize   int                    `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string                 `form:"order_by"`
	OrderDir   string                 `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceItemResponse represents an invoice line item in API responses
type InvoiceItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Description  string          `json:"description"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	LineTax      decimal.Decimal `json:"line_tax"`
	LineTotal    decimal.Decimal `json:"line_total"`
	Position     int             `json:"position"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID               uuid.UUID             `json:"id"`
	Number           string                `json:"number"`
	CustomerID       uuid.UUID             `json:"customer_id"`
	Status           string                `json:"status"`
	Currency         string                `json:"currency"`
	IssuedAt         time.Time             `json:"issued_at"`
	DueAt            time.Time             `json:"due_at"`
	PaidAt           *time.Time            `json:"paid_at,omitempty"`
	PaymentMethod    string                `json:"payment_method,omitempty"`
	PaymentReference string                `json:"payment_reference,omitempty"`
	Items            []InvoiceItemResponse `json:"items"`
	ItemCount        int                   `json:"item_count"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	TaxTotal         decimal.Decimal       `json:"tax_total"`
	Total            decimal.Decimal       `json:"total"`
	Notes            string                `json:"notes,omitempty"`
	Version          int                   `json:"version"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// InvoiceListItemResponse is the compact invoice shape for list views
type InvoiceListItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Status     string          `json:"status"`
	IssuedAt   time.Time       `json:"issued_at"`
	DueAt      time.Time       `json:"due_at"`
	Total      decimal.Decimal `json:"total"`
	ItemCount  int             `json:"item_count"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ==================== Quotation DTOs ====================

// CreateQuotationRequest represents a request to create a quotation
type CreateQuotationRequest struct {
	CustomerID         uuid.UUID                 `json:"customer_id" binding:"required"`
	IssuedAt           *time.Time                `json:"issued_at"`
	ValidUntil         *time.Time                `json:"valid_until"`
	Items              []CreateDocumentItemInput `json:"items"`
	DiscountRate       *decimal.Decimal          `json:"discount_rate"`
	Notes              string                    `json:"notes"`
	TermsAndConditions string                    `json:"terms_and_conditions"`
}

// UpdateQuotationRequest represents a request to update a draft quotation
type UpdateQuotationRequest struct {
	ValidUntil         *time.Time       `json:"valid_until"`
	DiscountRate       *decimal.Decimal `json:"discount_rate"`
	Notes              *string          `json:"notes"`
	TermsAndConditions *string          `json:"terms_and_conditions"`
}

// ConvertQuotationRequest represents a request to convert a quotation into
// an invoice
type ConvertQuotationRequest struct {
	DueAt *time.Time `json:"due_at"`
}

// QuotationListFilter represents filter options for the quotation list
type QuotationListFilter struct {
	Search     string                   `form:"search"`
	CustomerID *uuid.UUID               `form:"customer_id"`
	Status     *billing.QuotationStatus `form:"status"`
	Statuses   []string                 `form:"statuses"`
	StartDate  *time.Time               `form:"start_date"`
	EndDate    *time.Time               `form:"end_date"`
	Page       int                      `form:"page" binding:"min=0"`
	PageSize   int                      `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string                   `form:"order_by"`
	OrderDir   string                   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// QuotationItemResponse represents a quotation line item in API responses
type QuotationItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Description  string          `json:"description"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	LineTax      decimal.Decimal `json:"line_tax"`
	LineTotal    decimal.Decimal `json:"line_total"`
	Position     int             `json:"position"`
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID                 uuid.UUID               `json:"id"`
	Number             string                  `json:"number"`
	CustomerID         uuid.UUID               `json:"customer_id"`
	Status             string                  `json:"status"`
	Currency           string                  `json:"currency"`
	IssuedAt           time.Time               `json:"issued_at"`
	ValidUntil         time.Time               `json:"valid_until"`
	AcceptedAt         *time.Time              `json:"accepted_at,omitempty"`
	DeclinedAt         *time.Time              `json:"declined_at,omitempty"`
	ConvertedAt        *time.Time              `json:"converted_at,omitempty"`
	ConvertedInvoiceID *uuid.UUID              `json:"converted_invoice_id,omitempty"`
	Items              []QuotationItemResponse `json:"items"`
	ItemCount          int                     `json:"item_count"`
	Subtotal           decimal.Decimal         `json:"subtotal"`
	TaxTotal           decimal.Decimal         `json:"tax_total"`
	DiscountRate       decimal.Decimal         `json:"discount_rate"`
	DiscountAmount     decimal.Decimal         `json:"discount_amount"`
	Total              decimal.Decimal         `json:"total"`
	Notes              string                  `json:"notes,omitempty"`
	TermsAndConditions string                  `json:"terms_and_conditions,omitempty"`
	Version            int                     `json:"version"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// QuotationListItemResponse is the compact quotation shape for list views
type QuotationListItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Status     string          `json:"status"`
	IssuedAt   time.Time       `json:"issued_at"`
	ValidUntil time.Time       `json:"valid_until"`
	Total      decimal.Decimal `json:"total"`
	ItemCount  int             `json:"item_count"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ==================== Mappers ====================

// ToInvoiceResponse converts an Invoice aggregate to its API representation
func ToInvoiceResponse(invoice *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(invoice.Items))
	for idx := range invoice.Items {
		items = append(items, ToInvoiceItemResponse(&invoice.Items[idx]))
	}

	return InvoiceResponse{
		ID:               invoice.ID,
		Number:           invoice.Number,
		CustomerID:       invoice.CustomerID,
		Status:           invoice.Status.String(),
		Currency:         string(invoice.Currency),
		IssuedAt:         invoice.IssuedAt,
		DueAt:            invoice.DueAt,
		PaidAt:           invoice.PaidAt,
		PaymentMethod:    invoice.PaymentMethod,
		PaymentReference: invoice.PaymentReference,
		Items:            items,
		ItemCount:        invoice.ItemCount(),
		Subtotal:         invoice.Subtotal,
		TaxTotal:         invoice.TaxTotal,
		Total:            invoice.Total,
		Notes:            invoice.Notes,
		Version:          invoice.Version,
		CreatedAt:        invoice.CreatedAt,
		UpdatedAt:        invoice.UpdatedAt,
	}
}

// ToInvoiceItemResponse converts an invoice item to its API representation
func ToInvoiceItemResponse(item *billing.InvoiceItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		ID:           item.ID,
		Description:  item.Description,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		TaxRate:      item.TaxRate,
		LineSubtotal: item.LineSubtotal,
		LineTax:      item.LineTax,
		LineTotal:    item.LineTotal,
		Position:     item.Position,
	}
}

// ToInvoiceListItemResponse converts an invoice to its list representation
func ToInvoiceListItemResponse(invoice *billing.Invoice) InvoiceListItemResponse {
	return InvoiceListItemResponse{
		ID:         invoice.ID,
		Number:     invoice.Number,
		CustomerID: invoice.CustomerID,
		Status:     invoice.Status.String(),
		IssuedAt:   invoice.IssuedAt,
		DueAt:      invoice.DueAt,
		Total:      invoice.Total,
		ItemCount:  invoice.ItemCount(),
		CreatedAt:  invoice.CreatedAt,
	}
}

// ToInvoiceListItemResponses converts a slice of invoices
func ToInvoiceListItemResponses(invoices []billing.Invoice) []InvoiceListItemResponse {
	responses := make([]InvoiceListItemResponse, 0, len(invoices))
	for idx := range invoices {
		responses = append(responses, ToInvoiceListItemResponse(&invoices[idx]))
	}
	return responses
}

// ToQuotationResponse converts a Quotation aggregate to its API representation
func ToQuotationResponse(quotation *billing.Quotation) QuotationResponse {
	items := make([]QuotationItemResponse, 0, len(quotation.Items))
	for idx := range quotation.Items {
		items = append(items, ToQuotationItemResponse(&quotation.Items[idx]))
	}

	return QuotationResponse{
		ID:                 quotation.ID,
		Number:             quotation.Number,
		CustomerID:         quotation.CustomerID,
		Status:             quotation.Status.String(),
		Currency:           string(quotation.Currency),
		IssuedAt:           quotation.IssuedAt,
		ValidUntil:         quotation.ValidUntil,
		AcceptedAt:         quotation.AcceptedAt,
		DeclinedAt:         quotation.DeclinedAt,
		ConvertedAt:        quotation.ConvertedAt,
		ConvertedInvoiceID: quotation.ConvertedInvoiceID,
		Items:              items,
		ItemCount:          quotation.ItemCount(),
		Subtotal:           quotation.Subtotal,
		TaxTotal:           quotation.TaxTotal,
		DiscountRate:       quotation.DiscountRate,
		DiscountAmount:     quotation.DiscountAmount,
		Total:              quotation.Total,
		Notes:              quotation.Notes,
		TermsAndConditions: quotation.TermsAndConditions,
		Version:            quotation.Version,
		CreatedAt:          quotation.CreatedAt,
		UpdatedAt:          quotation.UpdatedAt,
	}
}

// ToQuotationItemResponse converts a quotation item to its API representation
func ToQuotationItemResponse(item *billing.QuotationItem) QuotationItemResponse {
	return QuotationItemResponse{
		ID:           item.ID,
		Description:  item.Description,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		TaxRate:      item.TaxRate,
		LineSubtotal: item.LineSubtotal,
		LineTax:      item.LineTax,
		LineTotal:    item.LineTotal,
		Position:     item.Position,
	}
}

// ToQuotationListItemResponse converts a quotation to its list representation
func ToQuotationListItemResponse(quotation *billing.Quotation) QuotationListItemResponse {
	return QuotationListItemResponse{
		ID:         quotation.ID,
		Number:     quotation.Number,
		CustomerID: quotation.CustomerID,
		Status:     quotation.Status.String(),
		IssuedAt:   quotation.IssuedAt,
		ValidUntil: quotation.ValidUntil,
		Total:      quotation.Total,
		ItemCount:  quotation.ItemCount(),
		CreatedAt:  quotation.CreatedAt,
	}
}

// ToQuotationListItemResponses converts a slice of quotations
func ToQuotationListItemResponses(quotations []billing.Quotation) []QuotationListItemResponse {
	responses := make([]QuotationListItemResponse, 0, len(quotations))
	for idx := range quotations {
		responses = append(responses, ToQuotationListItemResponse(&quotations[idx]))
	}
	return responses
}
