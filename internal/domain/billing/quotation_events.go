package billing

import (
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeQuotation = "Quotation"

// Event type constants
const (
	EventTypeQuotationCreated   = "QuotationCreated"
	EventTypeQuotationSent      = "QuotationSent"
	EventTypeQuotationAccepted  = "QuotationAccepted"
	EventTypeQuotationDeclined  = "QuotationDeclined"
	EventTypeQuotationExpired   = "QuotationExpired"
	EventTypeQuotationConverted = "QuotationConverted"
)

// QuotationCreatedEvent is raised when a new quotation is created
type QuotationCreatedEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID `json:"quotation_id"`
	Number      string    `json:"number"`
	CustomerID  uuid.UUID `json:"customer_id"`
}

// NewQuotationCreatedEvent creates a new QuotationCreatedEvent
func NewQuotationCreatedEvent(quotation *Quotation) *QuotationCreatedEvent {
	return &QuotationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCreated, AggregateTypeQuotation, quotation.ID),
		QuotationID:     quotation.ID,
		Number:          quotation.Number,
		CustomerID:      quotation.CustomerID,
	}
}

// EventType returns the event type name
func (e *QuotationCreatedEvent) EventType() string {
	return EventTypeQuotationCreated
}

// QuotationSentEvent is raised when a quotation is sent to the customer
type QuotationSentEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID       `json:"quotation_id"`
	Number      string          `json:"number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Total       decimal.Decimal `json:"total"`
	ValidUntil  time.Time       `json:"valid_until"`
}

// NewQuotationSentEvent creates a new QuotationSentEvent
func NewQuotationSentEvent(quotation *Quotation) *QuotationSentEvent {
	return &QuotationSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationSent, AggregateTypeQuotation, quotation.ID),
		QuotationID:     quotation.ID,
		Number:          quotation.Number,
		CustomerID:      quotation.CustomerID,
		Total:           quotation.Total,
		ValidUntil:      quotation.ValidUntil,
	}
}

// EventType returns the event type name
func (e *QuotationSentEvent) EventType() string {
	return EventTypeQuotationSent
}

// QuotationAcceptedEvent is raised when the customer accepts a quotation
type QuotationAcceptedEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID       `json:"quotation_id"`
	Number      string          `json:"number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Total       decimal.Decimal `json:"total"`
	AcceptedAt  time.Time       `json:"accepted_at"`
}

// NewQuotationAcceptedEvent creates a new QuotationAcceptedEvent
func NewQuotationAcceptedEvent(quotation *Quotation) *QuotationAcceptedEvent {
	acceptedAt := time.Now()
	if quotation.AcceptedAt != nil {
		acceptedAt = *quotation.AcceptedAt
	}
	return &QuotationAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationAccepted, AggregateTypeQuotation, quotation.ID),
		QuotationID:     quotation.ID,
		Number:          quotation.Number,
		CustomerID:      quotation.CustomerID,
		Total:           quotation.Total,
		AcceptedAt:      acceptedAt,
	}
}

// EventType returns the event type name
func (e *QuotationAcceptedEvent) EventType() string {
	return EventTypeQuotationAccepted
}

// QuotationDeclinedEvent is raised when the customer declines a quotation
type QuotationDeclinedEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID `json:"quotation_id"`
	Number      string    `json:"number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	DeclinedAt  time.Time `json:"declined_at"`
}

// NewQuotationDeclinedEvent creates a new QuotationDeclinedEvent
func NewQuotationDeclinedEvent(quotation *Quotation) *QuotationDeclinedEvent {
	declinedAt := time.Now()
	if quotation.DeclinedAt != nil {
		declinedAt = *quotation.DeclinedAt
	}
	return &QuotationDeclinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationDeclined, AggregateTypeQuotation, quotation.ID),
		QuotationID:     quotation.ID,
		Number:          quotation.Number,
		CustomerID:      quotation.CustomerID,
		DeclinedAt:      declinedAt,
	}
}

// EventType returns the event type name
func (e *QuotationDeclinedEvent) EventType() string {
	return EventTypeQuotationDeclined
}

// QuotationExpiredEvent is raised when a quotation passes its validity date
type QuotationExpiredEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID `json:"quotation_id"`
	Number      string    `json:"number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	ValidUntil  time.Time `json:"valid_until"`
}

// NewQuotationExpiredEvent creates a new QuotationExpiredEvent
func NewQuotationExpiredEvent(quotation *Quotation) *QuotationExpiredEvent {
	return &QuotationExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationExpired, AggregateTypeQuotation, quotation.ID),
		QuotationID:     quotation.ID,
		Number:          quotation.Number,
		CustomerID:      quotation.CustomerID,
		ValidUntil:      quotation.ValidUntil,
	}
}

// EventType returns the event type name
func (e *QuotationExpiredEvent) EventType() string {
	return EventTypeQuotationExpired
}

// QuotationConvertedEvent is raised when a quotation is converted into an
// invoice
type QuotationConvertedEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID `json:"quotation_id"`
	Number      string    `json:"number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
	ConvertedAt time.Time `json:"converted_at"`
}

// NewQuotationConvertedEvent creates a new QuotationConvertedEvent
func NewQuotationConvertedEvent(quotation *Quotation) *QuotationConvertedEvent {
	convertedAt := time.Now()
	if quotation.ConvertedAt != nil {
		convertedAt = *quotation.ConvertedAt
	}
	var invoiceID uuid.UUID
	if quotation.ConvertedInvoiceID != nil {
		invoiceID = *quotation.ConvertedInvoiceID
	}
	return &QuotationConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationConverted, AggregateTypeQuotation, quotation.ID),
		QuotationID:     quotation.ID,
		Number:          quotation.Number,
		CustomerID:      quotation.CustomerID,
		InvoiceID:       invoiceID,
		ConvertedAt:     convertedAt,
	}
}

// EventType returns the event type name
func (e *QuotationConvertedEvent) EventType() string {
	return EventTypeQuotationConverted
}
