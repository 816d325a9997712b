package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationStatus represents the status of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "DRAFT"
	QuotationStatusSent      QuotationStatus = "SENT"
	QuotationStatusAccepted  QuotationStatus = "ACCEPTED"
	QuotationStatusDeclined  QuotationStatus = "DECLINED"
	QuotationStatusExpired   QuotationStatus = "EXPIRED"
	QuotationStatusConverted QuotationStatus = "CONVERTED"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted,
		QuotationStatusDeclined, QuotationStatusExpired, QuotationStatusConverted:
		return true
	}
	return false
}

// String returns the string representation of QuotationStatus
func (s QuotationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	switch s {
	case QuotationStatusDraft:
		return target == QuotationStatusSent || target == QuotationStatusAccepted ||
			target == QuotationStatusDeclined || target == QuotationStatusExpired
	case QuotationStatusSent:
		return target == QuotationStatusAccepted || target == QuotationStatusDeclined ||
			target == QuotationStatusExpired
	case QuotationStatusAccepted:
		return target == QuotationStatusConverted
	case QuotationStatusDeclined, QuotationStatusExpired, QuotationStatusConverted:
		return false
	}
	return false
}

// QuotationItem represents a line item on a quotation, computed the same
// way as an invoice item. Owned exclusively by its quotation.
type QuotationItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	QuotationID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Description  string    `gorm:"type:varchar(500);not null"`
	Quantity     int64     `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LineSubtotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTax      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Position     int             `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (QuotationItem) TableName() string {
	return "quotation_items"
}

// NewQuotationItem creates a new quotation line item
func NewQuotationItem(quotationID uuid.UUID, description string, quantity int64, unitPrice valueobject.Money, taxRate valueobject.TaxRate) (*QuotationItem, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item description cannot exceed 500 characters")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_ITEM", "Quantity must be positive")
	}

	now := time.Now()
	item := &QuotationItem{
		ID:          uuid.New(),
		QuotationID: quotationID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		TaxRate:     taxRate.Value(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	item.compute()
	return item, nil
}

func (i *QuotationItem) compute() {
	i.LineSubtotal = i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
	i.LineTax = i.LineSubtotal.Mul(i.TaxRate).Div(oneHundred).Round(2)
	i.LineTotal = i.LineSubtotal.Add(i.LineTax)
}

// UpdateQuantity updates the quantity and recomputes the line amounts
func (i *QuotationItem) UpdateQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_ITEM", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.compute()
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateUnitPrice updates the unit price and recomputes the line amounts
func (i *QuotationItem) UpdateUnitPrice(unitPrice valueobject.Money) error {
	i.UnitPrice = unitPrice.Amount()
	i.compute()
	i.UpdatedAt = time.Now()
	return nil
}

// Quotation is the aggregate root for a sales quotation. On acceptance it
// can be converted into an invoice; conversion is the one transition with a
// cross-aggregate side effect, orchestrated by the application service.
type Quotation struct {
	shared.BaseAggregateRoot
	Number             string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status             QuotationStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Currency           valueobject.Currency `gorm:"type:varchar(3);not null;default:'MYR'"`
	IssuedAt           time.Time       `gorm:"not null"`
	ValidUntil         time.Time       `gorm:"not null"`
	AcceptedAt         *time.Time
	DeclinedAt         *time.Time
	ConvertedAt        *time.Time
	ConvertedInvoiceID *uuid.UUID      `gorm:"type:uuid"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxTotal           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total              decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes              string          `gorm:"type:text"`
	TermsAndConditions string          `gorm:"type:text"`
	Items              []QuotationItem `gorm:"foreignKey:QuotationID"`
}

// TableName returns the table name for GORM
func (Quotation) TableName() string {
	return "quotations"
}

// NewQuotation creates a new draft quotation
func NewQuotation(number QuotationNumber, customerID uuid.UUID, issuedAt, validUntil time.Time) (*Quotation, error) {
	if number.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUOTATION_NUMBER", "Quotation number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if validUntil.Before(issuedAt) {
		return nil, shared.NewDomainError("INVALID_VALIDITY", "Validity date cannot be before issue date")
	}

	quotation := &Quotation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number.String(),
		CustomerID:        customerID,
		Status:            QuotationStatusDraft,
		Currency:          valueobject.DefaultCurrency,
		IssuedAt:          issuedAt,
		ValidUntil:        validUntil,
		Subtotal:          decimal.Zero,
		TaxTotal:          decimal.Zero,
		DiscountRate:      decimal.Zero,
		DiscountAmount:    decimal.Zero,
		Total:             decimal.Zero,
		Items:             make([]QuotationItem, 0),
	}

	quotation.AddDomainEvent(NewQuotationCreatedEvent(quotation))

	return quotation, nil
}

// AddItem adds a new line item. Only allowed while the quotation is a draft.
func (q *Quotation) AddItem(description string, quantity int64, unitPrice valueobject.Money, taxRate valueobject.TaxRate) (*QuotationItem, error) {
	if err := q.ensureModifiable(); err != nil {
		return nil, err
	}
	if unitPrice.Currency() != q.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Item price is %s but quotation is %s", unitPrice.Currency(), q.Currency))
	}

	item, err := NewQuotationItem(q.ID, description, quantity, unitPrice, taxRate)
	if err != nil {
		return nil, err
	}
	item.Position = len(q.Items)

	q.Items = append(q.Items, *item)
	q.recalculateTotals()
	q.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item
func (q *Quotation) UpdateItemQuantity(itemID uuid.UUID, quantity int64) error {
	if err := q.ensureModifiable(); err != nil {
		return err
	}

	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			if err := q.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			q.recalculateTotals()
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Quotation item not found")
}

// UpdateItemPrice updates the unit price of an existing item
func (q *Quotation) UpdateItemPrice(itemID uuid.UUID, unitPrice valueobject.Money) error {
	if err := q.ensureModifiable(); err != nil {
		return err
	}
	if unitPrice.Currency() != q.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Item price is %s but quotation is %s", unitPrice.Currency(), q.Currency))
	}

	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			if err := q.Items[idx].UpdateUnitPrice(unitPrice); err != nil {
				return err
			}
			q.recalculateTotals()
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Quotation item not found")
}

// RemoveItem removes an item from the quotation
func (q *Quotation) RemoveItem(itemID uuid.UUID) error {
	if err := q.ensureModifiable(); err != nil {
		return err
	}

	for idx, item := range q.Items {
		if item.ID == itemID {
			q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
			for i := range q.Items {
				q.Items[i].Position = i
			}
			q.recalculateTotals()
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Quotation item not found")
}

// ApplyDiscount sets the document-level discount percentage.
// Only allowed while the quotation is a draft.
func (q *Quotation) ApplyDiscount(rate valueobject.DiscountRate) error {
	if err := q.ensureModifiable(); err != nil {
		return err
	}

	q.DiscountRate = rate.Value()
	q.recalculateTotals()
	q.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets the quotation notes
func (q *Quotation) SetNotes(notes string) error {
	if err := q.ensureModifiable(); err != nil {
		return err
	}
	q.Notes = notes
	q.UpdatedAt = time.Now()
	return nil
}

// SetTermsAndConditions sets the terms text shown on the rendered document
func (q *Quotation) SetTermsAndConditions(terms string) error {
	if err := q.ensureModifiable(); err != nil {
		return err
	}
	q.TermsAndConditions = terms
	q.UpdatedAt = time.Now()
	return nil
}

// Send transitions the quotation from DRAFT to SENT
func (q *Quotation) Send() error {
	if q.Status != QuotationStatusDraft {
		return q.transitionConflict("send")
	}

	q.Status = QuotationStatusSent
	q.UpdatedAt = time.Now()

	q.AddDomainEvent(NewQuotationSentEvent(q))

	return nil
}

// Accept marks the quotation as accepted by the customer. Permitted from
// DRAFT or SENT only, and only while still valid at the given time.
func (q *Quotation) Accept(acceptedAt time.Time) error {
	switch q.Status {
	case QuotationStatusAccepted:
		return shared.NewDomainError(shared.CodeQuotationAlreadyAccepted, "Quotation has already been accepted")
	case QuotationStatusDeclined:
		return shared.NewDomainError(shared.CodeQuotationAlreadyDeclined, "Cannot accept a declined quotation")
	case QuotationStatusConverted:
		return shared.NewDomainError(shared.CodeQuotationAlreadyConverted, "Quotation has already been converted")
	case QuotationStatusExpired:
		return shared.NewDomainError(shared.CodeQuotationExpired, "Quotation has expired")
	}
	if q.ValidUntil.Before(acceptedAt) {
		return shared.NewDomainError(shared.CodeQuotationExpired,
			fmt.Sprintf("Quotation expired on %s", q.ValidUntil.Format("2006-01-02")))
	}

	q.Status = QuotationStatusAccepted
	q.AcceptedAt = &acceptedAt
	q.UpdatedAt = time.Now()

	q.AddDomainEvent(NewQuotationAcceptedEvent(q))

	return nil
}

// Decline marks the quotation as declined by the customer. Permitted from
// DRAFT or SENT only.
func (q *Quotation) Decline(declinedAt time.Time) error {
	switch q.Status {
	case QuotationStatusDeclined:
		return shared.NewDomainError(shared.CodeQuotationAlreadyDeclined, "Quotation has already been declined")
	case QuotationStatusAccepted:
		return shared.NewDomainError(shared.CodeQuotationAlreadyAccepted, "Cannot decline an accepted quotation")
	case QuotationStatusConverted:
		return shared.NewDomainError(shared.CodeQuotationAlreadyConverted, "Quotation has already been converted")
	case QuotationStatusExpired:
		return shared.NewDomainError(shared.CodeQuotationExpired, "Quotation has expired")
	}

	q.Status = QuotationStatusDeclined
	q.DeclinedAt = &declinedAt
	q.UpdatedAt = time.Now()

	q.AddDomainEvent(NewQuotationDeclinedEvent(q))

	return nil
}

// MarkAsExpired transitions DRAFT or SENT to EXPIRED. Driven by an external
// scheduler comparing ValidUntil against the current time.
func (q *Quotation) MarkAsExpired() error {
	if !q.Status.CanTransitionTo(QuotationStatusExpired) {
		return q.transitionConflict("expire")
	}

	q.Status = QuotationStatusExpired
	q.UpdatedAt = time.Now()

	q.AddDomainEvent(NewQuotationExpiredEvent(q))

	return nil
}

// ConvertToInvoice records the conversion of an accepted quotation into the
// invoice identified by invoiceID. The invoice itself is built and persisted
// by the application service; this method only performs the state change.
func (q *Quotation) ConvertToInvoice(invoiceID uuid.UUID, convertedAt time.Time) error {
	if q.Status == QuotationStatusConverted {
		return shared.NewDomainError(shared.CodeQuotationAlreadyConverted, "Quotation has already been converted")
	}
	if q.Status != QuotationStatusAccepted {
		return shared.NewDomainError(shared.CodeQuotationCannotBeModified,
			fmt.Sprintf("Only accepted quotations can be converted, status is %s", q.Status))
	}
	if invoiceID == uuid.Nil {
		return shared.NewDomainError("INVALID_INVOICE", "Converted invoice ID cannot be empty")
	}

	q.Status = QuotationStatusConverted
	q.ConvertedAt = &convertedAt
	q.ConvertedInvoiceID = &invoiceID
	q.UpdatedAt = time.Now()

	q.AddDomainEvent(NewQuotationConvertedEvent(q))

	return nil
}

// recalculateTotals rederives subtotal, tax total, discount amount and
// grand total from the current items and discount rate. Idempotent.
func (q *Quotation) recalculateTotals() {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, item := range q.Items {
		subtotal = subtotal.Add(item.LineSubtotal)
		taxTotal = taxTotal.Add(item.LineTax)
	}
	q.Subtotal = subtotal.Round(2)
	q.TaxTotal = taxTotal
	q.DiscountAmount = q.Subtotal.Mul(q.DiscountRate).Div(oneHundred).Round(2)
	q.Total = q.Subtotal.Add(q.TaxTotal).Sub(q.DiscountAmount)
}

func (q *Quotation) ensureModifiable() error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError(shared.CodeQuotationCannotBeModified,
			fmt.Sprintf("Cannot modify a quotation in %s status", q.Status))
	}
	return nil
}

func (q *Quotation) transitionConflict(action string) *shared.DomainError {
	switch q.Status {
	case QuotationStatusAccepted:
		return shared.NewDomainError(shared.CodeQuotationAlreadyAccepted, "Quotation has already been accepted")
	case QuotationStatusDeclined:
		return shared.NewDomainError(shared.CodeQuotationAlreadyDeclined, "Quotation has already been declined")
	case QuotationStatusConverted:
		return shared.NewDomainError(shared.CodeQuotationAlreadyConverted, "Quotation has already been converted")
	default:
		return shared.NewDomainError(shared.CodeQuotationCannotBeModified,
			fmt.Sprintf("Cannot %s a quotation in %s status", action, q.Status))
	}
}

// SubtotalMoney returns the subtotal as Money
func (q *Quotation) SubtotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(q.Subtotal, q.Currency)
	return m
}

// TaxTotalMoney returns the tax total as Money
func (q *Quotation) TaxTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(q.TaxTotal, q.Currency)
	return m
}

// DiscountAmountMoney returns the discount amount as Money
func (q *Quotation) DiscountAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(q.DiscountAmount, q.Currency)
	return m
}

// TotalMoney returns the grand total as Money
func (q *Quotation) TotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(q.Total, q.Currency)
	return m
}

// ItemCount returns the number of line items
func (q *Quotation) ItemCount() int {
	return len(q.Items)
}

// GetItem returns an item by its ID, or nil when absent
func (q *Quotation) GetItem(itemID uuid.UUID) *QuotationItem {
	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			return &q.Items[idx]
		}
	}
	return nil
}

// IsDraft returns true if the quotation is in draft status
func (q *Quotation) IsDraft() bool {
	return q.Status == QuotationStatusDraft
}

// IsAccepted returns true if the quotation has been accepted
func (q *Quotation) IsAccepted() bool {
	return q.Status == QuotationStatusAccepted
}

// IsConverted returns true if the quotation has been converted to an invoice
func (q *Quotation) IsConverted() bool {
	return q.Status == QuotationStatusConverted
}

// CanModify returns true if line items and discount may still change
func (q *Quotation) CanModify() bool {
	return q.IsDraft()
}
