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

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
	InvoiceStatusVoid      InvoiceStatus = "VOID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled, InvoiceStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses that permit no further transition
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled || s == InvoiceStatusVoid
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent || target == InvoiceStatusPaid ||
			target == InvoiceStatusCancelled || target == InvoiceStatusVoid
	case InvoiceStatusSent:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue ||
			target == InvoiceStatusCancelled || target == InvoiceStatusVoid
	case InvoiceStatusOverdue:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled ||
			target == InvoiceStatusVoid
	case InvoiceStatusPaid, InvoiceStatusCancelled, InvoiceStatusVoid:
		return false // Terminal states
	}
	return false
}

// InvoiceItem represents a line item on an invoice. Items are owned
// exclusively by their invoice and have no independent lifecycle.
type InvoiceItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceID    uuid.UUID `gorm:"type:uuid;not null;index"`
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
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem creates a new invoice line item and computes its derived
// amounts: lineSubtotal = quantity * unitPrice (exact decimal multiply),
// lineTax = round(lineSubtotal * taxRate/100, 2, half-up).
func NewInvoiceItem(invoiceID uuid.UUID, description string, quantity int64, unitPrice valueobject.Money, taxRate valueobject.TaxRate) (*InvoiceItem, error) {
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
	item := &InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
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

// compute derives the line amounts from quantity, unit price and tax rate.
// Only the tax is rounded; the subtotal keeps full precision until the
// document-level rollup.
func (i *InvoiceItem) compute() {
	i.LineSubtotal = i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
	i.LineTax = i.LineSubtotal.Mul(i.TaxRate).Div(oneHundred).Round(2)
	i.LineTotal = i.LineSubtotal.Add(i.LineTax)
}

// UpdateQuantity updates the quantity and recomputes the line amounts
func (i *InvoiceItem) UpdateQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_ITEM", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.compute()
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateUnitPrice updates the unit price and recomputes the line amounts
func (i *InvoiceItem) UpdateUnitPrice(unitPrice valueobject.Money) error {
	i.UnitPrice = unitPrice.Amount()
	i.compute()
	i.UpdatedAt = time.Now()
	return nil
}

// UnitPriceMoney returns the unit price as a Money value object
func (i *InvoiceItem) UnitPriceMoney(currency valueobject.Currency) valueobject.Money {
	m, _ := valueobject.NewMoney(i.UnitPrice, currency)
	return m
}

var oneHundred = decimal.NewFromInt(100)

// Invoice is the aggregate root for a customer invoice. It owns its line
// items, keeps the derived totals consistent with them, and guards every
// status transition.
type Invoice struct {
	shared.BaseAggregateRoot
	Number           string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	Status           InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Currency         valueobject.Currency `gorm:"type:varchar(3);not null;default:'MYR'"`
	IssuedAt         time.Time     `gorm:"not null"`
	DueAt            time.Time     `gorm:"not null"`
	PaidAt           *time.Time
	PaymentMethod    string `gorm:"type:varchar(100)"`
	PaymentReference string `gorm:"type:varchar(200)"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxTotal         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes            string          `gorm:"type:text"`
	Items            []InvoiceItem   `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new draft invoice
func NewInvoice(number InvoiceNumber, customerID uuid.UUID, issuedAt, dueAt time.Time) (*Invoice, error) {
	if number.IsZero() {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if dueAt.Before(issuedAt) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number.String(),
		CustomerID:        customerID,
		Status:            InvoiceStatusDraft,
		Currency:          valueobject.DefaultCurrency,
		IssuedAt:          issuedAt,
		DueAt:             dueAt,
		Subtotal:          decimal.Zero,
		TaxTotal:          decimal.Zero,
		Total:             decimal.Zero,
		Items:             make([]InvoiceItem, 0),
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// AddItem adds a new line item. Only allowed while the invoice is a draft;
// the totals are recalculated before the call returns.
func (inv *Invoice) AddItem(description string, quantity int64, unitPrice valueobject.Money, taxRate valueobject.TaxRate) (*InvoiceItem, error) {
	if err := inv.ensureModifiable(); err != nil {
		return nil, err
	}
	if unitPrice.Currency() != inv.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Item price is %s but invoice is %s", unitPrice.Currency(), inv.Currency))
	}

	item, err := NewInvoiceItem(inv.ID, description, quantity, unitPrice, taxRate)
	if err != nil {
		return nil, err
	}
	item.Position = len(inv.Items)

	inv.Items = append(inv.Items, *item)
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item
func (inv *Invoice) UpdateItemQuantity(itemID uuid.UUID, quantity int64) error {
	if err := inv.ensureModifiable(); err != nil {
		return err
	}

	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			if err := inv.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
}

// UpdateItemPrice updates the unit price of an existing item
func (inv *Invoice) UpdateItemPrice(itemID uuid.UUID, unitPrice valueobject.Money) error {
	if err := inv.ensureModifiable(); err != nil {
		return err
	}
	if unitPrice.Currency() != inv.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Item price is %s but invoice is %s", unitPrice.Currency(), inv.Currency))
	}

	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			if err := inv.Items[idx].UpdateUnitPrice(unitPrice); err != nil {
				return err
			}
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
}

// RemoveItem removes an item from the invoice
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if err := inv.ensureModifiable(); err != nil {
		return err
	}

	for idx, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			for i := range inv.Items {
				inv.Items[i].Position = i
			}
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
}

// SetNotes sets the invoice notes. Allowed in any non-terminal state since
// notes are an audit field, not a billed amount.
func (inv *Invoice) SetNotes(notes string) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvoiceCannotBeModified,
			fmt.Sprintf("Cannot modify invoice in %s status", inv.Status))
	}
	inv.Notes = notes
	inv.UpdatedAt = time.Now()
	return nil
}

// MarkAsSent transitions the invoice from DRAFT to SENT
func (inv *Invoice) MarkAsSent() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusSent) {
		return shared.NewDomainError(shared.CodeInvoiceCannotBeModified,
			fmt.Sprintf("Cannot send invoice in %s status", inv.Status))
	}

	inv.Status = InvoiceStatusSent
	inv.UpdatedAt = time.Now()

	inv.AddDomainEvent(NewInvoiceSentEvent(inv))

	return nil
}

// MarkAsPaid records payment and transitions to PAID. Permitted from any
// non-terminal state; an already paid invoice fails with
// INVOICE_ALREADY_PAID and is left untouched.
func (inv *Invoice) MarkAsPaid(paidAt time.Time, paymentMethod, paymentReference string) error {
	if inv.Status == InvoiceStatusPaid {
		return shared.NewDomainError(shared.CodeInvoiceAlreadyPaid, "Invoice has already been paid")
	}
	if !inv.Status.CanTransitionTo(InvoiceStatusPaid) {
		return shared.NewDomainError(shared.CodeInvoiceCannotBeModified,
			fmt.Sprintf("Cannot mark invoice as paid in %s status", inv.Status))
	}

	inv.Status = InvoiceStatusPaid
	inv.PaidAt = &paidAt
	inv.PaymentMethod = paymentMethod
	inv.PaymentReference = paymentReference
	inv.UpdatedAt = time.Now()

	inv.AddDomainEvent(NewInvoicePaidEvent(inv))

	return nil
}

// MarkAsOverdue transitions SENT to OVERDUE. Driven by an external
// scheduler comparing DueAt against the current time.
func (inv *Invoice) MarkAsOverdue() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusOverdue) {
		return shared.NewDomainError(shared.CodeInvoiceCannotBeModified,
			fmt.Sprintf("Cannot mark invoice as overdue in %s status", inv.Status))
	}

	inv.Status = InvoiceStatusOverdue
	inv.UpdatedAt = time.Now()

	inv.AddDomainEvent(NewInvoiceOverdueEvent(inv))

	return nil
}

// Cancel cancels the invoice. A paid invoice cannot be cancelled.
func (inv *Invoice) Cancel() error {
	if inv.Status == InvoiceStatusPaid {
		return shared.NewDomainError(shared.CodeInvoiceAlreadyPaid, "Cannot cancel a paid invoice")
	}
	if !inv.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewDomainError(shared.CodeInvoiceCannotBeModified,
			fmt.Sprintf("Cannot cancel invoice in %s status", inv.Status))
	}

	inv.Status = InvoiceStatusCancelled
	inv.UpdatedAt = time.Now()

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))

	return nil
}

// Void voids the invoice as an administrative override. A paid invoice
// cannot be voided.
func (inv *Invoice) Void() error {
	if inv.Status == InvoiceStatusPaid {
		return shared.NewDomainError(shared.CodeInvoiceAlreadyPaid, "Cannot void a paid invoice")
	}
	if inv.Status == InvoiceStatusVoid {
		return shared.NewDomainError(shared.CodeInvoiceCannotBeModified, "Invoice is already void")
	}

	inv.Status = InvoiceStatusVoid
	inv.UpdatedAt = time.Now()

	inv.AddDomainEvent(NewInvoiceVoidedEvent(inv))

	return nil
}

// recalculateTotals rederives the aggregate monetary fields from the
// current items. Idempotent; total == subtotal + taxTotal always holds
// after it runs.
func (inv *Invoice) recalculateTotals() {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.LineSubtotal)
		taxTotal = taxTotal.Add(item.LineTax)
	}
	inv.Subtotal = subtotal.Round(2)
	inv.TaxTotal = taxTotal
	inv.Total = inv.Subtotal.Add(inv.TaxTotal)
}

func (inv *Invoice) ensureModifiable() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError(shared.CodeInvoiceCannotBeModified,
			fmt.Sprintf("Cannot modify items of an invoice in %s status", inv.Status))
	}
	return nil
}

// SubtotalMoney returns the subtotal as Money
func (inv *Invoice) SubtotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.Subtotal, inv.Currency)
	return m
}

// TaxTotalMoney returns the tax total as Money
func (inv *Invoice) TaxTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.TaxTotal, inv.Currency)
	return m
}

// TotalMoney returns the grand total as Money
func (inv *Invoice) TotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.Total, inv.Currency)
	return m
}

// ItemCount returns the number of line items
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}

// GetItem returns an item by its ID, or nil when absent
func (inv *Invoice) GetItem(itemID uuid.UUID) *InvoiceItem {
	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			return &inv.Items[idx]
		}
	}
	return nil
}

// IsDraft returns true if the invoice is in draft status
func (inv *Invoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// IsPaid returns true if the invoice has been paid
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// IsOverdue returns true if the invoice is overdue
func (inv *Invoice) IsOverdue() bool {
	return inv.Status == InvoiceStatusOverdue
}

// CanModify returns true if line items may still change
func (inv *Invoice) CanModify() bool {
	return inv.IsDraft()
}
