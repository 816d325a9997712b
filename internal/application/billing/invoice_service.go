package billing

import (
	"context"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

const defaultPaymentTermDays = 30

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	eventPublisher shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft invoice with a generated document number
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	issuedAt := time.Now()
	if req.IssuedAt != nil {
		issuedAt = *req.IssuedAt
	}
	dueAt := issuedAt.AddDate(0, 0, defaultPaymentTermDays)
	if req.DueAt != nil {
		dueAt = *req.DueAt
	}

	rawNumber, err := s.invoiceRepo.NextInvoiceNumber(ctx, issuedAt)
	if err != nil {
		return nil, err
	}
	number, err := billing.NewInvoiceNumber(rawNumber)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(number, req.CustomerID, issuedAt, dueAt)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if err := addItemToInvoice(invoice, item); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		if err := invoice.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByNumber retrieves an invoice by its document number
func (s *InvoiceService) GetByNumber(ctx context.Context, number string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceListItemResponse, int64, error) {
	domainFilter := buildInvoiceFilter(filter)

	result, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceListItemResponses(result.Items), result.Total, nil
}

// ListByCustomer retrieves invoices for a specific customer
func (s *InvoiceService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter InvoiceListFilter) ([]InvoiceListItemResponse, int64, error) {
	filter.CustomerID = &customerID
	return s.List(ctx, filter)
}

// Update updates a draft invoice's due date and notes
func (s *InvoiceService) Update(ctx context.Context, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if !invoice.CanModify() {
		return nil, shared.NewDomainError(shared.CodeInvoiceCannotBeModified,
			"Invoice can only be modified in draft status")
	}

	if req.DueAt != nil {
		if req.DueAt.Before(invoice.IssuedAt) {
			return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
		}
		invoice.DueAt = *req.DueAt
	}
	if req.Notes != nil {
		if err := invoice.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// AddItem adds a line item to a draft invoice
func (s *InvoiceService) AddItem(ctx context.Context, invoiceID uuid.UUID, req CreateDocumentItemInput) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := addItemToInvoice(invoice, req); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// UpdateItem updates a line item on a draft invoice
func (s *InvoiceService) UpdateItem(ctx context.Context, invoiceID, itemID uuid.UUID, req UpdateDocumentItemRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if err := invoice.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.UnitPrice != nil {
		price, err := valueobject.NewMoney(*req.UnitPrice, invoice.Currency)
		if err != nil {
			return nil, err
		}
		if err := invoice.UpdateItemPrice(itemID, price); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// RemoveItem removes a line item from a draft invoice
func (s *InvoiceService) RemoveItem(ctx context.Context, invoiceID, itemID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkAsSent transitions an invoice from draft to sent
func (s *InvoiceService) MarkAsSent(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, func(invoice *billing.Invoice) error {
		return invoice.MarkAsSent()
	})
}

// MarkAsPaid records payment against an invoice
func (s *InvoiceService) MarkAsPaid(ctx context.Context, invoiceID uuid.UUID, req MarkInvoicePaidRequest) (*InvoiceResponse, error) {
	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	return s.transition(ctx, invoiceID, func(invoice *billing.Invoice) error {
		return invoice.MarkAsPaid(paidAt, req.PaymentMethod, req.PaymentReference)
	})
}

// MarkAsOverdue transitions a sent invoice to overdue
func (s *InvoiceService) MarkAsOverdue(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, func(invoice *billing.Invoice) error {
		return invoice.MarkAsOverdue()
	})
}

// Cancel cancels an invoice
func (s *InvoiceService) Cancel(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, func(invoice *billing.Invoice) error {
		return invoice.Cancel()
	})
}

// Void voids an invoice
func (s *InvoiceService) Void(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, func(invoice *billing.Invoice) error {
		return invoice.Void()
	})
}

// Delete soft deletes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if !invoice.IsDraft() {
		return shared.NewDomainError(shared.CodeInvoiceCannotBeModified,
			"Only draft invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, invoiceID)
}

// MarkOverdueInvoices flips every sent invoice past its due date to overdue.
// Intended for a scheduler caller; returns the number of invoices updated.
func (s *InvoiceService) MarkOverdueInvoices(ctx context.Context, asOf time.Time) (int, error) {
	invoices, err := s.invoiceRepo.FindDueBefore(ctx, asOf)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, invoice := range invoices {
		if err := invoice.MarkAsOverdue(); err != nil {
			continue
		}
		if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
			return updated, err
		}
		s.publishEvents(ctx, invoice)
		updated++
	}
	return updated, nil
}

func (s *InvoiceService) transition(ctx context.Context, invoiceID uuid.UUID, apply func(*billing.Invoice) error) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := apply(invoice); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

func (s *InvoiceService) publishEvents(ctx context.Context, invoice *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	if events := invoice.GetDomainEvents(); len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		invoice.ClearDomainEvents()
	}
}

func addItemToInvoice(invoice *billing.Invoice, input CreateDocumentItemInput) error {
	unitPrice, err := valueobject.NewMoney(input.UnitPrice, invoice.Currency)
	if err != nil {
		return err
	}
	taxRate, err := valueobject.NewTaxRate(input.TaxRate)
	if err != nil {
		return err
	}
	_, err = invoice.AddItem(input.Description, input.Quantity, unitPrice, taxRate)
	return err
}

func buildInvoiceFilter(filter InvoiceListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if len(filter.Statuses) > 0 {
		domainFilter.Filters["statuses"] = filter.Statuses
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	return domainFilter
}
