package billing

import (
	"context"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

const defaultValidityDays = 30

// QuotationService handles quotation business operations, including the
// conversion of an accepted quotation into a draft invoice.
type QuotationService struct {
	quotationRepo  billing.QuotationRepository
	invoiceRepo    billing.InvoiceRepository
	conversionRepo billing.ConversionRepository
	eventPublisher shared.EventPublisher
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotationRepo billing.QuotationRepository,
	invoiceRepo billing.InvoiceRepository,
	conversionRepo billing.ConversionRepository,
) *QuotationService {
	return &QuotationService{
		quotationRepo:  quotationRepo,
		invoiceRepo:    invoiceRepo,
		conversionRepo: conversionRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *QuotationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft quotation with a generated document number
func (s *QuotationService) Create(ctx context.Context, req CreateQuotationRequest) (*QuotationResponse, error) {
	issuedAt := time.Now()
	if req.IssuedAt != nil {
		issuedAt = *req.IssuedAt
	}
	validUntil := issuedAt.AddDate(0, 0, defaultValidityDays)
	if req.ValidUntil != nil {
		validUntil = *req.ValidUntil
	}

	rawNumber, err := s.quotationRepo.NextQuotationNumber(ctx, issuedAt)
	if err != nil {
		return nil, err
	}
	number, err := billing.NewQuotationNumber(rawNumber)
	if err != nil {
		return nil, err
	}

	quotation, err := billing.NewQuotation(number, req.CustomerID, issuedAt, validUntil)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if err := addItemToQuotation(quotation, item); err != nil {
			return nil, err
		}
	}

	if req.DiscountRate != nil {
		discount, err := valueobject.NewDiscountRate(*req.DiscountRate)
		if err != nil {
			return nil, err
		}
		if err := quotation.ApplyDiscount(discount); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := quotation.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}
	if req.TermsAndConditions != "" {
		if err := quotation.SetTermsAndConditions(req.TermsAndConditions); err != nil {
			return nil, err
		}
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}
	s.publishQuotationEvents(ctx, quotation)

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// GetByID retrieves a quotation by ID
func (s *QuotationService) GetByID(ctx context.Context, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// GetByNumber retrieves a quotation by its document number
func (s *QuotationService) GetByNumber(ctx context.Context, number string) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// List retrieves quotations with filtering and pagination
func (s *QuotationService) List(ctx context.Context, filter QuotationListFilter) ([]QuotationListItemResponse, int64, error) {
	domainFilter := buildQuotationFilter(filter)

	result, err := s.quotationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToQuotationListItemResponses(result.Items), result.Total, nil
}

// ListByCustomer retrieves quotations for a specific customer
func (s *QuotationService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter QuotationListFilter) ([]QuotationListItemResponse, int64, error) {
	filter.CustomerID = &customerID
	return s.List(ctx, filter)
}

// Update updates a draft quotation
func (s *QuotationService) Update(ctx context.Context, quotationID uuid.UUID, req UpdateQuotationRequest) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if !quotation.CanModify() {
		return nil, shared.NewDomainError(shared.CodeQuotationCannotBeModified,
			"Quotation can only be modified in draft status")
	}

	if req.ValidUntil != nil {
		if req.ValidUntil.Before(quotation.IssuedAt) {
			return nil, shared.NewDomainError("INVALID_VALIDITY", "Validity date cannot be before issue date")
		}
		quotation.ValidUntil = *req.ValidUntil
	}
	if req.DiscountRate != nil {
		discount, err := valueobject.NewDiscountRate(*req.DiscountRate)
		if err != nil {
			return nil, err
		}
		if err := quotation.ApplyDiscount(discount); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := quotation.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}
	if req.TermsAndConditions != nil {
		if err := quotation.SetTermsAndConditions(*req.TermsAndConditions); err != nil {
			return nil, err
		}
	}

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// AddItem adds a line item to a draft quotation
func (s *QuotationService) AddItem(ctx context.Context, quotationID uuid.UUID, req CreateDocumentItemInput) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if err := addItemToQuotation(quotation, req); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// UpdateItem updates a line item on a draft quotation
func (s *QuotationService) UpdateItem(ctx context.Context, quotationID, itemID uuid.UUID, req UpdateDocumentItemRequest) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if err := quotation.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.UnitPrice != nil {
		price, err := valueobject.NewMoney(*req.UnitPrice, quotation.Currency)
		if err != nil {
			return nil, err
		}
		if err := quotation.UpdateItemPrice(itemID, price); err != nil {
			return nil, err
		}
	}

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// RemoveItem removes a line item from a draft quotation
func (s *QuotationService) RemoveItem(ctx context.Context, quotationID, itemID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if err := quotation.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// Send transitions a quotation from draft to sent
func (s *QuotationService) Send(ctx context.Context, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, quotationID, func(quotation *billing.Quotation) error {
		return quotation.Send()
	})
}

// Accept marks a quotation as accepted by the customer
func (s *QuotationService) Accept(ctx context.Context, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, quotationID, func(quotation *billing.Quotation) error {
		return quotation.Accept(time.Now())
	})
}

// Decline marks a quotation as declined by the customer
func (s *QuotationService) Decline(ctx context.Context, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, quotationID, func(quotation *billing.Quotation) error {
		return quotation.Decline(time.Now())
	})
}

// MarkAsExpired transitions a quotation to expired
func (s *QuotationService) MarkAsExpired(ctx context.Context, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, quotationID, func(quotation *billing.Quotation) error {
		return quotation.MarkAsExpired()
	})
}

// Delete soft deletes a draft quotation
func (s *QuotationService) Delete(ctx context.Context, quotationID uuid.UUID) error {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return err
	}
	if !quotation.IsDraft() {
		return shared.NewDomainError(shared.CodeQuotationCannotBeModified,
			"Only draft quotations can be deleted")
	}
	return s.quotationRepo.Delete(ctx, quotationID)
}

// ExpireQuotations flips every open quotation past its validity date to
// expired. Intended for a scheduler caller; returns the number updated.
func (s *QuotationService) ExpireQuotations(ctx context.Context, asOf time.Time) (int, error) {
	quotations, err := s.quotationRepo.FindExpiredBefore(ctx, asOf)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, quotation := range quotations {
		if err := quotation.MarkAsExpired(); err != nil {
			continue
		}
		if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
			return updated, err
		}
		s.publishQuotationEvents(ctx, quotation)
		updated++
	}
	return updated, nil
}

// ConvertToInvoice converts an accepted quotation into a new draft invoice.
// The invoice copies each item's description, quantity, unit price and tax
// rate; the document-level discount is not carried over. The invoice insert
// and the quotation state change commit in a single transaction.
func (s *QuotationService) ConvertToInvoice(ctx context.Context, quotationID uuid.UUID, req ConvertQuotationRequest) (*InvoiceResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	// Checked again inside the aggregate; the early guard keeps an
	// unconvertible quotation from consuming an invoice number.
	if quotation.IsConverted() {
		return nil, shared.NewDomainError(shared.CodeQuotationAlreadyConverted, "Quotation has already been converted")
	}
	if !quotation.IsAccepted() {
		return nil, shared.NewDomainError(shared.CodeQuotationCannotBeModified,
			"Only accepted quotations can be converted")
	}

	convertedAt := time.Now()
	dueAt := convertedAt.AddDate(0, 0, defaultPaymentTermDays)
	if req.DueAt != nil {
		dueAt = *req.DueAt
	}

	rawNumber, err := s.invoiceRepo.NextInvoiceNumber(ctx, convertedAt)
	if err != nil {
		return nil, err
	}
	number, err := billing.NewInvoiceNumber(rawNumber)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(number, quotation.CustomerID, convertedAt, dueAt)
	if err != nil {
		return nil, err
	}
	for idx := range quotation.Items {
		item := &quotation.Items[idx]
		unitPrice, err := valueobject.NewMoney(item.UnitPrice, quotation.Currency)
		if err != nil {
			return nil, err
		}
		taxRate, err := valueobject.NewTaxRate(item.TaxRate)
		if err != nil {
			return nil, err
		}
		if _, err := invoice.AddItem(item.Description, item.Quantity, unitPrice, taxRate); err != nil {
			return nil, err
		}
	}

	if err := quotation.ConvertToInvoice(invoice.ID, convertedAt); err != nil {
		return nil, err
	}

	if err := s.conversionRepo.SaveConversion(ctx, quotation, invoice); err != nil {
		return nil, err
	}
	s.publishQuotationEvents(ctx, quotation)
	s.publishInvoiceEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

func (s *QuotationService) transition(ctx context.Context, quotationID uuid.UUID, apply func(*billing.Quotation) error) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if err := apply(quotation); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	s.publishQuotationEvents(ctx, quotation)

	response := ToQuotationResponse(quotation)
	return &response, nil
}

func (s *QuotationService) publishQuotationEvents(ctx context.Context, quotation *billing.Quotation) {
	if s.eventPublisher == nil {
		return
	}
	if events := quotation.GetDomainEvents(); len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		quotation.ClearDomainEvents()
	}
}

func (s *QuotationService) publishInvoiceEvents(ctx context.Context, invoice *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	if events := invoice.GetDomainEvents(); len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		invoice.ClearDomainEvents()
	}
}

func addItemToQuotation(quotation *billing.Quotation, input CreateDocumentItemInput) error {
	unitPrice, err := valueobject.NewMoney(input.UnitPrice, quotation.Currency)
	if err != nil {
		return err
	}
	taxRate, err := valueobject.NewTaxRate(input.TaxRate)
	if err != nil {
		return err
	}
	_, err = quotation.AddItem(input.Description, input.Quantity, unitPrice, taxRate)
	return err
}

func buildQuotationFilter(filter QuotationListFilter) shared.Filter {
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
