package billing

import (
	"context"
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestQuotation(t *testing.T, status billing.QuotationStatus) *billing.Quotation {
	t.Helper()
	number, err := billing.NewQuotationNumber("QUO-202608-0001")
	require.NoError(t, err)
	issuedAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	quotation, err := billing.NewQuotation(number, uuid.New(), issuedAt, issuedAt.AddDate(0, 2, 0))
	require.NoError(t, err)

	rate, err := valueobject.NewTaxRateFromString("10")
	require.NoError(t, err)
	_, err = quotation.AddItem("Consulting", 2, valueobject.MustMoneyMYR("100.00"), rate)
	require.NoError(t, err)
	_, err = quotation.AddItem("Materials", 1, valueobject.MustMoneyMYR("50.00"), valueobject.ZeroTaxRate())
	require.NoError(t, err)

	discount, err := valueobject.NewDiscountRateFromString("10")
	require.NoError(t, err)
	require.NoError(t, quotation.ApplyDiscount(discount))

	switch status {
	case billing.QuotationStatusSent:
		require.NoError(t, quotation.Send())
	case billing.QuotationStatusAccepted:
		require.NoError(t, quotation.Send())
		require.NoError(t, quotation.Accept(issuedAt.AddDate(0, 0, 5)))
	case billing.QuotationStatusDeclined:
		require.NoError(t, quotation.Decline(issuedAt.AddDate(0, 0, 5)))
	case billing.QuotationStatusConverted:
		require.NoError(t, quotation.Accept(issuedAt.AddDate(0, 0, 5)))
		require.NoError(t, quotation.ConvertToInvoice(uuid.New(), issuedAt.AddDate(0, 0, 6)))
	}
	quotation.ClearDomainEvents()
	return quotation
}

func newQuotationService(quotationRepo *MockQuotationRepository, invoiceRepo *MockInvoiceRepository, conversionRepo *MockConversionRepository) *QuotationService {
	return NewQuotationService(quotationRepo, invoiceRepo, conversionRepo)
}

func TestQuotationService_Create(t *testing.T) {
	t.Run("generates number and saves quotation with discount", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		service := newQuotationService(quotationRepo, new(MockInvoiceRepository), new(MockConversionRepository))

		quotationRepo.On("NextQuotationNumber", mock.Anything, mock.Anything).Return("QUO-202608-0001", nil)
		quotationRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.Quotation")).Return(nil)

		discount := decimal.NewFromInt(10)
		resp, err := service.Create(context.Background(), CreateQuotationRequest{
			CustomerID: uuid.New(),
			Items: []CreateDocumentItemInput{
				{Description: "Consulting", Quantity: 2, UnitPrice: decimal.NewFromInt(100), TaxRate: decimal.NewFromInt(10)},
				{Description: "Materials", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
			},
			DiscountRate: &discount,
		})

		require.NoError(t, err)
		assert.Equal(t, "QUO-202608-0001", resp.Number)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, "250", resp.Subtotal.String())
		assert.Equal(t, "20", resp.TaxTotal.String())
		assert.Equal(t, "25", resp.DiscountAmount.String())
		assert.Equal(t, "245", resp.Total.String())
		quotationRepo.AssertExpectations(t)
	})

	t.Run("rejects out-of-range discount", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		service := newQuotationService(quotationRepo, new(MockInvoiceRepository), new(MockConversionRepository))

		quotationRepo.On("NextQuotationNumber", mock.Anything, mock.Anything).Return("QUO-202608-0001", nil)

		discount := decimal.NewFromInt(120)
		_, err := service.Create(context.Background(), CreateQuotationRequest{
			CustomerID:   uuid.New(),
			DiscountRate: &discount,
		})
		assert.True(t, shared.IsDomainError(err, "INVALID_DISCOUNT_RATE"))
		quotationRepo.AssertNotCalled(t, "Save")
	})
}

func TestQuotationService_Accept(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	service := newQuotationService(quotationRepo, new(MockInvoiceRepository), new(MockConversionRepository))
	quotation := newTestQuotation(t, billing.QuotationStatusSent)

	quotationRepo.On("FindByID", mock.Anything, quotation.ID).Return(quotation, nil)
	quotationRepo.On("SaveWithLock", mock.Anything, quotation).Return(nil)

	resp, err := service.Accept(context.Background(), quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACCEPTED", resp.Status)
	assert.NotNil(t, resp.AcceptedAt)
}

func TestQuotationService_ConvertToInvoice(t *testing.T) {
	t.Run("converts accepted quotation atomically", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		invoiceRepo := new(MockInvoiceRepository)
		conversionRepo := new(MockConversionRepository)
		service := newQuotationService(quotationRepo, invoiceRepo, conversionRepo)
		quotation := newTestQuotation(t, billing.QuotationStatusAccepted)

		quotationRepo.On("FindByID", mock.Anything, quotation.ID).Return(quotation, nil)
		invoiceRepo.On("NextInvoiceNumber", mock.Anything, mock.Anything).Return("INV-202608-0005", nil)
		conversionRepo.On("SaveConversion", mock.Anything, quotation, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		resp, err := service.ConvertToInvoice(context.Background(), quotation.ID, ConvertQuotationRequest{})
		require.NoError(t, err)

		// Invoice copies the items; the quotation-level discount is not carried
		assert.Equal(t, "INV-202608-0005", resp.Number)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Len(t, resp.Items, 2)
		assert.Equal(t, "250", resp.Subtotal.String())
		assert.Equal(t, "20", resp.TaxTotal.String())
		assert.Equal(t, "270", resp.Total.String())

		assert.Equal(t, billing.QuotationStatusConverted, quotation.Status)
		require.NotNil(t, quotation.ConvertedInvoiceID)
		assert.Equal(t, resp.ID, *quotation.ConvertedInvoiceID)
		conversionRepo.AssertExpectations(t)
		quotationRepo.AssertNotCalled(t, "SaveWithLock")
	})

	t.Run("rejects unaccepted quotation before consuming a number", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := newQuotationService(quotationRepo, invoiceRepo, new(MockConversionRepository))
		quotation := newTestQuotation(t, billing.QuotationStatusSent)

		quotationRepo.On("FindByID", mock.Anything, quotation.ID).Return(quotation, nil)

		_, err := service.ConvertToInvoice(context.Background(), quotation.ID, ConvertQuotationRequest{})
		assert.True(t, shared.IsDomainError(err, shared.CodeQuotationCannotBeModified))
		invoiceRepo.AssertNotCalled(t, "NextInvoiceNumber")
	})

	t.Run("rejects already converted quotation", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		service := newQuotationService(quotationRepo, new(MockInvoiceRepository), new(MockConversionRepository))
		quotation := newTestQuotation(t, billing.QuotationStatusConverted)

		quotationRepo.On("FindByID", mock.Anything, quotation.ID).Return(quotation, nil)

		_, err := service.ConvertToInvoice(context.Background(), quotation.ID, ConvertQuotationRequest{})
		assert.True(t, shared.IsDomainError(err, shared.CodeQuotationAlreadyConverted))
	})

	t.Run("propagates transactional failure", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		invoiceRepo := new(MockInvoiceRepository)
		conversionRepo := new(MockConversionRepository)
		service := newQuotationService(quotationRepo, invoiceRepo, conversionRepo)
		quotation := newTestQuotation(t, billing.QuotationStatusAccepted)

		quotationRepo.On("FindByID", mock.Anything, quotation.ID).Return(quotation, nil)
		invoiceRepo.On("NextInvoiceNumber", mock.Anything, mock.Anything).Return("INV-202608-0005", nil)
		conversionRepo.On("SaveConversion", mock.Anything, quotation, mock.AnythingOfType("*billing.Invoice")).
			Return(shared.ErrConcurrencyConflict)

		_, err := service.ConvertToInvoice(context.Background(), quotation.ID, ConvertQuotationRequest{})
		assert.True(t, shared.IsDomainError(err, "CONCURRENCY_CONFLICT"))
	})
}

func TestQuotationService_Delete(t *testing.T) {
	t.Run("refuses to delete sent quotation", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		service := newQuotationService(quotationRepo, new(MockInvoiceRepository), new(MockConversionRepository))
		quotation := newTestQuotation(t, billing.QuotationStatusSent)

		quotationRepo.On("FindByID", mock.Anything, quotation.ID).Return(quotation, nil)

		err := service.Delete(context.Background(), quotation.ID)
		assert.True(t, shared.IsDomainError(err, shared.CodeQuotationCannotBeModified))
		quotationRepo.AssertNotCalled(t, "Delete")
	})
}

func TestQuotationService_ExpireQuotations(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	service := newQuotationService(quotationRepo, new(MockInvoiceRepository), new(MockConversionRepository))

	open := newTestQuotation(t, billing.QuotationStatusSent)
	accepted := newTestQuotation(t, billing.QuotationStatusAccepted)
	asOf := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	quotationRepo.On("FindExpiredBefore", mock.Anything, asOf).Return([]*billing.Quotation{open, accepted}, nil)
	quotationRepo.On("SaveWithLock", mock.Anything, open).Return(nil)

	updated, err := service.ExpireQuotations(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, billing.QuotationStatusExpired, open.Status)
	assert.Equal(t, billing.QuotationStatusAccepted, accepted.Status)
	quotationRepo.AssertExpectations(t)
}
