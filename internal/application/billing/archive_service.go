package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentArchive stores immutable document snapshots in object storage.
// Implemented by the storage infrastructure package.
type DocumentArchive interface {
	// Store uploads a snapshot under the given key
	Store(ctx context.Context, key string, data []byte, contentType string) error

	// DownloadURL returns a presigned URL for a stored snapshot
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// ArchiveResponse describes a stored snapshot and a short-lived link to it
type ArchiveResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

const archiveURLTTL = 15 * time.Minute

// ArchiveService writes point-in-time snapshots of billing documents to
// the archive. Drafts are not archived; a snapshot represents a document
// that has been issued to a customer.
type ArchiveService struct {
	invoiceRepo   billing.InvoiceRepository
	quotationRepo billing.QuotationRepository
	archive       DocumentArchive
}

// NewArchiveService creates a new ArchiveService
func NewArchiveService(invoiceRepo billing.InvoiceRepository, quotationRepo billing.QuotationRepository, archive DocumentArchive) *ArchiveService {
	return &ArchiveService{
		invoiceRepo:   invoiceRepo,
		quotationRepo: quotationRepo,
		archive:       archive,
	}
}

// ArchiveInvoice stores a snapshot of the invoice and returns a presigned
// link to it
func (s *ArchiveService) ArchiveInvoice(ctx context.Context, id uuid.UUID) (*ArchiveResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.IsDraft() {
		return nil, shared.NewDomainError(shared.CodeInvoiceCannotBeModified,
			"Draft invoices cannot be archived")
	}

	key := fmt.Sprintf("invoices/%s/%s.json", invoice.IssuedAt.Format("200601"), invoice.Number)
	return s.store(ctx, key, ToInvoiceResponse(invoice))
}

// ArchiveQuotation stores a snapshot of the quotation and returns a
// presigned link to it
func (s *ArchiveService) ArchiveQuotation(ctx context.Context, id uuid.UUID) (*ArchiveResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.IsDraft() {
		return nil, shared.NewDomainError(shared.CodeQuotationCannotBeModified,
			"Draft quotations cannot be archived")
	}

	key := fmt.Sprintf("quotations/%s/%s.json", quotation.IssuedAt.Format("200601"), quotation.Number)
	return s.store(ctx, key, ToQuotationResponse(quotation))
}

func (s *ArchiveService) store(ctx context.Context, key string, snapshot interface{}) (*ArchiveResponse, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := s.archive.Store(ctx, key, data, "application/json"); err != nil {
		return nil, err
	}

	url, expiresAt, err := s.archive.DownloadURL(ctx, key, archiveURLTTL)
	if err != nil {
		return nil, err
	}

	return &ArchiveResponse{
		Key:       key,
		URL:       url,
		ExpiresAt: expiresAt,
	}, nil
}
