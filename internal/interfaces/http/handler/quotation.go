package handler

import (
	billingapp "github.com/billing/backend/internal/application/billing"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// QuotationHandler handles quotation API endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *billingapp.QuotationService
	archiveService   *billingapp.ArchiveService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *billingapp.QuotationService, archiveService *billingapp.ArchiveService) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		archiveService:   archiveService,
	}
}

// RegisterRoutes registers quotation routes on the given group
func (h *QuotationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotations := rg.Group("/billing/quotations")
	{
		quotations.POST("", h.Create)
		quotations.GET("", h.List)
		quotations.GET("/:id", h.GetByID)
		quotations.GET("/number/:number", h.GetByNumber)
		quotations.PUT("/:id", h.Update)
		quotations.DELETE("/:id", h.Delete)

		quotations.POST("/:id/items", h.AddItem)
		quotations.PUT("/:id/items/:itemId", h.UpdateItem)
		quotations.DELETE("/:id/items/:itemId", h.RemoveItem)

		quotations.POST("/:id/send", h.Send)
		quotations.POST("/:id/accept", h.Accept)
		quotations.POST("/:id/decline", h.Decline)
		quotations.POST("/:id/expire", h.MarkExpired)
		quotations.POST("/:id/convert", h.Convert)
		quotations.POST("/:id/archive", h.Archive)
	}
}

// Create creates a new draft quotation
func (h *QuotationHandler) Create(c *gin.Context) {
	var req billingapp.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, quotation)
}

// GetByID retrieves a quotation by ID
func (h *QuotationHandler) GetByID(c *gin.Context) {
	quotationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetByID(c.Request.Context(), quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// GetByNumber retrieves a quotation by its document number
func (h *QuotationHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Quotation number is required")
		return
	}

	quotation, err := h.quotationService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// List retrieves a paginated list of quotations
func (h *QuotationHandler) List(c *gin.Context) {
	var filter billingapp.QuotationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	quotations, total, err := h.quotationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, quotations, total, filter.Page, filter.PageSize)
}

// Update updates a draft quotation
func (h *QuotationHandler) Update(c *gin.Context) {
	quotationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req billingapp.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	quotation, err := h.quotationService.Update(c.Request.Context(), quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Delete soft deletes a draft quotation
func (h *QuotationHandler) Delete(c *gin.Context) {
	quotationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), quotationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddItem adds a line item to a draft quotation
func (h *QuotationHandler) AddItem(c *gin.Context) {
	quotationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req billingapp.CreateDocumentItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	quotation, err := h.quotationService.AddItem(c.Request.Context(), quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// UpdateItem updates a line item on a draft quotation
func (h *QuotationHandler) UpdateItem(c *gin.Context) {
	quotationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseUUIDParam(c, "itemId")
	if !ok {
		return
	}

	var req billingapp.UpdateDocumentItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	quotation, err := h.quotationService.UpdateItem(c.Request.Context(), quotationID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// RemoveItem removes a line item from a draft quotation
func (h *QuotationHandler) RemoveItem(c *gin.Context) {
	quotationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseUUIDParam(c, "itemId")
	if !ok {
		return
	}

	quotation, err := h.quotationService.RemoveItem(c.Request.Context(), quotationID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Send transitions a quotation from draft to sent
func (h *QuotationHandler) Send(c *gin.Context) {
	quotationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	quotation, err := h.quotationService.Send(c.Request.Context(), quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Accept marks a quotation as accepted by the customer
func (h *QuotationHandler) Accept(c *gin.Context) {
	quotationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	quotation, err := h.quotationService.Accept(c.Request.Context(), quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Decline marks a quotation as declined by the customer
func (h *QuotationHandler) Decline(c *gin.Context) {
	quotationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	quotation, err := h.quotationService.Decline(c.Request.Context(), quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// MarkExpired transitions a quotation to expired
func (h *QuotationHandler) MarkExpired(c *gin.Context) {
	quotationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	quotation, err := h.quotationService.MarkAsExpired(c.Request.Context(), quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Convert converts an accepted quotation into a new draft invoice.
// The response body is the created invoice.
func (h *QuotationHandler) Convert(c *gin.Context) {
	quotationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	// The body is optional; an empty request converts with the default
	// payment term.
	var req billingapp.ConvertQuotationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	invoice, err := h.quotationService.ConvertToInvoice(c.Request.Context(), quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Archive stores a snapshot of the quotation and returns a download link
func (h *QuotationHandler) Archive(c *gin.Context) {
	quotationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.archiveService.ArchiveQuotation(c.Request.Context(), quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
