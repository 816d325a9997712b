package handler

import (
	billingapp "github.com/billing/backend/internal/application/billing"
	partnerapp "github.com/billing/backend/internal/application/partner"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService  *partnerapp.CustomerService
	invoiceService   *billingapp.InvoiceService
	quotationService *billingapp.QuotationService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(
	customerService *partnerapp.CustomerService,
	invoiceService *billingapp.InvoiceService,
	quotationService *billingapp.QuotationService,
) *CustomerHandler {
	return &CustomerHandler{
		customerService:  customerService,
		invoiceService:   invoiceService,
		quotationService: quotationService,
	}
}

// RegisterRoutes registers customer routes on the given group
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/partner/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.GetByID)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)

		customers.POST("/:id/activate", h.Activate)
		customers.POST("/:id/deactivate", h.Deactivate)

		customers.GET("/:id/invoices", h.ListInvoices)
		customers.GET("/:id/quotations", h.ListQuotations)
	}
}

// Create creates a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// GetByID retrieves a customer by ID
func (h *CustomerHandler) GetByID(c *gin.Context) {
	customerID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// List retrieves a paginated list of customers
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partnerapp.CustomerListFilter
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

	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// Update partially updates a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req partnerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Delete soft deletes a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), customerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate activates a customer
func (h *CustomerHandler) Activate(c *gin.Context) {
	customerID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.Activate(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Deactivate deactivates a customer
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	customerID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.Deactivate(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// ListInvoices retrieves the customer's invoices
func (h *CustomerHandler) ListInvoices(c *gin.Context) {
	customerID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var filter billingapp.InvoiceListFilter
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

	invoices, total, err := h.invoiceService.ListByCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// ListQuotations retrieves the customer's quotations
func (h *CustomerHandler) ListQuotations(c *gin.Context) {
	customerID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

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

	quotations, total, err := h.quotationService.ListByCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, quotations, total, filter.Page, filter.PageSize)
}
