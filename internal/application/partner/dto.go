package partner

import (
	"time"

	"github.com/billing/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name           string     `json:"name" binding:"required,min=1,max=200"`
	CompanyName    string     `json:"company_name" binding:"max=200"`
	NRIC           string     `json:"nric"`
	PassportNumber string     `json:"passport_number"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	AddressLine1   string     `json:"address_line1"`
	AddressLine2   string     `json:"address_line2"`
	City           string     `json:"city"`
	StateID        *uuid.UUID `json:"state_id"`
	PostalCode     string     `json:"postal_code"`
	Country        string     `json:"country"`
	Notes          string     `json:"notes"`
}

// UpdateCustomerRequest represents a partial update; nil fields are left
// untouched.
type UpdateCustomerRequest struct {
	Name           *string    `json:"name"`
	CompanyName    *string    `json:"company_name"`
	NRIC           *string    `json:"nric"`
	PassportNumber *string    `json:"passport_number"`
	Phone          *string    `json:"phone"`
	Email          *string    `json:"email"`
	AddressLine1   *string    `json:"address_line1"`
	AddressLine2   *string    `json:"address_line2"`
	City           *string    `json:"city"`
	StateID        *uuid.UUID `json:"state_id"`
	PostalCode     *string    `json:"postal_code"`
	Country        *string    `json:"country"`
	Notes          *string    `json:"notes"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string                  `form:"search"`
	Status   *partner.CustomerStatus `form:"status"`
	StateID  *uuid.UUID              `form:"state_id"`
	Page     int                     `form:"page" binding:"min=0"`
	PageSize int                     `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string                  `form:"order_by"`
	OrderDir string                  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	CompanyName    string     `json:"company_name,omitempty"`
	Status         string     `json:"status"`
	IdentityType   string     `json:"identity_type,omitempty"`
	NRIC           string     `json:"nric,omitempty"`
	PassportNumber string     `json:"passport_number,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	AddressLine1   string     `json:"address_line1,omitempty"`
	AddressLine2   string     `json:"address_line2,omitempty"`
	City           string     `json:"city,omitempty"`
	StateID        *uuid.UUID `json:"state_id,omitempty"`
	PostalCode     string     `json:"postal_code,omitempty"`
	Country        string     `json:"country"`
	Notes          string     `json:"notes,omitempty"`
	Version        int        `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToCustomerResponse converts a Customer aggregate to its API representation
func ToCustomerResponse(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             customer.ID,
		Name:           customer.Name,
		CompanyName:    customer.CompanyName,
		Status:         string(customer.Status),
		IdentityType:   string(customer.IdentityType),
		NRIC:           customer.NRIC,
		PassportNumber: customer.PassportNumber,
		Phone:          customer.Phone,
		Email:          customer.Email,
		AddressLine1:   customer.AddressLine1,
		AddressLine2:   customer.AddressLine2,
		City:           customer.City,
		StateID:        customer.StateID,
		PostalCode:     customer.PostalCode,
		Country:        customer.Country,
		Notes:          customer.Notes,
		Version:        customer.Version,
		CreatedAt:      customer.CreatedAt,
		UpdatedAt:      customer.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, 0, len(customers))
	for idx := range customers {
		responses = append(responses, ToCustomerResponse(&customers[idx]))
	}
	return responses
}
