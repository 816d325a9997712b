package partner

import (
	"strings"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// IdentityType distinguishes how an individual customer is identified
type IdentityType string

const (
	IdentityTypeNRIC     IdentityType = "nric"
	IdentityTypePassport IdentityType = "passport"
)

// Customer represents a billable customer in the partner context.
// It is the aggregate root for customer-related operations.
type Customer struct {
	shared.BaseAggregateRoot
	Name           string         `gorm:"type:varchar(200);not null"`
	CompanyName    string         `gorm:"type:varchar(200)"`
	Status         CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	IdentityType   IdentityType   `gorm:"type:varchar(20)"`
	NRIC           string         `gorm:"type:varchar(20);index"`
	PassportNumber string         `gorm:"type:varchar(20);index"`
	Phone          string         `gorm:"type:varchar(50);index"`
	Email          string         `gorm:"type:varchar(200);index"`
	AddressLine1   string         `gorm:"type:varchar(200)"`
	AddressLine2   string         `gorm:"type:varchar(200)"`
	City           string         `gorm:"type:varchar(100)"`
	StateID        *uuid.UUID     `gorm:"type:uuid;index"`
	PostalCode     string         `gorm:"type:varchar(20)"`
	Country        string         `gorm:"type:varchar(100);default:'Malaysia'"`
	Notes          string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new active customer with required fields
func NewCustomer(name string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Status:            CustomerStatusActive,
		Country:           "Malaysia",
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Rename updates the customer's name
func (c *Customer) Rename(name string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetCompanyName sets the optional company name
func (c *Customer) SetCompanyName(companyName string) error {
	companyName = strings.TrimSpace(companyName)
	if len(companyName) > 200 {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}

	c.CompanyName = companyName
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNRIC records the customer's NRIC and switches the identity type.
// Clears any passport number previously recorded.
func (c *Customer) SetNRIC(raw string) error {
	nric, err := valueobject.NewNRIC(raw)
	if err != nil {
		return err
	}

	c.IdentityType = IdentityTypeNRIC
	c.NRIC = nric.String()
	c.PassportNumber = ""
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetPassportNumber records the customer's passport number and switches the
// identity type. Clears any NRIC previously recorded.
func (c *Customer) SetPassportNumber(raw string) error {
	passport, err := valueobject.NewPassportNumber(raw)
	if err != nil {
		return err
	}

	c.IdentityType = IdentityTypePassport
	c.PassportNumber = passport.String()
	c.NRIC = ""
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetContact sets the customer's contact information. Empty values clear
// the corresponding field.
func (c *Customer) SetContact(phone, email string) error {
	if phone != "" {
		p, err := valueobject.NewPhone(phone)
		if err != nil {
			return err
		}
		phone = p.String()
	}
	if email != "" {
		e, err := valueobject.NewEmail(email)
		if err != nil {
			return err
		}
		email = e.String()
	}

	c.Phone = phone
	c.Email = email
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the customer's billing address. The state reference must
// point at an existing state; the application service resolves it.
func (c *Customer) SetAddress(line1, line2, city string, stateID *uuid.UUID, postalCode, country string) error {
	if line1 != "" && len(line1) > 200 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address line cannot exceed 200 characters")
	}
	if line2 != "" && len(line2) > 200 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address line cannot exceed 200 characters")
	}
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	if postalCode != "" && len(postalCode) > 20 {
		return shared.NewDomainError("INVALID_POSTAL_CODE", "Postal code cannot exceed 20 characters")
	}
	if country != "" && len(country) > 100 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country cannot exceed 100 characters")
	}

	c.AddressLine1 = line1
	c.AddressLine2 = line2
	c.City = city
	c.StateID = stateID
	c.PostalCode = postalCode
	if country != "" {
		c.Country = country
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNotes sets the customer's notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate activates the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}

	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, CustomerStatusInactive, CustomerStatusActive))

	return nil
}

// Deactivate deactivates the customer. Deactivated customers keep their
// documents but cannot receive new quotations or invoices.
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}

	oldStatus := c.Status
	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, CustomerStatusInactive))

	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// HasIdentity returns true if an NRIC or passport number is recorded
func (c *Customer) HasIdentity() bool {
	return c.NRIC != "" || c.PassportNumber != ""
}

// FullAddress returns the formatted address for document rendering
func (c *Customer) FullAddress() string {
	parts := []string{}
	if c.AddressLine1 != "" {
		parts = append(parts, c.AddressLine1)
	}
	if c.AddressLine2 != "" {
		parts = append(parts, c.AddressLine2)
	}
	if c.PostalCode != "" || c.City != "" {
		parts = append(parts, strings.TrimSpace(c.PostalCode+" "+c.City))
	}
	if c.Country != "" {
		parts = append(parts, c.Country)
	}
	return strings.Join(parts, ", ")
}

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}
