package partner

import (
	"context"
	"errors"

	"github.com/billing/backend/internal/domain/masterdata"
	"github.com/billing/backend/internal/domain/partner"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerService handles customer business operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	stateRepo      masterdata.StateRepository
	eventPublisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, stateRepo masterdata.StateRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		stateRepo:    stateRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.Name)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != "" {
		if err := customer.SetCompanyName(req.CompanyName); err != nil {
			return nil, err
		}
	}
	if req.NRIC != "" {
		if err := s.ensureNRICAvailable(ctx, req.NRIC, customer.ID); err != nil {
			return nil, err
		}
		if err := customer.SetNRIC(req.NRIC); err != nil {
			return nil, err
		}
	} else if req.PassportNumber != "" {
		if err := customer.SetPassportNumber(req.PassportNumber); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" || req.Email != "" {
		if err := s.ensureEmailAvailable(ctx, req.Email, customer.ID); err != nil {
			return nil, err
		}
		if err := customer.SetContact(req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.AddressLine1 != "" || req.City != "" || req.StateID != nil || req.PostalCode != "" {
		if err := s.resolveState(ctx, req.StateID); err != nil {
			return nil, err
		}
		if err := customer.SetAddress(req.AddressLine1, req.AddressLine2, req.City, req.StateID, req.PostalCode, req.Country); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		customer.SetNotes(req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
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
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.StateID != nil {
		domainFilter.Filters["state_id"] = *filter.StateID
	}

	result, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(result.Items), result.Total, nil
}

// Update partially updates a customer; nil request fields are left untouched
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := customer.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.CompanyName != nil {
		if err := customer.SetCompanyName(*req.CompanyName); err != nil {
			return nil, err
		}
	}
	if req.NRIC != nil && *req.NRIC != "" {
		if err := s.ensureNRICAvailable(ctx, *req.NRIC, customer.ID); err != nil {
			return nil, err
		}
		if err := customer.SetNRIC(*req.NRIC); err != nil {
			return nil, err
		}
	}
	if req.PassportNumber != nil && *req.PassportNumber != "" {
		if err := customer.SetPassportNumber(*req.PassportNumber); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil || req.Email != nil {
		phone := customer.Phone
		email := customer.Email
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
			if err := s.ensureEmailAvailable(ctx, email, customer.ID); err != nil {
				return nil, err
			}
		}
		if err := customer.SetContact(phone, email); err != nil {
			return nil, err
		}
	}
	if req.AddressLine1 != nil || req.AddressLine2 != nil || req.City != nil ||
		req.StateID != nil || req.PostalCode != nil || req.Country != nil {
		line1 := customer.AddressLine1
		line2 := customer.AddressLine2
		city := customer.City
		stateID := customer.StateID
		postalCode := customer.PostalCode
		country := customer.Country
		if req.AddressLine1 != nil {
			line1 = *req.AddressLine1
		}
		if req.AddressLine2 != nil {
			line2 = *req.AddressLine2
		}
		if req.City != nil {
			city = *req.City
		}
		if req.StateID != nil {
			stateID = req.StateID
			if err := s.resolveState(ctx, stateID); err != nil {
				return nil, err
			}
		}
		if req.PostalCode != nil {
			postalCode = *req.PostalCode
		}
		if req.Country != nil {
			country = *req.Country
		}
		if err := customer.SetAddress(line1, line2, city, stateID, postalCode, country); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		customer.SetNotes(*req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Activate activates a customer
func (s *CustomerService) Activate(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, customerID, (*partner.Customer).Activate)
}

// Deactivate deactivates a customer
func (s *CustomerService) Deactivate(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, customerID, (*partner.Customer).Deactivate)
}

// Delete soft deletes a customer
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, customerID)
}

func (s *CustomerService) changeStatus(ctx context.Context, customerID uuid.UUID, apply func(*partner.Customer) error) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := apply(customer); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

func (s *CustomerService) ensureNRICAvailable(ctx context.Context, nric string, excludeID uuid.UUID) error {
	exists, err := s.customerRepo.ExistsByNRIC(ctx, nric, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A customer with this NRIC already exists")
	}
	return nil
}

func (s *CustomerService) ensureEmailAvailable(ctx context.Context, email string, excludeID uuid.UUID) error {
	if email == "" {
		return nil
	}
	existing, err := s.customerRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) || shared.IsDomainError(err, "NOT_FOUND") {
			return nil
		}
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return shared.NewDomainError("ALREADY_EXISTS", "A customer with this email already exists")
	}
	return nil
}

func (s *CustomerService) resolveState(ctx context.Context, stateID *uuid.UUID) error {
	if stateID == nil {
		return nil
	}
	if _, err := s.stateRepo.FindByID(ctx, *stateID); err != nil {
		return err
	}
	return nil
}

func (s *CustomerService) publishEvents(ctx context.Context, customer *partner.Customer) {
	if s.eventPublisher == nil {
		return
	}
	if events := customer.GetDomainEvents(); len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		customer.ClearDomainEvents()
	}
}
