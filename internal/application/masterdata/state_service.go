package masterdata

import (
	"context"
	"errors"
	"time"

	"github.com/billing/backend/internal/domain/masterdata"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateStateRequest represents a request to create a state
type CreateStateRequest struct {
	Code      string `json:"code" binding:"required,min=1,max=30"`
	Name      string `json:"name" binding:"required,min=1,max=60"`
	SortOrder int    `json:"sort_order"`
}

// UpdateStateRequest represents a partial state update
type UpdateStateRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sort_order"`
}

// StateResponse represents a state in API responses
type StateResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToStateResponse converts a State entity to its API representation
func ToStateResponse(state *masterdata.State) StateResponse {
	return StateResponse{
		ID:        state.ID,
		Code:      state.Code,
		Name:      state.Name,
		SortOrder: state.SortOrder,
		CreatedAt: state.CreatedAt,
		UpdatedAt: state.UpdatedAt,
	}
}

// ToStateResponses converts a slice of states
func ToStateResponses(states []*masterdata.State) []StateResponse {
	responses := make([]StateResponse, 0, len(states))
	for _, state := range states {
		responses = append(responses, ToStateResponse(state))
	}
	return responses
}

// StateService handles state reference-data operations
type StateService struct {
	stateRepo masterdata.StateRepository
}

// NewStateService creates a new StateService
func NewStateService(stateRepo masterdata.StateRepository) *StateService {
	return &StateService{stateRepo: stateRepo}
}

// Create creates a new state entry
func (s *StateService) Create(ctx context.Context, req CreateStateRequest) (*StateResponse, error) {
	state, err := masterdata.NewState(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	state.SetSortOrder(req.SortOrder)

	existing, err := s.stateRepo.FindByCode(ctx, state.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) && !shared.IsDomainError(err, "NOT_FOUND") {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A state with this code already exists")
	}

	if err := s.stateRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	response := ToStateResponse(state)
	return &response, nil
}

// GetByID retrieves a state by ID
func (s *StateService) GetByID(ctx context.Context, stateID uuid.UUID) (*StateResponse, error) {
	state, err := s.stateRepo.FindByID(ctx, stateID)
	if err != nil {
		return nil, err
	}
	response := ToStateResponse(state)
	return &response, nil
}

// List retrieves every state ordered for display
func (s *StateService) List(ctx context.Context) ([]StateResponse, error) {
	states, err := s.stateRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToStateResponses(states), nil
}

// Update partially updates a state
func (s *StateService) Update(ctx context.Context, stateID uuid.UUID, req UpdateStateRequest) (*StateResponse, error) {
	state, err := s.stateRepo.FindByID(ctx, stateID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := state.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		state.SetSortOrder(*req.SortOrder)
	}

	if err := s.stateRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	response := ToStateResponse(state)
	return &response, nil
}

// Delete soft deletes a state
func (s *StateService) Delete(ctx context.Context, stateID uuid.UUID) error {
	if _, err := s.stateRepo.FindByID(ctx, stateID); err != nil {
		return err
	}
	return s.stateRepo.Delete(ctx, stateID)
}
