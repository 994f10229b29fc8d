package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/repository"
)

var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrInvalidLeadStatus = errors.New("invalid lead status")
	// ErrLeadIDUnavailable means lead ID allocation kept colliding. The
	// request can be retried.
	ErrLeadIDUnavailable = errors.New("lead id temporarily unavailable")
)

// LeadService handles lead business logic
type LeadService struct {
	leads      repository.LeadRepository
	activities repository.ActivityRepository
}

// NewLeadService creates a new LeadService
func NewLeadService(leads repository.LeadRepository, activities repository.ActivityRepository) *LeadService {
	return &LeadService{
		leads:      leads,
		activities: activities,
	}
}

// CreateLeadInput represents input for creating a lead. The lead ID is
// always allocated by the server.
type CreateLeadInput struct {
	Status           models.LeadStatus
	PropertyAddress  string
	OwnerName        string
	OwnerPhone       string
	OwnerEmail       string
	Source           string
	Notes            string
	AssignedToUserID *uint64
	ActorID          uint64
}

// ListLeads returns a page of leads and the unpaginated total
func (s *LeadService) ListLeads(ctx context.Context, filter repository.LeadFilter) ([]models.Lead, int64, error) {
	leads, total, err := s.leads.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// GetLead returns a lead by its primary key
func (s *LeadService) GetLead(ctx context.Context, id uint64) (*models.Lead, error) {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find lead: %w", err)
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// GetLeadByLeadID returns a lead by its allocated lead ID
func (s *LeadService) GetLeadByLeadID(ctx context.Context, leadID string) (*models.Lead, error) {
	lead, err := s.leads.FindByLeadID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to find lead: %w", err)
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// CreateLead validates input and creates a lead with a freshly allocated lead ID
func (s *LeadService) CreateLead(ctx context.Context, input CreateLeadInput) (*models.Lead, error) {
	if input.Status == "" {
		input.Status = models.LeadStatusNew
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidLeadStatus
	}

	lead := &models.Lead{
		Status:           input.Status,
		PropertyAddress:  input.PropertyAddress,
		OwnerName:        input.OwnerName,
		OwnerPhone:       input.OwnerPhone,
		OwnerEmail:       input.OwnerEmail,
		Source:           input.Source,
		Notes:            input.Notes,
		AssignedToUserID: input.AssignedToUserID,
	}

	var actor *uint64
	if input.ActorID != 0 {
		actor = &input.ActorID
	}

	if err := s.leads.Create(ctx, lead, actor); err != nil {
		if errors.Is(err, repository.ErrLeadIDExhausted) {
			return nil, fmt.Errorf("%w: %w", ErrLeadIDUnavailable, err)
		}
		return nil, err
	}

	return lead, nil
}

// UpdateLead applies a partial update
func (s *LeadService) UpdateLead(ctx context.Context, id uint64, patch repository.LeadPatch, actorID uint64) (*models.Lead, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, ErrInvalidLeadStatus
	}

	lead, err := s.leads.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}

	recordActivity(ctx, s.activities, actorID, models.ActionUpdate, models.TargetLead, lead.ID, lead.LeadID)
	return lead, nil
}

// DeleteLead removes a lead together with its calls, scheduled calls and timesheets
func (s *LeadService) DeleteLead(ctx context.Context, id uint64, actorID uint64) (repository.CascadeResult, error) {
	result, err := s.leads.Delete(ctx, id)
	if err != nil {
		return repository.CascadeResult{}, fmt.Errorf("failed to delete lead: %w", err)
	}
	if !result.Found {
		return result, ErrLeadNotFound
	}

	recordActivity(ctx, s.activities, actorID, models.ActionDelete, models.TargetLead, id, "")
	return result, nil
}
