package dto

import (
	"time"

	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/utils"
)

// LeadDTO represents a lead in API responses
type LeadDTO struct {
	ID               uint64            `json:"id"`
	LeadID           string            `json:"lead_id"`
	Status           models.LeadStatus `json:"status"`
	PropertyAddress  string            `json:"property_address"`
	OwnerName        string            `json:"owner_name"`
	OwnerPhone       string            `json:"owner_phone"`
	OwnerEmail       string            `json:"owner_email"`
	Source           string            `json:"source"`
	Notes            string            `json:"notes"`
	AssignedToUserID *uint64           `json:"assigned_to_user_id"`
	AssignedTo       *UserDTO          `json:"assigned_to,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ListResponse is the envelope of every list endpoint
type ListResponse[T any] struct {
	Data       []T                      `json:"data"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// DeleteLeadResponse reports what a lead deletion removed
type DeleteLeadResponse struct {
	Message string           `json:"message"`
	Deleted map[string]int64 `json:"deleted"`
}

// ActivityResponse is an activity with the entity it refers to. Target is
// null when the entity no longer exists.
type ActivityResponse struct {
	models.Activity
	Target interface{} `json:"target"`
}

// ToLeadDTO converts a Lead model to LeadDTO
func ToLeadDTO(lead models.Lead) LeadDTO {
	dto := LeadDTO{
		ID:               lead.ID,
		LeadID:           lead.LeadID,
		Status:           lead.Status,
		PropertyAddress:  lead.PropertyAddress,
		OwnerName:        lead.OwnerName,
		OwnerPhone:       lead.OwnerPhone,
		OwnerEmail:       lead.OwnerEmail,
		Source:           lead.Source,
		Notes:            lead.Notes,
		AssignedToUserID: lead.AssignedToUserID,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
	if lead.AssignedTo != nil {
		user := ToUserDTO(*lead.AssignedTo)
		dto.AssignedTo = &user
	}
	return dto
}

// ToLeadDTOs converts a slice of leads
func ToLeadDTOs(leads []models.Lead) []LeadDTO {
	dtos := make([]LeadDTO, len(leads))
	for i, l := range leads {
		dtos[i] = ToLeadDTO(l)
	}
	return dtos
}

// NewListResponse wraps a page of items with its pagination metadata
func NewListResponse[T any](items []T, limit, offset *int, total int64) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Data:       items,
		Pagination: utils.NewPaginationResponse(limit, offset, total),
	}
}
