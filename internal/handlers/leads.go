package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crm-api/internal/dto"
	apierrors "github.com/yukikurage/crm-api/internal/errors"
	"github.com/yukikurage/crm-api/internal/filters"
	"github.com/yukikurage/crm-api/internal/middleware"
	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/repository"
	"github.com/yukikurage/crm-api/internal/services"
	"github.com/yukikurage/crm-api/internal/utils"
)

// LeadHandler serves the lead endpoints
type LeadHandler struct {
	leads *services.LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leads *services.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

type createLeadRequest struct {
	Status           models.LeadStatus `json:"status"`
	PropertyAddress  string            `json:"property_address"`
	OwnerName        string            `json:"owner_name"`
	OwnerPhone       string            `json:"owner_phone"`
	OwnerEmail       string            `json:"owner_email"`
	Source           string            `json:"source"`
	Notes            string            `json:"notes"`
	AssignedToUserID *uint64           `json:"assigned_to_user_id"`
}

type updateLeadRequest struct {
	Status           *models.LeadStatus `json:"status"`
	PropertyAddress  *string            `json:"property_address"`
	OwnerName        *string            `json:"owner_name"`
	OwnerPhone       *string            `json:"owner_phone"`
	OwnerEmail       *string            `json:"owner_email"`
	Source           *string            `json:"source"`
	Notes            *string            `json:"notes"`
	AssignedToUserID *uint64            `json:"assigned_to_user_id"`
	ClearAssignee    bool               `json:"clear_assignee"`
}

// ListLeads filters leads by the query string
func (h *LeadHandler) ListLeads(c *gin.Context) {
	h.list(c, filters.Lead(queryFilters(c)))
}

// SearchLeads filters leads by a JSON body of the same keys ListLeads accepts
func (h *LeadHandler) SearchLeads(c *gin.Context) {
	var values filters.Values
	if err := c.ShouldBindJSON(&values); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	h.list(c, filters.Lead(values))
}

func (h *LeadHandler) list(c *gin.Context, filter repository.LeadFilter) {
	leads, total, err := h.leads.ListLeads(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(dto.ToLeadDTOs(leads), filter.Limit, filter.Offset, total))
}

// GetLead returns the lead loaded by RequireLead
func (h *LeadHandler) GetLead(c *gin.Context) {
	lead, ok := middleware.GetLead(c)
	if !ok {
		apierrors.NotFound(c, "Lead not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToLeadDTO(*lead))
}

// GetLeadByLeadID looks a lead up by its allocated lead ID
func (h *LeadHandler) GetLeadByLeadID(c *gin.Context) {
	lead, err := h.leads.GetLeadByLeadID(c.Request.Context(), c.Param("lead_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLeadDTO(*lead))
}

// CreateLead creates a lead. A lead_id in the body is ignored.
func (h *LeadHandler) CreateLead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	lead, err := h.leads.CreateLead(c.Request.Context(), services.CreateLeadInput{
		Status:           req.Status,
		PropertyAddress:  req.PropertyAddress,
		OwnerName:        req.OwnerName,
		OwnerPhone:       req.OwnerPhone,
		OwnerEmail:       req.OwnerEmail,
		Source:           req.Source,
		Notes:            req.Notes,
		AssignedToUserID: req.AssignedToUserID,
		ActorID:          userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToLeadDTO(*lead))
}

// UpdateLead applies a partial update
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid lead ID")
		return
	}

	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	lead, err := h.leads.UpdateLead(c.Request.Context(), id, repository.LeadPatch{
		Status:           req.Status,
		PropertyAddress:  req.PropertyAddress,
		OwnerName:        req.OwnerName,
		OwnerPhone:       req.OwnerPhone,
		OwnerEmail:       req.OwnerEmail,
		Source:           req.Source,
		Notes:            req.Notes,
		AssignedToUserID: req.AssignedToUserID,
		ClearAssignee:    req.ClearAssignee,
	}, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLeadDTO(*lead))
}

// DeleteLead removes a lead and its calls, scheduled calls and timesheets
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid lead ID")
		return
	}

	result, err := h.leads.DeleteLead(c.Request.Context(), id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteLeadResponse{
		Message: "Lead deleted successfully",
		Deleted: result.Dependents,
	})
}
