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

// TeamMemberHandler serves the team member endpoints
type TeamMemberHandler struct {
	members *services.TeamMemberService
}

// NewTeamMemberHandler creates a new TeamMemberHandler
func NewTeamMemberHandler(members *services.TeamMemberService) *TeamMemberHandler {
	return &TeamMemberHandler{members: members}
}

type upsertTeamMemberRequest struct {
	Role   *models.TeamRole         `json:"role"`
	Status *models.TeamMemberStatus `json:"status"`
	Phone  *string                  `json:"phone"`
}

// ListTeamMembers lists team members, most recently active first
func (h *TeamMemberHandler) ListTeamMembers(c *gin.Context) {
	members, err := h.members.ListTeamMembers(c.Request.Context(), filters.TeamMember(queryFilters(c)))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"team_members": dto.ToTeamMemberDTOs(members)})
}

// GetTeamMember returns the team member row of a user
func (h *TeamMemberHandler) GetTeamMember(c *gin.Context) {
	userID, ok := utils.ParseIDParam(c, "user_id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	member, err := h.members.GetTeamMember(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTeamMemberDTO(*member))
}

// UpsertTeamMember creates or updates the team member row of a user
func (h *TeamMemberHandler) UpsertTeamMember(c *gin.Context) {
	actorID, _ := middleware.GetUserID(c)
	userID, ok := utils.ParseIDParam(c, "user_id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	var req upsertTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.members.UpsertTeamMember(c.Request.Context(), userID, repository.TeamMemberPatch{
		Role:   req.Role,
		Status: req.Status,
		Phone:  req.Phone,
	}, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTeamMemberDTO(*member))
}

// RemoveTeamMember deletes the team member row of a user
func (h *TeamMemberHandler) RemoveTeamMember(c *gin.Context) {
	actorID, _ := middleware.GetUserID(c)
	userID, ok := utils.ParseIDParam(c, "user_id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.members.RemoveTeamMember(c.Request.Context(), userID, actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team member removed successfully"})
}
