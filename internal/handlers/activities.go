package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crm-api/internal/dto"
	apierrors "github.com/yukikurage/crm-api/internal/errors"
	"github.com/yukikurage/crm-api/internal/filters"
	"github.com/yukikurage/crm-api/internal/services"
	"github.com/yukikurage/crm-api/internal/utils"
)

// ActivityHandler serves the audit log
type ActivityHandler struct {
	activities *services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activities *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// ListActivities filters activities by the query string
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	filter := filters.Activity(queryFilters(c))

	activities, total, err := h.activities.ListActivities(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(activities, filter.Limit, filter.Offset, total))
}

// GetActivity returns an activity and the entity it refers to
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid activity ID")
		return
	}

	activity, target, err := h.activities.GetActivity(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ActivityResponse{Activity: *activity, Target: target})
}
