package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crm-api/internal/dto"
	apierrors "github.com/yukikurage/crm-api/internal/errors"
	"github.com/yukikurage/crm-api/internal/filters"
	"github.com/yukikurage/crm-api/internal/middleware"
	"github.com/yukikurage/crm-api/internal/repository"
	"github.com/yukikurage/crm-api/internal/services"
	"github.com/yukikurage/crm-api/internal/utils"
)

// TimesheetHandler serves the timesheet endpoints
type TimesheetHandler struct {
	timesheets *services.TimesheetService
}

// NewTimesheetHandler creates a new TimesheetHandler
func NewTimesheetHandler(timesheets *services.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{timesheets: timesheets}
}

// Dates are accepted as 2006-01-02 or RFC3339
type createTimesheetRequest struct {
	LeadID      *uint64 `json:"lead_id"`
	Date        string  `json:"date" binding:"required"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

type updateTimesheetRequest struct {
	LeadID      *uint64  `json:"lead_id"`
	ClearLead   bool     `json:"clear_lead"`
	Date        *string  `json:"date"`
	Hours       *float64 `json:"hours"`
	Description *string  `json:"description"`
}

// ListTimesheets filters timesheets by the query string
func (h *TimesheetHandler) ListTimesheets(c *gin.Context) {
	h.list(c, filters.Timesheet(queryFilters(c)))
}

// ListLeadTimesheets lists the timesheets of the lead loaded by RequireLead
func (h *TimesheetHandler) ListLeadTimesheets(c *gin.Context) {
	lead, _ := middleware.GetLead(c)
	filter := filters.Timesheet(queryFilters(c))
	filter.LeadID = &lead.ID
	h.list(c, filter)
}

func (h *TimesheetHandler) list(c *gin.Context, filter repository.TimesheetFilter) {
	timesheets, total, err := h.timesheets.ListTimesheets(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(timesheets, filter.Limit, filter.Offset, total))
}

// GetTimesheet returns a timesheet
func (h *TimesheetHandler) GetTimesheet(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid timesheet ID")
		return
	}

	ts, err := h.timesheets.GetTimesheet(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

// CreateTimesheet records hours for the current user
func (h *TimesheetHandler) CreateTimesheet(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req createTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	date := filters.Values{"date": req.Date}.Time("date", false)
	if date == nil {
		apierrors.BadRequest(c, "Invalid date")
		return
	}

	ts, err := h.timesheets.CreateTimesheet(c.Request.Context(), services.CreateTimesheetInput{
		UserID:      userID,
		LeadID:      req.LeadID,
		Date:        date,
		Hours:       req.Hours,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ts)
}

// UpdateTimesheet applies a partial update
func (h *TimesheetHandler) UpdateTimesheet(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid timesheet ID")
		return
	}

	var req updateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	patch := repository.TimesheetPatch{
		LeadID:      req.LeadID,
		ClearLead:   req.ClearLead,
		Hours:       req.Hours,
		Description: req.Description,
	}
	if req.Date != nil {
		patch.Date = filters.Values{"date": *req.Date}.Time("date", false)
		if patch.Date == nil {
			apierrors.BadRequest(c, "Invalid date")
			return
		}
	}

	ts, err := h.timesheets.UpdateTimesheet(c.Request.Context(), id, patch, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

// ApproveTimesheet marks a timesheet as approved
func (h *TimesheetHandler) ApproveTimesheet(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid timesheet ID")
		return
	}

	ts, err := h.timesheets.ApproveTimesheet(c.Request.Context(), id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

// DeleteTimesheet deletes a timesheet
func (h *TimesheetHandler) DeleteTimesheet(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid timesheet ID")
		return
	}

	if err := h.timesheets.DeleteTimesheet(c.Request.Context(), id, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Timesheet deleted successfully"})
}
