package handlers

import (
	"net/http"
	"time"

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

// CallHandler serves the call and scheduled call endpoints
type CallHandler struct {
	calls *services.CallService
}

// NewCallHandler creates a new CallHandler
func NewCallHandler(calls *services.CallService) *CallHandler {
	return &CallHandler{calls: calls}
}

type createCallRequest struct {
	LeadID          uint64               `json:"lead_id" binding:"required"`
	CallTime        *time.Time           `json:"call_time"`
	Direction       models.CallDirection `json:"direction"`
	Outcome         string               `json:"outcome"`
	DurationSeconds int                  `json:"duration_seconds"`
	Notes           string               `json:"notes"`
}

type updateCallRequest struct {
	CallTime        *time.Time            `json:"call_time"`
	Direction       *models.CallDirection `json:"direction"`
	Outcome         *string               `json:"outcome"`
	DurationSeconds *int                  `json:"duration_seconds"`
	Notes           *string               `json:"notes"`
}

type createScheduledCallRequest struct {
	LeadID           uint64                     `json:"lead_id" binding:"required"`
	ScheduledTime    *time.Time                 `json:"scheduled_time"`
	AssignedCallerID *uint64                    `json:"assigned_caller_id"`
	Status           models.ScheduledCallStatus `json:"status"`
	Notes            string                     `json:"notes"`
}

type updateScheduledCallRequest struct {
	ScheduledTime    *time.Time                  `json:"scheduled_time"`
	AssignedCallerID *uint64                     `json:"assigned_caller_id"`
	Status           *models.ScheduledCallStatus `json:"status"`
	Notes            *string                     `json:"notes"`
}

// ListCalls filters calls by the query string
func (h *CallHandler) ListCalls(c *gin.Context) {
	h.listCalls(c, filters.Call(queryFilters(c)))
}

// ListLeadCalls lists the calls of the lead loaded by RequireLead
func (h *CallHandler) ListLeadCalls(c *gin.Context) {
	lead, _ := middleware.GetLead(c)
	filter := filters.Call(queryFilters(c))
	filter.LeadID = &lead.ID
	h.listCalls(c, filter)
}

func (h *CallHandler) listCalls(c *gin.Context, filter repository.CallFilter) {
	calls, total, err := h.calls.ListCalls(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(calls, filter.Limit, filter.Offset, total))
}

// GetCall returns a call
func (h *CallHandler) GetCall(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid call ID")
		return
	}

	call, err := h.calls.GetCall(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

// CreateCall logs a call made by the current user
func (h *CallHandler) CreateCall(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req createCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	call, err := h.calls.CreateCall(c.Request.Context(), services.CreateCallInput{
		LeadID:          req.LeadID,
		CallTime:        req.CallTime,
		Direction:       req.Direction,
		Outcome:         req.Outcome,
		DurationSeconds: req.DurationSeconds,
		Notes:           req.Notes,
		ActorID:         userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, call)
}

// UpdateCall applies a partial update
func (h *CallHandler) UpdateCall(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid call ID")
		return
	}

	var req updateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	call, err := h.calls.UpdateCall(c.Request.Context(), id, repository.CallPatch{
		CallTime:        req.CallTime,
		Direction:       req.Direction,
		Outcome:         req.Outcome,
		DurationSeconds: req.DurationSeconds,
		Notes:           req.Notes,
	}, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

// DeleteCall deletes a call
func (h *CallHandler) DeleteCall(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid call ID")
		return
	}

	if err := h.calls.DeleteCall(c.Request.Context(), id, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Call deleted successfully"})
}

// ListScheduledCalls filters scheduled calls by the query string
func (h *CallHandler) ListScheduledCalls(c *gin.Context) {
	h.listScheduledCalls(c, filters.ScheduledCall(queryFilters(c)))
}

// ListLeadScheduledCalls lists the scheduled calls of the lead loaded by RequireLead
func (h *CallHandler) ListLeadScheduledCalls(c *gin.Context) {
	lead, _ := middleware.GetLead(c)
	filter := filters.ScheduledCall(queryFilters(c))
	filter.LeadID = &lead.ID
	h.listScheduledCalls(c, filter)
}

func (h *CallHandler) listScheduledCalls(c *gin.Context, filter repository.ScheduledCallFilter) {
	calls, total, err := h.calls.ListScheduledCalls(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(calls, filter.Limit, filter.Offset, total))
}

// GetScheduledCall returns a scheduled call
func (h *CallHandler) GetScheduledCall(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid scheduled call ID")
		return
	}

	call, err := h.calls.GetScheduledCall(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

// CreateScheduledCall books a call
func (h *CallHandler) CreateScheduledCall(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req createScheduledCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	call, err := h.calls.ScheduleCall(c.Request.Context(), services.CreateScheduledCallInput{
		LeadID:           req.LeadID,
		ScheduledTime:    req.ScheduledTime,
		AssignedCallerID: req.AssignedCallerID,
		Status:           req.Status,
		Notes:            req.Notes,
		ActorID:          userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, call)
}

// UpdateScheduledCall applies a partial update
func (h *CallHandler) UpdateScheduledCall(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid scheduled call ID")
		return
	}

	var req updateScheduledCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	call, err := h.calls.UpdateScheduledCall(c.Request.Context(), id, repository.ScheduledCallPatch{
		Status:           req.Status,
		AssignedCallerID: req.AssignedCallerID,
		ScheduledTime:    req.ScheduledTime,
		Notes:            req.Notes,
	}, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

// DeleteScheduledCall deletes a scheduled call
func (h *CallHandler) DeleteScheduledCall(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid scheduled call ID")
		return
	}

	if err := h.calls.DeleteScheduledCall(c.Request.Context(), id, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Scheduled call deleted successfully"})
}
