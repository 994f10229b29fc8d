package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/crm-api/internal/errors"
	"github.com/yukikurage/crm-api/internal/filters"
	"github.com/yukikurage/crm-api/internal/services"
)

// respondServiceError maps service errors to API error responses
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLeadNotFound),
		errors.Is(err, services.ErrCallNotFound),
		errors.Is(err, services.ErrScheduledCallNotFound),
		errors.Is(err, services.ErrTimesheetNotFound),
		errors.Is(err, services.ErrActivityNotFound),
		errors.Is(err, services.ErrTeamMemberNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidLeadStatus),
		errors.Is(err, services.ErrInvalidCallDirection),
		errors.Is(err, services.ErrInvalidCallDuration),
		errors.Is(err, services.ErrScheduledTimeRequired),
		errors.Is(err, services.ErrInvalidScheduledCallState),
		errors.Is(err, services.ErrDateRequired),
		errors.Is(err, services.ErrInvalidHours),
		errors.Is(err, services.ErrInvalidTeamRole),
		errors.Is(err, services.ErrInvalidTeamStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrLeadIDUnavailable):
		apierrors.ServiceUnavailable(c, "Lead ID allocation is busy, please retry")
	case errors.Is(err, context.DeadlineExceeded):
		apierrors.ServiceUnavailable(c, "Request timed out")
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		apierrors.InternalError(c, "")
	}
}

// queryFilters returns the query string as loose filter values
func queryFilters(c *gin.Context) filters.Values {
	return filters.FromQuery(c.Request.URL.Query())
}
