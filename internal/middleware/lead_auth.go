package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crm-api/internal/constants"
	apierrors "github.com/yukikurage/crm-api/internal/errors"
	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/services"
	"github.com/yukikurage/crm-api/internal/utils"
)

// RequireLead loads the lead named by the :id parameter and stores it in the
// context for lead scoped routes
func RequireLead(leads *services.LeadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		leadID, ok := utils.ParseIDParam(c, "id")
		if !ok {
			apierrors.BadRequest(c, "Invalid lead ID")
			c.Abort()
			return
		}

		lead, err := leads.GetLead(c.Request.Context(), leadID)
		if err != nil {
			if errors.Is(err, services.ErrLeadNotFound) {
				apierrors.NotFound(c, "Lead not found")
			} else {
				apierrors.InternalError(c, "Failed to load lead")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyLead, lead)
		c.Next()
	}
}

// GetLead retrieves the lead loaded by RequireLead
func GetLead(c *gin.Context) (*models.Lead, bool) {
	value, exists := c.Get(constants.ContextKeyLead)
	if !exists {
		return nil, false
	}
	lead, ok := value.(*models.Lead)
	return lead, ok
}
