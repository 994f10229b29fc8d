package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crm-api/internal/middleware"
	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/services"
)

// Services groups the services the HTTP layer depends on
type Services struct {
	Auth        *services.AuthService
	Leads       *services.LeadService
	Calls       *services.CallService
	Timesheets  *services.TimesheetService
	Activities  *services.ActivityService
	TeamMembers *services.TeamMemberService
}

// RegisterRoutes mounts the API under api. Session middleware must already
// be installed on the engine.
func RegisterRoutes(api *gin.RouterGroup, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	leadHandler := NewLeadHandler(svc.Leads)
	callHandler := NewCallHandler(svc.Calls)
	timesheetHandler := NewTimesheetHandler(svc.Timesheets)
	activityHandler := NewActivityHandler(svc.Activities)
	teamMemberHandler := NewTeamMemberHandler(svc.TeamMembers)

	requireLead := middleware.RequireLead(svc.Leads)
	requireManager := middleware.RequireRole(svc.TeamMembers, models.TeamRoleAdmin, models.TeamRoleManager)

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
	}

	protected := api.Group("")
	protected.Use(middleware.RequireAuth())

	leads := protected.Group("/leads")
	{
		leads.GET("", leadHandler.ListLeads)
		leads.POST("", leadHandler.CreateLead)
		leads.POST("/search", leadHandler.SearchLeads)
		leads.GET("/:id", requireLead, leadHandler.GetLead)
		leads.PATCH("/:id", leadHandler.UpdateLead)
		leads.DELETE("/:id", leadHandler.DeleteLead)
		leads.GET("/:id/calls", requireLead, callHandler.ListLeadCalls)
		leads.GET("/:id/scheduled-calls", requireLead, callHandler.ListLeadScheduledCalls)
		leads.GET("/:id/timesheets", requireLead, timesheetHandler.ListLeadTimesheets)
	}
	protected.GET("/lead-ids/:lead_id", leadHandler.GetLeadByLeadID)

	calls := protected.Group("/calls")
	{
		calls.GET("", callHandler.ListCalls)
		calls.POST("", callHandler.CreateCall)
		calls.GET("/:id", callHandler.GetCall)
		calls.PATCH("/:id", callHandler.UpdateCall)
		calls.DELETE("/:id", callHandler.DeleteCall)
	}

	scheduled := protected.Group("/scheduled-calls")
	{
		scheduled.GET("", callHandler.ListScheduledCalls)
		scheduled.POST("", callHandler.CreateScheduledCall)
		scheduled.GET("/:id", callHandler.GetScheduledCall)
		scheduled.PATCH("/:id", callHandler.UpdateScheduledCall)
		scheduled.DELETE("/:id", callHandler.DeleteScheduledCall)
	}

	timesheets := protected.Group("/timesheets")
	{
		timesheets.GET("", timesheetHandler.ListTimesheets)
		timesheets.POST("", timesheetHandler.CreateTimesheet)
		timesheets.GET("/:id", timesheetHandler.GetTimesheet)
		timesheets.PATCH("/:id", timesheetHandler.UpdateTimesheet)
		timesheets.DELETE("/:id", timesheetHandler.DeleteTimesheet)
		timesheets.POST("/:id/approve", requireManager, timesheetHandler.ApproveTimesheet)
	}

	activities := protected.Group("/activities")
	{
		activities.GET("", activityHandler.ListActivities)
		activities.GET("/:id", activityHandler.GetActivity)
	}

	members := protected.Group("/team-members")
	{
		members.GET("", teamMemberHandler.ListTeamMembers)
		members.GET("/:user_id", teamMemberHandler.GetTeamMember)
		members.PUT("/:user_id", requireManager, teamMemberHandler.UpsertTeamMember)
		members.DELETE("/:user_id", requireManager, teamMemberHandler.RemoveTeamMember)
	}
}
