package repository

import (
	"context"
	"time"

	"github.com/yukikurage/crm-api/internal/models"
)

// LeadRepository defines the interface for lead data access
type LeadRepository interface {
	// Create allocates a lead ID and inserts the lead. When actorID is set,
	// a create activity is recorded in the same transaction.
	Create(ctx context.Context, lead *models.Lead, actorID *uint64) error

	// FindByID returns nil when the lead does not exist
	FindByID(ctx context.Context, id uint64) (*models.Lead, error)

	// FindByLeadID finds a lead by its human readable identifier
	FindByLeadID(ctx context.Context, leadID string) (*models.Lead, error)

	// List retrieves leads with filtering, sorting and pagination
	List(ctx context.Context, filter LeadFilter) ([]models.Lead, int64, error)

	// Update merges patch onto the stored lead; nil when the lead does not exist
	Update(ctx context.Context, id uint64, patch LeadPatch) (*models.Lead, error)

	// Delete removes the lead and its dependents in one transaction
	Delete(ctx context.Context, id uint64) (CascadeResult, error)
}

// LeadFilter holds filtering options for listing leads. Values are checked
// against allow-lists when the query is composed.
type LeadFilter struct {
	Statuses         []models.LeadStatus
	AssignedToUserID *uint64
	CreatedByUserID  *uint64
	Search           string
	SortBy           string
	SortOrder        string
	Limit            *int
	Offset           *int
	// MatchNone short circuits the list to an empty result
	MatchNone bool
}

// LeadPatch holds the fields of a partial lead update. LeadID is immutable.
type LeadPatch struct {
	Status           *models.LeadStatus
	PropertyAddress  *string
	OwnerName        *string
	OwnerPhone       *string
	OwnerEmail       *string
	Source           *string
	Notes            *string
	AssignedToUserID *uint64
	ClearAssignee    bool
}

// CallRepository defines the interface for call data access
type CallRepository interface {
	Create(ctx context.Context, call *models.Call) error
	FindByID(ctx context.Context, id uint64) (*models.Call, error)
	List(ctx context.Context, filter CallFilter) ([]models.Call, int64, error)
	Update(ctx context.Context, id uint64, patch CallPatch) (*models.Call, error)
	Delete(ctx context.Context, id uint64) (bool, error)
}

// CallFilter holds filtering options for listing calls
type CallFilter struct {
	LeadID    *uint64
	UserID    *uint64
	StartDate *time.Time
	EndDate   *time.Time
	Limit     *int
	Offset    *int
}

// CallPatch holds the fields of a partial call update
type CallPatch struct {
	UserID          *uint64
	CallTime        *time.Time
	Direction       *models.CallDirection
	Outcome         *string
	DurationSeconds *int
	Notes           *string
}

// ScheduledCallRepository defines the interface for scheduled call data access
type ScheduledCallRepository interface {
	Create(ctx context.Context, call *models.ScheduledCall) error
	FindByID(ctx context.Context, id uint64) (*models.ScheduledCall, error)
	List(ctx context.Context, filter ScheduledCallFilter) ([]models.ScheduledCall, int64, error)
	Update(ctx context.Context, id uint64, patch ScheduledCallPatch) (*models.ScheduledCall, error)
	Delete(ctx context.Context, id uint64) (bool, error)
}

// ScheduledCallFilter holds filtering options for listing scheduled calls
type ScheduledCallFilter struct {
	LeadID           *uint64
	AssignedCallerID *uint64
	Status           *models.ScheduledCallStatus
	StartDate        *time.Time
	EndDate          *time.Time
	Limit            *int
	Offset           *int
}

// ScheduledCallPatch holds the fields of a partial scheduled call update
type ScheduledCallPatch struct {
	Status           *models.ScheduledCallStatus
	AssignedCallerID *uint64
	ScheduledTime    *time.Time
	Notes            *string
}

// TimesheetRepository defines the interface for timesheet data access
type TimesheetRepository interface {
	Create(ctx context.Context, timesheet *models.Timesheet) error
	FindByID(ctx context.Context, id uint64) (*models.Timesheet, error)
	List(ctx context.Context, filter TimesheetFilter) ([]models.Timesheet, int64, error)
	Update(ctx context.Context, id uint64, patch TimesheetPatch) (*models.Timesheet, error)
	Delete(ctx context.Context, id uint64) (bool, error)
}

// TimesheetFilter holds filtering options for listing timesheets.
// StartDate and EndDate are compared by calendar day.
type TimesheetFilter struct {
	LeadID    *uint64
	UserID    *uint64
	Approved  *bool
	StartDate *time.Time
	EndDate   *time.Time
	Limit     *int
	Offset    *int
}

// TimesheetPatch holds the fields of a partial timesheet update
type TimesheetPatch struct {
	LeadID      *uint64
	ClearLead   bool
	Date        *time.Time
	Hours       *float64
	Description *string
	Approved    *bool
}

// ActivityRepository defines the interface for activity log access
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	FindByID(ctx context.Context, id uint64) (*models.Activity, error)
	List(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error)

	// LeadIDsCreatedBy returns the distinct lead IDs a user created
	LeadIDsCreatedBy(ctx context.Context, userID uint64) ([]uint64, error)

	// ResolveTarget loads the entity an activity points at; nil when it no longer exists
	ResolveTarget(ctx context.Context, activity *models.Activity) (interface{}, error)
}

// ActivityFilter holds filtering options for listing activities
type ActivityFilter struct {
	UserID     *uint64
	ActionType *models.ActionType
	TargetType *models.TargetType
	TargetID   *uint64
	Limit      *int
	Offset     *int
}

// TeamMemberRepository defines the interface for team member data access
type TeamMemberRepository interface {
	FindByUserID(ctx context.Context, userID uint64) (*models.TeamMember, error)
	List(ctx context.Context, filter TeamMemberFilter) ([]models.TeamMember, error)

	// Upsert merges patch onto the user's row, or inserts one, and refreshes LastActivityAt
	Upsert(ctx context.Context, userID uint64, patch TeamMemberPatch) (*models.TeamMember, error)

	// Touch refreshes LastActivityAt; false when the user has no row
	Touch(ctx context.Context, userID uint64) (bool, error)

	Delete(ctx context.Context, userID uint64) (bool, error)
}

// TeamMemberFilter holds filtering options for listing team members
type TeamMemberFilter struct {
	Role   *models.TeamRole
	Status *models.TeamMemberStatus
}

// TeamMemberPatch holds the fields of a team member upsert
type TeamMemberPatch struct {
	Role   *models.TeamRole
	Status *models.TeamMemberStatus
	Phone  *string
}

// UserRepository defines the interface for user data access
type UserRepository interface {

	// CreateWithTeamMember creates a user and the corresponding team member
	// row within a single transaction.
	CreateWithTeamMember(ctx context.Context, user *models.User, member *models.TeamMember) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
