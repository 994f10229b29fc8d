package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/crm-api/internal/database"
	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ServiceTestSuite wires every service over an in-memory SQLite database
type ServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	ctx        context.Context
	auth       *AuthService
	leads      *LeadService
	calls      *CallService
	timesheets *TimesheetService
	activities *ActivityService
	members    *TeamMemberService
	actor      *models.User
}

// SetupTest runs before each test
func (suite *ServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), database.GormConfig("silent"))
	suite.Require().NoError(err)
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	suite.Require().NoError(database.MigrateDatabase(suite.db))

	userRepo := repository.NewUserRepository(suite.db)
	memberRepo := repository.NewTeamMemberRepository(suite.db)
	activityRepo := repository.NewActivityRepository(suite.db)
	leadRepo := repository.NewLeadRepository(suite.db)

	suite.auth = NewAuthService(userRepo, memberRepo, activityRepo)
	suite.leads = NewLeadService(leadRepo, activityRepo)
	suite.calls = NewCallService(repository.NewCallRepository(suite.db), repository.NewScheduledCallRepository(suite.db), activityRepo)
	suite.timesheets = NewTimesheetService(repository.NewTimesheetRepository(suite.db), activityRepo)
	suite.activities = NewActivityService(activityRepo)
	suite.members = NewTeamMemberService(memberRepo, userRepo, activityRepo)
	suite.ctx = context.Background()

	suite.actor, err = suite.auth.Signup(suite.ctx, SignupInput{Username: "agent", Password: "password123"})
	suite.Require().NoError(err)
}

// TearDownTest runs after each test
func (suite *ServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ServiceTestSuite) createLead() *models.Lead {
	lead, err := suite.leads.CreateLead(suite.ctx, CreateLeadInput{PropertyAddress: "123 Main St", ActorID: suite.actor.ID})
	suite.Require().NoError(err)
	return lead
}

func (suite *ServiceTestSuite) TestSignup_CreatesTeamMember() {
	member, err := suite.members.GetTeamMember(suite.ctx, suite.actor.ID)

	suite.Require().NoError(err)
	suite.Equal(models.TeamRoleAgent, member.Role)
	suite.Equal(models.TeamMemberActive, member.Status)
}

func (suite *ServiceTestSuite) TestSignup_Validation() {
	_, err := suite.auth.Signup(suite.ctx, SignupInput{Username: "agent", Password: "password123"})
	suite.ErrorIs(err, ErrUsernameTaken)

	_, err = suite.auth.Signup(suite.ctx, SignupInput{Username: "other", Password: "short"})
	suite.ErrorIs(err, ErrPasswordTooShort)

	_, err = suite.auth.Signup(suite.ctx, SignupInput{Username: "  ", Password: "password123"})
	suite.ErrorIs(err, ErrUsernameRequired)
}

func (suite *ServiceTestSuite) TestLogin() {
	user, err := suite.auth.Login(suite.ctx, LoginInput{Username: "agent", Password: "password123"})
	suite.Require().NoError(err)
	suite.Equal(suite.actor.ID, user.ID)

	_, err = suite.auth.Login(suite.ctx, LoginInput{Username: "agent", Password: "wrong-password"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	_, err = suite.auth.Login(suite.ctx, LoginInput{Username: "ghost", Password: "password123"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	action := models.ActionLogin
	logins, total, err := suite.activities.ListActivities(suite.ctx, repository.ActivityFilter{ActionType: &action})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(suite.actor.ID, logins[0].UserID)
}

func (suite *ServiceTestSuite) TestGetUser_NotFound() {
	_, err := suite.auth.GetUser(suite.ctx, 999)
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestCreateLead_RecordsCreator() {
	lead := suite.createLead()

	suite.Equal(models.LeadStatusNew, lead.Status)
	creator := suite.actor.ID
	leads, total, err := suite.leads.ListLeads(suite.ctx, repository.LeadFilter{CreatedByUserID: &creator})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(lead.ID, leads[0].ID)
}

func (suite *ServiceTestSuite) TestCreateLead_InvalidStatus() {
	_, err := suite.leads.CreateLead(suite.ctx, CreateLeadInput{Status: "archived"})
	suite.ErrorIs(err, ErrInvalidLeadStatus)
}

func (suite *ServiceTestSuite) TestLeadNotFound() {
	_, err := suite.leads.GetLead(suite.ctx, 404)
	suite.ErrorIs(err, ErrLeadNotFound)

	_, err = suite.leads.GetLeadByLeadID(suite.ctx, "269999")
	suite.ErrorIs(err, ErrLeadNotFound)

	notes := "x"
	_, err = suite.leads.UpdateLead(suite.ctx, 404, repository.LeadPatch{Notes: &notes}, suite.actor.ID)
	suite.ErrorIs(err, ErrLeadNotFound)

	_, err = suite.leads.DeleteLead(suite.ctx, 404, suite.actor.ID)
	suite.ErrorIs(err, ErrLeadNotFound)
}

func (suite *ServiceTestSuite) TestUpdateLead() {
	lead := suite.createLead()
	status := models.LeadStatusContacted

	updated, err := suite.leads.UpdateLead(suite.ctx, lead.ID, repository.LeadPatch{Status: &status}, suite.actor.ID)
	suite.Require().NoError(err)
	suite.Equal(models.LeadStatusContacted, updated.Status)

	bogus := models.LeadStatus("archived")
	_, err = suite.leads.UpdateLead(suite.ctx, lead.ID, repository.LeadPatch{Status: &bogus}, suite.actor.ID)
	suite.ErrorIs(err, ErrInvalidLeadStatus)
}

func (suite *ServiceTestSuite) TestDeleteLead_Cascades() {
	lead := suite.createLead()
	call, err := suite.calls.CreateCall(suite.ctx, CreateCallInput{LeadID: lead.ID, ActorID: suite.actor.ID})
	suite.Require().NoError(err)
	when := time.Now().Add(time.Hour)
	scheduled, err := suite.calls.ScheduleCall(suite.ctx, CreateScheduledCallInput{LeadID: lead.ID, ScheduledTime: &when, ActorID: suite.actor.ID})
	suite.Require().NoError(err)
	day := time.Now()
	ts, err := suite.timesheets.CreateTimesheet(suite.ctx, CreateTimesheetInput{UserID: suite.actor.ID, LeadID: &lead.ID, Date: &day, Hours: 2})
	suite.Require().NoError(err)

	result, err := suite.leads.DeleteLead(suite.ctx, lead.ID, suite.actor.ID)
	suite.Require().NoError(err)
	suite.True(result.Found)

	_, err = suite.calls.GetCall(suite.ctx, call.ID)
	suite.ErrorIs(err, ErrCallNotFound)
	_, err = suite.calls.GetScheduledCall(suite.ctx, scheduled.ID)
	suite.ErrorIs(err, ErrScheduledCallNotFound)
	_, err = suite.timesheets.GetTimesheet(suite.ctx, ts.ID)
	suite.ErrorIs(err, ErrTimesheetNotFound)
}

func (suite *ServiceTestSuite) TestCreateCall_Validation() {
	lead := suite.createLead()

	_, err := suite.calls.CreateCall(suite.ctx, CreateCallInput{LeadID: lead.ID, Direction: "sideways"})
	suite.ErrorIs(err, ErrInvalidCallDirection)

	_, err = suite.calls.CreateCall(suite.ctx, CreateCallInput{LeadID: lead.ID, DurationSeconds: -1})
	suite.ErrorIs(err, ErrInvalidCallDuration)

	_, err = suite.calls.CreateCall(suite.ctx, CreateCallInput{LeadID: lead.ID + 1})
	suite.ErrorIs(err, ErrLeadNotFound)

	call, err := suite.calls.CreateCall(suite.ctx, CreateCallInput{LeadID: lead.ID, ActorID: suite.actor.ID})
	suite.Require().NoError(err)
	suite.Equal(models.CallDirectionOutbound, call.Direction)
	suite.Require().NotNil(call.UserID)
	suite.Equal(suite.actor.ID, *call.UserID)
}

func (suite *ServiceTestSuite) TestScheduleCall_Validation() {
	lead := suite.createLead()

	_, err := suite.calls.ScheduleCall(suite.ctx, CreateScheduledCallInput{LeadID: lead.ID})
	suite.ErrorIs(err, ErrScheduledTimeRequired)

	when := time.Now()
	_, err = suite.calls.ScheduleCall(suite.ctx, CreateScheduledCallInput{LeadID: lead.ID, ScheduledTime: &when, Status: "snoozed"})
	suite.ErrorIs(err, ErrInvalidScheduledCallState)

	_, err = suite.calls.ScheduleCall(suite.ctx, CreateScheduledCallInput{LeadID: lead.ID + 1, ScheduledTime: &when})
	suite.ErrorIs(err, ErrLeadNotFound)

	call, err := suite.calls.ScheduleCall(suite.ctx, CreateScheduledCallInput{LeadID: lead.ID, ScheduledTime: &when})
	suite.Require().NoError(err)
	suite.Equal(models.ScheduledCallStatusPending, call.Status)

	done := models.ScheduledCallStatusCompleted
	updated, err := suite.calls.UpdateScheduledCall(suite.ctx, call.ID, repository.ScheduledCallPatch{Status: &done}, suite.actor.ID)
	suite.Require().NoError(err)
	suite.Equal(models.ScheduledCallStatusCompleted, updated.Status)

	suite.Require().NoError(suite.calls.DeleteScheduledCall(suite.ctx, call.ID, suite.actor.ID))
	suite.ErrorIs(suite.calls.DeleteScheduledCall(suite.ctx, call.ID, suite.actor.ID), ErrScheduledCallNotFound)
}

func (suite *ServiceTestSuite) TestTimesheet_ValidationAndApprove() {
	day := time.Now()

	_, err := suite.timesheets.CreateTimesheet(suite.ctx, CreateTimesheetInput{UserID: suite.actor.ID, Hours: 1})
	suite.ErrorIs(err, ErrDateRequired)

	_, err = suite.timesheets.CreateTimesheet(suite.ctx, CreateTimesheetInput{UserID: suite.actor.ID, Date: &day, Hours: 25})
	suite.ErrorIs(err, ErrInvalidHours)

	missing := uint64(404)
	_, err = suite.timesheets.CreateTimesheet(suite.ctx, CreateTimesheetInput{UserID: suite.actor.ID, Date: &day, Hours: 1, LeadID: &missing})
	suite.ErrorIs(err, ErrLeadNotFound)

	ts, err := suite.timesheets.CreateTimesheet(suite.ctx, CreateTimesheetInput{UserID: suite.actor.ID, Date: &day, Hours: 7.5})
	suite.Require().NoError(err)
	suite.False(ts.Approved)

	_, err = suite.timesheets.UpdateTimesheet(suite.ctx, ts.ID, repository.TimesheetPatch{LeadID: &missing}, suite.actor.ID)
	suite.ErrorIs(err, ErrLeadNotFound)

	approved, err := suite.timesheets.ApproveTimesheet(suite.ctx, ts.ID, suite.actor.ID)
	suite.Require().NoError(err)
	suite.True(approved.Approved)

	_, err = suite.timesheets.ApproveTimesheet(suite.ctx, ts.ID+1, suite.actor.ID)
	suite.ErrorIs(err, ErrTimesheetNotFound)
}

func (suite *ServiceTestSuite) TestGetActivity_ResolvesTarget() {
	lead := suite.createLead()
	target := models.TargetLead
	activities, _, err := suite.activities.ListActivities(suite.ctx, repository.ActivityFilter{TargetType: &target, TargetID: &lead.ID})
	suite.Require().NoError(err)
	suite.Require().NotEmpty(activities)

	activity, resolved, err := suite.activities.GetActivity(suite.ctx, activities[0].ID)
	suite.Require().NoError(err)
	suite.Equal(activities[0].ID, activity.ID)
	suite.Require().IsType(&models.Lead{}, resolved)
	suite.Equal(lead.LeadID, resolved.(*models.Lead).LeadID)

	_, err = suite.leads.DeleteLead(suite.ctx, lead.ID, suite.actor.ID)
	suite.Require().NoError(err)
	_, resolved, err = suite.activities.GetActivity(suite.ctx, activities[0].ID)
	suite.Require().NoError(err)
	suite.Nil(resolved)

	_, _, err = suite.activities.GetActivity(suite.ctx, 9999)
	suite.ErrorIs(err, ErrActivityNotFound)
}

func (suite *ServiceTestSuite) TestUpsertTeamMember() {
	manager := models.TeamRoleManager
	member, err := suite.members.UpsertTeamMember(suite.ctx, suite.actor.ID, repository.TeamMemberPatch{Role: &manager}, suite.actor.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TeamRoleManager, member.Role)

	bogus := models.TeamRole("intern")
	_, err = suite.members.UpsertTeamMember(suite.ctx, suite.actor.ID, repository.TeamMemberPatch{Role: &bogus}, suite.actor.ID)
	suite.ErrorIs(err, ErrInvalidTeamRole)

	away := models.TeamMemberStatus("vacation")
	_, err = suite.members.UpsertTeamMember(suite.ctx, suite.actor.ID, repository.TeamMemberPatch{Status: &away}, suite.actor.ID)
	suite.ErrorIs(err, ErrInvalidTeamStatus)

	_, err = suite.members.UpsertTeamMember(suite.ctx, 999, repository.TeamMemberPatch{}, suite.actor.ID)
	suite.ErrorIs(err, ErrUserNotFound)

	_, err = suite.members.GetTeamMember(suite.ctx, 999)
	suite.ErrorIs(err, ErrTeamMemberNotFound)
}

func (suite *ServiceTestSuite) TestRemoveTeamMember() {
	suite.Require().NoError(suite.members.RemoveTeamMember(suite.ctx, suite.actor.ID, suite.actor.ID))

	_, err := suite.members.GetTeamMember(suite.ctx, suite.actor.ID)
	suite.ErrorIs(err, ErrTeamMemberNotFound)
	suite.ErrorIs(suite.members.RemoveTeamMember(suite.ctx, suite.actor.ID, suite.actor.ID), ErrTeamMemberNotFound)

	user, err := suite.auth.GetUser(suite.ctx, suite.actor.ID)
	suite.Require().NoError(err)
	suite.Equal(suite.actor.ID, user.ID)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

type exhaustedLeadRepository struct {
	repository.LeadRepository
}

func (exhaustedLeadRepository) Create(context.Context, *models.Lead, *uint64) error {
	return repository.ErrLeadIDExhausted
}

func TestCreateLead_ExhaustionIsTransient(t *testing.T) {
	svc := NewLeadService(exhaustedLeadRepository{}, nil)

	_, err := svc.CreateLead(context.Background(), CreateLeadInput{})

	if !errors.Is(err, ErrLeadIDUnavailable) || !errors.Is(err, repository.ErrLeadIDExhausted) {
		t.Fatalf("expected ErrLeadIDUnavailable wrapping ErrLeadIDExhausted, got %v", err)
	}
}
