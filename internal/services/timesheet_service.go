package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/repository"
	"gorm.io/datatypes"
)

const maxHoursPerDay = 24

var (
	ErrTimesheetNotFound = errors.New("timesheet not found")
	ErrDateRequired      = errors.New("date is required")
	ErrInvalidHours      = errors.New("hours must be between 0 and 24")
)

// TimesheetService handles timesheet business logic
type TimesheetService struct {
	timesheets repository.TimesheetRepository
	activities repository.ActivityRepository
}

// NewTimesheetService creates a new TimesheetService
func NewTimesheetService(timesheets repository.TimesheetRepository, activities repository.ActivityRepository) *TimesheetService {
	return &TimesheetService{
		timesheets: timesheets,
		activities: activities,
	}
}

// CreateTimesheetInput represents input for creating a timesheet entry
type CreateTimesheetInput struct {
	UserID      uint64
	LeadID      *uint64
	Date        *time.Time
	Hours       float64
	Description string
}

func validHours(h float64) bool {
	return h >= 0 && h <= maxHoursPerDay
}

// ListTimesheets returns a page of timesheets and the unpaginated total
func (s *TimesheetService) ListTimesheets(ctx context.Context, filter repository.TimesheetFilter) ([]models.Timesheet, int64, error) {
	return s.timesheets.List(ctx, filter)
}

// GetTimesheet returns a timesheet by ID
func (s *TimesheetService) GetTimesheet(ctx context.Context, id uint64) (*models.Timesheet, error) {
	ts, err := s.timesheets.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find timesheet: %w", err)
	}
	if ts == nil {
		return nil, ErrTimesheetNotFound
	}
	return ts, nil
}

// CreateTimesheet records hours for a user on a day
func (s *TimesheetService) CreateTimesheet(ctx context.Context, input CreateTimesheetInput) (*models.Timesheet, error) {
	if input.Date == nil || input.Date.IsZero() {
		return nil, ErrDateRequired
	}
	if !validHours(input.Hours) {
		return nil, ErrInvalidHours
	}
	ts := &models.Timesheet{
		UserID:      input.UserID,
		LeadID:      input.LeadID,
		Date:        datatypes.Date(*input.Date),
		Hours:       input.Hours,
		Description: input.Description,
	}
	if err := s.timesheets.Create(ctx, ts); err != nil {
		return nil, leadError(err, "create timesheet")
	}

	recordActivity(ctx, s.activities, input.UserID, models.ActionCreate, models.TargetTimesheet, ts.ID, "")
	return ts, nil
}

// UpdateTimesheet applies a partial update
func (s *TimesheetService) UpdateTimesheet(ctx context.Context, id uint64, patch repository.TimesheetPatch, actorID uint64) (*models.Timesheet, error) {
	if patch.Hours != nil && !validHours(*patch.Hours) {
		return nil, ErrInvalidHours
	}
	if patch.Date != nil && patch.Date.IsZero() {
		return nil, ErrDateRequired
	}

	ts, err := s.timesheets.Update(ctx, id, patch)
	if err != nil {
		return nil, leadError(err, "update timesheet")
	}
	if ts == nil {
		return nil, ErrTimesheetNotFound
	}

	recordActivity(ctx, s.activities, actorID, models.ActionUpdate, models.TargetTimesheet, ts.ID, "")
	return ts, nil
}

// ApproveTimesheet marks a timesheet as approved
func (s *TimesheetService) ApproveTimesheet(ctx context.Context, id uint64, approverID uint64) (*models.Timesheet, error) {
	approved := true
	ts, err := s.timesheets.Update(ctx, id, repository.TimesheetPatch{Approved: &approved})
	if err != nil {
		return nil, fmt.Errorf("failed to approve timesheet: %w", err)
	}
	if ts == nil {
		return nil, ErrTimesheetNotFound
	}

	recordActivity(ctx, s.activities, approverID, models.ActionUpdate, models.TargetTimesheet, ts.ID, "approved")
	return ts, nil
}

// DeleteTimesheet deletes a timesheet
func (s *TimesheetService) DeleteTimesheet(ctx context.Context, id uint64, actorID uint64) error {
	deleted, err := s.timesheets.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete timesheet: %w", err)
	}
	if !deleted {
		return ErrTimesheetNotFound
	}

	recordActivity(ctx, s.activities, actorID, models.ActionDelete, models.TargetTimesheet, id, "")
	return nil
}
