package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/crm-api/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormTimesheetRepository is a GORM implementation of TimesheetRepository
type GormTimesheetRepository struct {
	db *gorm.DB
}

// NewTimesheetRepository creates a new TimesheetRepository
func NewTimesheetRepository(db *gorm.DB) TimesheetRepository {
	return &GormTimesheetRepository{db: db}
}

// Create inserts a timesheet. A timesheet tied to a lead is inserted under a
// shared lock on that lead and fails with ErrLeadMissing when it is absent.
func (r *GormTimesheetRepository) Create(ctx context.Context, timesheet *models.Timesheet) error {
	timesheet.Date = toDate(time.Time(timesheet.Date))
	return createForLead(ctx, r.db, timesheet.LeadID, timesheet)
}

// FindByID finds a timesheet by ID
func (r *GormTimesheetRepository) FindByID(ctx context.Context, id uint64) (*models.Timesheet, error) {
	return findByID[models.Timesheet](ctx, r.db, id)
}

// List retrieves timesheets, latest day first. Date bounds are inclusive
// calendar days.
func (r *GormTimesheetRepository) List(ctx context.Context, filter TimesheetFilter) ([]models.Timesheet, int64, error) {
	var where []scope
	if filter.LeadID != nil {
		where = append(where, whereEq("lead_id", *filter.LeadID))
	}
	if filter.UserID != nil {
		where = append(where, whereEq("user_id", *filter.UserID))
	}
	if filter.Approved != nil {
		where = append(where, whereEq("approved", *filter.Approved))
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		var from, to interface{}
		if filter.StartDate != nil {
			from = toDate(*filter.StartDate)
		}
		if filter.EndDate != nil {
			to = toDate(*filter.EndDate)
		}
		where = append(where, whereBetween("date", from, to))
	}

	timesheets, total, err := listQuery[models.Timesheet](r.db.WithContext(ctx), where,
		orderBy("date", true), paginate(filter.Limit, filter.Offset))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list timesheets: %w", err)
	}
	return timesheets, total, nil
}

// Update merges patch onto the timesheet
func (r *GormTimesheetRepository) Update(ctx context.Context, id uint64, patch TimesheetPatch) (*models.Timesheet, error) {
	return updateByID(ctx, r.db, id, func(tx *gorm.DB, ts *models.Timesheet) error {
		if patch.ClearLead {
			ts.LeadID = nil
		} else if patch.LeadID != nil {
			leadID := *patch.LeadID
			if err := lockLead(tx, leadID); err != nil {
				return err
			}
			ts.LeadID = &leadID
		}
		if patch.Date != nil {
			ts.Date = toDate(*patch.Date)
		}
		if patch.Hours != nil {
			ts.Hours = *patch.Hours
		}
		if patch.Description != nil {
			ts.Description = *patch.Description
		}
		if patch.Approved != nil {
			ts.Approved = *patch.Approved
		}
		return nil
	})
}

// Delete deletes a timesheet
func (r *GormTimesheetRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	return deleteByID[models.Timesheet](ctx, r.db, id)
}

// toDate truncates t to its calendar day in UTC
func toDate(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
