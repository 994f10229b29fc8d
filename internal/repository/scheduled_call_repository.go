package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/crm-api/internal/models"
	"gorm.io/gorm"
)

// GormScheduledCallRepository is a GORM implementation of ScheduledCallRepository
type GormScheduledCallRepository struct {
	db *gorm.DB
}

// NewScheduledCallRepository creates a new ScheduledCallRepository
func NewScheduledCallRepository(db *gorm.DB) ScheduledCallRepository {
	return &GormScheduledCallRepository{db: db}
}

// Create inserts a scheduled call under a shared lock on its lead. It returns
// ErrLeadMissing when the lead does not exist.
func (r *GormScheduledCallRepository) Create(ctx context.Context, call *models.ScheduledCall) error {
	if call.Status == "" {
		call.Status = models.ScheduledCallStatusPending
	}
	leadID := call.LeadID
	return createForLead(ctx, r.db, &leadID, call)
}

// FindByID finds a scheduled call by ID
func (r *GormScheduledCallRepository) FindByID(ctx context.Context, id uint64) (*models.ScheduledCall, error) {
	return findByID[models.ScheduledCall](ctx, r.db, id)
}

// List retrieves scheduled calls, soonest first
func (r *GormScheduledCallRepository) List(ctx context.Context, filter ScheduledCallFilter) ([]models.ScheduledCall, int64, error) {
	var where []scope
	if filter.LeadID != nil {
		where = append(where, whereEq("lead_id", *filter.LeadID))
	}
	if filter.AssignedCallerID != nil {
		where = append(where, whereEq("assigned_caller_id", *filter.AssignedCallerID))
	}
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return []models.ScheduledCall{}, 0, nil
		}
		where = append(where, whereEq("status", *filter.Status))
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		from, to := timeBounds(filter.StartDate, filter.EndDate)
		where = append(where, whereBetween("scheduled_time", from, to))
	}

	calls, total, err := listQuery[models.ScheduledCall](r.db.WithContext(ctx), where,
		orderBy("scheduled_time", false), paginate(filter.Limit, filter.Offset))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list scheduled calls: %w", err)
	}
	return calls, total, nil
}

// Update merges patch onto the scheduled call
func (r *GormScheduledCallRepository) Update(ctx context.Context, id uint64, patch ScheduledCallPatch) (*models.ScheduledCall, error) {
	return updateByID(ctx, r.db, id, func(_ *gorm.DB, call *models.ScheduledCall) error {
		if patch.Status != nil {
			call.Status = *patch.Status
		}
		if patch.AssignedCallerID != nil {
			callerID := *patch.AssignedCallerID
			call.AssignedCallerID = &callerID
		}
		if patch.ScheduledTime != nil {
			call.ScheduledTime = *patch.ScheduledTime
		}
		if patch.Notes != nil {
			call.Notes = *patch.Notes
		}
		return nil
	})
}

// Delete deletes a scheduled call
func (r *GormScheduledCallRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	return deleteByID[models.ScheduledCall](ctx, r.db, id)
}
