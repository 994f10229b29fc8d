package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/crm-api/internal/models"
	"gorm.io/gorm"
)

// GormCallRepository is a GORM implementation of CallRepository
type GormCallRepository struct {
	db *gorm.DB
}

// NewCallRepository creates a new CallRepository
func NewCallRepository(db *gorm.DB) CallRepository {
	return &GormCallRepository{db: db}
}

// Create inserts a call under a shared lock on its lead. It returns
// ErrLeadMissing when the lead does not exist.
func (r *GormCallRepository) Create(ctx context.Context, call *models.Call) error {
	leadID := call.LeadID
	return createForLead(ctx, r.db, &leadID, call)
}

// FindByID finds a call by ID
func (r *GormCallRepository) FindByID(ctx context.Context, id uint64) (*models.Call, error) {
	return findByID[models.Call](ctx, r.db, id)
}

// List retrieves calls, most recent first
func (r *GormCallRepository) List(ctx context.Context, filter CallFilter) ([]models.Call, int64, error) {
	var where []scope
	if filter.LeadID != nil {
		where = append(where, whereEq("lead_id", *filter.LeadID))
	}
	if filter.UserID != nil {
		where = append(where, whereEq("user_id", *filter.UserID))
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		from, to := timeBounds(filter.StartDate, filter.EndDate)
		where = append(where, whereBetween("call_time", from, to))
	}

	calls, total, err := listQuery[models.Call](r.db.WithContext(ctx), where,
		orderBy("call_time", true), paginate(filter.Limit, filter.Offset))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list calls: %w", err)
	}
	return calls, total, nil
}

// Update merges patch onto the call
func (r *GormCallRepository) Update(ctx context.Context, id uint64, patch CallPatch) (*models.Call, error) {
	return updateByID(ctx, r.db, id, func(_ *gorm.DB, call *models.Call) error {
		if patch.UserID != nil {
			userID := *patch.UserID
			call.UserID = &userID
		}
		if patch.CallTime != nil {
			call.CallTime = *patch.CallTime
		}
		if patch.Direction != nil {
			call.Direction = *patch.Direction
		}
		if patch.Outcome != nil {
			call.Outcome = *patch.Outcome
		}
		if patch.DurationSeconds != nil {
			call.DurationSeconds = *patch.DurationSeconds
		}
		if patch.Notes != nil {
			call.Notes = *patch.Notes
		}
		return nil
	})
}

// Delete deletes a call
func (r *GormCallRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	return deleteByID[models.Call](ctx, r.db, id)
}
