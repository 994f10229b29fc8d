package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/crm-api/internal/models"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db   *gorm.DB
	opts options
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB, opts ...Option) ActivityRepository {
	return &GormActivityRepository{db: db, opts: newOptions(opts)}
}

// Create records an activity
func (r *GormActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = r.opts.now()
	}
	return r.db.WithContext(ctx).Create(activity).Error
}

// FindByID finds an activity by ID
func (r *GormActivityRepository) FindByID(ctx context.Context, id uint64) (*models.Activity, error) {
	return findByID[models.Activity](ctx, r.db, id)
}

// List retrieves activities, newest first
func (r *GormActivityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error) {
	var where []scope
	if filter.UserID != nil {
		where = append(where, whereEq("user_id", *filter.UserID))
	}
	if filter.ActionType != nil {
		where = append(where, whereEq("action_type", *filter.ActionType))
	}
	if filter.TargetType != nil {
		where = append(where, whereEq("target_type", *filter.TargetType))
	}
	if filter.TargetID != nil {
		where = append(where, whereEq("target_id", *filter.TargetID))
	}

	activities, total, err := listQuery[models.Activity](r.db.WithContext(ctx), where,
		orderBy("created_at", true), paginate(filter.Limit, filter.Offset))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, total, nil
}

// LeadIDsCreatedBy returns the distinct IDs of leads whose create activity
// belongs to userID
func (r *GormActivityRepository) LeadIDsCreatedBy(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&models.Activity{}).
		Distinct("target_id").
		Where("action_type = ? AND target_type = ? AND user_id = ?", models.ActionCreate, models.TargetLead, userID).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ResolveTarget dispatches on the activity's target type
func (r *GormActivityRepository) ResolveTarget(ctx context.Context, activity *models.Activity) (interface{}, error) {
	var (
		target interface{}
		err    error
	)

	switch activity.TargetType {
	case models.TargetLead:
		target, err = resolve[models.Lead](ctx, r.db, activity.TargetID)
	case models.TargetCall:
		target, err = resolve[models.Call](ctx, r.db, activity.TargetID)
	case models.TargetScheduledCall:
		target, err = resolve[models.ScheduledCall](ctx, r.db, activity.TargetID)
	case models.TargetTimesheet:
		target, err = resolve[models.Timesheet](ctx, r.db, activity.TargetID)
	case models.TargetTeamMember:
		target, err = resolve[models.TeamMember](ctx, r.db, activity.TargetID)
	case models.TargetUser:
		target, err = resolve[models.User](ctx, r.db, activity.TargetID)
	default:
		return nil, fmt.Errorf("unknown activity target type %q", activity.TargetType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s %d: %w", activity.TargetType, activity.TargetID, err)
	}
	return target, nil
}

// resolve returns an untyped nil when the row is missing so callers can
// compare the result against nil.
func resolve[T any](ctx context.Context, db *gorm.DB, id uint64) (interface{}, error) {
	row, err := findByID[T](ctx, db, id)
	if err != nil || row == nil {
		return nil, err
	}
	return row, nil
}
