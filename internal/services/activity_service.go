package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/repository"
)

var ErrActivityNotFound = errors.New("activity not found")

// ActivityService exposes the audit log
type ActivityService struct {
	activities repository.ActivityRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activities repository.ActivityRepository) *ActivityService {
	return &ActivityService{activities: activities}
}

// ListActivities returns a page of activities and the unpaginated total
func (s *ActivityService) ListActivities(ctx context.Context, filter repository.ActivityFilter) ([]models.Activity, int64, error) {
	return s.activities.List(ctx, filter)
}

// GetActivity returns an activity and the entity it points at. The target
// is nil when it has since been deleted.
func (s *ActivityService) GetActivity(ctx context.Context, id uint64) (*models.Activity, interface{}, error) {
	activity, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find activity: %w", err)
	}
	if activity == nil {
		return nil, nil, ErrActivityNotFound
	}

	target, err := s.activities.ResolveTarget(ctx, activity)
	if err != nil {
		return nil, nil, err
	}
	return activity, target, nil
}
