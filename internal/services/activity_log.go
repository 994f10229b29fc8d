package services

import (
	"context"
	"log"

	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/repository"
)

// recordActivity appends an audit entry. Failures are logged and do not fail
// the operation that produced them.
func recordActivity(ctx context.Context, repo repository.ActivityRepository, actorID uint64, action models.ActionType, target models.TargetType, targetID uint64, details string) {
	if repo == nil || actorID == 0 {
		return
	}
	activity := &models.Activity{
		UserID:     actorID,
		ActionType: action,
		TargetType: target,
		TargetID:   targetID,
		Details:    details,
	}
	if err := repo.Create(ctx, activity); err != nil {
		log.Printf("failed to record %s %s %d activity: %v", action, target, targetID, err)
	}
}
