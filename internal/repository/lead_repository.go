package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/crm-api/internal/metrics"
	"github.com/yukikurage/crm-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLeadRepository is a GORM implementation of LeadRepository
type GormLeadRepository struct {
	db         *gorm.DB
	activities ActivityRepository
	opts       options
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db *gorm.DB, opts ...Option) LeadRepository {
	return &GormLeadRepository{
		db:         db,
		activities: NewActivityRepository(db, opts...),
		opts:       newOptions(opts),
	}
}

// Create allocates the next lead ID and inserts the lead in one transaction.
// A collision on the lead ID unique index, a deadlock or a serialization
// failure retries the whole transaction.
func (r *GormLeadRepository) Create(ctx context.Context, lead *models.Lead, actorID *uint64) error {
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}

	var lastErr error
	for attempt := 1; attempt <= r.opts.leadIDMaxAttempts; attempt++ {
		candidate := *lead
		candidate.ID = 0

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			leadID, err := allocateLeadID(tx, r.opts.now())
			if err != nil {
				return err
			}
			candidate.LeadID = leadID

			if err := tx.Omit(clause.Associations).Create(&candidate).Error; err != nil {
				return err
			}

			if actorID != nil {
				activity := models.Activity{
					UserID:     *actorID,
					ActionType: models.ActionCreate,
					TargetType: models.TargetLead,
					TargetID:   candidate.ID,
					Details:    candidate.LeadID,
					CreatedAt:  r.opts.now(),
				}
				if err := tx.Create(&activity).Error; err != nil {
					return fmt.Errorf("failed to record create activity: %w", err)
				}
			}
			return nil
		})
		if err == nil {
			*lead = candidate
			metrics.LeadIDsAllocated.Inc()
			return nil
		}

		if !isAllocationConflict(err) {
			return fmt.Errorf("failed to create lead: %w", err)
		}
		metrics.LeadIDConflicts.Inc()
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("failed to create lead: %w", ctxErr)
		}
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrLeadIDExhausted, r.opts.leadIDMaxAttempts, lastErr)
}

// FindByID finds a lead by ID with its assignee preloaded
func (r *GormLeadRepository) FindByID(ctx context.Context, id uint64) (*models.Lead, error) {
	return findByID[models.Lead](ctx, r.db.Preload("AssignedTo"), id)
}

// FindByLeadID finds a lead by its lead ID
func (r *GormLeadRepository) FindByLeadID(ctx context.Context, leadID string) (*models.Lead, error) {
	var lead models.Lead
	result := r.db.WithContext(ctx).Where("lead_id = ?", leadID).Limit(1).Find(&lead)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &lead, nil
}

// List retrieves leads with filtering and pagination. The total is counted
// before pagination.
func (r *GormLeadRepository) List(ctx context.Context, filter LeadFilter) ([]models.Lead, int64, error) {
	q := r.composeLeadQuery(ctx, filter)
	if q.empty {
		return []models.Lead{}, 0, nil
	}

	leads, total, err := listQuery[models.Lead](r.db.WithContext(ctx), q.where, q.order, q.page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, total, nil
}

// Update merges patch onto the lead; UpdatedAt is refreshed by GORM
func (r *GormLeadRepository) Update(ctx context.Context, id uint64, patch LeadPatch) (*models.Lead, error) {
	lead, err := updateByID(ctx, r.db, id, func(_ *gorm.DB, lead *models.Lead) error {
		patch.apply(lead)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	return lead, nil
}

// Delete removes a lead and every dependent in one transaction
func (r *GormLeadRepository) Delete(ctx context.Context, id uint64) (CascadeResult, error) {
	var result CascadeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = deleteLeadCascade(tx, id)
		return err
	})
	if err != nil {
		return CascadeResult{}, err
	}

	for entity, rows := range result.Dependents {
		metrics.RecordCascade(entity, rows)
	}
	if result.Found {
		metrics.RecordCascade("leads", 1)
	}
	return result, nil
}

func (p LeadPatch) apply(lead *models.Lead) {
	if p.Status != nil {
		lead.Status = *p.Status
	}
	if p.PropertyAddress != nil {
		lead.PropertyAddress = *p.PropertyAddress
	}
	if p.OwnerName != nil {
		lead.OwnerName = *p.OwnerName
	}
	if p.OwnerPhone != nil {
		lead.OwnerPhone = *p.OwnerPhone
	}
	if p.OwnerEmail != nil {
		lead.OwnerEmail = *p.OwnerEmail
	}
	if p.Source != nil {
		lead.Source = *p.Source
	}
	if p.Notes != nil {
		lead.Notes = *p.Notes
	}
	if p.ClearAssignee {
		lead.AssignedToUserID = nil
	} else if p.AssignedToUserID != nil {
		id := *p.AssignedToUserID
		lead.AssignedToUserID = &id
	}
}
