package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/crm-api/internal/models"
	"gorm.io/gorm"
)

// GormTeamMemberRepository is a GORM implementation of TeamMemberRepository
type GormTeamMemberRepository struct {
	db   *gorm.DB
	opts options
}

// NewTeamMemberRepository creates a new TeamMemberRepository
func NewTeamMemberRepository(db *gorm.DB, opts ...Option) TeamMemberRepository {
	return &GormTeamMemberRepository{db: db, opts: newOptions(opts)}
}

// FindByUserID finds the team member row for a user
func (r *GormTeamMemberRepository) FindByUserID(ctx context.Context, userID uint64) (*models.TeamMember, error) {
	return r.findByUserID(r.db.WithContext(ctx), userID)
}

func (r *GormTeamMemberRepository) findByUserID(db *gorm.DB, userID uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	result := db.Preload("User").Where("user_id = ?", userID).Limit(1).Find(&member)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &member, nil
}

// List lists team members, most recently active first
func (r *GormTeamMemberRepository) List(ctx context.Context, filter TeamMemberFilter) ([]models.TeamMember, error) {
	query := r.db.WithContext(ctx).Preload("User")
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	members := make([]models.TeamMember, 0)
	if err := query.Order("last_activity_at DESC").Order("id ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

// Upsert merges patch onto the user's team member row or inserts a new one.
// A concurrent insert for the same user loses on the unique index and is
// retried once as an update.
func (r *GormTeamMemberRepository) Upsert(ctx context.Context, userID uint64, patch TeamMemberPatch) (*models.TeamMember, error) {
	member, err := r.upsert(ctx, userID, patch)
	if isDuplicateKey(err) {
		member, err = r.upsert(ctx, userID, patch)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert team member: %w", err)
	}
	return member, nil
}

func (r *GormTeamMemberRepository) upsert(ctx context.Context, userID uint64, patch TeamMemberPatch) (*models.TeamMember, error) {
	var member *models.TeamMember
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.findByUserID(forUpdate(tx), userID)
		if err != nil {
			return err
		}

		if existing == nil {
			member = &models.TeamMember{
				UserID: userID,
				Role:   models.TeamRoleAgent,
				Status: models.TeamMemberActive,
			}
		} else {
			member = existing
		}
		patch.apply(member)
		member.LastActivityAt = r.opts.now()

		if existing == nil {
			return tx.Omit("User").Create(member).Error
		}
		return tx.Omit("User").Save(member).Error
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// Touch refreshes LastActivityAt for the user
func (r *GormTeamMemberRepository) Touch(ctx context.Context, userID uint64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.TeamMember{}).
		Where("user_id = ?", userID).
		Update("last_activity_at", r.opts.now())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the user's team member row
func (r *GormTeamMemberRepository) Delete(ctx context.Context, userID uint64) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.TeamMember{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (p TeamMemberPatch) apply(member *models.TeamMember) {
	if p.Role != nil {
		member.Role = *p.Role
	}
	if p.Status != nil {
		member.Status = *p.Status
	}
	if p.Phone != nil {
		member.Phone = *p.Phone
	}
}
