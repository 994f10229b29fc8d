package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/crm-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLeadMissing is returned when a call, scheduled call or timesheet names a
// lead that does not exist.
var ErrLeadMissing = errors.New("lead repository: referenced lead not found")

// findByID loads a single row by primary key. A missing row is not an error.
func findByID[T any](ctx context.Context, db *gorm.DB, id uint64) (*T, error) {
	var row T
	result := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

// deleteByID removes a single row by primary key and reports whether it existed.
func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint64) (bool, error) {
	var model T
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// updateByID loads a row inside a transaction, applies mutate and saves it.
// It returns nil when the row does not exist. mutate runs on the
// transaction so it can take locks of its own.
func updateByID[T any](ctx context.Context, db *gorm.DB, id uint64, mutate func(tx *gorm.DB, row *T) error) (*T, error) {
	var updated *T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findByID[T](ctx, tx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}
		if err := mutate(tx, row); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(row).Error; err != nil {
			return fmt.Errorf("failed to save: %w", err)
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// lockLead takes a shared lock on the lead row. A cascade delete holds the
// same row FOR UPDATE, so a dependent insert behind this lock either lands
// before the cascade, and is deleted by it, or sees the lead gone.
func lockLead(tx *gorm.DB, leadID uint64) error {
	var ids []uint64
	err := forShare(tx).Model(&models.Lead{}).
		Where("id = ?", leadID).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("failed to lock lead: %w", err)
	}
	if len(ids) == 0 {
		return ErrLeadMissing
	}
	return nil
}

// createForLead inserts row in a transaction that first locks its lead.
// A nil leadID inserts without a lock.
func createForLead(ctx context.Context, db *gorm.DB, leadID *uint64, row interface{}) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if leadID != nil {
			if err := lockLead(tx, *leadID); err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Create(row).Error
	})
}
