package repository

import (
	"fmt"

	"github.com/yukikurage/crm-api/internal/models"
	"gorm.io/gorm"
)

// CascadeResult reports the outcome of a lead deletion. Found is false when
// the lead did not exist, in which case nothing was changed. Dependents holds
// the rows removed per entity and is informational only.
type CascadeResult struct {
	Found      bool
	Dependents map[string]int64
}

// leadDependent describes one entity that references a lead and how it is
// cleaned up when the lead goes away.
type leadDependent struct {
	entity string
	model  interface{}
	column string
}

// leadDependents is the cascade policy for leads, in deletion order. Every
// dependent is removed before the lead row. Activities are audit records and
// are kept.
var leadDependents = []leadDependent{
	{entity: "calls", model: &models.Call{}, column: "lead_id"},
	{entity: "scheduled_calls", model: &models.ScheduledCall{}, column: "lead_id"},
	{entity: "timesheets", model: &models.Timesheet{}, column: "lead_id"},
}

// deleteLeadCascade removes a lead and its dependents. It must be called
// inside a transaction so that any failure rolls back every step.
func deleteLeadCascade(tx *gorm.DB, id uint64) (CascadeResult, error) {
	var found []models.Lead
	if err := forUpdate(tx).Select("id").Where("id = ?", id).Limit(1).Find(&found).Error; err != nil {
		return CascadeResult{}, fmt.Errorf("failed to lock lead %d: %w", id, err)
	}
	if len(found) == 0 {
		return CascadeResult{}, nil
	}

	result := CascadeResult{
		Found:      true,
		Dependents: make(map[string]int64, len(leadDependents)),
	}

	for _, dep := range leadDependents {
		del := tx.Where(dep.column+" = ?", id).Delete(dep.model)
		if del.Error != nil {
			return CascadeResult{}, fmt.Errorf("failed to delete %s of lead %d: %w", dep.entity, id, del.Error)
		}
		result.Dependents[dep.entity] = del.RowsAffected
	}

	if err := tx.Where("id = ?", id).Delete(&models.Lead{}).Error; err != nil {
		return CascadeResult{}, fmt.Errorf("failed to delete lead %d: %w", id, err)
	}

	return result, nil
}
