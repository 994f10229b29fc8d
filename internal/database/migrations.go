package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/crm-api/internal/models"
	"gorm.io/gorm"
)

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.TeamMember{},
		&models.Lead{},
		&models.Call{},
		&models.ScheduledCall{},
		&models.Timesheet{},
		&models.Activity{},
	}
}

// AddIndexes adds composite indexes used by the list queries
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Lead list: status filter with default sort
		{"leads", "idx_leads_status_created_at", "status, created_at"},

		// Dependent lookups by lead, ordered by their time column
		{"calls", "idx_calls_lead_call_time", "lead_id, call_time"},
		{"scheduled_calls", "idx_scheduled_calls_caller_time", "assigned_caller_id, scheduled_time"},
		{"timesheets", "idx_timesheets_user_date", "user_id, date"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}
