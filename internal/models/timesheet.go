package models

import (
	"time"

	"gorm.io/datatypes"
)

// Timesheet records hours for a user on a calendar day. LeadID is optional
// because not every timesheet is tied to a lead.
type Timesheet struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	LeadID      *uint64        `gorm:"index" json:"lead_id"`
	UserID      uint64         `gorm:"not null;index" json:"user_id"`
	Date        datatypes.Date `gorm:"not null;index" json:"date"`
	Hours       float64        `gorm:"not null;default:0" json:"hours"`
	Description string         `gorm:"type:text" json:"description"`
	Approved    bool           `gorm:"not null;default:false" json:"approved"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
