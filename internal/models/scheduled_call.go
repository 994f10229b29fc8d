package models

import "time"

type ScheduledCallStatus string

const (
	ScheduledCallStatusPending   ScheduledCallStatus = "pending"
	ScheduledCallStatusCompleted ScheduledCallStatus = "completed"
	ScheduledCallStatusCancelled ScheduledCallStatus = "cancelled"
	ScheduledCallStatusMissed    ScheduledCallStatus = "missed"
)

// Valid reports whether s is one of the known scheduled call statuses.
func (s ScheduledCallStatus) Valid() bool {
	switch s {
	case ScheduledCallStatusPending, ScheduledCallStatusCompleted,
		ScheduledCallStatusCancelled, ScheduledCallStatusMissed:
		return true
	}
	return false
}

type ScheduledCall struct {
	ID               uint64              `gorm:"primarykey" json:"id"`
	LeadID           uint64              `gorm:"not null;index" json:"lead_id"`
	Status           ScheduledCallStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	AssignedCallerID *uint64             `gorm:"index" json:"assigned_caller_id"`
	ScheduledTime    time.Time           `gorm:"not null;index" json:"scheduled_time"`
	Notes            string              `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}
