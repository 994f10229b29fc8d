package models

import "time"

type LeadStatus string

const (
	LeadStatusNew           LeadStatus = "new"
	LeadStatusContacted     LeadStatus = "contacted"
	LeadStatusQualified     LeadStatus = "qualified"
	LeadStatusNegotiating   LeadStatus = "negotiating"
	LeadStatusUnderContract LeadStatus = "under_contract"
	LeadStatusClosedWon     LeadStatus = "closed_won"
	LeadStatusClosedLost    LeadStatus = "closed_lost"
	LeadStatusDead          LeadStatus = "dead"
)

var leadStatuses = map[LeadStatus]struct{}{
	LeadStatusNew:           {},
	LeadStatusContacted:     {},
	LeadStatusQualified:     {},
	LeadStatusNegotiating:   {},
	LeadStatusUnderContract: {},
	LeadStatusClosedWon:     {},
	LeadStatusClosedLost:    {},
	LeadStatusDead:          {},
}

// Valid reports whether s is one of the known lead statuses.
func (s LeadStatus) Valid() bool {
	_, ok := leadStatuses[s]
	return ok
}

// Lead is the aggregate root for calls, scheduled calls and lead timesheets.
// Dependents are removed by the repository, not by a storage cascade.
type Lead struct {
	ID               uint64     `gorm:"primarykey" json:"id"`
	LeadID           string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"lead_id"`
	Status           LeadStatus `gorm:"type:varchar(32);not null;default:'new';index" json:"status"`
	PropertyAddress  string     `gorm:"type:varchar(255)" json:"property_address"`
	OwnerName        string     `gorm:"type:varchar(255)" json:"owner_name"`
	OwnerPhone       string     `gorm:"type:varchar(50)" json:"owner_phone"`
	OwnerEmail       string     `gorm:"type:varchar(255)" json:"owner_email"`
	Source           string     `gorm:"type:varchar(64)" json:"source"`
	Notes            string     `gorm:"type:text" json:"notes"`
	AssignedToUserID *uint64    `gorm:"index" json:"assigned_to_user_id"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relations
	AssignedTo *User `gorm:"foreignKey:AssignedToUserID" json:"assigned_to,omitempty"`
}
