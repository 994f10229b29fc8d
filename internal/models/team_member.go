package models

import "time"

type TeamRole string

const (
	TeamRoleAdmin   TeamRole = "admin"
	TeamRoleManager TeamRole = "manager"
	TeamRoleCaller  TeamRole = "caller"
	TeamRoleAgent   TeamRole = "agent"
)

func (r TeamRole) Valid() bool {
	switch r {
	case TeamRoleAdmin, TeamRoleManager, TeamRoleCaller, TeamRoleAgent:
		return true
	}
	return false
}

type TeamMemberStatus string

const (
	TeamMemberActive   TeamMemberStatus = "active"
	TeamMemberInactive TeamMemberStatus = "inactive"
	TeamMemberAway     TeamMemberStatus = "away"
)

func (s TeamMemberStatus) Valid() bool {
	switch s {
	case TeamMemberActive, TeamMemberInactive, TeamMemberAway:
		return true
	}
	return false
}

// TeamMember holds per-user team metadata. There is at most one row per user.
type TeamMember struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	UserID         uint64           `gorm:"uniqueIndex;not null" json:"user_id"`
	Role           TeamRole         `gorm:"type:varchar(20);not null;default:'agent'" json:"role"`
	Status         TeamMemberStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Phone          string           `gorm:"type:varchar(50)" json:"phone"`
	LastActivityAt time.Time        `json:"last_activity_at"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
