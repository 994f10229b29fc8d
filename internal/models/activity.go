package models

import "time"

type ActionType string

const (
	ActionCreate   ActionType = "create"
	ActionUpdate   ActionType = "update"
	ActionDelete   ActionType = "delete"
	ActionCall     ActionType = "call"
	ActionSchedule ActionType = "schedule"
	ActionLogin    ActionType = "login"
)

type TargetType string

const (
	TargetLead          TargetType = "lead"
	TargetCall          TargetType = "call"
	TargetScheduledCall TargetType = "scheduled_call"
	TargetTimesheet     TargetType = "timesheet"
	TargetTeamMember    TargetType = "team_member"
	TargetUser          TargetType = "user"
)

// Activity is an audit record. TargetID is interpreted according to
// TargetType and carries no foreign key.
type Activity struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	UserID     uint64     `gorm:"not null;index:idx_activities_user_action_target" json:"user_id"`
	ActionType ActionType `gorm:"type:varchar(32);not null;index:idx_activities_user_action_target" json:"action_type"`
	TargetType TargetType `gorm:"type:varchar(32);not null;index:idx_activities_user_action_target;index:idx_activities_target" json:"target_type"`
	TargetID   uint64     `gorm:"not null;index:idx_activities_target" json:"target_id"`
	Details    string     `gorm:"type:text" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
