package models

import "time"

type CallDirection string

const (
	CallDirectionInbound  CallDirection = "inbound"
	CallDirectionOutbound CallDirection = "outbound"
)

func (d CallDirection) Valid() bool {
	return d == CallDirectionInbound || d == CallDirectionOutbound
}

type Call struct {
	ID              uint64        `gorm:"primarykey" json:"id"`
	LeadID          uint64        `gorm:"not null;index" json:"lead_id"`
	UserID          *uint64       `gorm:"index" json:"user_id"`
	CallTime        time.Time     `gorm:"not null;index" json:"call_time"`
	Direction       CallDirection `gorm:"type:varchar(16);not null;default:'outbound'" json:"direction"`
	Outcome         string        `gorm:"type:varchar(64)" json:"outcome"`
	DurationSeconds int           `gorm:"not null;default:0" json:"duration_seconds"`
	Notes           string        `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
