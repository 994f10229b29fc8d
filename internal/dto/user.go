package dto

import (
	"time"

	"github.com/yukikurage/crm-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// TeamMemberDTO represents a team member in API responses
type TeamMemberDTO struct {
	ID             uint64                  `json:"id"`
	UserID         uint64                  `json:"user_id"`
	Role           models.TeamRole         `json:"role"`
	Status         models.TeamMemberStatus `json:"status"`
	Phone          string                  `json:"phone"`
	LastActivityAt time.Time               `json:"last_activity_at"`
	User           *UserDTO                `json:"user,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToTeamMemberDTO converts a TeamMember model to TeamMemberDTO
func ToTeamMemberDTO(member models.TeamMember) TeamMemberDTO {
	dto := TeamMemberDTO{
		ID:             member.ID,
		UserID:         member.UserID,
		Role:           member.Role,
		Status:         member.Status,
		Phone:          member.Phone,
		LastActivityAt: member.LastActivityAt,
	}
	if member.User.ID != 0 {
		user := ToUserDTO(member.User)
		dto.User = &user
	}
	return dto
}

// ToTeamMemberDTOs converts a slice of team members
func ToTeamMemberDTOs(members []models.TeamMember) []TeamMemberDTO {
	dtos := make([]TeamMemberDTO, len(members))
	for i, m := range members {
		dtos[i] = ToTeamMemberDTO(m)
	}
	return dtos
}
