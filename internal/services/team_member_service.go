package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/repository"
)

var (
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrInvalidTeamRole    = errors.New("invalid team role")
	ErrInvalidTeamStatus  = errors.New("invalid team member status")
)

// TeamMemberService handles team member business logic
type TeamMemberService struct {
	members    repository.TeamMemberRepository
	users      repository.UserRepository
	activities repository.ActivityRepository
}

// NewTeamMemberService creates a new TeamMemberService
func NewTeamMemberService(members repository.TeamMemberRepository, users repository.UserRepository, activities repository.ActivityRepository) *TeamMemberService {
	return &TeamMemberService{
		members:    members,
		users:      users,
		activities: activities,
	}
}

// ListTeamMembers returns team members, most recently active first
func (s *TeamMemberService) ListTeamMembers(ctx context.Context, filter repository.TeamMemberFilter) ([]models.TeamMember, error) {
	return s.members.List(ctx, filter)
}

// GetTeamMember returns the team member row of a user
func (s *TeamMemberService) GetTeamMember(ctx context.Context, userID uint64) (*models.TeamMember, error) {
	member, err := s.members.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}
	if member == nil {
		return nil, ErrTeamMemberNotFound
	}
	return member, nil
}

// UpsertTeamMember creates or updates the team member row of an existing user
func (s *TeamMemberService) UpsertTeamMember(ctx context.Context, userID uint64, patch repository.TeamMemberPatch, actorID uint64) (*models.TeamMember, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, ErrInvalidTeamRole
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, ErrInvalidTeamStatus
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	member, err := s.members.Upsert(ctx, userID, patch)
	if err != nil {
		return nil, err
	}

	recordActivity(ctx, s.activities, actorID, models.ActionUpdate, models.TargetTeamMember, member.ID, "")
	return member, nil
}

// RemoveTeamMember deletes the team member row of a user. The user account
// is kept.
func (s *TeamMemberService) RemoveTeamMember(ctx context.Context, userID uint64, actorID uint64) error {
	member, err := s.GetTeamMember(ctx, userID)
	if err != nil {
		return err
	}

	deleted, err := s.members.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete team member: %w", err)
	}
	if !deleted {
		return ErrTeamMemberNotFound
	}

	recordActivity(ctx, s.activities, actorID, models.ActionDelete, models.TargetTeamMember, member.ID, "")
	return nil
}
