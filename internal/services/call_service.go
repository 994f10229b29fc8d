package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/repository"
)

var (
	ErrCallNotFound              = errors.New("call not found")
	ErrInvalidCallDirection      = errors.New("invalid call direction")
	ErrInvalidCallDuration       = errors.New("call duration cannot be negative")
	ErrScheduledCallNotFound     = errors.New("scheduled call not found")
	ErrScheduledTimeRequired     = errors.New("scheduled time is required")
	ErrInvalidScheduledCallState = errors.New("invalid scheduled call status")
)

// CallService handles call logging and call scheduling
type CallService struct {
	calls      repository.CallRepository
	scheduled  repository.ScheduledCallRepository
	activities repository.ActivityRepository
	now        func() time.Time
}

// NewCallService creates a new CallService
func NewCallService(calls repository.CallRepository, scheduled repository.ScheduledCallRepository, activities repository.ActivityRepository) *CallService {
	return &CallService{
		calls:      calls,
		scheduled:  scheduled,
		activities: activities,
		now:        time.Now,
	}
}

// CreateCallInput represents input for logging a call
type CreateCallInput struct {
	LeadID          uint64
	CallTime        *time.Time
	Direction       models.CallDirection
	Outcome         string
	DurationSeconds int
	Notes           string
	ActorID         uint64
}

// CreateScheduledCallInput represents input for scheduling a call
type CreateScheduledCallInput struct {
	LeadID           uint64
	ScheduledTime    *time.Time
	AssignedCallerID *uint64
	Status           models.ScheduledCallStatus
	Notes            string
	ActorID          uint64
}

// leadError maps a missing lead reported by a dependent insert to ErrLeadNotFound
func leadError(err error, action string) error {
	if errors.Is(err, repository.ErrLeadMissing) {
		return ErrLeadNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// ListCalls returns a page of calls and the unpaginated total
func (s *CallService) ListCalls(ctx context.Context, filter repository.CallFilter) ([]models.Call, int64, error) {
	return s.calls.List(ctx, filter)
}

// GetCall returns a call by ID
func (s *CallService) GetCall(ctx context.Context, id uint64) (*models.Call, error) {
	call, err := s.calls.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find call: %w", err)
	}
	if call == nil {
		return nil, ErrCallNotFound
	}
	return call, nil
}

// CreateCall logs a call against an existing lead
func (s *CallService) CreateCall(ctx context.Context, input CreateCallInput) (*models.Call, error) {
	if input.Direction == "" {
		input.Direction = models.CallDirectionOutbound
	}
	if !input.Direction.Valid() {
		return nil, ErrInvalidCallDirection
	}
	if input.DurationSeconds < 0 {
		return nil, ErrInvalidCallDuration
	}
	callTime := s.now()
	if input.CallTime != nil {
		callTime = *input.CallTime
	}

	call := &models.Call{
		LeadID:          input.LeadID,
		CallTime:        callTime,
		Direction:       input.Direction,
		Outcome:         input.Outcome,
		DurationSeconds: input.DurationSeconds,
		Notes:           input.Notes,
	}
	if input.ActorID != 0 {
		actor := input.ActorID
		call.UserID = &actor
	}

	if err := s.calls.Create(ctx, call); err != nil {
		return nil, leadError(err, "create call")
	}

	recordActivity(ctx, s.activities, input.ActorID, models.ActionCall, models.TargetCall, call.ID, call.Outcome)
	return call, nil
}

// UpdateCall applies a partial update
func (s *CallService) UpdateCall(ctx context.Context, id uint64, patch repository.CallPatch, actorID uint64) (*models.Call, error) {
	if patch.Direction != nil && !patch.Direction.Valid() {
		return nil, ErrInvalidCallDirection
	}
	if patch.DurationSeconds != nil && *patch.DurationSeconds < 0 {
		return nil, ErrInvalidCallDuration
	}

	call, err := s.calls.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update call: %w", err)
	}
	if call == nil {
		return nil, ErrCallNotFound
	}

	recordActivity(ctx, s.activities, actorID, models.ActionUpdate, models.TargetCall, call.ID, "")
	return call, nil
}

// DeleteCall deletes a call
func (s *CallService) DeleteCall(ctx context.Context, id uint64, actorID uint64) error {
	deleted, err := s.calls.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete call: %w", err)
	}
	if !deleted {
		return ErrCallNotFound
	}

	recordActivity(ctx, s.activities, actorID, models.ActionDelete, models.TargetCall, id, "")
	return nil
}

// ListScheduledCalls returns a page of scheduled calls and the unpaginated total
func (s *CallService) ListScheduledCalls(ctx context.Context, filter repository.ScheduledCallFilter) ([]models.ScheduledCall, int64, error) {
	return s.scheduled.List(ctx, filter)
}

// GetScheduledCall returns a scheduled call by ID
func (s *CallService) GetScheduledCall(ctx context.Context, id uint64) (*models.ScheduledCall, error) {
	call, err := s.scheduled.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find scheduled call: %w", err)
	}
	if call == nil {
		return nil, ErrScheduledCallNotFound
	}
	return call, nil
}

// ScheduleCall books a call against an existing lead
func (s *CallService) ScheduleCall(ctx context.Context, input CreateScheduledCallInput) (*models.ScheduledCall, error) {
	if input.ScheduledTime == nil || input.ScheduledTime.IsZero() {
		return nil, ErrScheduledTimeRequired
	}
	if input.Status == "" {
		input.Status = models.ScheduledCallStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidScheduledCallState
	}
	call := &models.ScheduledCall{
		LeadID:           input.LeadID,
		Status:           input.Status,
		AssignedCallerID: input.AssignedCallerID,
		ScheduledTime:    *input.ScheduledTime,
		Notes:            input.Notes,
	}
	if err := s.scheduled.Create(ctx, call); err != nil {
		return nil, leadError(err, "create scheduled call")
	}

	recordActivity(ctx, s.activities, input.ActorID, models.ActionSchedule, models.TargetScheduledCall, call.ID, "")
	return call, nil
}

// UpdateScheduledCall applies a partial update
func (s *CallService) UpdateScheduledCall(ctx context.Context, id uint64, patch repository.ScheduledCallPatch, actorID uint64) (*models.ScheduledCall, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, ErrInvalidScheduledCallState
	}
	if patch.ScheduledTime != nil && patch.ScheduledTime.IsZero() {
		return nil, ErrScheduledTimeRequired
	}

	call, err := s.scheduled.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update scheduled call: %w", err)
	}
	if call == nil {
		return nil, ErrScheduledCallNotFound
	}

	recordActivity(ctx, s.activities, actorID, models.ActionUpdate, models.TargetScheduledCall, call.ID, string(call.Status))
	return call, nil
}

// DeleteScheduledCall deletes a scheduled call
func (s *CallService) DeleteScheduledCall(ctx context.Context, id uint64, actorID uint64) error {
	deleted, err := s.scheduled.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled call: %w", err)
	}
	if !deleted {
		return ErrScheduledCallNotFound
	}

	recordActivity(ctx, s.activities, actorID, models.ActionDelete, models.TargetScheduledCall, id, "")
	return nil
}
