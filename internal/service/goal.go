package service

import (
	"context"
	"errors"
	"time"

	"github.com/jathin-vignesh/goal-tracker/internal/domain"
)

// GoalStore defines the data access interface consumed by GoalService.
type GoalStore interface {
	CreateGoal(ctx context.Context, goal domain.Goal) (*domain.Goal, error)
	FindGoalForUser(ctx context.Context, goalID, userID int64) (*domain.Goal, error)
	CreateSubGoal(ctx context.Context, subgoal domain.SubGoal) (*domain.SubGoal, error)
	FindSubGoalForUser(ctx context.Context, subgoalID, userID int64) (*domain.SubGoal, error)
	ListGoalsForUser(ctx context.Context, userID int64) ([]domain.GoalWithSubGoals, error)
	RecordCompletion(ctx context.Context, subgoalID int64, day time.Time) (created bool, err error)
}

// GoalService handles goal, sub-goal, and completion operations, all scoped
// to the calling user.
type GoalService struct {
	goals GoalStore
	now   func() time.Time
}

// NewGoalService creates a new GoalService.
func NewGoalService(goals GoalStore) *GoalService {
	return &GoalService{goals: goals, now: time.Now}
}

// CreateGoal creates a goal owned by the user. Titles are not unique; streak
// counters start at zero.
func (s *GoalService) CreateGoal(ctx context.Context, user *domain.User, title string, totalDays int, startDate time.Time) (*domain.Goal, error) {
	return s.goals.CreateGoal(ctx, domain.Goal{
		UserID:    user.ID,
		Title:     title,
		TotalDays: totalDays,
		StartDate: startDate,
	})
}

// CreateSubGoal creates a sub-goal under one of the user's goals. A goal not
// owned by the user is NotFound; a duplicate name under the goal is Conflict.
func (s *GoalService) CreateSubGoal(ctx context.Context, user *domain.User, goalID int64, name string, weight float64) (*domain.SubGoal, error) {
	goal, err := s.goals.FindGoalForUser(ctx, goalID, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("Goal not found")
		}
		return nil, err
	}

	subgoal, err := s.goals.CreateSubGoal(ctx, domain.SubGoal{
		GoalID: goal.ID,
		Name:   name,
		Weight: weight,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflictf("Sub-goal with this name already exists for this goal")
		}
		return nil, err
	}
	return subgoal, nil
}

// ListGoals returns the user's goals with their sub-goal summaries.
func (s *GoalService) ListGoals(ctx context.Context, user *domain.User) ([]domain.GoalWithSubGoals, error) {
	return s.goals.ListGoalsForUser(ctx, user.ID)
}

// CompletionResult reports the outcome of a completion attempt.
type CompletionResult struct {
	Message string `json:"message"`
}

// CompleteSubGoal marks a sub-goal done for a calendar day, defaulting to
// today. Completing the same day twice is a no-op success, not an error.
func (s *GoalService) CompleteSubGoal(ctx context.Context, user *domain.User, subgoalID int64, completedOn *time.Time) (*CompletionResult, error) {
	subgoal, err := s.goals.FindSubGoalForUser(ctx, subgoalID, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("Sub-goal not found")
		}
		return nil, err
	}

	day := s.now()
	if completedOn != nil {
		day = *completedOn
	}
	day = truncateToDate(day)

	created, err := s.goals.RecordCompletion(ctx, subgoal.ID, day)
	if err != nil {
		return nil, err
	}

	if !created {
		return &CompletionResult{Message: "Already completed for this day"}, nil
	}
	return &CompletionResult{Message: "Sub-goal marked as completed"}, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
