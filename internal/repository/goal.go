package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/jathin-vignesh/goal-tracker/internal/domain"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// GoalRepository handles goal, sub-goal, and completion data access.
type GoalRepository struct {
	db *sqlx.DB
}

// NewGoalRepository creates a new GoalRepository.
func NewGoalRepository(db *sqlx.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, user_id, title, total_days, start_date, current_streak, longest_streak, created_at, updated_at`

// CreateGoal inserts a new goal and returns the stored row.
func (r *GoalRepository) CreateGoal(ctx context.Context, goal domain.Goal) (*domain.Goal, error) {
	var result domain.Goal
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO goals (user_id, title, total_days, start_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+goalColumns,
		goal.UserID, goal.Title, goal.TotalDays, goal.StartDate,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return &result, nil
}

// FindGoalForUser retrieves a goal by ID scoped to its owner.
func (r *GoalRepository) FindGoalForUser(ctx context.Context, goalID, userID int64) (*domain.Goal, error) {
	var goal domain.Goal
	err := r.db.GetContext(ctx, &goal,
		`SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`,
		goalID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find goal %d for user %d: %w", goalID, userID, err)
	}
	return &goal, nil
}

// CreateSubGoal inserts a new sub-goal. A duplicate name under the same goal
// is reported as ErrConflict.
func (r *GoalRepository) CreateSubGoal(ctx context.Context, subgoal domain.SubGoal) (*domain.SubGoal, error) {
	var result domain.SubGoal
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO subgoals (goal_id, name, weight)
		 VALUES ($1, $2, $3)
		 RETURNING id, goal_id, name, weight, created_at`,
		subgoal.GoalID, subgoal.Name, subgoal.Weight,
	).StructScan(&result)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("create subgoal: %w", err)
	}
	return &result, nil
}

// FindSubGoalForUser retrieves a sub-goal by ID, enforcing ownership through
// the parent goal.
func (r *GoalRepository) FindSubGoalForUser(ctx context.Context, subgoalID, userID int64) (*domain.SubGoal, error) {
	var subgoal domain.SubGoal
	err := r.db.GetContext(ctx, &subgoal,
		`SELECT s.id, s.goal_id, s.name, s.weight, s.created_at
		 FROM subgoals s
		 JOIN goals g ON g.id = s.goal_id
		 WHERE s.id = $1 AND g.user_id = $2`,
		subgoalID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find subgoal %d for user %d: %w", subgoalID, userID, err)
	}
	return &subgoal, nil
}

// ListGoalsForUser returns all goals owned by the user, each with its
// sub-goal summaries.
func (r *GoalRepository) ListGoalsForUser(ctx context.Context, userID int64) ([]domain.GoalWithSubGoals, error) {
	var goals []domain.Goal
	err := r.db.SelectContext(ctx, &goals,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals for user %d: %w", userID, err)
	}

	result := make([]domain.GoalWithSubGoals, 0, len(goals))
	if len(goals) == 0 {
		return result, nil
	}

	goalIDs := make([]int64, len(goals))
	for i, g := range goals {
		goalIDs[i] = g.ID
	}

	type subgoalRow struct {
		GoalID int64   `db:"goal_id"`
		ID     int64   `db:"id"`
		Name   string  `db:"name"`
		Weight float64 `db:"weight"`
	}

	query, args, err := sqlx.In(
		`SELECT goal_id, id, name, weight FROM subgoals WHERE goal_id IN (?) ORDER BY id`,
		goalIDs)
	if err != nil {
		return nil, fmt.Errorf("build subgoal query: %w", err)
	}

	var rows []subgoalRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list subgoals for user %d: %w", userID, err)
	}

	byGoal := make(map[int64][]domain.SubGoalSummary, len(goals))
	for _, row := range rows {
		byGoal[row.GoalID] = append(byGoal[row.GoalID], domain.SubGoalSummary{
			ID:     row.ID,
			Name:   row.Name,
			Weight: row.Weight,
		})
	}

	for _, g := range goals {
		subgoals := byGoal[g.ID]
		if subgoals == nil {
			subgoals = []domain.SubGoalSummary{}
		}
		result = append(result, domain.GoalWithSubGoals{Goal: g, SubGoals: subgoals})
	}

	return result, nil
}

// RecordCompletion inserts a completion row for (subgoalID, day) unless one
// already exists. It reports whether a new row was created. The check and
// insert run in one transaction.
func (r *GoalRepository) RecordCompletion(ctx context.Context, subgoalID int64, day time.Time) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin completion tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM subgoal_daily_completion
		 WHERE subgoal_id = $1 AND completed_on = $2`,
		subgoalID, day)
	if err != nil {
		return false, fmt.Errorf("check completion: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO subgoal_daily_completion (subgoal_id, completed_on)
		 VALUES ($1, $2)`,
		subgoalID, day)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// Concurrent writer got there first; treat as already completed.
			return false, nil
		}
		return false, fmt.Errorf("insert completion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit completion: %w", err)
	}
	return true, nil
}
