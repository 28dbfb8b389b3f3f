package domain

import "time"

// Goal is a user-owned goal tracked over a fixed number of days.
//
// CurrentStreak and LongestStreak are stored but not recomputed from the
// completion ledger by any exposed operation; they always read back whatever
// was last persisted (0 for new goals).
type Goal struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	Title         string    `json:"title" db:"title"`
	TotalDays     int       `json:"total_days" db:"total_days"`
	StartDate     time.Time `json:"start_date" db:"start_date"`
	CurrentStreak int       `json:"current_streak" db:"current_streak"`
	LongestStreak int       `json:"longest_streak" db:"longest_streak"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// SubGoal belongs to a goal. Name is unique within the goal; Weight is the
// sub-goal's relative contribution to the goal's daily completion fraction.
type SubGoal struct {
	ID        int64     `json:"id" db:"id"`
	GoalID    int64     `json:"goal_id" db:"goal_id"`
	Name      string    `json:"name" db:"name"`
	Weight    float64   `json:"weight" db:"weight"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DailyCompletion is the per-day completion ledger, the source of truth for
// "was this sub-goal done on this calendar day". At most one row exists per
// (subgoal_id, completed_on).
type DailyCompletion struct {
	ID          int64     `json:"id" db:"id"`
	SubGoalID   int64     `json:"subgoal_id" db:"subgoal_id"`
	CompletedOn time.Time `json:"completed_on" db:"completed_on"`
	Completed   bool      `json:"completed" db:"completed"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
}

// SubGoalSummary is the sub-goal view embedded in goal listings. It carries no
// completion data.
type SubGoalSummary struct {
	ID     int64   `json:"id" db:"id"`
	Name   string  `json:"name" db:"name"`
	Weight float64 `json:"weight" db:"weight"`
}

// GoalWithSubGoals is a goal plus its sub-goal summaries, as returned by the
// goal listing.
type GoalWithSubGoals struct {
	Goal
	SubGoals []SubGoalSummary `json:"subgoals"`
}
