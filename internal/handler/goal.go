package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jathin-vignesh/goal-tracker/internal/domain"
	"github.com/jathin-vignesh/goal-tracker/internal/service"
)

const dateLayout = "2006-01-02"

// GoalHandler handles goal, sub-goal, and completion endpoints.
type GoalHandler struct {
	goals *service.GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goals *service.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

type createGoalRequest struct {
	Title     string `json:"title" validate:"required,min=1,max=255"`
	TotalDays int    `json:"total_days" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
}

// CreateGoal creates a goal owned by the authenticated user.
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req createGoalRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalidf("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return &domain.ValidationError{Field: "start_date", Message: "must be a YYYY-MM-DD date"}
	}

	goal, err := h.goals.CreateGoal(c.Request().Context(), user, req.Title, req.TotalDays, startDate)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, goal)
}

// ListGoals returns the user's goals with nested sub-goal summaries.
func (h *GoalHandler) ListGoals(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	goals, err := h.goals.ListGoals(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, goals)
}

type createSubGoalRequest struct {
	Name   string   `json:"name" validate:"required,min=1,max=255"`
	Weight *float64 `json:"weight" validate:"omitempty,gt=0"`
}

// CreateSubGoal creates a sub-goal under one of the user's goals.
func (h *GoalHandler) CreateSubGoal(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	goalID, err := pathID(c, "goal_id")
	if err != nil {
		return err
	}

	var req createSubGoalRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalidf("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}

	subgoal, err := h.goals.CreateSubGoal(c.Request().Context(), user, goalID, req.Name, weight)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, subgoal)
}

type completeSubGoalRequest struct {
	CompletedOn string `json:"completed_on" validate:"omitempty,datetime=2006-01-02"`
}

// CompleteSubGoal marks a sub-goal completed for a day, defaulting to today.
func (h *GoalHandler) CompleteSubGoal(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	subgoalID, err := pathID(c, "subgoal_id")
	if err != nil {
		return err
	}

	var req completeSubGoalRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalidf("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var completedOn *time.Time
	if req.CompletedOn != "" {
		day, err := time.Parse(dateLayout, req.CompletedOn)
		if err != nil {
			return &domain.ValidationError{Field: "completed_on", Message: "must be a YYYY-MM-DD date"}
		}
		completedOn = &day
	}

	result, err := h.goals.CompleteSubGoal(c.Request().Context(), user, subgoalID, completedOn)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func pathID(c echo.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NotFoundf("The requested resource was not found")
	}
	return id, nil
}
