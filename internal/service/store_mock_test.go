package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jathin-vignesh/goal-tracker/internal/domain"
)

// mockUserStore is an in-memory UserStore / IdentityStore for tests.
type mockUserStore struct {
	nextID int64
	users  map[int64]*domain.User
	links  map[string]*domain.AuthProviderLink
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		users: make(map[int64]*domain.User),
		links: make(map[string]*domain.AuthProviderLink),
	}
}

func (m *mockUserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if user, ok := m.users[id]; ok {
		u := *user
		return &u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Username != nil && *user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserStore) Create(_ context.Context, user domain.User) (*domain.User, error) {
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = &user
	u := user
	return &u, nil
}

func (m *mockUserStore) SetPasswordHash(_ context.Context, userID int64, hash string) error {
	user, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.PasswordHash = &hash
	return nil
}

func linkKey(provider domain.AuthProvider, providerUserID string) string {
	return string(provider) + "/" + providerUserID
}

func (m *mockUserStore) FindLink(_ context.Context, provider domain.AuthProvider, providerUserID string) (*domain.AuthProviderLink, error) {
	if link, ok := m.links[linkKey(provider, providerUserID)]; ok {
		l := *link
		return &l, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserStore) CreateLink(_ context.Context, link domain.AuthProviderLink) (*domain.AuthProviderLink, error) {
	key := linkKey(link.Provider, link.ProviderUserID)
	if _, ok := m.links[key]; ok {
		return nil, fmt.Errorf("duplicate link %s", key)
	}
	for _, existing := range m.links {
		if existing.UserID == link.UserID && existing.Provider == link.Provider {
			return nil, fmt.Errorf("user %d already linked to %s", link.UserID, link.Provider)
		}
	}
	m.nextID++
	link.ID = m.nextID
	link.CreatedAt = time.Now()
	m.links[key] = &link
	l := link
	return &l, nil
}

// mockGoalStore is an in-memory GoalStore for tests.
type mockGoalStore struct {
	nextID      int64
	goals       map[int64]*domain.Goal
	subgoals    map[int64]*domain.SubGoal
	completions map[string]*domain.DailyCompletion
}

func newMockGoalStore() *mockGoalStore {
	return &mockGoalStore{
		goals:       make(map[int64]*domain.Goal),
		subgoals:    make(map[int64]*domain.SubGoal),
		completions: make(map[string]*domain.DailyCompletion),
	}
}

func (m *mockGoalStore) CreateGoal(_ context.Context, goal domain.Goal) (*domain.Goal, error) {
	m.nextID++
	goal.ID = m.nextID
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = goal.CreatedAt
	m.goals[goal.ID] = &goal
	g := goal
	return &g, nil
}

func (m *mockGoalStore) FindGoalForUser(_ context.Context, goalID, userID int64) (*domain.Goal, error) {
	goal, ok := m.goals[goalID]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrNotFound
	}
	g := *goal
	return &g, nil
}

func (m *mockGoalStore) CreateSubGoal(_ context.Context, subgoal domain.SubGoal) (*domain.SubGoal, error) {
	for _, existing := range m.subgoals {
		if existing.GoalID == subgoal.GoalID && existing.Name == subgoal.Name {
			return nil, domain.ErrConflict
		}
	}
	m.nextID++
	subgoal.ID = m.nextID
	subgoal.CreatedAt = time.Now()
	m.subgoals[subgoal.ID] = &subgoal
	s := subgoal
	return &s, nil
}

func (m *mockGoalStore) FindSubGoalForUser(_ context.Context, subgoalID, userID int64) (*domain.SubGoal, error) {
	subgoal, ok := m.subgoals[subgoalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	goal, ok := m.goals[subgoal.GoalID]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrNotFound
	}
	s := *subgoal
	return &s, nil
}

func (m *mockGoalStore) ListGoalsForUser(_ context.Context, userID int64) ([]domain.GoalWithSubGoals, error) {
	result := []domain.GoalWithSubGoals{}
	for _, goal := range m.goals {
		if goal.UserID != userID {
			continue
		}
		entry := domain.GoalWithSubGoals{Goal: *goal, SubGoals: []domain.SubGoalSummary{}}
		for _, sg := range m.subgoals {
			if sg.GoalID == goal.ID {
				entry.SubGoals = append(entry.SubGoals, domain.SubGoalSummary{
					ID:     sg.ID,
					Name:   sg.Name,
					Weight: sg.Weight,
				})
			}
		}
		result = append(result, entry)
	}
	return result, nil
}

func completionKey(subgoalID int64, day time.Time) string {
	return fmt.Sprintf("%d/%s", subgoalID, day.Format("2006-01-02"))
}

func (m *mockGoalStore) RecordCompletion(_ context.Context, subgoalID int64, day time.Time) (bool, error) {
	key := completionKey(subgoalID, day)
	if _, ok := m.completions[key]; ok {
		return false, nil
	}
	m.nextID++
	m.completions[key] = &domain.DailyCompletion{
		ID:          m.nextID,
		SubGoalID:   subgoalID,
		CompletedOn: day,
		Completed:   true,
		CompletedAt: time.Now(),
	}
	return true, nil
}
