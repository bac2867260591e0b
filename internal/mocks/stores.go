package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/domain"
	"github.com/pathwise/pathwise-api/internal/store"
)

// MemoryUserStore is an in-memory store.UserStore.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User

	// Err, when set, is returned by every method.
	Err error
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uuid.UUID]domain.User)}
}

var _ store.UserStore = (*MemoryUserStore)(nil)

func (s *MemoryUserStore) Create(_ context.Context, user *domain.User) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	out := u
	return &out, nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *MemoryUserStore) Update(_ context.Context, user *domain.User) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) WithTx(_ *sql.Tx) store.UserStore { return s }

// MemoryPlanStore is an in-memory store.PlanStore.
type MemoryPlanStore struct {
	mu    sync.Mutex
	plans map[uuid.UUID]domain.Plan

	Err error
}

// NewMemoryPlanStore creates an empty in-memory plan store.
func NewMemoryPlanStore() *MemoryPlanStore {
	return &MemoryPlanStore{plans: make(map[uuid.UUID]domain.Plan)}
}

var _ store.PlanStore = (*MemoryPlanStore)(nil)

func (s *MemoryPlanStore) Create(_ context.Context, plan *domain.Plan) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[plan.ID] = *plan
	return nil
}

func (s *MemoryPlanStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Plan, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[id]
	if !ok {
		return nil, store.ErrPlanNotFound
	}
	out := p
	return &out, nil
}

func (s *MemoryPlanStore) GetLatestByUser(_ context.Context, userID uuid.UUID) (*domain.Plan, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *domain.Plan
	for _, p := range s.plans {
		if p.UserID != userID {
			continue
		}
		p := p
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = &p
		}
	}
	if latest == nil {
		return nil, store.ErrPlanNotFound
	}
	return latest, nil
}

func (s *MemoryPlanStore) Delete(_ context.Context, id uuid.UUID) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[id]; !ok {
		return store.ErrPlanNotFound
	}
	delete(s.plans, id)
	return nil
}

func (s *MemoryPlanStore) WithTx(_ *sql.Tx) store.PlanStore { return s }

// MemoryDayStore is an in-memory store.DayStore. Update enforces the same
// optimistic updated_at check as the real store, so conflict paths are
// testable without a database.
type MemoryDayStore struct {
	mu   sync.Mutex
	days map[uuid.UUID]domain.Day

	// UpdateCount tracks successful updates.
	UpdateCount int

	// Err, when set, is returned by every method.
	Err error

	// UpdateErr, when set, is returned by Update only.
	UpdateErr error
}

// NewMemoryDayStore creates an empty in-memory day store.
func NewMemoryDayStore() *MemoryDayStore {
	return &MemoryDayStore{days: make(map[uuid.UUID]domain.Day)}
}

var _ store.DayStore = (*MemoryDayStore)(nil)

func (s *MemoryDayStore) CreateBatch(_ context.Context, days []*domain.Day) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range days {
		s.days[d.ID] = *cloneDay(d)
	}
	return nil
}

func (s *MemoryDayStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Day, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.days[id]
	if !ok {
		return nil, store.ErrDayNotFound
	}
	return cloneDay(&d), nil
}

func (s *MemoryDayStore) GetByPlanAndNumber(_ context.Context, planID uuid.UUID, dayNumber int) (*domain.Day, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.days {
		if d.PlanID == planID && d.DayNumber == dayNumber {
			d := d
			return cloneDay(&d), nil
		}
	}
	return nil, store.ErrDayNotFound
}

func (s *MemoryDayStore) ListByPlan(_ context.Context, planID uuid.UUID) ([]*domain.Day, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Day
	for _, d := range s.days {
		if d.PlanID == planID {
			d := d
			out = append(out, cloneDay(&d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

func (s *MemoryDayStore) Update(_ context.Context, day *domain.Day) error {
	if s.Err != nil {
		return s.Err
	}
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.days[day.ID]
	if !ok {
		return store.ErrDayNotFound
	}
	if !current.UpdatedAt.Equal(day.UpdatedAt) {
		return store.ErrUpdateConflict
	}
	day.UpdatedAt = time.Now().UTC()
	s.days[day.ID] = *cloneDay(day)
	s.UpdateCount++
	return nil
}

func (s *MemoryDayStore) WithTx(_ *sql.Tx) store.DayStore { return s }

// cloneDay copies a day including its artifact maps, so store contents are
// isolated from caller mutations.
func cloneDay(d *domain.Day) *domain.Day {
	out := *d
	out.Steps = d.Steps.Clone()
	out.Quiz = d.Quiz.Clone()
	out.Resources = d.Resources.Clone()
	out.Article = d.Article.Clone()
	out.Slides = d.Slides.Clone()
	return &out
}

// MemoryAttemptStore is an in-memory store.AttemptStore.
type MemoryAttemptStore struct {
	mu       sync.Mutex
	attempts []domain.QuizAttempt

	Err error
}

// NewMemoryAttemptStore creates an empty in-memory attempt store.
func NewMemoryAttemptStore() *MemoryAttemptStore {
	return &MemoryAttemptStore{}
}

var _ store.AttemptStore = (*MemoryAttemptStore)(nil)

func (s *MemoryAttemptStore) Create(_ context.Context, attempt *domain.QuizAttempt) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, *attempt)
	return nil
}

func (s *MemoryAttemptStore) GetLatestByDay(_ context.Context, dayID uuid.UUID) (*domain.QuizAttempt, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *domain.QuizAttempt
	for i := range s.attempts {
		a := s.attempts[i]
		if a.DayID != dayID {
			continue
		}
		if latest == nil || !a.CreatedAt.Before(latest.CreatedAt) {
			latest = &a
		}
	}
	if latest == nil {
		return nil, store.ErrAttemptNotFound
	}
	return latest, nil
}

func (s *MemoryAttemptStore) ListByDay(_ context.Context, dayID uuid.UUID) ([]*domain.QuizAttempt, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.QuizAttempt
	for i := range s.attempts {
		a := s.attempts[i]
		if a.DayID == dayID {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Count returns the number of stored attempts.
func (s *MemoryAttemptStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

func (s *MemoryAttemptStore) WithTx(_ *sql.Tx) store.AttemptStore { return s }
