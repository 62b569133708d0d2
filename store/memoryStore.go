package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"wardwatch-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory implementations of the store façades with the same semantics as
// the mongo-backed ones. Used by tests and by local development without a
// database.

type MemoryProblemStore struct {
	mu       sync.RWMutex
	problems []models.Problem
}

func NewMemoryProblemStore() *MemoryProblemStore {
	return &MemoryProblemStore{}
}

func (s *MemoryProblemStore) Create(ctx context.Context, p models.Problem) (models.Problem, error) {
	if p.Priority == "" {
		p.Priority = models.Medium
	}
	if p.Status == "" {
		p.Status = models.StatusOpen
	}
	if err := validationError(p.Validate()); err != nil {
		return models.Problem{}, err
	}

	now := time.Now()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.problems = append(s.problems, p)
	return p, nil
}

func (f ProblemFilter) matches(p models.Problem) bool {
	if f.WardNumber != nil && p.WardNumber != *f.WardNumber {
		return false
	}
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	return true
}

func (s *MemoryProblemStore) List(ctx context.Context, f ProblemFilter, page, pageSize int) (ProblemPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}

	s.mu.RLock()
	matched := []models.Problem{}
	for _, p := range s.problems {
		if f.matches(p) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	skip := (page - 1) * pageSize
	if skip > len(matched) {
		skip = len(matched)
	}
	end := skip + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return ProblemPage{
		Problems:   matched[skip:end],
		Total:      total,
		Page:       page,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (s *MemoryProblemStore) Get(ctx context.Context, id primitive.ObjectID) (models.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.problems {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Problem{}, ErrNotFound
}

func (s *MemoryProblemStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, upd StatusUpdate) (models.Problem, error) {
	var errs []models.FieldError
	if !models.ValidStatus(upd.Status) {
		errs = append(errs, models.FieldError{Field: "status", Message: "invalid status"})
	}
	if upd.AdminNotes != nil && len(*upd.AdminNotes) > 1000 {
		errs = append(errs, models.FieldError{Field: "adminNotes", Message: "adminNotes must be at most 1000 characters"})
	}
	if err := validationError(errs); err != nil {
		return models.Problem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.problems {
		if s.problems[i].ID != id {
			continue
		}
		now := time.Now()
		s.problems[i].Status = upd.Status
		s.problems[i].UpdatedAt = now
		if upd.AdminNotes != nil {
			s.problems[i].AdminNotes = *upd.AdminNotes
		}
		if upd.Status == models.StatusResolved || upd.Status == models.StatusClosed {
			resolved := now
			s.problems[i].ResolvedAt = &resolved
		}
		return s.problems[i], nil
	}
	return models.Problem{}, ErrNotFound
}

func (s *MemoryProblemStore) Assign(ctx context.Context, id primitive.ObjectID, assignee primitive.ObjectID) (models.Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.problems {
		if s.problems[i].ID != id {
			continue
		}
		s.problems[i].AssignedTo = &assignee
		s.problems[i].UpdatedAt = time.Now()
		return s.problems[i], nil
	}
	return models.Problem{}, ErrNotFound
}

func (s *MemoryProblemStore) Stats(ctx context.Context, wardNumber *int) (StatsSummary, error) {
	filter := ProblemFilter{WardNumber: wardNumber}

	byStatus := map[models.ProblemStatus]int64{}
	byCategory := map[models.ProblemCategory]int64{}
	byWard := map[int]*WardCount{}

	s.mu.RLock()
	for _, p := range s.problems {
		if !filter.matches(p) {
			continue
		}
		byStatus[p.Status]++
		byCategory[p.Category]++

		wc, ok := byWard[p.WardNumber]
		if !ok {
			wc = &WardCount{WardNumber: p.WardNumber}
			byWard[p.WardNumber] = wc
		}
		wc.Total++
		switch p.Status {
		case models.StatusOpen:
			wc.Open++
		case models.StatusInProgress:
			wc.InProgress++
		case models.StatusResolved:
			wc.Resolved++
		}
	}
	s.mu.RUnlock()

	summary := StatsSummary{
		ByStatus:   []StatusCount{},
		ByCategory: []CategoryCount{},
		ByWard:     []WardCount{},
	}
	for status, count := range byStatus {
		summary.ByStatus = append(summary.ByStatus, StatusCount{Status: status, Count: count})
	}
	sort.Slice(summary.ByStatus, func(i, j int) bool {
		return summary.ByStatus[i].Status < summary.ByStatus[j].Status
	})
	for category, count := range byCategory {
		summary.ByCategory = append(summary.ByCategory, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		if summary.ByCategory[i].Count != summary.ByCategory[j].Count {
			return summary.ByCategory[i].Count > summary.ByCategory[j].Count
		}
		return summary.ByCategory[i].Category < summary.ByCategory[j].Category
	})
	for _, wc := range byWard {
		summary.ByWard = append(summary.ByWard, *wc)
	}
	sort.Slice(summary.ByWard, func(i, j int) bool {
		return summary.ByWard[i].WardNumber < summary.ByWard[j].WardNumber
	})

	return summary, nil
}

func (s *MemoryProblemStore) CountByWard(ctx context.Context, wardNumber int) (int64, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total, active int64
	for _, p := range s.problems {
		if p.WardNumber != wardNumber {
			continue
		}
		total++
		if p.Status == models.StatusOpen || p.Status == models.StatusInProgress {
			active++
		}
	}
	return total, active, nil
}

func (s *MemoryProblemStore) RecentByWard(ctx context.Context, wardNumber, limit int) ([]models.Problem, error) {
	s.mu.RLock()
	matched := []models.Problem{}
	for _, p := range s.problems {
		if p.WardNumber == wardNumber {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type MemoryWardStore struct {
	mu    sync.RWMutex
	wards []models.Ward
}

func NewMemoryWardStore() *MemoryWardStore {
	return &MemoryWardStore{}
}

func (s *MemoryWardStore) Create(ctx context.Context, w models.Ward) (models.Ward, error) {
	if err := validationError(w.Validate()); err != nil {
		return models.Ward{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.wards {
		if existing.WardNumber == w.WardNumber && existing.IsActive {
			return models.Ward{}, ErrDuplicateWard
		}
	}

	now := time.Now()
	w.ID = primitive.NewObjectID()
	w.IsActive = true
	w.CreatedAt = now
	w.UpdatedAt = now
	s.wards = append(s.wards, w)
	return w, nil
}

func (s *MemoryWardStore) Update(ctx context.Context, wardNumber int, patch models.WardPatch) (models.Ward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.wards {
		if s.wards[i].WardNumber != wardNumber || !s.wards[i].IsActive {
			continue
		}
		patched := patch.Apply(s.wards[i])
		if err := validationError(patched.Validate()); err != nil {
			return models.Ward{}, err
		}
		patched.UpdatedAt = time.Now()
		s.wards[i] = patched
		return patched, nil
	}
	return models.Ward{}, ErrNotFound
}

func (s *MemoryWardStore) Get(ctx context.Context, wardNumber int) (models.Ward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.wards {
		if w.WardNumber == wardNumber && w.IsActive {
			return w, nil
		}
	}
	return models.Ward{}, ErrNotFound
}

func (s *MemoryWardStore) List(ctx context.Context) ([]models.Ward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	active := []models.Ward{}
	for _, w := range s.wards {
		if w.IsActive {
			active = append(active, w)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].WardNumber < active[j].WardNumber
	})
	return active, nil
}

func (s *MemoryWardStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.wards)), nil
}

type MemoryUserStore struct {
	mu    sync.RWMutex
	users []models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (s *MemoryUserStore) Create(ctx context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return models.User{}, ErrDuplicateEmail
		}
	}

	now := time.Now()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users = append(s.users, u)
	return u, nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryUserStore) CountAdmins(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, u := range s.users {
		if u.Role == models.RoleAdmin {
			count++
		}
	}
	return count, nil
}
