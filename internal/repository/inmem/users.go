// Package inmem provides mutex-guarded in-memory implementations of the
// repository contracts. They back the test suite and enforce the same
// uniqueness guarantees as the Postgres schema, atomically under their lock.
package inmem

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"clinicbook/api/internal/models"
	"clinicbook/api/internal/repository"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	order []string
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	s.order = append(s.order, user.ID)
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *UserStore) ListDoctors(_ context.Context, specialization string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filter := strings.ToLower(specialization)
	var out []models.User
	for _, id := range s.order {
		u := s.users[id]
		if u.Role != models.RoleDoctor {
			continue
		}
		if filter != "" {
			if u.Specialization == nil || !strings.Contains(strings.ToLower(*u.Specialization), filter) {
				continue
			}
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *UserStore) ListSpecializations(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, u := range s.users {
		if u.Role != models.RoleDoctor || u.Specialization == nil || *u.Specialization == "" {
			continue
		}
		if _, ok := seen[*u.Specialization]; ok {
			continue
		}
		seen[*u.Specialization] = struct{}{}
		out = append(out, *u.Specialization)
	}
	sort.Strings(out)
	return out, nil
}

func (s *UserStore) ListAll(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.users[id])
	}
	return out, nil
}

func (s *UserStore) UpdateDoctorProfile(_ context.Context, id string, profile repository.DoctorProfile) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok || user.Role != models.RoleDoctor {
		return models.User{}, repository.ErrUserNotFound
	}

	user.Name = profile.Name
	user.Email = profile.Email
	user.Phone = profile.Phone
	user.Specialization = profile.Specialization
	user.UpdatedAt = time.Now()
	s.users[id] = user
	return user, nil
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
