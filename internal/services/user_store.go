package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"immoportal/internal/domain"
	"immoportal/internal/repos"

	"github.com/google/uuid"
)

type NewUser struct {
	FullName string
	Email    string
	Phone    string
	Role     domain.Role
	Password string
}

type UserUpdate struct {
	FullName string
	Email    string
	Phone    string
	Role     domain.Role
}

// UserStore caches the profile list for the admin screens. Reads are served
// from the cache; writes go to the repository first and update the cache
// only when they succeed.
type UserStore struct {
	repo *repos.ProfileRepo

	mu     sync.RWMutex
	users  []domain.Profile
	loaded bool
}

func NewUserStore(repo *repos.ProfileRepo) *UserStore { return &UserStore{repo: repo} }

// Fetch replaces the cache with the repository contents.
func (s *UserStore) Fetch(ctx context.Context) ([]domain.Profile, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.users = list
	s.loaded = true
	s.mu.Unlock()
	return clone(list), nil
}

func (s *UserStore) All(ctx context.Context) ([]domain.Profile, error) {
	s.mu.RLock()
	if s.loaded {
		out := clone(s.users)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()
	return s.Fetch(ctx)
}

func (s *UserStore) Get(ctx context.Context, id string) (*domain.Profile, error) {
	list, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	p, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.put(*p)
	return p, nil
}

func (s *UserStore) Stats(ctx context.Context) (domain.UserStats, error) {
	list, err := s.All(ctx)
	if err != nil {
		return domain.UserStats{}, err
	}
	return domain.CountRoles(list), nil
}

func (s *UserStore) Add(ctx context.Context, in NewUser) (*domain.Profile, error) {
	if err := checkUserFields(in.FullName, in.Email, in.Role); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	p := &domain.Profile{
		ID:       uuid.NewString(),
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Role:     in.Role,
		Hash:     hash,
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		if errors.Is(err, repos.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.mu.Lock()
	if s.loaded {
		s.users = append([]domain.Profile{*p}, s.users...)
	}
	s.mu.Unlock()
	return p, nil
}

func (s *UserStore) Update(ctx context.Context, id string, in UserUpdate) (*domain.Profile, error) {
	if err := checkUserFields(in.FullName, in.Email, in.Role); err != nil {
		return nil, err
	}
	p, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.FullName = in.FullName
	p.Email = in.Email
	p.Phone = in.Phone
	p.Role = in.Role
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repos.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.put(*p)
	return p, nil
}

// Delete removes a profile. An admin cannot delete their own account.
func (s *UserStore) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfDelete
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i:i], s.users[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// put replaces the cached entry for p, or prepends it when absent.
func (s *UserStore) put(p domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return
	}
	for i := range s.users {
		if s.users[i].ID == p.ID {
			s.users[i] = p
			return
		}
	}
	s.users = append([]domain.Profile{p}, s.users...)
}

func checkUserFields(name, email string, role domain.Role) error {
	if strings.TrimSpace(name) == "" {
		return invalid("full_name", "Name is required.")
	}
	if strings.TrimSpace(email) == "" {
		return invalid("email", "Email is required.")
	}
	if !domain.ValidRole(string(role)) {
		return invalid("role", "Unknown role.")
	}
	return nil
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
