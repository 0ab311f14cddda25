package services

import (
	"context"

	"immoportal/internal/domain"
	"immoportal/internal/repos"
)

// FavoriteService keeps the listings a client has saved.
type FavoriteService struct {
	Repo       *repos.FavoriteRepo
	Properties *PropertyStore
}

func NewFavoriteService(repo *repos.FavoriteRepo, props *PropertyStore) *FavoriteService {
	return &FavoriteService{Repo: repo, Properties: props}
}

// Toggle saves or unsaves a listing and reports whether it is now saved.
func (s *FavoriteService) Toggle(ctx context.Context, user *domain.Profile, propertyID string) (bool, error) {
	if user == nil || user.Role != domain.RoleClient {
		return false, ErrForbidden
	}
	if _, err := s.Properties.Get(ctx, propertyID); err != nil {
		return false, err
	}
	has, err := s.Repo.Has(ctx, user.ID, propertyID)
	if err != nil {
		return false, err
	}
	if has {
		return false, s.Repo.Remove(ctx, user.ID, propertyID)
	}
	return true, s.Repo.Add(ctx, user.ID, propertyID)
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]domain.Property, error) {
	return s.Repo.List(ctx, userID)
}

// IDs returns the saved listing ids as a set, for marking cards.
func (s *FavoriteService) IDs(ctx context.Context, userID string) (map[string]bool, error) {
	list, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(list))
	for _, p := range list {
		out[p.ID] = true
	}
	return out, nil
}
