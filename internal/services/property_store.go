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

// PropertyInput is the editable part of a listing.
type PropertyInput struct {
	Title       string
	Description string
	Type        domain.PropertyType
	Price       float64
	Surface     *float64
	Bedrooms    int
	Bathrooms   int
	Location    string
	District    string
	Region      string
	Status      domain.PropertyStatus
	Images      []string
}

func (in PropertyInput) check() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return invalid("title", "Title is required.")
	case !domain.ValidPropertyType(string(in.Type)):
		return invalid("type", "Unknown property type.")
	case in.Price <= 0:
		return invalid("price", "Price must be a positive number.")
	case strings.TrimSpace(in.Location) == "":
		return invalid("location", "Location is required.")
	case !domain.ValidRegion(in.Region):
		return invalid("region", "Unknown region.")
	case !domain.ValidPropertyStatus(string(in.Status)):
		return invalid("status", "Unknown status.")
	case in.Bedrooms < 0 || in.Bathrooms < 0:
		return invalid("bedrooms", "Room counts cannot be negative.")
	}
	return nil
}

func (in PropertyInput) apply(p *domain.Property) {
	p.Title = in.Title
	p.Description = in.Description
	p.Type = in.Type
	p.Price = in.Price
	p.Surface = in.Surface
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.Location = in.Location
	p.District = in.District
	p.Region = in.Region
	p.Status = in.Status
	p.ImagesJSON = domain.EncodeImages(in.Images)
}

// InputFrom returns the editable fields of p, used to prefill edit forms.
func InputFrom(p domain.Property) PropertyInput {
	return PropertyInput{
		Title: p.Title, Description: p.Description, Type: p.Type, Price: p.Price,
		Surface: p.Surface, Bedrooms: p.Bedrooms, Bathrooms: p.Bathrooms,
		Location: p.Location, District: p.District, Region: p.Region,
		Status: p.Status, Images: p.Images(),
	}
}

// CanEdit reports whether actor may change or delete p: admins any
// listing, agents only their own.
func CanEdit(actor *domain.Profile, p domain.Property) bool {
	switch {
	case actor == nil:
		return false
	case actor.IsAdmin():
		return true
	case actor.IsAgent():
		return p.AgentID == actor.ID
	}
	return false
}

// PropertyStore is the shared listing cache. The collection is replaced
// wholesale on Fetch; writes hit the repository first.
type PropertyStore struct {
	repo *repos.PropertyRepo

	mu     sync.RWMutex
	items  []domain.Property
	loaded bool
}

func NewPropertyStore(repo *repos.PropertyRepo) *PropertyStore {
	return &PropertyStore{repo: repo}
}

func (s *PropertyStore) Fetch(ctx context.Context) ([]domain.Property, error) {
	list, err := s.repo.List(ctx, repos.ListOptions{})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.items = list
	s.loaded = true
	s.mu.Unlock()
	return clone(list), nil
}

// All returns a copy of the cached listings, fetching them on first use.
func (s *PropertyStore) All(ctx context.Context) ([]domain.Property, error) {
	s.mu.RLock()
	if s.loaded {
		out := clone(s.items)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()
	return s.Fetch(ctx)
}

func (s *PropertyStore) Filtered(ctx context.Context, f domain.PropertyFilter) ([]domain.Property, error) {
	list, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterProperties(list, f), nil
}

func (s *PropertyStore) ByAgent(ctx context.Context, agentID string) ([]domain.Property, error) {
	return s.Filtered(ctx, domain.PropertyFilter{AgentID: agentID})
}

// Get looks in the cache first and falls back to the repository.
func (s *PropertyStore) Get(ctx context.Context, id string) (*domain.Property, error) {
	list, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.put(*p)
	return p, nil
}

// Add creates a listing owned by actor.
func (s *PropertyStore) Add(ctx context.Context, actor *domain.Profile, in PropertyInput) (*domain.Property, error) {
	if !actor.CanManageListings() {
		return nil, ErrForbidden
	}
	if err := in.check(); err != nil {
		return nil, err
	}
	p := &domain.Property{ID: uuid.NewString(), AgentID: actor.ID}
	in.apply(p)
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.loaded {
		s.items = append([]domain.Property{*p}, s.items...)
	}
	s.mu.Unlock()
	return p, nil
}

func (s *PropertyStore) Update(ctx context.Context, actor *domain.Profile, id string, in PropertyInput) (*domain.Property, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanEdit(actor, *cur) {
		return nil, ErrForbidden
	}
	if err := in.check(); err != nil {
		return nil, err
	}
	next := *cur
	in.apply(&next)
	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	s.put(next)
	return &next, nil
}

// Delete removes the listing; other cached listings are untouched.
func (s *PropertyStore) Delete(ctx context.Context, actor *domain.Profile, id string) error {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanEdit(actor, *cur) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			s.drop(id)
		}
		return err
	}
	s.drop(id)
	return nil
}

func (s *PropertyStore) put(p domain.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return
	}
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i] = p
			return
		}
	}
	s.items = append([]domain.Property{p}, s.items...)
}

func (s *PropertyStore) drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return
		}
	}
}
