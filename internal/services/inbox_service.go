package services

import (
	"context"
	"strings"

	"immoportal/internal/domain"
	"immoportal/internal/repos"

	"github.com/google/uuid"
)

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

type InboxService struct {
	Repo *repos.InboxRepo
}

func NewInboxService(repo *repos.InboxRepo) *InboxService { return &InboxService{Repo: repo} }

func (s *InboxService) Contact(ctx context.Context, in ContactInput) (*domain.ContactMessage, error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return nil, invalid("name", "Name is required.")
	case strings.TrimSpace(in.Email) == "":
		return nil, invalid("email", "Email is required.")
	case strings.TrimSpace(in.Subject) == "":
		return nil, invalid("subject", "Subject is required.")
	case strings.TrimSpace(in.Message) == "":
		return nil, invalid("message", "Message is required.")
	}
	m := &domain.ContactMessage{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	}
	if err := s.Repo.SaveContact(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *InboxService) Recent(ctx context.Context, n int) ([]domain.ContactMessage, error) {
	return s.Repo.ListContacts(ctx, n)
}

// Subscribe reports false when the address was already on the list.
func (s *InboxService) Subscribe(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, invalid("email", "Email is required.")
	}
	return s.Repo.Subscribe(ctx, email)
}
