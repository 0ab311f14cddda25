package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"immoportal/internal/auth"
	"immoportal/internal/domain"
	"immoportal/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes with bcrypt's default cost.
func HashPassword(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// SignedIn is the outcome of a successful sign-in or sign-up.
type SignedIn struct {
	Profile *domain.Profile
	Token   string
	Expires time.Time
}

type SignUpInput struct {
	FullName    string
	Email       string
	Phone       string
	Password    string
	Confirm     string
	Role        domain.Role
	AcceptTerms bool
}

type ProfileUpdate struct {
	FullName string
	Phone    string
}

type AuthService struct {
	Profiles *repos.ProfileRepo
	Sessions *repos.SessionRepo
	Tokens   *auth.TokenIssuer
	// Users, when set, is kept in step with sign-ups and profile edits.
	Users *UserStore
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignedIn, error) {
	p, err := s.Profiles.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrBadCreds
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	return s.openSession(ctx, p)
}

// SignUp creates a client or agent account and signs it in. Admin accounts
// are only created by other admins.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*SignedIn, error) {
	if in.Role != domain.RoleClient && in.Role != domain.RoleAgent {
		return nil, invalid("role", "Please choose a client or agent account.")
	}
	if in.Password != in.Confirm {
		return nil, invalid("confirm", "Passwords do not match.")
	}
	if !in.AcceptTerms {
		return nil, invalid("terms", "You must accept the terms of use.")
	}
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, invalid("full_name", "Name and email are required.")
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
	if err := s.Profiles.Insert(ctx, p); err != nil {
		if errors.Is(err, repos.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if s.Users != nil {
		s.Users.put(*p)
	}
	return s.openSession(ctx, p)
}

func (s *AuthService) openSession(ctx context.Context, p *domain.Profile) (*SignedIn, error) {
	sid := uuid.NewString()
	token, exp, err := s.Tokens.Issue(sid, p.ID, string(p.Role))
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Create(ctx, sid, p.ID, exp); err != nil {
		return nil, err
	}
	return &SignedIn{Profile: p, Token: token, Expires: exp}, nil
}

// SignOut revokes the session behind token. Unknown or malformed tokens are ignored.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil
	}
	return s.Sessions.Delete(ctx, claims.SessionID())
}

// Session resolves a token to the current profile. The role comes from the
// stored profile, not from the token.
func (s *AuthService) Session(ctx context.Context, token string) (*domain.Profile, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, ErrNoSession
	}
	sess, err := s.Sessions.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	if sess.UserID != claims.UserID {
		return nil, ErrNoSession
	}
	p, err := s.Profiles.ByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return p, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.Profile, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, invalid("full_name", "Name is required.")
	}
	p, err := s.Profiles.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.FullName = in.FullName
	p.Phone = in.Phone
	if err := s.Profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	if s.Users != nil {
		s.Users.put(*p)
	}
	return p, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, id, current, next string) error {
	p, err := s.Profiles.ByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(current)) != nil {
		return ErrBadCreds
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.Profiles.SetPassword(ctx, id, hash)
}
