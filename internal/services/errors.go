package services

import "errors"

var (
	ErrBadCreds     = errors.New("invalid email or password")
	ErrEmailTaken   = errors.New("an account with this email already exists")
	ErrNoSession    = errors.New("no active session")
	ErrForbidden    = errors.New("not allowed")
	ErrSelfDelete   = errors.New("you cannot delete your own account")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries a message safe to show the user. It matches
// ErrInvalidInput under errors.Is.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }
