package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser     Role = "user"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleUser, RoleEmployee, RoleAdmin:
		return r, nil
	}
	return "", NewValidationError("role", "Role must be one of user, employee, admin")
}

// User is an account holder. Every user owns exactly one ledger.
type User struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Role       Role
	TelegramID *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewUser validates input and returns a user ready to be persisted.
func NewUser(name, email string, role Role, telegramID *int64) (*User, error) {
	verr := &ValidationError{}

	name = strings.TrimSpace(name)
	if name == "" {
		verr.Add("name", "Name is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		verr.Add("email", "Valid email is required")
	}
	if _, err := ParseRole(string(role)); err != nil {
		verr.Add("role", "Role must be one of user, employee, admin")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		Role:       role,
		TelegramID: telegramID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserSummary is the display projection used to enrich withdrawals.
type UserSummary struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
