package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor for stored hashes.
const passwordCost = 10

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64, email string) (string, time.Time, error)
}

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// LoginResult is returned on successful credential verification.
type LoginResult struct {
	UserID    int64
	Token     string
	ExpiresAt time.Time
}

// Service contains account business logic.
type Service struct {
	Repo   Repo
	Tokens TokenIssuer

	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewService(repo Repo, tokens TokenIssuer) *Service {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("resume-builder-unknown-user"), passwordCost)
	return &Service{Repo: repo, Tokens: tokens, dummyHash: dummy}
}

// Register validates input, hashes the password and stores the user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalizeEmail(in.Email)
	if issues := validateRegistration(in); len(issues) > 0 {
		return User{}, &ValidationError{Issues: issues}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	id, err := s.Repo.Create(ctx, user)
	if err != nil {
		return User{}, err
	}
	user.ID = id
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if s == nil || s.Repo == nil || s.Tokens == nil {
		return LoginResult{}, errors.New("users service not configured")
	}
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{UserID: user.ID, Token: token, ExpiresAt: expiresAt}, nil
}

// Exists reports whether userID refers to a stored user.
func (s *Service) Exists(ctx context.Context, userID int64) (bool, error) {
	if s == nil || s.Repo == nil {
		return false, errors.New("users service not configured")
	}
	if userID <= 0 {
		return false, nil
	}
	return s.Repo.Exists(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, userID int64) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if userID <= 0 {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

func validateRegistration(in RegisterInput) []FieldIssue {
	var issues []FieldIssue
	if in.FullName == "" {
		issues = append(issues, FieldIssue{Field: "full_name", Issue: "required"})
	}
	if in.Email == "" {
		issues = append(issues, FieldIssue{Field: "email", Issue: "required"})
	}
	switch {
	case in.Password == "":
		issues = append(issues, FieldIssue{Field: "password", Issue: "required"})
	case len(in.Password) > maxPasswordBytes:
		issues = append(issues, FieldIssue{Field: "password", Issue: "must be at most 72 bytes"})
	}
	return issues
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
