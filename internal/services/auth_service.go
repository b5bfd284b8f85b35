package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pustakahub/pustaka-backend/internal/models"
	"github.com/pustakahub/pustaka-backend/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("no account registered for that email")
	ErrNoPasswordSet      = errors.New("no password set for this account, sign in with Google instead")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserDirectory is the external user store consumed by the auth service.
// Uniqueness of email is enforced by the store.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// FederatedProfile is a verified profile delivered by the OAuth callback.
// It is trusted as-is; no re-verification happens here.
type FederatedProfile struct {
	Email      string
	Name       string
	ProviderID string
}

// AuthService reconciles login attempts against the user directory and mints
// session tokens for authenticated identities.
type AuthService struct {
	users  UserDirectory
	tokens *TokenIssuer
}

func NewAuthService(users UserDirectory, tokens *TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new account. Password is optional; when absent the
// account is federated-only. Role defaults to member when unspecified.
func (s *AuthService) Register(ctx context.Context, email, password, name, role string) (*models.User, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup during registration: %w", err)
	}

	var hash string
	if password != "" {
		hash, err = HashPassword(password)
		if err != nil {
			return nil, err
		}
	}
	if role == "" {
		role = models.RoleMember
	}

	user := &models.User{
		Email:    email,
		Password: hash,
		Name:     name,
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginWithEmail verifies password credentials and returns a session token.
func (s *AuthService) LoginWithEmail(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup during login: %w", err)
	}

	if user.Password == "" {
		return "", ErrNoPasswordSet
	}

	if !VerifyPassword(password, user.Password) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user)
}

// LoginWithGoogle signs in a verified Google profile, creating the account on
// first login. Repeat logins with the same email reuse the existing record;
// stored provider fields are first-write-wins and are only filled in when the
// record has no provider linkage yet.
func (s *AuthService) LoginWithGoogle(ctx context.Context, profile FederatedProfile) (string, error) {
	user, err := s.users.FindByEmail(ctx, profile.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("lookup during google login: %w", err)
		}
		user = &models.User{
			Email:      profile.Email,
			Name:       profile.Name,
			Provider:   "google",
			ProviderID: profile.ProviderID,
			Role:       models.RoleMember,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return "", err
		}
	} else if user.Provider == "" {
		// Existing password account logging in via Google for the first
		// time: link the provider onto the record instead of erroring.
		user.Provider = "google"
		user.ProviderID = profile.ProviderID
		if err := s.users.Update(ctx, user); err != nil {
			return "", err
		}
	}

	return s.tokens.Issue(user)
}
