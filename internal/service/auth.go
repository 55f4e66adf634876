package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bhvr/bhvr-api-go/internal/crypto"
	"github.com/bhvr/bhvr-api-go/internal/model"
	"github.com/bhvr/bhvr-api-go/internal/repository"
)

// UserStore is the credential store the auth service reads and writes.
// Create must reject a second user with the same email with repository.ErrDuplicateEmail.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthService handles authentication business logic.
type AuthService struct {
	users  UserStore
	hasher *crypto.PasswordHasher
	tokens *crypto.TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher *crypto.PasswordHasher, tokens *crypto.TokenService) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new user account and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return model.AuthResponse{}, ErrMissingFields
	}
	if len(req.Password) > crypto.MaxPasswordBytes {
		return model.AuthResponse{}, ErrPasswordTooLong
	}

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return model.AuthResponse{}, ErrDuplicateEmail
	case err != nil && !errors.Is(err, repository.ErrUserNotFound):
		return model.AuthResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         model.RoleUser,
	}

	// The pre-check above can race with another registration; the store's
	// unique constraint decides.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrDuplicateEmail
		}
		return model.AuthResponse{}, fmt.Errorf("create user: %w", err)
	}

	return s.authResponse(user)
}

// Login authenticates a user and returns an auth token.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return model.AuthResponse{}, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.VerifyDummy(req.Password)
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// Profile re-reads the user from the store so responses never rely on token claims.
func (s *AuthService) Profile(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	return user.Public(), nil
}

func (s *AuthService) authResponse(user *model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(crypto.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}

	return model.AuthResponse{
		User:  user.Public(),
		Token: token,
	}, nil
}
