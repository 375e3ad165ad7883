package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookrack/bookrack/internal/auth"
	"github.com/bookrack/bookrack/internal/events"
	"github.com/bookrack/bookrack/internal/logger"
	"github.com/bookrack/bookrack/internal/storage"
	"github.com/bookrack/bookrack/internal/validation"
)

// EventPublisher receives auth lifecycle events. Publishing is best effort:
// a failed publish never fails the request.
type EventPublisher interface {
	Publish(ctx context.Context, event *events.AuthEvent) error
}

// Outcomes the HTTP layer translates into status codes and reason strings.
var (
	ErrUserExists    = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user does not exist")
	ErrWrongPassword = errors.New("password is incorrect")
	ErrCreateUser    = errors.New("problems creating user")
	ErrSignToken     = errors.New("problems creating token")
)

type AuthService struct {
	users      storage.UserStore
	jwtManager *auth.JWTManager
	publisher  EventPublisher
	log        *logger.Logger
}

func NewAuthService(users storage.UserStore, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		log:        logger.New("auth-service"),
	}
}

// SetEventPublisher enables auth event publishing. Optional.
func (s *AuthService) SetEventPublisher(p EventPublisher) {
	s.publisher = p
}

func (s *AuthService) publishEvent(ctx context.Context, eventType, userID, email string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, &events.AuthEvent{
		Type:      eventType,
		UserID:    userID,
		Email:     email,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		s.log.Warn("Failed to publish %s event: %v", eventType, err)
	}
}

// Signup registers a new user and returns a signed access token.
func (s *AuthService) Signup(ctx context.Context, email, password string) (string, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return "", err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", err
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check existing user: %v", err)
		return "", fmt.Errorf("%w: %v", ErrCreateUser, err)
	}
	if existing != nil {
		return "", ErrUserExists
	}

	// Hashing is deliberately slow, so it happens before Create: the store's
	// critical section stays short and unrelated signups are not serialized
	// behind bcrypt. Create re-checks existence atomically.
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		s.log.Error("Failed to hash password: %v", err)
		return "", fmt.Errorf("%w: %v", ErrCreateUser, err)
	}

	newUser, err := s.users.Create(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateUser) {
			return "", ErrUserExists
		}
		s.log.Error("Failed to create user: %v", err)
		return "", fmt.Errorf("%w: %v", ErrCreateUser, err)
	}

	token, _, err := s.jwtManager.GenerateToken(newUser.ID, newUser.Email)
	if err != nil {
		s.log.Error("Failed to sign token: %v", err)
		return "", fmt.Errorf("%w: %v", ErrSignToken, err)
	}

	s.log.Info("User %s signed up", newUser.ID)
	s.publishEvent(ctx, events.EventSignup, newUser.ID, newUser.Email)
	return token, nil
}

// Login verifies credentials and returns a signed access token. A failed
// password check returns immediately; no token is ever issued past it.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to look up user: %v", err)
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return "", ErrWrongPassword
	}

	token, _, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		s.log.Error("Failed to sign token: %v", err)
		return "", fmt.Errorf("%w: %v", ErrSignToken, err)
	}

	s.publishEvent(ctx, events.EventLogin, user.ID, user.Email)
	return token, nil
}
