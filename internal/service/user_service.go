package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feedhub/internal/cache"
	apperrors "feedhub/internal/errors"
	"feedhub/internal/model"
	"feedhub/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes user profile and status operations.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetStatus(ctx context.Context, id uuid.UUID) (string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type userService struct {
	users repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(users repository.UserRepository, cache *cache.Client) UserService {
	return &userService{users: users, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// GetUser retrieves a user by ID with caching.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(fmt.Errorf("find user: %w", err))
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// GetStatus returns the user's current status string.
func (s *userService) GetStatus(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Status, nil
}

// UpdateStatus replaces the user's status. Only the owner reaches this call;
// the gate resolves the id from the caller's token.
func (s *userService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if strings.TrimSpace(status) == "" {
		return apperrors.Validation("validation failed",
			apperrors.FieldError{Field: "status", Message: "status must not be empty"})
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user not found")
		}
		return apperrors.Internal(fmt.Errorf("find user: %w", err))
	}

	user.Status = strings.TrimSpace(status)
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.Internal(fmt.Errorf("update user: %w", err))
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
