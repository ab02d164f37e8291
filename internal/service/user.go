package service

import (
	"context"

	"github.com/aidar/team-access-service/internal/domain"
	"github.com/aidar/team-access-service/internal/repository"
)

// UserService handles business logic for users
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// CreateOrUpdate registers a user or updates an existing one
func (s *UserService) CreateOrUpdate(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := s.userRepo.CreateOrUpdate(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, user.UserID)
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
