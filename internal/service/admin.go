package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/recipe-api/internal/domain"
	"github.com/msomdec/recipe-api/internal/validation"
)

// AdminUserUpdate is the editable part of a user on the admin pages.
type AdminUserUpdate struct {
	Name     string `json:"name" validate:"max=255"`
	IsActive bool   `json:"is_active"`
	IsStaff  bool   `json:"is_staff"`
}

// AdminService backs the staff-only user management pages.
type AdminService struct {
	users     domain.UserRepository
	auth      *AuthService
	validator *validation.Validator
}

// NewAdminService creates a new AdminService.
func NewAdminService(users domain.UserRepository, auth *AuthService, v *validation.Validator) *AdminService {
	return &AdminService{users: users, auth: auth, validator: v}
}

// SearchUsers lists users whose email or name contains query. An empty
// query lists everyone.
func (s *AdminService) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	users, err := s.users.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

func (s *AdminService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// AddUser creates an account from the admin pages.
func (s *AdminService) AddUser(ctx context.Context, in RegisterInput, staff bool) (*domain.User, error) {
	return s.auth.CreateUser(ctx, in, staff)
}

// UpdateUser changes the name and flags of an existing account.
func (s *AdminService) UpdateUser(ctx context.Context, id int64, in AdminUserUpdate) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = in.Name
	user.IsActive = in.IsActive
	user.IsStaff = in.IsStaff
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
