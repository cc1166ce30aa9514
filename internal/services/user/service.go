package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"userhub/internal/core/pagination"
	"userhub/internal/domain/user"
	"userhub/internal/store/repositories"
	"userhub/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CreateRequest represents a new-user payload. Password is write-only.
type CreateRequest struct {
	Name           string    `json:"name" validate:"required"`
	Email          string    `json:"email" validate:"required,email"`
	Phone          string    `json:"phone" validate:"required,us_phone"`
	MembershipTier user.Tier `json:"membership_tier" validate:"omitempty,oneof=FREE PRO PROMAX"`
	Password       string    `json:"password" validate:"required"`
}

// UpdateRequest represents a sparse update: only non-nil fields are
// applied, so "absent" and "set to empty" stay distinguishable.
type UpdateRequest struct {
	Name           *string    `json:"name" validate:"omitempty,min=1"`
	Email          *string    `json:"email" validate:"omitempty,email"`
	Phone          *string    `json:"phone" validate:"omitempty,us_phone"`
	MembershipTier *user.Tier `json:"membership_tier" validate:"omitempty,oneof=FREE PRO PROMAX"`
	NewPassword    *string    `json:"new_password" validate:"omitempty,min=1"`
}

// ListRequest represents list filters plus pagination parameters.
type ListRequest struct {
	Filter    user.Filter
	PageSize  int
	PageToken string
}

// Validate normalizes the page size into the 1-100 window (default 10).
func (r *ListRequest) Validate() {
	if r.PageSize <= 0 {
		r.PageSize = 10
	}
	if r.PageSize > 100 {
		r.PageSize = 100
	}
}

// ListResponse represents one page of users plus the cursor for the
// next page ("" on the last page).
type ListResponse struct {
	Users         []*user.User
	PageSize      int
	NextPageToken string
}

// Service handles user management
type Service struct {
	userRepo repositories.UserRepository
}

// NewService creates a new user service
func NewService(userRepo repositories.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// Create validates the payload, enforces email/phone uniqueness, hashes
// the password, and stores the new user.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*user.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if err := s.checkEmailFree(ctx, req.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkPhoneFree(ctx, req.Phone, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &ServiceError{Op: "hash_password", Err: err}
	}

	u := user.New(strings.TrimSpace(req.Name), req.Email, req.Phone, req.MembershipTier, string(hash))
	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, &ServiceError{Op: "save_user", Err: err}
	}
	return u, nil
}

// Get retrieves a user by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &ServiceError{Op: "find_user", Err: err}
	}
	return u, nil
}

// List retrieves one page of users matching the filters.
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	req.Validate()

	users, err := s.userRepo.List(ctx, req.Filter)
	if err != nil {
		return nil, &ServiceError{Op: "list_users", Err: err}
	}

	page, next := pagination.Paginate(users, req.PageSize, req.PageToken)
	return &ListResponse{
		Users:         page,
		PageSize:      req.PageSize,
		NextPageToken: next,
	}, nil
}

// Update applies the present fields of a sparse update, re-checking
// uniqueness for email/phone changes and re-hashing a new password.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*user.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && !strings.EqualFold(*req.Email, u.Email) {
		if err := s.checkEmailFree(ctx, *req.Email, id); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil && *req.Phone != u.Phone {
		if err := s.checkPhoneFree(ctx, *req.Phone, id); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.MembershipTier != nil {
		u.MembershipTier = *req.MembershipTier
	}
	if req.NewPassword != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, &ServiceError{Op: "hash_password", Err: err}
		}
		u.PasswordHash = string(hash)
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, &ServiceError{Op: "save_user", Err: err}
	}
	return u, nil
}

// Delete removes a user (and, via the store, their profile).
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.userRepo.Delete(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return err
	}
	if err != nil {
		return &ServiceError{Op: "delete_user", Err: err}
	}
	return nil
}

func (s *Service) checkEmailFree(ctx context.Context, email string, selfID uuid.UUID) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return nil
	}
	if err != nil {
		return &ServiceError{Op: "check_email", Err: err}
	}
	if existing.ID != selfID {
		return user.ErrEmailExists
	}
	return nil
}

func (s *Service) checkPhoneFree(ctx context.Context, phone string, selfID uuid.UUID) error {
	existing, err := s.userRepo.FindByPhone(ctx, phone)
	if errors.Is(err, user.ErrNotFound) {
		return nil
	}
	if err != nil {
		return &ServiceError{Op: "check_phone", Err: err}
	}
	if existing.ID != selfID {
		return user.ErrPhoneExists
	}
	return nil
}

// ServiceError represents a user service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("user service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
