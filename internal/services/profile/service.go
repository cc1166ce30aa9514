package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"userhub/internal/core/pagination"
	"userhub/internal/domain/profile"
	"userhub/internal/domain/user"
	"userhub/internal/store/repositories"
	"userhub/internal/validation"

	"github.com/google/uuid"
)

// CreateRequest represents a new-profile payload.
type CreateRequest struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	Username    string    `json:"username" validate:"required,username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url" validate:"omitempty,url"`
	Bio         string    `json:"bio" validate:"omitempty,max=280"`
	StyleTags   []string  `json:"style_tags"`
}

// UpdateRequest represents a sparse update; only non-nil fields are
// applied. UserID is immutable and deliberately absent.
type UpdateRequest struct {
	Username    *string   `json:"username" validate:"omitempty,username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url" validate:"omitempty,url"`
	Bio         *string   `json:"bio" validate:"omitempty,max=280"`
	StyleTags   *[]string `json:"style_tags"`
}

// ListRequest represents list filters plus pagination parameters.
type ListRequest struct {
	Filter    profile.Filter
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

// ListResponse represents one page of profiles plus the next cursor.
type ListResponse struct {
	Profiles      []*profile.Profile
	PageSize      int
	NextPageToken string
}

// Service handles profile management
type Service struct {
	profileRepo repositories.ProfileRepository
	userRepo    repositories.UserRepository
}

// NewService creates a new profile service
func NewService(profileRepo repositories.ProfileRepository, userRepo repositories.UserRepository) *Service {
	return &Service{profileRepo: profileRepo, userRepo: userRepo}
}

// Create validates the payload and enforces the referential rules:
// the owner must exist, may own at most one profile, and the username
// must be unique case-insensitively.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*profile.Profile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, profile.ErrOwnerNotFound
		}
		return nil, &ServiceError{Op: "check_owner", Err: err}
	}

	if _, err := s.profileRepo.FindByUserID(ctx, req.UserID); err == nil {
		return nil, profile.ErrUserHasProfile
	} else if !errors.Is(err, profile.ErrNotFound) {
		return nil, &ServiceError{Op: "check_owner_profile", Err: err}
	}

	if err := s.checkUsernameFree(ctx, req.Username, uuid.Nil); err != nil {
		return nil, err
	}

	p := profile.New(req.UserID, req.Username, req.DisplayName, req.AvatarURL, req.Bio, req.StyleTags)
	if err := s.profileRepo.Save(ctx, p); err != nil {
		return nil, &ServiceError{Op: "save_profile", Err: err}
	}
	return p, nil
}

// Get retrieves a profile by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	p, err := s.profileRepo.FindByID(ctx, id)
	if errors.Is(err, profile.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &ServiceError{Op: "find_profile", Err: err}
	}
	return p, nil
}

// List retrieves one page of profiles matching the filters.
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	req.Validate()

	profiles, err := s.profileRepo.List(ctx, req.Filter)
	if err != nil {
		return nil, &ServiceError{Op: "list_profiles", Err: err}
	}

	page, next := pagination.Paginate(profiles, req.PageSize, req.PageToken)
	return &ListResponse{
		Profiles:      page,
		PageSize:      req.PageSize,
		NextPageToken: next,
	}, nil
}

// Update applies the present fields of a sparse update, re-checking
// username uniqueness when it changes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*profile.Profile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && !strings.EqualFold(*req.Username, p.Username) {
		if err := s.checkUsernameFree(ctx, *req.Username, id); err != nil {
			return nil, err
		}
	}

	if req.Username != nil {
		p.Username = *req.Username
	}
	if req.DisplayName != nil {
		p.DisplayName = *req.DisplayName
	}
	if req.AvatarURL != nil {
		p.AvatarURL = *req.AvatarURL
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	if req.StyleTags != nil {
		p.StyleTags = *req.StyleTags
		if p.StyleTags == nil {
			p.StyleTags = []string{}
		}
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.profileRepo.Save(ctx, p); err != nil {
		return nil, &ServiceError{Op: "save_profile", Err: err}
	}
	return p, nil
}

// Delete removes a profile.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.profileRepo.Delete(ctx, id)
	if errors.Is(err, profile.ErrNotFound) {
		return err
	}
	if err != nil {
		return &ServiceError{Op: "delete_profile", Err: err}
	}
	return nil
}

func (s *Service) checkUsernameFree(ctx context.Context, username string, selfID uuid.UUID) error {
	existing, err := s.profileRepo.FindByUsername(ctx, username)
	if errors.Is(err, profile.ErrNotFound) {
		return nil
	}
	if err != nil {
		return &ServiceError{Op: "check_username", Err: err}
	}
	if existing.ID != selfID {
		return profile.ErrUsernameExists
	}
	return nil
}

// ServiceError represents a profile service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("profile service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
