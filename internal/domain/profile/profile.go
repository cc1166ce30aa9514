package profile

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors surfaced by repositories and services.
var (
	ErrNotFound       = errors.New("profile not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrUserHasProfile = errors.New("user already has a profile")
	ErrOwnerNotFound  = errors.New("user does not exist")
)

// Profile is a user's public profile. Each user owns at most one.
// UserID is immutable after creation.
type Profile struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	Username    string            `json:"username"`
	DisplayName string            `json:"display_name,omitempty"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	Bio         string            `json:"bio,omitempty"`
	StyleTags   []string          `json:"style_tags"`
	Links       map[string]string `json:"_links,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// New creates a profile with a fresh ID for the given owner.
func New(userID uuid.UUID, username, displayName, avatarURL, bio string, styleTags []string) *Profile {
	if styleTags == nil {
		styleTags = []string{}
	}
	now := time.Now().UTC()
	return &Profile{
		ID:          uuid.New(),
		UserID:      userID,
		Username:    username,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		Bio:         bio,
		StyleTags:   styleTags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Filter holds list filters; zero values mean "no filter".
// Username matches case-insensitively.
type Filter struct {
	UserID   uuid.UUID
	Username string
}

// Snapshot returns a copy without links, suitable for fingerprinting.
func (p *Profile) Snapshot() Profile {
	s := *p
	s.Links = nil
	return s
}
