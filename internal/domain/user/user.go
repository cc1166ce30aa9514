package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Tier represents a user's membership tier
type Tier string

const (
	TierFree   Tier = "FREE"
	TierPro    Tier = "PRO"
	TierProMax Tier = "PROMAX"
)

// Sentinel errors surfaced by repositories and services.
var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already exists")
	ErrPhoneExists = errors.New("phone already exists")
)

// User is the public representation of an account. PasswordHash and the
// timestamps never serialize, so they stay out of the ETag fingerprint.
type User struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	MembershipTier Tier              `json:"membership_tier"`
	Links          map[string]string `json:"_links,omitempty"`

	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// New creates a user with a fresh ID and a defaulted tier.
func New(name, email, phone string, tier Tier, passwordHash string) *User {
	if tier == "" {
		tier = TierFree
	}
	now := time.Now().UTC()
	return &User{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		Phone:          phone,
		MembershipTier: tier,
		PasswordHash:   passwordHash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Filter holds exact-match list filters; zero values mean "no filter".
// Email matches case-insensitively.
type Filter struct {
	Name           string
	Email          string
	Phone          string
	MembershipTier Tier
}

// Snapshot returns a copy without links, suitable for fingerprinting:
// the ETag a GET hands out must match what a later PATCH re-derives,
// regardless of which links were attached to the response.
func (u *User) Snapshot() User {
	s := *u
	s.Links = nil
	return s
}
