package repositories

import (
	"context"

	"userhub/internal/domain/profile"
	"userhub/internal/domain/user"

	"github.com/google/uuid"
)

// UserRepository defines the contract for user data access.
// List returns the full filtered result set ordered by creation time;
// the service layer slices it with the cursor pager.
type UserRepository interface {
	Save(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByPhone(ctx context.Context, phone string) (*user.User, error)
	List(ctx context.Context, f user.Filter) ([]*user.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileRepository defines the contract for profile data access.
type ProfileRepository interface {
	Save(ctx context.Context, p *profile.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
	FindByUsername(ctx context.Context, username string) (*profile.Profile, error)
	List(ctx context.Context, f profile.Filter) ([]*profile.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
