package postgres

import (
	"context"
	"errors"

	"userhub/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// userRepository implements repositories.UserRepository with pure data access
type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *userRepository {
	return &userRepository{db: db}
}

// Save saves a user (insert or update, keyed by ID)
func (r *userRepository) Save(ctx context.Context, u *user.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, membership_tier, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			membership_tier = EXCLUDED.membership_tier,
			password_hash = EXCLUDED.password_hash,
			updated_at = EXCLUDED.updated_at`,
		u.ID, u.Name, u.Email, u.Phone, string(u.MembershipTier), u.PasswordHash, u.CreatedAt, u.UpdatedAt)

	return err
}

// FindByID finds a user by ID
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, membership_tier, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1`, id)

	return r.scanUser(row)
}

// FindByEmail finds a user by email, case-insensitively
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, membership_tier, password_hash, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)`, email)

	return r.scanUser(row)
}

// FindByPhone finds a user by phone
func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*user.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, membership_tier, password_hash, created_at, updated_at
		FROM users
		WHERE phone = $1`, phone)

	return r.scanUser(row)
}

// List returns all users matching the filter, oldest first
func (r *userRepository) List(ctx context.Context, f user.Filter) ([]*user.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, phone, membership_tier, password_hash, created_at, updated_at
		FROM users
		WHERE ($1 = '' OR name = $1)
		  AND ($2 = '' OR LOWER(email) = LOWER($2))
		  AND ($3 = '' OR phone = $3)
		  AND ($4 = '' OR membership_tier = $4)
		ORDER BY created_at, id`,
		f.Name, f.Email, f.Phone, string(f.MembershipTier))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Delete removes a user; the profile FK cascades
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// scanUser scans a single row into a user domain object
func (r *userRepository) scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var tier string

	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &tier, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	u.MembershipTier = user.Tier(tier)

	return &u, nil
}
