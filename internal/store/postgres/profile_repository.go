package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"userhub/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// profileRepository implements repositories.ProfileRepository with pure data access
type profileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *profileRepository {
	return &profileRepository{db: db}
}

// Save saves a profile (insert or update, keyed by ID)
func (r *profileRepository) Save(ctx context.Context, p *profile.Profile) error {
	tags, err := json.Marshal(p.StyleTags)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO profiles (id, user_id, username, display_name, avatar_url, bio, style_tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			bio = EXCLUDED.bio,
			style_tags = EXCLUDED.style_tags,
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.UserID, p.Username, p.DisplayName, p.AvatarURL, p.Bio, string(tags), p.CreatedAt, p.UpdatedAt)

	return err
}

// FindByID finds a profile by ID
func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, username, display_name, avatar_url, bio, style_tags, created_at, updated_at
		FROM profiles
		WHERE id = $1`, id)

	return r.scanProfile(row)
}

// FindByUserID finds the profile owned by a user (1:1)
func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, username, display_name, avatar_url, bio, style_tags, created_at, updated_at
		FROM profiles
		WHERE user_id = $1`, userID)

	return r.scanProfile(row)
}

// FindByUsername finds a profile by username, case-insensitively
func (r *profileRepository) FindByUsername(ctx context.Context, username string) (*profile.Profile, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, username, display_name, avatar_url, bio, style_tags, created_at, updated_at
		FROM profiles
		WHERE LOWER(username) = LOWER($1)`, username)

	return r.scanProfile(row)
}

// List returns all profiles matching the filter, oldest first
func (r *profileRepository) List(ctx context.Context, f profile.Filter) ([]*profile.Profile, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, username, display_name, avatar_url, bio, style_tags, created_at, updated_at
		FROM profiles
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND ($2 = '' OR LOWER(username) = LOWER($2))
		ORDER BY created_at, id`,
		nullableUUID(f.UserID), f.Username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*profile.Profile
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Delete removes a profile
func (r *profileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

// scanProfile scans a single row into a profile domain object
func (r *profileRepository) scanProfile(row pgx.Row) (*profile.Profile, error) {
	var p profile.Profile
	var tags string

	err := row.Scan(&p.ID, &p.UserID, &p.Username, &p.DisplayName, &p.AvatarURL, &p.Bio, &tags, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, profile.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.StyleTags = []string{}
	if tags != "" {
		// Corrupt rows degrade to an empty tag list rather than failing the read.
		_ = json.Unmarshal([]byte(tags), &p.StyleTags)
	}

	return &p, nil
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
