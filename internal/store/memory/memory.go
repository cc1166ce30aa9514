// Package memory is the non-persistent storage backend: process-wide
// maps behind the same repository interfaces the postgres backend
// implements, so the rest of the service cannot tell them apart.
// Insertion order is preserved to match the postgres created_at
// ordering.
package memory

import (
	"context"
	"strings"
	"sync"

	"userhub/internal/domain/profile"
	"userhub/internal/domain/user"

	"github.com/google/uuid"
)

// Store holds both collections under one lock so that cross-entity
// rules (deleting a user removes their profile, mirroring the FK
// cascade) stay atomic.
type Store struct {
	mu sync.RWMutex

	users     map[uuid.UUID]*user.User
	userOrder []uuid.UUID

	profiles      map[uuid.UUID]*profile.Profile
	profileOrder  []uuid.UUID
	profileByUser map[uuid.UUID]uuid.UUID
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:         make(map[uuid.UUID]*user.User),
		profiles:      make(map[uuid.UUID]*profile.Profile),
		profileByUser: make(map[uuid.UUID]uuid.UUID),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Profiles returns the profile repository view of the store.
func (s *Store) Profiles() *ProfileRepository { return &ProfileRepository{s: s} }

// UserRepository implements repositories.UserRepository over the store.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Save(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *u
	if _, exists := r.s.users[u.ID]; !exists {
		r.s.userOrder = append(r.s.userOrder, u.ID)
	}
	r.s.users[u.ID] = &cp
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range r.s.userOrder {
		if u := r.s.users[id]; strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *UserRepository) FindByPhone(_ context.Context, phone string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range r.s.userOrder {
		if u := r.s.users[id]; u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *UserRepository) List(_ context.Context, f user.Filter) ([]*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*user.User, 0, len(r.s.userOrder))
	for _, id := range r.s.userOrder {
		u := r.s.users[id]
		if f.Name != "" && u.Name != f.Name {
			continue
		}
		if f.Email != "" && !strings.EqualFold(u.Email, f.Email) {
			continue
		}
		if f.Phone != "" && u.Phone != f.Phone {
			continue
		}
		if f.MembershipTier != "" && u.MembershipTier != f.MembershipTier {
			continue
		}
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}

func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(r.s.users, id)
	r.s.userOrder = removeID(r.s.userOrder, id)

	// Cascade: a user's profile does not survive them.
	if pid, ok := r.s.profileByUser[id]; ok {
		delete(r.s.profiles, pid)
		delete(r.s.profileByUser, id)
		r.s.profileOrder = removeID(r.s.profileOrder, pid)
	}
	return nil
}

// ProfileRepository implements repositories.ProfileRepository over the store.
type ProfileRepository struct {
	s *Store
}

func (r *ProfileRepository) Save(_ context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := clone(p)
	if _, exists := r.s.profiles[p.ID]; !exists {
		r.s.profileOrder = append(r.s.profileOrder, p.ID)
	}
	r.s.profiles[p.ID] = cp
	r.s.profileByUser[p.UserID] = p.ID
	return nil
}

func (r *ProfileRepository) FindByID(_ context.Context, id uuid.UUID) (*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, profile.ErrNotFound
	}
	return clone(p), nil
}

func (r *ProfileRepository) FindByUserID(_ context.Context, userID uuid.UUID) (*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pid, ok := r.s.profileByUser[userID]
	if !ok {
		return nil, profile.ErrNotFound
	}
	return clone(r.s.profiles[pid]), nil
}

func (r *ProfileRepository) FindByUsername(_ context.Context, username string) (*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range r.s.profileOrder {
		if p := r.s.profiles[id]; strings.EqualFold(p.Username, username) {
			return clone(p), nil
		}
	}
	return nil, profile.ErrNotFound
}

func (r *ProfileRepository) List(_ context.Context, f profile.Filter) ([]*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	profiles := make([]*profile.Profile, 0, len(r.s.profileOrder))
	for _, id := range r.s.profileOrder {
		p := r.s.profiles[id]
		if f.UserID != uuid.Nil && p.UserID != f.UserID {
			continue
		}
		if f.Username != "" && !strings.EqualFold(p.Username, f.Username) {
			continue
		}
		profiles = append(profiles, clone(p))
	}
	return profiles, nil
}

func (r *ProfileRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return profile.ErrNotFound
	}
	delete(r.s.profiles, id)
	delete(r.s.profileByUser, p.UserID)
	r.s.profileOrder = removeID(r.s.profileOrder, id)
	return nil
}

func clone(p *profile.Profile) *profile.Profile {
	cp := *p
	cp.StyleTags = append([]string(nil), p.StyleTags...)
	if cp.StyleTags == nil {
		cp.StyleTags = []string{}
	}
	return &cp
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
