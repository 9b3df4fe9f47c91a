// Package memory keeps the profile collection in process memory.
package memory

import (
	"context"
	"errors"
	"sync"

	"profile-service/internal/domain"
	"profile-service/internal/repository"
)

var errNoDocument = errors.New("no document stored")

// ProfileRepository mirrors the file store's contract without touching disk.
// The mutex only guards the slice header; it does not serialise
// load-modify-save sequences.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles []domain.Profile
	present  bool
}

// NewProfileRepository returns a store with no document, so Load fails until
// the first Save.
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{}
}

// NewSeeded returns a store holding a copy of profiles.
func NewSeeded(profiles []domain.Profile) *ProfileRepository {
	return &ProfileRepository{profiles: clone(profiles), present: true}
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

func (r *ProfileRepository) Load(ctx context.Context) ([]domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("load", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.present {
		return nil, domain.NewStorageError("load", errNoDocument)
	}
	return clone(r.profiles), nil
}

func (r *ProfileRepository) Save(ctx context.Context, profiles []domain.Profile) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("save", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles = clone(profiles)
	r.present = true
	return nil
}

func clone(profiles []domain.Profile) []domain.Profile {
	out := make([]domain.Profile, len(profiles))
	copy(out, profiles)
	return out
}
