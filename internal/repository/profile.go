package repository

import (
	"context"

	"profile-service/internal/domain"
)

// ProfileRepository reads and writes the whole profile collection as one unit.
// Implementations provide no locking; concurrent writers race and the last
// Save wins.
type ProfileRepository interface {
	// Load returns the stored collection in insertion order.
	Load(ctx context.Context) ([]domain.Profile, error)
	// Save replaces the stored collection. Readers never observe a partial write.
	Save(ctx context.Context, profiles []domain.Profile) error
}
