// Package repotest holds fixtures and a behavioural suite shared by every
// repository.ProfileRepository implementation.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"profile-service/internal/domain"
	"profile-service/internal/repository"
)

// Profiles returns three stored profiles with ids 1..3.
func Profiles() []domain.Profile {
	return []domain.Profile{
		{
			ID:            1,
			Username:      "orangelion962",
			Password:      "1952",
			Gender:        "male",
			FullName:      "Arlo Edwards",
			StreetAddress: "4717 Flaxmere Ave",
			Email:         "arlo.edwards@example.com",
			CreatedAt:     time.Date(2023, 8, 14, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:            2,
			Username:      "organicwolf415",
			Password:      "julius",
			Gender:        "female",
			FullName:      "Lily Wright",
			StreetAddress: "6203 Hillsborough Road",
			Email:         "lily.wright@example.com",
			CreatedAt:     time.Date(2023, 8, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:            3,
			Username:      "tinyleopard224",
			Password:      "wildcat",
			Gender:        "female",
			FullName:      "Aria Thompson",
			StreetAddress: "1120 Ruahine Street",
			Email:         "aria.thompson@example.com",
			CreatedAt:     time.Date(2023, 8, 16, 11, 45, 30, 0, time.UTC),
		},
	}
}

// Request returns a valid edit request distinct from every fixture profile.
func Request() domain.EditRequest {
	return domain.EditRequest{
		Username:      "calmcat451",
		Password:      "shortjane",
		Gender:        "female",
		FullName:      "Ethel Chen",
		StreetAddress: "3775 Deerswim Lane",
		Email:         "ethel.chen@example.com",
	}
}

// Factory builds a fresh, empty-but-initialised repository for one subtest.
type Factory func(t *testing.T) repository.ProfileRepository

// Run exercises the load/save contract against repositories built by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("save then load preserves order and values", func(t *testing.T) {
		repo := newRepo(t)
		want := Profiles()
		want[0], want[2] = want[2], want[0]

		require.NoError(t, repo.Save(ctx, want))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("empty collection round trips", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, []domain.Profile{}))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("save replaces previous document", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, Profiles()))
		require.NoError(t, repo.Save(ctx, Profiles()[:1]))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, Profiles()[:1], got)
	})

	t.Run("loaded slice is detached from the store", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, Profiles()))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		got[0].Username = "mutated"

		again, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, Profiles(), again)
	})
}
