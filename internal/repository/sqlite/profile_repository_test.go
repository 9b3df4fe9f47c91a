package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"profile-service/internal/domain"
	"profile-service/internal/repository"
	"profile-service/internal/repository/repotest"
)

func openTestRepo(t *testing.T, init bool) *ProfileRepository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "db", "profiles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewProfileRepository(db)
	if init {
		require.NoError(t, repo.Init(context.Background()))
	}
	return repo
}

func TestProfileRepository_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.ProfileRepository {
		return openTestRepo(t, true)
	})
}

func TestProfileRepository_LoadWithoutTable(t *testing.T) {
	repo := openTestRepo(t, false)

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	require.True(t, domain.IsStorageError(err))
}

func TestProfileRepository_InitIsIdempotent(t *testing.T) {
	repo := openTestRepo(t, true)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, repotest.Profiles()))
	require.NoError(t, repo.Init(ctx))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, repotest.Profiles(), got)
}

func TestProfileRepository_SaveDuplicateIDsKeepsOrder(t *testing.T) {
	repo := openTestRepo(t, true)
	ctx := context.Background()

	profiles := repotest.Profiles()
	profiles[2].ID = 1

	require.NoError(t, repo.Save(ctx, profiles))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, profiles, got)
}
