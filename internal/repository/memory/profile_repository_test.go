package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"profile-service/internal/domain"
	"profile-service/internal/repository"
	"profile-service/internal/repository/repotest"
)

func TestProfileRepository_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.ProfileRepository {
		return NewProfileRepository()
	})
}

func TestProfileRepository_LoadWithoutDocument(t *testing.T) {
	_, err := NewProfileRepository().Load(context.Background())
	require.True(t, domain.IsStorageError(err))
}

func TestNewSeeded_CopiesInput(t *testing.T) {
	seed := repotest.Profiles()
	repo := NewSeeded(seed)
	seed[0].Username = "changed"

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, repotest.Profiles(), got)
}
