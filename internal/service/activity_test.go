package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository"
)

func newActivityService(profiles ...domain.PilgrimProfile) (*ActivityService, *fakeActivityRepo, *fakeProfileRepo) {
	profileRepo := newFakeProfileRepo(profiles...)
	repo := newFakeActivityRepo(profileRepo)
	return NewActivityService(repo, profileRepo), repo, profileRepo
}

func seedActivity(t *testing.T, svc *ActivityService, creatorID string, spots int) domain.Activity {
	t.Helper()

	created, err := svc.CreateActivity(context.Background(), domain.Activity{
		CreatorID: creatorID,
		Title:     "Jantar em Sarria",
		Type:      domain.ActivityMeal,
		City:      "Sarria",
		Date:      "2026-09-01",
		Spots:     spots,
	}, false)
	require.NoError(t, err)

	return created
}

func TestActivityService_CreateActivity(t *testing.T) {
	t.Run("rejects unknown type", func(t *testing.T) {
		svc, _, _ := newActivityService()

		_, err := svc.CreateActivity(context.Background(), domain.Activity{
			CreatorID: "u1",
			Type:      "karaoke",
		}, false)

		assert.ErrorIs(t, err, ErrInvalidActivityType)
	})

	t.Run("transport requires a verified profile", func(t *testing.T) {
		svc, _, _ := newActivityService(domain.PilgrimProfile{
			UserID:             "u1",
			VerificationStatus: domain.VerificationPending,
		})

		_, err := svc.CreateActivity(context.Background(), domain.Activity{
			CreatorID: "u1",
			Type:      domain.ActivityTransport,
		}, false)

		assert.ErrorIs(t, err, ErrVerificationRequired)
	})

	t.Run("admins offer transport without verification", func(t *testing.T) {
		svc, _, _ := newActivityService(domain.PilgrimProfile{
			UserID:             "admin",
			VerificationStatus: domain.VerificationUnverified,
		})

		created, err := svc.CreateActivity(context.Background(), domain.Activity{
			CreatorID: "admin",
			Type:      domain.ActivityTransport,
			City:      "Sarria",
			Date:      "2026-09-03",
		}, true)

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	})

	t.Run("admins without any profile may still offer lodging", func(t *testing.T) {
		svc, _, _ := newActivityService()

		created, err := svc.CreateActivity(context.Background(), domain.Activity{
			CreatorID: "admin",
			Type:      domain.ActivityLodging,
			City:      "Melide",
			Date:      "2026-09-04",
		}, true)

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	})

	t.Run("verified pilgrim may offer transport", func(t *testing.T) {
		svc, _, _ := newActivityService(domain.PilgrimProfile{
			UserID:             "u1",
			VerificationStatus: domain.VerificationVerified,
		})

		created, err := svc.CreateActivity(context.Background(), domain.Activity{
			CreatorID: "u1",
			Type:      domain.ActivityTransport,
			City:      "Melide",
			Date:      "2026-09-02",
		}, false)

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	})

	t.Run("meals never require verification", func(t *testing.T) {
		svc, _, _ := newActivityService()

		created, err := svc.CreateActivity(context.Background(), domain.Activity{
			CreatorID: "u1",
			Type:      domain.ActivityMeal,
			City:      "Sarria",
			Date:      "2026-09-01",
		}, false)

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	})
}

func TestActivityService_Join(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown activity", func(t *testing.T) {
		svc, _, _ := newActivityService()

		err := svc.Join(ctx, 99, "u2")

		assert.ErrorIs(t, err, ErrActivityNotFound)
	})

	t.Run("creator may not join their own activity", func(t *testing.T) {
		svc, _, _ := newActivityService()
		activity := seedActivity(t, svc, "creator", 4)

		err := svc.Join(ctx, activity.ID, "creator")

		assert.ErrorIs(t, err, ErrIsCreator)
	})

	t.Run("joining twice reports the duplicate, not capacity", func(t *testing.T) {
		svc, _, _ := newActivityService()
		activity := seedActivity(t, svc, "creator", 2)

		require.NoError(t, svc.Join(ctx, activity.ID, "u2"))

		// The activity is now full, but the duplicate check comes first.
		err := svc.Join(ctx, activity.ID, "u2")
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("fills up to declared spots counting the creator", func(t *testing.T) {
		svc, _, _ := newActivityService()
		activity := seedActivity(t, svc, "creator", 3)

		require.NoError(t, svc.Join(ctx, activity.ID, "u2"))
		require.NoError(t, svc.Join(ctx, activity.ID, "u3"))

		err := svc.Join(ctx, activity.ID, "u4")
		assert.ErrorIs(t, err, ErrNoSpotsAvailable)
	})

	t.Run("zero spots falls back to the default capacity", func(t *testing.T) {
		svc, _, _ := newActivityService()
		activity := seedActivity(t, svc, "creator", 0)

		for _, userID := range []string{"u2", "u3", "u4"} {
			require.NoError(t, svc.Join(ctx, activity.ID, userID))
		}

		err := svc.Join(ctx, activity.ID, "u5")
		assert.ErrorIs(t, err, ErrNoSpotsAvailable)
	})

	t.Run("maps a conditional insert losing the race to capacity", func(t *testing.T) {
		svc, repo, _ := newActivityService()
		activity := seedActivity(t, svc, "creator", 4)

		repo.addParticipantErr = repository.ErrActivityFull
		err := svc.Join(ctx, activity.ID, "u2")
		assert.ErrorIs(t, err, ErrNoSpotsAvailable)

		repo.addParticipantErr = repository.ErrAlreadyJoined
		err = svc.Join(ctx, activity.ID, "u3")
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})
}

func TestActivityService_Leave(t *testing.T) {
	ctx := context.Background()

	t.Run("leaving without having joined is a no-op", func(t *testing.T) {
		svc, _, _ := newActivityService()
		activity := seedActivity(t, svc, "creator", 4)

		assert.NoError(t, svc.Leave(ctx, activity.ID, "stranger"))
	})

	t.Run("leaving frees a spot", func(t *testing.T) {
		svc, _, _ := newActivityService()
		activity := seedActivity(t, svc, "creator", 2)

		require.NoError(t, svc.Join(ctx, activity.ID, "u2"))
		require.ErrorIs(t, svc.Join(ctx, activity.ID, "u3"), ErrNoSpotsAvailable)

		require.NoError(t, svc.Leave(ctx, activity.ID, "u2"))
		assert.NoError(t, svc.Join(ctx, activity.ID, "u3"))
	})
}

func TestActivityService_GetDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("counts the creator's implicit seat", func(t *testing.T) {
		svc, _, _ := newActivityService(
			domain.PilgrimProfile{UserID: "creator", DisplayName: "Maria"},
			domain.PilgrimProfile{UserID: "u2", DisplayName: "João"},
		)
		activity := seedActivity(t, svc, "creator", 4)
		require.NoError(t, svc.Join(ctx, activity.ID, "u2"))

		detail, err := svc.GetDetail(ctx, activity.ID, "u2")
		require.NoError(t, err)

		assert.Equal(t, 2, detail.ParticipantCount)
		assert.Equal(t, 2, detail.SpotsLeft())
		assert.Equal(t, "Maria", detail.CreatorName)
		assert.False(t, detail.IsCreator)
		assert.True(t, detail.IsParticipant)
		assert.True(t, detail.IsMember())

		require.Len(t, detail.Participants, 2)
		assert.Equal(t, "creator", detail.Participants[0].UserID)
		assert.Equal(t, "u2", detail.Participants[1].UserID)
	})

	t.Run("creator without a profile is named by the fallback and left off the roster", func(t *testing.T) {
		svc, _, _ := newActivityService(domain.PilgrimProfile{UserID: "u2", DisplayName: "João"})
		activity := seedActivity(t, svc, "creator", 4)
		require.NoError(t, svc.Join(ctx, activity.ID, "u2"))

		detail, err := svc.GetDetail(ctx, activity.ID, "creator")
		require.NoError(t, err)

		assert.Equal(t, domain.FallbackDisplayName, detail.CreatorName)
		assert.True(t, detail.IsCreator)
		require.Len(t, detail.Participants, 1)
		assert.Equal(t, "u2", detail.Participants[0].UserID)
	})

	t.Run("unknown activity", func(t *testing.T) {
		svc, _, _ := newActivityService()

		_, err := svc.GetDetail(ctx, 42, "u1")

		assert.ErrorIs(t, err, ErrActivityNotFound)
	})
}

func TestActivityService_DeleteActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("only the creator may delete", func(t *testing.T) {
		svc, _, _ := newActivityService()
		activity := seedActivity(t, svc, "creator", 4)

		err := svc.DeleteActivity(ctx, activity.ID, "someone-else", false)
		assert.ErrorIs(t, err, ErrNotCreator)

		assert.NoError(t, svc.DeleteActivity(ctx, activity.ID, "creator", false))
	})

	t.Run("admins may delete any activity", func(t *testing.T) {
		svc, _, _ := newActivityService()
		activity := seedActivity(t, svc, "creator", 4)

		require.NoError(t, svc.DeleteActivity(ctx, activity.ID, "admin", true))

		_, err := svc.GetDetail(ctx, activity.ID, "admin")
		assert.ErrorIs(t, err, ErrActivityNotFound)
	})

	t.Run("deleting removes dependent rows", func(t *testing.T) {
		svc, repo, _ := newActivityService()
		activity := seedActivity(t, svc, "creator", 4)
		require.NoError(t, svc.Join(ctx, activity.ID, "u2"))

		require.NoError(t, svc.DeleteActivity(ctx, activity.ID, "creator", false))

		assert.Empty(t, repo.participants[activity.ID])
	})
}

func TestActivityService_IsMember(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newActivityService()
	activity := seedActivity(t, svc, "creator", 4)
	require.NoError(t, svc.Join(ctx, activity.ID, "u2"))

	tests := []struct {
		name   string
		userID string
		want   bool
	}{
		{"creator is a member", "creator", true},
		{"participant is a member", "u2", true},
		{"stranger is not", "u3", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.IsMember(ctx, activity.ID, tc.userID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestActivityService_ListMine(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newActivityService()

	created := seedActivity(t, svc, "u1", 4)
	joined := seedActivity(t, svc, "u2", 4)
	seedActivity(t, svc, "u3", 4)
	require.NoError(t, svc.Join(ctx, joined.ID, "u1"))

	mine, err := svc.ListMine(ctx, "u1")
	require.NoError(t, err)

	// Newest first, like every listing.
	require.Len(t, mine, 2)
	assert.Equal(t, joined.ID, mine[0].ID)
	assert.Equal(t, created.ID, mine[1].ID)
}
