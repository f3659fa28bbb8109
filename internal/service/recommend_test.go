package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminho-companion/api/internal/domain"
)

func TestScoreActivity(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	viewer := domain.PilgrimProfile{
		UserID:     "viewer",
		Cities:     []string{"Sarria", "Melide"},
		PrefMeals:  3,
		PrefHiking: 2,
	}

	tests := []struct {
		name     string
		activity domain.AnnotatedActivity
		want     int
	}{
		{
			name: "everything lines up",
			activity: domain.AnnotatedActivity{
				Activity: domain.Activity{
					CreatorID: "other",
					Type:      domain.ActivityMeal,
					City:      "Sarria",
					Date:      "2026-09-01",
					Spots:     6,
				},
				ParticipantCount: 1,
			},
			// 10 city + 8 date + 3 open + 1 plenty + 2 affinity
			want: 24,
		},
		{
			name: "tomorrow still counts as within a day",
			activity: domain.AnnotatedActivity{
				Activity: domain.Activity{
					CreatorID: "other",
					Type:      domain.ActivityHike,
					City:      "Portomarín",
					Date:      "2026-09-02",
					Spots:     2,
				},
				ParticipantCount: 1,
			},
			// 8 date + 3 open
			want: 11,
		},
		{
			name: "three days out",
			activity: domain.AnnotatedActivity{
				Activity: domain.Activity{
					CreatorID: "other",
					Type:      domain.ActivityHike,
					City:      "Portomarín",
					Date:      "2026-09-04",
					Spots:     2,
				},
				ParticipantCount: 1,
			},
			want: 8,
		},
		{
			name: "a week out",
			activity: domain.AnnotatedActivity{
				Activity: domain.Activity{
					CreatorID: "other",
					Type:      domain.ActivityHike,
					City:      "Portomarín",
					Date:      "2026-09-08",
					Spots:     2,
				},
				ParticipantCount: 1,
			},
			want: 5,
		},
		{
			name: "a week in the past scores like a week out",
			activity: domain.AnnotatedActivity{
				Activity: domain.Activity{
					CreatorID: "other",
					Type:      domain.ActivityHike,
					City:      "Portomarín",
					Date:      "2026-08-25",
					Spots:     2,
				},
				ParticipantCount: 1,
			},
			want: 5,
		},
		{
			name: "full activity earns no spot points",
			activity: domain.AnnotatedActivity{
				Activity: domain.Activity{
					CreatorID: "other",
					Type:      domain.ActivityHike,
					City:      "Portomarín",
					Date:      "2026-10-15",
					Spots:     2,
				},
				ParticipantCount: 2,
			},
			want: 0,
		},
		{
			name: "affinity at the threshold earns nothing",
			activity: domain.AnnotatedActivity{
				Activity: domain.Activity{
					CreatorID: "other",
					Type:      domain.ActivityHike,
					City:      "Portomarín",
					Date:      "2026-10-15",
					Spots:     2,
				},
				ParticipantCount: 1,
			},
			// viewer's hiking affinity is exactly 2, only the open spot counts
			want: 3,
		},
		{
			name: "unparseable date earns no date points",
			activity: domain.AnnotatedActivity{
				Activity: domain.Activity{
					CreatorID: "other",
					Type:      domain.ActivityHike,
					City:      "Sarria",
					Date:      "next tuesday",
					Spots:     2,
				},
				ParticipantCount: 1,
			},
			want: 13,
		},
		{
			name: "own activity sinks regardless of fit",
			activity: domain.AnnotatedActivity{
				Activity: domain.Activity{
					CreatorID: "viewer",
					Type:      domain.ActivityMeal,
					City:      "Sarria",
					Date:      "2026-09-01",
					Spots:     6,
				},
				ParticipantCount: 1,
			},
			want: 24 - 100,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoreActivity(viewer, tc.activity, now))
		})
	}
}

func TestScoreActivity_Deterministic(t *testing.T) {
	now := time.Now()
	viewer := domain.PilgrimProfile{UserID: "viewer", Cities: []string{"Sarria"}, PrefHiking: 4}
	activity := domain.AnnotatedActivity{
		Activity: domain.Activity{
			CreatorID: "other",
			Type:      domain.ActivityHike,
			City:      "Sarria",
			Date:      now.Format("2006-01-02"),
			Spots:     5,
		},
		ParticipantCount: 1,
	}

	first := scoreActivity(viewer, activity, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scoreActivity(viewer, activity, now))
	}
}

func TestRecommendService_Recommend(t *testing.T) {
	ctx := context.Background()
	today := time.Now().Format("2006-01-02")
	farOff := time.Now().AddDate(0, 0, 30).Format("2006-01-02")

	t.Run("best match surfaces first", func(t *testing.T) {
		profileRepo := newFakeProfileRepo(domain.PilgrimProfile{
			UserID:    "viewer",
			Cities:    []string{"Sarria"},
			PrefMeals: 3,
		})
		repo := newFakeActivityRepo(profileRepo)
		svc := NewRecommendService(repo, profileRepo)

		weak, err := repo.Create(ctx, domain.Activity{
			CreatorID: "other",
			Type:      domain.ActivityHike,
			City:      "Melide",
			Date:      farOff,
			Spots:     2,
		})
		require.NoError(t, err)

		strong, err := repo.Create(ctx, domain.Activity{
			CreatorID: "other",
			Type:      domain.ActivityMeal,
			City:      "Sarria",
			Date:      today,
			Spots:     6,
		})
		require.NoError(t, err)

		got, err := svc.Recommend(ctx, "viewer")
		require.NoError(t, err)

		require.Len(t, got, 2)
		assert.Equal(t, strong.ID, got[0].ID)
		assert.Equal(t, weak.ID, got[1].ID)
	})

	t.Run("viewer's own activities rank last", func(t *testing.T) {
		profileRepo := newFakeProfileRepo(domain.PilgrimProfile{
			UserID: "viewer",
			Cities: []string{"Sarria"},
		})
		repo := newFakeActivityRepo(profileRepo)
		svc := NewRecommendService(repo, profileRepo)

		own, err := repo.Create(ctx, domain.Activity{
			CreatorID: "viewer",
			Type:      domain.ActivityMeal,
			City:      "Sarria",
			Date:      today,
			Spots:     6,
		})
		require.NoError(t, err)

		other, err := repo.Create(ctx, domain.Activity{
			CreatorID: "other",
			Type:      domain.ActivityHike,
			City:      "Melide",
			Date:      farOff,
			Spots:     2,
		})
		require.NoError(t, err)

		got, err := svc.Recommend(ctx, "viewer")
		require.NoError(t, err)

		require.Len(t, got, 2)
		assert.Equal(t, other.ID, got[0].ID)
		assert.Equal(t, own.ID, got[1].ID)
	})

	t.Run("caps the feed at ten", func(t *testing.T) {
		profileRepo := newFakeProfileRepo(domain.PilgrimProfile{UserID: "viewer"})
		repo := newFakeActivityRepo(profileRepo)
		svc := NewRecommendService(repo, profileRepo)

		for i := 0; i < 14; i++ {
			_, err := repo.Create(ctx, domain.Activity{
				CreatorID: fmt.Sprintf("u%d", i),
				Type:      domain.ActivityHike,
				City:      "Sarria",
				Date:      today,
				Spots:     4,
			})
			require.NoError(t, err)
		}

		got, err := svc.Recommend(ctx, "viewer")
		require.NoError(t, err)

		assert.Len(t, got, 10)
	})

	t.Run("no profile falls back to creation order, newest first, unscored", func(t *testing.T) {
		profileRepo := newFakeProfileRepo()
		repo := newFakeActivityRepo(profileRepo)
		svc := NewRecommendService(repo, profileRepo)

		var ids []uint
		for i := 0; i < 12; i++ {
			created, err := repo.Create(ctx, domain.Activity{
				CreatorID: fmt.Sprintf("u%d", i),
				Type:      domain.ActivityHike,
				City:      "Sarria",
				Date:      farOff,
				Spots:     4,
			})
			require.NoError(t, err)
			ids = append(ids, created.ID)
		}

		got, err := svc.Recommend(ctx, "stranger")
		require.NoError(t, err)

		require.Len(t, got, 10)
		for i, a := range got {
			assert.Equal(t, ids[len(ids)-1-i], a.ID)
		}
	})
}

func TestAbsDays(t *testing.T) {
	now := time.Date(2026, 9, 1, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, 0, absDays(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 1, absDays(time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 1, absDays(time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 7, absDays(time.Date(2026, 9, 8, 1, 0, 0, 0, time.UTC), now))
}
