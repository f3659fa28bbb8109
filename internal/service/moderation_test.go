package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminho-companion/api/internal/domain"
)

type fakeModerationRepo struct {
	blocks  map[string]map[string]bool
	reports []domain.Report
	nextID  uint
}

func newFakeModerationRepo() *fakeModerationRepo {
	return &fakeModerationRepo{blocks: map[string]map[string]bool{}}
}

func (f *fakeModerationRepo) Block(_ context.Context, blockerID, blockedID string) error {
	if f.blocks[blockerID] == nil {
		f.blocks[blockerID] = map[string]bool{}
	}
	f.blocks[blockerID][blockedID] = true
	return nil
}

func (f *fakeModerationRepo) Unblock(_ context.Context, blockerID, blockedID string) error {
	delete(f.blocks[blockerID], blockedID)
	return nil
}

func (f *fakeModerationRepo) BlockedIDs(_ context.Context, blockerID string) ([]string, error) {
	var out []string
	for id := range f.blocks[blockerID] {
		out = append(out, id)
	}
	return out, nil
}

func (f *fakeModerationRepo) IsBlocked(_ context.Context, blockerID, blockedID string) (bool, error) {
	return f.blocks[blockerID][blockedID], nil
}

func (f *fakeModerationRepo) CreateReport(_ context.Context, report domain.Report) (domain.Report, error) {
	f.nextID++
	report.ID = f.nextID
	report.Status = domain.ReportOpen
	f.reports = append(f.reports, report)
	return report, nil
}

func (f *fakeModerationRepo) ListReports(_ context.Context) ([]domain.Report, error) {
	return f.reports, nil
}

func (f *fakeModerationRepo) UpdateReportStatus(_ context.Context, id uint, status, adminNotes string) error {
	for i, r := range f.reports {
		if r.ID == id {
			f.reports[i].Status = status
			f.reports[i].AdminNotes = adminNotes
		}
	}
	return nil
}

func TestModerationService_BlockUser(t *testing.T) {
	ctx := context.Background()

	t.Run("blocking yourself is refused", func(t *testing.T) {
		svc := NewModerationService(newFakeModerationRepo(), newFakeProfileRepo())

		err := svc.BlockUser(ctx, "u1", "u1")

		assert.ErrorIs(t, err, ErrSelfTarget)
	})

	t.Run("blocking twice stays a single entry", func(t *testing.T) {
		repo := newFakeModerationRepo()
		svc := NewModerationService(repo, newFakeProfileRepo())

		require.NoError(t, svc.BlockUser(ctx, "u1", "u2"))
		require.NoError(t, svc.BlockUser(ctx, "u1", "u2"))

		ids, err := repo.BlockedIDs(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"u2"}, ids)
	})

	t.Run("unblocking someone never blocked is a no-op", func(t *testing.T) {
		svc := NewModerationService(newFakeModerationRepo(), newFakeProfileRepo())

		assert.NoError(t, svc.UnblockUser(ctx, "u1", "u2"))
	})
}

func TestModerationService_ListBlockedProfiles(t *testing.T) {
	ctx := context.Background()
	repo := newFakeModerationRepo()
	profiles := newFakeProfileRepo(domain.PilgrimProfile{UserID: "u2", DisplayName: "João"})
	svc := NewModerationService(repo, profiles)

	require.NoError(t, svc.BlockUser(ctx, "u1", "u2"))
	require.NoError(t, svc.BlockUser(ctx, "u1", "ghost"))

	got, err := svc.ListBlockedProfiles(ctx, "u1")
	require.NoError(t, err)

	// Blocked users without a profile are skipped.
	require.Len(t, got, 1)
	assert.Equal(t, "João", got[0].DisplayName)
}

func TestModerationService_ReportUser(t *testing.T) {
	ctx := context.Background()

	t.Run("reporting yourself is refused", func(t *testing.T) {
		svc := NewModerationService(newFakeModerationRepo(), newFakeProfileRepo())

		_, err := svc.ReportUser(ctx, domain.Report{ReporterID: "u1", ReportedID: "u1", Reason: "spam"})

		assert.ErrorIs(t, err, ErrSelfTarget)
	})

	t.Run("reason must come from the closed set", func(t *testing.T) {
		svc := NewModerationService(newFakeModerationRepo(), newFakeProfileRepo())

		_, err := svc.ReportUser(ctx, domain.Report{ReporterID: "u1", ReportedID: "u2", Reason: "ugly backpack"})

		assert.ErrorIs(t, err, ErrInvalidReportReason)
	})

	t.Run("valid reports open for review", func(t *testing.T) {
		svc := NewModerationService(newFakeModerationRepo(), newFakeProfileRepo())

		report, err := svc.ReportUser(ctx, domain.Report{ReporterID: "u1", ReportedID: "u2", Reason: "harassment"})
		require.NoError(t, err)

		assert.NotZero(t, report.ID)
		assert.Equal(t, domain.ReportOpen, report.Status)
	})
}

func TestModerationService_UpdateReport(t *testing.T) {
	ctx := context.Background()
	repo := newFakeModerationRepo()
	svc := NewModerationService(repo, newFakeProfileRepo())

	report, err := svc.ReportUser(ctx, domain.Report{ReporterID: "u1", ReportedID: "u2", Reason: "spam"})
	require.NoError(t, err)

	err = svc.UpdateReport(ctx, report.ID, "escalated-to-the-pope", "")
	assert.ErrorIs(t, err, ErrInvalidReportStatus)

	require.NoError(t, svc.UpdateReport(ctx, report.ID, domain.ReportClosed, "talked to both sides"))

	reports, err := svc.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, domain.ReportClosed, reports[0].Status)
	assert.Equal(t, "talked to both sides", reports[0].AdminNotes)
}

func TestModerationService_Suspension(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo(acceptedProfile("u1"))
	svc := NewModerationService(newFakeModerationRepo(), profiles)

	require.NoError(t, svc.SuspendUser(ctx, "u1", "harassment reports"))

	profile, err := profiles.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, profile.IsSuspended)
	assert.Equal(t, "harassment reports", profile.SuspensionReason)

	require.NoError(t, svc.UnsuspendUser(ctx, "u1"))

	profile, err = profiles.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, profile.IsSuspended)
	assert.Empty(t, profile.SuspensionReason)
}
