package repository

import (
	"context"
	"fmt"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository/dao"
)

type ModerationDAO interface {
	InsertBlock(ctx context.Context, block dao.Block) (dao.Block, error)
	DeleteBlock(ctx context.Context, blockerID, blockedID string) error
	FindBlockedIDs(ctx context.Context, blockerID string) ([]string, error)
	BlockExists(ctx context.Context, blockerID, blockedID string) (bool, error)
	InsertReport(ctx context.Context, report dao.Report) (dao.Report, error)
	FindAllReports(ctx context.Context) ([]dao.Report, error)
	UpdateReportStatus(ctx context.Context, id uint, status, adminNotes string) error
}

type ModerationRepository struct {
	dao ModerationDAO
}

func NewModerationRepository(dao ModerationDAO) *ModerationRepository {
	return &ModerationRepository{
		dao: dao,
	}
}

func (r *ModerationRepository) reportToDomain(rep dao.Report) domain.Report {
	return domain.Report{
		ID:         rep.ID,
		ReporterID: rep.ReporterID,
		ReportedID: rep.ReportedID,
		Reason:     rep.Reason,
		Details:    rep.Details,
		ActivityID: rep.ActivityID,
		MessageID:  rep.MessageID,
		Status:     rep.Status,
		AdminNotes: rep.AdminNotes,
		CreatedAt:  rep.CreatedAt,
	}
}

func (r *ModerationRepository) Block(ctx context.Context, blockerID, blockedID string) error {
	_, err := r.dao.InsertBlock(ctx, dao.Block{BlockerID: blockerID, BlockedID: blockedID})
	if err != nil {
		return fmt.Errorf("r.dao.InsertBlock -> %w", err)
	}
	return nil
}

func (r *ModerationRepository) Unblock(ctx context.Context, blockerID, blockedID string) error {
	if err := r.dao.DeleteBlock(ctx, blockerID, blockedID); err != nil {
		return fmt.Errorf("r.dao.DeleteBlock -> %w", err)
	}
	return nil
}

func (r *ModerationRepository) BlockedIDs(ctx context.Context, blockerID string) ([]string, error) {
	ids, err := r.dao.FindBlockedIDs(ctx, blockerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBlockedIDs -> %w", err)
	}

	return ids, nil
}

func (r *ModerationRepository) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	ok, err := r.dao.BlockExists(ctx, blockerID, blockedID)
	if err != nil {
		return false, fmt.Errorf("r.dao.BlockExists -> %w", err)
	}

	return ok, nil
}

func (r *ModerationRepository) CreateReport(ctx context.Context, report domain.Report) (domain.Report, error) {
	created, err := r.dao.InsertReport(ctx, dao.Report{
		ReporterID: report.ReporterID,
		ReportedID: report.ReportedID,
		Reason:     report.Reason,
		Details:    report.Details,
		ActivityID: report.ActivityID,
		MessageID:  report.MessageID,
		Status:     domain.ReportOpen,
	})
	if err != nil {
		return domain.Report{}, fmt.Errorf("r.dao.InsertReport -> %w", err)
	}

	return r.reportToDomain(created), nil
}

func (r *ModerationRepository) ListReports(ctx context.Context) ([]domain.Report, error) {
	reportsDAO, err := r.dao.FindAllReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllReports -> %w", err)
	}

	reports := make([]domain.Report, len(reportsDAO))
	for i, rep := range reportsDAO {
		reports[i] = r.reportToDomain(rep)
	}

	return reports, nil
}

func (r *ModerationRepository) UpdateReportStatus(ctx context.Context, id uint, status, adminNotes string) error {
	if err := r.dao.UpdateReportStatus(ctx, id, status, adminNotes); err != nil {
		return fmt.Errorf("r.dao.UpdateReportStatus -> %w", err)
	}
	return nil
}
