package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Block struct {
	ID        uint   `gorm:"primaryKey"`
	BlockerID string `gorm:"not null;uniqueIndex:idx_block_pair"`
	BlockedID string `gorm:"not null;uniqueIndex:idx_block_pair"`
	CreatedAt time.Time
}

type Report struct {
	ID         uint   `gorm:"primaryKey"`
	ReporterID string `gorm:"index;not null"`
	ReportedID string `gorm:"index;not null"`
	Reason     string `gorm:"not null"`
	Details    string
	ActivityID *uint
	MessageID  *uint
	Status     string `gorm:"default:open"`
	AdminNotes string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ModerationDAO struct {
	db *gorm.DB
}

func NewModerationDAO(db *gorm.DB) *ModerationDAO {
	return &ModerationDAO{
		db: db,
	}
}

// InsertBlock is idempotent: blocking twice keeps the original row.
func (d *ModerationDAO) InsertBlock(ctx context.Context, block Block) (Block, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blocker_id"}, {Name: "blocked_id"}},
		DoNothing: true,
	}).Create(&block)
	if result.Error != nil {
		return Block{}, result.Error
	}

	return block, nil
}

func (d *ModerationDAO) DeleteBlock(ctx context.Context, blockerID, blockedID string) error {
	return d.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&Block{}).Error
}

func (d *ModerationDAO) FindBlockedIDs(ctx context.Context, blockerID string) ([]string, error) {
	var ids []string

	result := d.db.WithContext(ctx).Model(&Block{}).
		Where("blocker_id = ?", blockerID).
		Pluck("blocked_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (d *ModerationDAO) BlockExists(ctx context.Context, blockerID, blockedID string) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *ModerationDAO) InsertReport(ctx context.Context, report Report) (Report, error) {
	result := d.db.WithContext(ctx).Create(&report)
	if result.Error != nil {
		return Report{}, result.Error
	}

	return report, nil
}

func (d *ModerationDAO) FindAllReports(ctx context.Context) ([]Report, error) {
	var reports []Report

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&reports)
	if result.Error != nil {
		return nil, result.Error
	}

	return reports, nil
}

func (d *ModerationDAO) UpdateReportStatus(ctx context.Context, id uint, status, adminNotes string) error {
	return d.db.WithContext(ctx).Model(&Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"admin_notes": adminNotes,
		}).Error
}
