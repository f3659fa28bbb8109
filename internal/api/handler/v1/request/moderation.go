package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type BlockUserRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (req *BlockUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
	)
}

type ReportUserRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
	Details    string `json:"details"`
	ActivityID *uint  `json:"activity_id"`
	MessageID  *uint  `json:"message_id"`
}

func (req *ReportUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Reason, validation.Required, validation.In("harassment", "spam", "inappropriate", "scam", "other")),
		validation.Field(&req.Details, validation.Length(0, 1000), validation.By(noMarkup)),
	)
}

type UpdateReportRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

func (req *UpdateReportRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In("open", "reviewing", "closed")),
		validation.Field(&req.AdminNotes, validation.Length(0, 1000)),
	)
}

type SuspendUserRequest struct {
	Reason string `json:"reason"`
}

func (req *SuspendUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Length(0, 300), validation.By(noMarkup)),
	)
}

type SetPermissionRequest struct {
	Enabled bool `json:"enabled"`
}
