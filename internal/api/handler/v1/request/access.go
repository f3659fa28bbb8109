package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type RedeemInviteRequest struct {
	Code string `json:"code" binding:"required"`
}

func (req *RedeemInviteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(4, 32)),
	)
}

type CreateInviteRequest struct {
	MaxUses       int `json:"max_uses"`
	ExpiresInDays int `json:"expires_in_days"`
}

func (req *CreateInviteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.MaxUses, validation.Max(100)),
		validation.Field(&req.ExpiresInDays, validation.Max(365)),
	)
}

type SubmitVerificationRequest struct {
	DocumentPath string `json:"document_path" binding:"required"`
	SelfiePath   string `json:"selfie_path" binding:"required"`
}

func (req *SubmitVerificationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.DocumentPath, validation.Required, validation.Length(1, 300)),
		validation.Field(&req.SelfiePath, validation.Required, validation.Length(1, 300)),
	)
}

type ReviewVerificationRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

func (req *ReviewVerificationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In("verified", "rejected")),
		validation.Field(&req.Reason, validation.Length(0, 300), validation.By(noMarkup)),
	)
}
