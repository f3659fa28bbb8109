package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type StartDonationRequest struct {
	Amount  float64 `json:"amount" binding:"required"`
	Message string  `json:"message"`
}

func (req *StartDonationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required, validation.Min(1.0), validation.Max(10000.0)),
		validation.Field(&req.Message, validation.Length(0, 280), validation.By(noMarkup)),
	)
}

type SubscribePushRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256dh   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

func (req *SubscribePushRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Endpoint, validation.Required, validation.Length(1, 2000)),
		validation.Field(&req.P256dh, validation.Required),
		validation.Field(&req.Auth, validation.Required),
	)
}
