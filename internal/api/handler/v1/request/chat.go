package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (req *PostMessageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Content, validation.Required, validation.Length(1, 2000), validation.By(noMarkup)),
	)
}

type CreateRatingRequest struct {
	Score   int    `json:"score" binding:"required"`
	Comment string `json:"comment"`
}

func (req *CreateRatingRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Score, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Comment, validation.Length(0, 500), validation.By(noMarkup)),
	)
}
