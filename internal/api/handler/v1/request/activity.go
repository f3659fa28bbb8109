package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateActivityRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Type        string   `json:"type" binding:"required"`
	City        string   `json:"city" binding:"required"`
	Date        string   `json:"date" binding:"required" format:"YYYY-MM-DD"`
	Time        string   `json:"time"`
	Spots       int      `json:"spots"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`

	TransportFrom    string `json:"transport_from"`
	TransportTo      string `json:"transport_to"`
	TransportRouteID string `json:"transport_route_id"`
}

func (req *CreateActivityRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100), validation.By(noMarkup)),
		validation.Field(&req.Description, validation.Length(0, 1000), validation.By(noMarkup)),
		validation.Field(&req.Type, validation.Required, validation.In("transport", "meal", "hike", "lodging")),
		validation.Field(&req.City, validation.Required, validation.Length(1, 80), validation.By(noMarkup)),
		validation.Field(&req.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&req.Time, validation.Date("15:04")),
		validation.Field(&req.Spots, validation.Min(1), validation.Max(50)),
		validation.Field(&req.TransportFrom, validation.Length(0, 80), validation.By(noMarkup)),
		validation.Field(&req.TransportTo, validation.Length(0, 80), validation.By(noMarkup)),
		validation.Field(&req.TransportRouteID, validation.Length(0, 50)),
	)
}
