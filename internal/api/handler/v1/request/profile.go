package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type SaveProfileRequest struct {
	DisplayName     string   `json:"display_name" binding:"required"`
	Language        string   `json:"language"`
	Nationality     string   `json:"nationality"`
	Bio             string   `json:"bio"`
	Cities          []string `json:"cities"`
	TravelStartDate string   `json:"travel_start_date"`
	TravelEndDate   string   `json:"travel_end_date"`
	PrefTransport   int      `json:"pref_transport"`
	PrefMeals       int      `json:"pref_meals"`
	PrefHiking      int      `json:"pref_hiking"`
	PrefLodging     int      `json:"pref_lodging"`
}

func (req *SaveProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.DisplayName, validation.Required, validation.Length(2, 50), validation.By(noMarkup)),
		validation.Field(&req.Language, validation.Length(0, 30)),
		validation.Field(&req.Nationality, validation.Length(0, 50), validation.By(noMarkup)),
		validation.Field(&req.Bio, validation.Length(0, 500), validation.By(noMarkup)),
		validation.Field(&req.Cities, validation.Length(0, 100)),
		validation.Field(&req.TravelStartDate, validation.Date("2006-01-02")),
		validation.Field(&req.TravelEndDate, validation.Date("2006-01-02")),
		validation.Field(&req.PrefTransport, validation.Max(5)),
		validation.Field(&req.PrefMeals, validation.Max(5)),
		validation.Field(&req.PrefHiking, validation.Max(5)),
		validation.Field(&req.PrefLodging, validation.Max(5)),
	)
}

type UpdatePhotoRequest struct {
	PhotoURL string `json:"photo_url" binding:"required"`
}

func (req *UpdatePhotoRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PhotoURL, validation.Required, is.URL),
	)
}

type AcceptTermsRequest struct {
	TermsVersion   string `json:"terms_version" binding:"required"`
	PrivacyVersion string `json:"privacy_version" binding:"required"`
}

func (req *AcceptTermsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TermsVersion, validation.Required),
		validation.Field(&req.PrivacyVersion, validation.Required),
	)
}

type SignUploadRequest struct {
	FileName string `json:"file_name" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
}

func (req *SignUploadRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FileName, validation.Required, validation.Length(1, 120)),
		validation.Field(&req.Kind, validation.Required, validation.In("photo", "document", "selfie")),
	)
}
