package response

type UploadURLResponse struct {
	UploadURL  string `json:"upload_url"`
	ObjectPath string `json:"object_path"`
	PublicURL  string `json:"public_url,omitempty"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

// VerificationDocumentsResponse carries time-limited retrieval URLs for a
// pilgrim's identity documents.
type VerificationDocumentsResponse struct {
	DocumentURL string `json:"document_url,omitempty"`
	SelfieURL   string `json:"selfie_url,omitempty"`
}
