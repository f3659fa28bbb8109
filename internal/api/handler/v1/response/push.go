package response

type VAPIDKeyResponse struct {
	PublicKey string `json:"public_key"`
}

type PushStatusResponse struct {
	Subscribed bool `json:"subscribed"`
}
