package models

// Principal is the signed-in user as reported by the identity provider.
type Principal struct {
	OwnerID     string `json:"ownerId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Lab         string `json:"lab,omitempty"`
}
