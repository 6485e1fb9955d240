package rpc

type Empty struct{}

type Principal struct {
	OwnerID     string `json:"ownerId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Lab         string `json:"lab,omitempty"`
}

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Lab         string `json:"lab,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	Principal    Principal `json:"principal"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type SignOutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Lab         string `json:"lab"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type QueryRequest struct {
	Collection string         `json:"collection"`
	Filter     map[string]any `json:"filter,omitempty"`
}

type QueryResponse struct {
	Documents []Document `json:"documents"`
}

type AddRequest struct {
	Collection string         `json:"collection"`
	Fields     map[string]any `json:"fields"`
}

type AddResponse struct {
	ID string `json:"id"`
}

type SetRequest struct {
	Collection string         `json:"collection"`
	ID         string         `json:"id"`
	Fields     map[string]any `json:"fields"`
	Merge      bool           `json:"merge"`
}

type DocumentRef struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}
