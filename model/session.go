package model

// LoginRequest carries database credentials. They are opaque to the
// application and only forwarded to the store for verification.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}
