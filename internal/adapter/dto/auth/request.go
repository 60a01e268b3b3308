package auth

// RegisterRequest represents the request to create a local account
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailRequest carries the token from the verification email
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// LoginRequest represents the request to sign in with a password
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
