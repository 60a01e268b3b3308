package auth

// UserResponse represents user information in responses
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginResponse is returned after a successful sign-in
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int           `json:"expires_in"` // seconds
	TokenType string        `json:"token_type"` // "Bearer"
	User      *UserResponse `json:"user"`
}
