package presenter

import (
	authDTO "github.com/johnquangdev/meeting-intel/internal/adapter/dto/auth"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/usecase/auth"
)

// ToUserResponse converts a User entity to UserResponse DTO
func ToUserResponse(u *entities.User) *authDTO.UserResponse {
	if u == nil {
		return nil
	}
	pub := u.ToPublic()
	return &authDTO.UserResponse{
		ID:    pub.ID.String(),
		Email: pub.Email,
	}
}

// ToLoginResponse converts an issued session to the login DTO
func ToLoginResponse(s *auth.Session) *authDTO.LoginResponse {
	if s == nil {
		return nil
	}
	return &authDTO.LoginResponse{
		Token:     s.Token,
		ExpiresIn: int(s.ExpiresIn.Seconds()),
		TokenType: "Bearer",
		User:      ToUserResponse(s.User),
	}
}
