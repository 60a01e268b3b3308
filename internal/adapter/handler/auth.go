package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/adapter/dto/auth"
	"github.com/johnquangdev/meeting-intel/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-intel/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/http/middleware"
	authUsecase "github.com/johnquangdev/meeting-intel/internal/usecase/auth"
)

// AuthService is the auth use case as seen by the HTTP layer
type AuthService interface {
	Register(ctx context.Context, email, password string) (*entities.User, error)
	VerifyEmail(ctx context.Context, token string) (*entities.User, error)
	Login(ctx context.Context, email, password string, lc entities.LoginContext) (*authUsecase.Session, error)
	GoogleAuthURL(ctx context.Context) (string, error)
	HandleGoogleCallback(ctx context.Context, code, state string, lc entities.LoginContext) (*authUsecase.Session, error)
	CurrentUser(ctx context.Context, token string) (*entities.User, error)
	Logout(ctx context.Context, userID uuid.UUID)
}

// Auth handles authentication HTTP requests
type Auth struct {
	service     AuthService
	frontendURL string
	logger      *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(service AuthService, frontendURL string, logger *zap.Logger) *Auth {
	return &Auth{
		service:     service,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register
// @Description  Creates an unverified account and emails a verification link
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.RegisterRequest    true  "Credentials"
// @Success      201      {object}  common.MessageResponse
// @Failure      400      {object}  common.ErrorResponse  "Invalid input or email already registered"
// @Failure      500      {object}  common.ErrorResponse
// @Router       /api/auth/register [post]
func (h *Auth) Register(c echo.Context) error {
	var req auth.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	if _, err := h.service.Register(c.Request().Context(), req.Email, req.Password); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusCreated, common.MessageResponse{
		Message: "User registered. Check your email to verify your account.",
	})
}

// VerifyEmail godoc
// @Summary      Verify email
// @Description  Consumes the single-use verification token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.VerifyEmailRequest  true  "Verification token"
// @Success      200      {object}  common.MessageResponse
// @Failure      400      {object}  common.ErrorResponse  "Invalid or expired token"
// @Router       /api/auth/verify-email [post]
func (h *Auth) VerifyEmail(c echo.Context) error {
	var req auth.VerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidVerificationToken())
	}

	if _, err := h.service.VerifyEmail(c.Request().Context(), req.Token); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, common.MessageResponse{
		Message: "Email verified successfully. You can now login.",
	})
}

// Login godoc
// @Summary      Login
// @Description  Signs in with email and password and returns a one-hour bearer token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.LoginRequest  true  "Credentials"
// @Success      200      {object}  auth.LoginResponse
// @Failure      400      {object}  common.ErrorResponse  "Invalid credentials"
// @Failure      403      {object}  common.ErrorResponse  "Email not verified"
// @Router       /api/auth/login [post]
func (h *Auth) Login(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		return HandleError(h.logger, c, errors.ErrInvalidCredentials())
	}

	session, err := h.service.Login(c.Request().Context(), req.Email, req.Password, loginContext(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToLoginResponse(session))
}

// Logout godoc
// @Summary      Logout
// @Description  Acknowledges a logout; tokens are stateless and expire on their own
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  common.MessageResponse
// @Router       /api/auth/logout [post]
func (h *Auth) Logout(c echo.Context) error {
	userID := uuid.Nil
	if claims, ok := middleware.ClaimsFrom(c); ok {
		userID = claims.UserID
	}
	h.service.Logout(c.Request().Context(), userID)

	return HandleSuccess(h.logger, c, http.StatusOK, common.MessageResponse{Message: "Logged out successfully"})
}

// Me godoc
// @Summary      Current user
// @Description  Returns the profile of the token's user, re-read from the store
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  auth.UserResponse
// @Failure      401  {object}  common.ErrorResponse  "Missing token"
// @Failure      403  {object}  common.ErrorResponse  "Invalid or expired token"
// @Failure      404  {object}  common.ErrorResponse  "User not found"
// @Router       /api/auth/me [get]
func (h *Auth) Me(c echo.Context) error {
	user, err := h.service.CurrentUser(c.Request().Context(), middleware.ExtractToken(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToUserResponse(user))
}

// GoogleLogin godoc
// @Summary      Google login
// @Description  Redirects to the Google consent screen
// @Tags         Auth
// @Success      307
// @Failure      503  {object}  common.ErrorResponse  "Google login not configured"
// @Router       /api/auth/google [get]
func (h *Auth) GoogleLogin(c echo.Context) error {
	authURL, err := h.service.GoogleAuthURL(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback godoc
// @Summary      Google callback
// @Description  Completes Google login and redirects to the frontend with the token
// @Tags         Auth
// @Param        code   query  string  true  "Authorization code"
// @Param        state  query  string  true  "OAuth state"
// @Success      307
// @Router       /api/auth/google/callback [get]
func (h *Auth) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return h.redirectLoginError(c, "missing_code")
	}

	session, err := h.service.HandleGoogleCallback(c.Request().Context(), code, state, loginContext(c))
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("google login failed", zap.String("request_id", getRequestID(c)), zap.Error(err))
		}
		return h.redirectLoginError(c, "oauth_failed")
	}

	return c.Redirect(http.StatusTemporaryRedirect,
		h.frontendURL+"/auth/success?token="+url.QueryEscape(session.Token))
}

func (h *Auth) redirectLoginError(c echo.Context, reason string) error {
	return c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error="+url.QueryEscape(reason))
}

func loginContext(c echo.Context) entities.LoginContext {
	return entities.LoginContext{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}

// bindAndValidate decodes the body and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidArgument("Invalid request body")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrInvalidArgument(err.Error())
	}
	return nil
}
