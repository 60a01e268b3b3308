package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/meeting-intel/pkg/jwt"
)

// VerificationMailer delivers the email verification link
type VerificationMailer interface {
	SendVerification(ctx context.Context, to, token string) error
}

// TokenCipher encrypts issued tokens before they are written to the audit trail
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
}

// GoogleProvider is the Google sign-in flow
type GoogleProvider interface {
	GetAuthURL(state string) string
	FetchProfile(ctx context.Context, code string) (*oauth.GoogleUserInfo, error)
}

// StateManager issues and checks one-time OAuth state tokens
type StateManager interface {
	GenerateState(ctx context.Context) (string, error)
	ValidateState(ctx context.Context, state string) (bool, error)
}

// Service handles registration, login and token checks
type Service struct {
	users      repositories.UserRepository
	audits     repositories.LoginAuditRepository
	jwtManager *jwt.Manager
	cipher     TokenCipher
	mailer     VerificationMailer
	google     GoogleProvider
	states     StateManager
	logger     *zap.Logger
}

// NewService creates the auth service. google and states may be nil when
// Google sign-in is not configured.
func NewService(
	users repositories.UserRepository,
	audits repositories.LoginAuditRepository,
	jwtManager *jwt.Manager,
	cipher TokenCipher,
	mailer VerificationMailer,
	google GoogleProvider,
	states StateManager,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:      users,
		audits:     audits,
		jwtManager: jwtManager,
		cipher:     cipher,
		mailer:     mailer,
		google:     google,
		states:     states,
		logger:     logger,
	}
}

// Session is an issued access token and its user
type Session struct {
	Token     string
	ExpiresIn time.Duration
	User      *entities.User
}

// Register creates an unverified local account and sends the verification email.
// A failed email does not fail the registration.
func (s *Service) Register(ctx context.Context, email, password string) (*entities.User, error) {
	email = normalizeEmail(email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, errors.ErrUserAlreadyExists(email)
	} else if !stdErrors.Is(err, entities.ErrUserNotFound) {
		return nil, userStoreError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.ErrInternal(fmt.Errorf("hash password: %w", err))
	}

	token, err := randomToken()
	if err != nil {
		return nil, errors.ErrInternal(err)
	}

	user := entities.NewLocalUser(email, string(hash), token)
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if stdErrors.Is(err, entities.ErrUserAlreadyExists) {
			return nil, errors.ErrUserAlreadyExists(email)
		}
		return nil, userStoreError(err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendVerification(ctx, email, token); err != nil && s.logger != nil {
			s.logger.Error("failed to send verification email", zap.String("email", email), zap.Error(err))
		}
	}

	return user, nil
}

// VerifyEmail consumes a verification token. Tokens are single-use.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*entities.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.ErrInvalidVerificationToken()
	}

	user, err := s.users.Verify(ctx, token)
	if err != nil {
		if stdErrors.Is(err, entities.ErrVerificationTokenNotFound) {
			return nil, errors.ErrInvalidVerificationToken()
		}
		return nil, userStoreError(err)
	}
	return user, nil
}

// Login checks local credentials and issues a token
func (s *Service) Login(ctx context.Context, email, password string, lc entities.LoginContext) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, errors.ErrInvalidCredentials()
		}
		return nil, userStoreError(err)
	}

	if !user.HasPassword() {
		return nil, errors.ErrInvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials()
	}
	if !user.IsVerified {
		return nil, errors.ErrUnverifiedAccount()
	}

	return s.issue(ctx, user, entities.LoginMethodPassword, lc)
}

// OAuthLogin signs in a Google profile, linking it to an existing account
// with the same email or creating a new verified user.
func (s *Service) OAuthLogin(ctx context.Context, profile *oauth.GoogleUserInfo, lc entities.LoginContext) (*Session, error) {
	if profile == nil || profile.ID == "" || profile.Email == "" {
		return nil, errors.ErrOAuthFailed("Google", fmt.Errorf("incomplete profile"))
	}

	user, err := s.users.FindByGoogleID(ctx, profile.ID)
	if err == nil {
		return s.issue(ctx, user, entities.LoginMethodGoogle, lc)
	}
	if !stdErrors.Is(err, entities.ErrUserNotFound) {
		return nil, userStoreError(err)
	}

	email := normalizeEmail(profile.Email)
	var avatar *string
	if profile.Picture != "" {
		avatar = &profile.Picture
	}

	user, err = s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.LinkGoogle(ctx, user.ID, profile.ID, avatar); err != nil {
			return nil, userStoreError(err)
		}
		if !user.IsVerified {
			user.PasswordHash = nil
			user.VerificationToken = nil
		}
		user.IsVerified = true
		user.GoogleID = &profile.ID
		user.AvatarURL = avatar
	case stdErrors.Is(err, entities.ErrUserNotFound):
		user = entities.NewGoogleUser(email, profile.Name, profile.ID)
		user.AvatarURL = avatar
		if err := s.users.Create(ctx, user); err != nil {
			return nil, userStoreError(err)
		}
	default:
		return nil, userStoreError(err)
	}

	return s.issue(ctx, user, entities.LoginMethodGoogle, lc)
}

// GoogleAuthURL starts the Google sign-in flow
func (s *Service) GoogleAuthURL(ctx context.Context) (string, error) {
	if s.google == nil || s.states == nil {
		return "", errors.ErrOAuthNotConfigured("Google")
	}

	state, err := s.states.GenerateState(ctx)
	if err != nil {
		return "", errors.ErrInternal(err)
	}
	return s.google.GetAuthURL(state), nil
}

// HandleGoogleCallback validates the state, fetches the profile and signs it in
func (s *Service) HandleGoogleCallback(ctx context.Context, code, state string, lc entities.LoginContext) (*Session, error) {
	if s.google == nil || s.states == nil {
		return nil, errors.ErrOAuthNotConfigured("Google")
	}

	ok, err := s.states.ValidateState(ctx, state)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	if !ok {
		return nil, errors.ErrOAuthFailed("Google", entities.ErrOAuthStateMismatch)
	}

	profile, err := s.google.FetchProfile(ctx, code)
	if err != nil {
		return nil, errors.ErrOAuthFailed("Google", err)
	}

	return s.OAuthLogin(ctx, profile, lc)
}

// CurrentUser resolves the user behind a bearer token
func (s *Service) CurrentUser(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, errors.ErrUnauthenticated()
	}

	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, errors.ErrInvalidToken()
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, errors.ErrUserNotFound()
		}
		return nil, userStoreError(err)
	}
	return user, nil
}

// Logout is an acknowledgement; tokens expire on their own
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) {
	if s.logger != nil && userID != uuid.Nil {
		s.logger.Info("user logged out", zap.String("user_id", userID.String()))
	}
}

func (s *Service) issue(ctx context.Context, user *entities.User, method entities.LoginMethod, lc entities.LoginContext) (*Session, error) {
	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.ErrInternal(fmt.Errorf("generate access token: %w", err))
	}

	user.UpdateLastLogin()
	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.persistenceWarning("update last login", err)
	}

	if err := s.audit(ctx, user, method, token, lc); err != nil {
		s.persistenceWarning("login audit", err)
	}

	return &Session{
		Token:     token,
		ExpiresIn: s.jwtManager.GetAccessExpiry(),
		User:      user,
	}, nil
}

func (s *Service) audit(ctx context.Context, user *entities.User, method entities.LoginMethod, token string, lc entities.LoginContext) error {
	if s.audits == nil || s.cipher == nil {
		return nil
	}

	encrypted, err := s.cipher.Encrypt(token)
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}

	metadata, err := json.Marshal(lc)
	if err != nil {
		return err
	}

	return s.audits.Create(ctx, &entities.LoginAudit{
		ID:             uuid.New(),
		UserID:         user.ID,
		Email:          user.Email,
		Method:         method,
		EncryptedToken: encrypted,
		Metadata:       datatypes.JSON(metadata),
		LoginAt:        time.Now().UTC(),
	})
}

func (s *Service) persistenceWarning(op string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn("persistence.warning", zap.String("operation", op), zap.Error(err))
}

func userStoreError(err error) error {
	if stdErrors.Is(err, entities.ErrStoreUnavailable) {
		return errors.ErrStoreUnavailable(err)
	}
	return errors.ErrInternal(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
