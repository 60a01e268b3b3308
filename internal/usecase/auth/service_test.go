package auth

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/meeting-intel/pkg/jwt"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*entities.User
	lastErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*entities.User{}}
}

func (f *fakeUsers) Create(ctx context.Context, u *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return entities.ErrUserAlreadyExists
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUsers) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, entities.ErrUserNotFound
}

func (f *fakeUsers) FindByGoogleID(ctx context.Context, googleID string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (f *fakeUsers) Verify(ctx context.Context, token string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			u.IsVerified = true
			u.VerificationToken = nil
			return u, nil
		}
	}
	return nil, entities.ErrVerificationTokenNotFound
}

func (f *fakeUsers) LinkGoogle(ctx context.Context, id uuid.UUID, googleID string, avatar *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			if !u.IsVerified {
				u.PasswordHash = nil
				u.VerificationToken = nil
			}
			u.IsVerified = true
			u.GoogleID = &googleID
			u.AvatarURL = avatar
			return nil
		}
	}
	return entities.ErrUserNotFound
}

func (f *fakeUsers) UpdateLastLogin(ctx context.Context, id uuid.UUID) error { return f.lastErr }

func (f *fakeUsers) DeleteByEmail(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byEmail, email)
	return nil
}

type fakeAudits struct {
	records []*entities.LoginAudit
	err     error
}

func (f *fakeAudits) Create(ctx context.Context, a *entities.LoginAudit) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, a)
	return nil
}

type fakeMailer struct {
	tokens map[string]string
	err    error
}

func (f *fakeMailer) SendVerification(ctx context.Context, to, token string) error {
	if f.tokens == nil {
		f.tokens = map[string]string{}
	}
	f.tokens[to] = token
	return f.err
}

type reverseCipher struct{}

func (reverseCipher) Encrypt(s string) (string, error) {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r), nil
}

type fakeGoogle struct {
	profile *oauth.GoogleUserInfo
	err     error
}

func (g *fakeGoogle) GetAuthURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (g *fakeGoogle) FetchProfile(ctx context.Context, code string) (*oauth.GoogleUserInfo, error) {
	return g.profile, g.err
}

type fakeStates struct{ issued map[string]bool }

func (s *fakeStates) GenerateState(ctx context.Context) (string, error) {
	if s.issued == nil {
		s.issued = map[string]bool{}
	}
	state := fmt.Sprintf("state-%d", len(s.issued)+1)
	s.issued[state] = true
	return state, nil
}

func (s *fakeStates) ValidateState(ctx context.Context, state string) (bool, error) {
	ok := s.issued[state]
	delete(s.issued, state)
	return ok, nil
}

type fixture struct {
	svc    *Service
	users  *fakeUsers
	audits *fakeAudits
	mailer *fakeMailer
	jwt    *jwt.Manager
}

func newFixture(google GoogleProvider, states StateManager) *fixture {
	f := &fixture{
		users:  newFakeUsers(),
		audits: &fakeAudits{},
		mailer: &fakeMailer{},
		jwt:    jwt.NewManager("test-secret", time.Hour),
	}
	f.svc = NewService(f.users, f.audits, f.jwt, reverseCipher{}, f.mailer, google, states, nil)
	return f
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.HTTPCode
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(nil, nil)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "ann@example.com", "secret1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := f.svc.Register(ctx, " Ann@Example.com ", "secret2")
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
}

func TestRegister_MailFailureIsNotFatal(t *testing.T) {
	f := newFixture(nil, nil)
	f.mailer.err = fmt.Errorf("smtp down")

	user, err := f.svc.Register(context.Background(), "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.IsVerified {
		t.Fatal("new local user must start unverified")
	}
	if *user.PasswordHash == "secret1" {
		t.Fatal("password stored in clear")
	}
}

func TestLogin_UnverifiedThenVerified(t *testing.T) {
	f := newFixture(nil, nil)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "ann@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := f.svc.Login(ctx, "ann@example.com", "secret1", entities.LoginContext{})
	if got := httpStatus(t, err); got != http.StatusForbidden {
		t.Fatalf("expected 403 before verification, got %d", got)
	}

	token := f.mailer.tokens["ann@example.com"]
	if _, err := f.svc.VerifyEmail(ctx, token); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}

	session, err := f.svc.Login(ctx, "ann@example.com", "secret1", entities.LoginContext{IPAddress: "10.0.0.1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := f.jwt.ValidateAccessToken(session.Token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.Email != "ann@example.com" || claims.UserID != session.User.ID {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if session.ExpiresIn != time.Hour {
		t.Fatalf("unexpected expiry %v", session.ExpiresIn)
	}

	if len(f.audits.records) != 1 {
		t.Fatalf("expected one audit record, got %d", len(f.audits.records))
	}
	rec := f.audits.records[0]
	if rec.EncryptedToken == session.Token || rec.Method != entities.LoginMethodPassword {
		t.Fatalf("unexpected audit record %+v", rec)
	}
	var lc entities.LoginContext
	if err := json.Unmarshal(rec.Metadata, &lc); err != nil || lc.IPAddress != "10.0.0.1" {
		t.Fatalf("unexpected audit metadata %s", rec.Metadata)
	}
}

func TestVerifyEmail_TokenReplay(t *testing.T) {
	f := newFixture(nil, nil)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "ann@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token := f.mailer.tokens["ann@example.com"]

	if _, err := f.svc.VerifyEmail(ctx, token); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	_, err := f.svc.VerifyEmail(ctx, token)
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Fatalf("expected 400 on replay, got %d", got)
	}

	_, err = f.svc.VerifyEmail(ctx, "")
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty token, got %d", got)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(nil, nil)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "ann@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, tc := range []struct{ email, password string }{
		{"ann@example.com", "wrong"},
		{"nobody@example.com", "secret1"},
	} {
		_, err := f.svc.Login(ctx, tc.email, tc.password, entities.LoginContext{})
		if got := httpStatus(t, err); got != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.email, got)
		}
	}
}

func TestLogin_AuditFailureStillIssuesToken(t *testing.T) {
	f := newFixture(nil, nil)
	f.audits.err = fmt.Errorf("table missing")
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "ann@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := f.svc.VerifyEmail(ctx, f.mailer.tokens["ann@example.com"]); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}

	session, err := f.svc.Login(ctx, "ann@example.com", "secret1", entities.LoginContext{})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected token")
	}
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(nil, nil)
	ctx := context.Background()

	user := entities.NewGoogleUser("bob@example.com", "Bob", "g-1")
	if err := f.users.Create(ctx, user); err != nil {
		t.Fatal(err)
	}
	token, err := f.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		t.Fatal(err)
	}

	got, err := f.svc.CurrentUser(ctx, token)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("unexpected user %s", got.ID)
	}

	_, err = f.svc.CurrentUser(ctx, "not-a-token")
	if code := httpStatus(t, err); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}

	orphan, _ := f.jwt.GenerateAccessToken(uuid.New(), "gone@example.com")
	_, err = f.svc.CurrentUser(ctx, orphan)
	if code := httpStatus(t, err); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestOAuthLogin_LinksExistingAccount(t *testing.T) {
	f := newFixture(nil, nil)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "ann@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	session, err := f.svc.OAuthLogin(ctx, &oauth.GoogleUserInfo{
		ID:      "g-42",
		Email:   "Ann@example.com",
		Name:    "Ann",
		Picture: "https://example.com/a.png",
	}, entities.LoginContext{})
	if err != nil {
		t.Fatalf("OAuthLogin: %v", err)
	}
	if session.User.GoogleID == nil || *session.User.GoogleID != "g-42" {
		t.Fatal("google id not linked")
	}
	if len(f.users.byEmail) != 1 {
		t.Fatalf("expected the existing user to be reused, have %d users", len(f.users.byEmail))
	}

	again, err := f.svc.OAuthLogin(ctx, &oauth.GoogleUserInfo{ID: "g-42", Email: "ann@example.com"}, entities.LoginContext{})
	if err != nil {
		t.Fatalf("second OAuthLogin: %v", err)
	}
	if again.User.ID != session.User.ID {
		t.Fatal("expected the same user on the second login")
	}
	if f.audits.records[1].Method != entities.LoginMethodGoogle {
		t.Fatalf("unexpected audit method %s", f.audits.records[1].Method)
	}
}

func TestOAuthLogin_UnverifiedAccountDropsLocalPassword(t *testing.T) {
	f := newFixture(nil, nil)
	ctx := context.Background()

	// someone else registered the address and never confirmed it
	if _, err := f.svc.Register(ctx, "victim@example.com", "other-pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	pending := f.mailer.tokens["victim@example.com"]

	session, err := f.svc.OAuthLogin(ctx, &oauth.GoogleUserInfo{ID: "g-victim", Email: "victim@example.com"}, entities.LoginContext{})
	if err != nil {
		t.Fatalf("OAuthLogin: %v", err)
	}
	if !session.User.IsVerified || session.User.HasPassword() {
		t.Fatal("expected a verified account without the unproven password")
	}

	_, err = f.svc.Login(ctx, "victim@example.com", "other-pw", entities.LoginContext{})
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Fatalf("expected 400 for the dropped password, got %d", got)
	}
	_, err = f.svc.VerifyEmail(ctx, pending)
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Fatalf("expected 400 for the dropped verification token, got %d", got)
	}
}

func TestOAuthLogin_VerifiedAccountKeepsPassword(t *testing.T) {
	f := newFixture(nil, nil)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "ann@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := f.svc.VerifyEmail(ctx, f.mailer.tokens["ann@example.com"]); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if _, err := f.svc.OAuthLogin(ctx, &oauth.GoogleUserInfo{ID: "g-ann", Email: "ann@example.com"}, entities.LoginContext{}); err != nil {
		t.Fatalf("OAuthLogin: %v", err)
	}
	if _, err := f.svc.Login(ctx, "ann@example.com", "secret1", entities.LoginContext{}); err != nil {
		t.Fatalf("password login after linking: %v", err)
	}
}

func TestGoogleFlow(t *testing.T) {
	google := &fakeGoogle{profile: &oauth.GoogleUserInfo{ID: "g-7", Email: "new@example.com", Name: "New"}}
	states := &fakeStates{}
	f := newFixture(google, states)
	ctx := context.Background()

	url, err := f.svc.GoogleAuthURL(ctx)
	if err != nil {
		t.Fatalf("GoogleAuthURL: %v", err)
	}
	state := url[strings.LastIndex(url, "=")+1:]

	session, err := f.svc.HandleGoogleCallback(ctx, "code", state, entities.LoginContext{})
	if err != nil {
		t.Fatalf("HandleGoogleCallback: %v", err)
	}
	if !session.User.IsVerified {
		t.Fatal("google users are verified")
	}

	// state is one-time use
	_, err = f.svc.HandleGoogleCallback(ctx, "code", state, entities.LoginContext{})
	if code := httpStatus(t, err); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on replayed state, got %d", code)
	}
}

func TestGoogle_NotConfigured(t *testing.T) {
	f := newFixture(nil, nil)

	_, err := f.svc.GoogleAuthURL(context.Background())
	if code := httpStatus(t, err); code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
}
