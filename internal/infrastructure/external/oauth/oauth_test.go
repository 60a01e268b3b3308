package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type mapStore struct {
	mu sync.Mutex
	m  map[string]string
}

func (s *mapStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *mapStore) Take(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	delete(s.m, key)
	return v, ok, nil
}

func TestStateManager_OneTimeUse(t *testing.T) {
	sm := NewStateManager(&mapStore{m: map[string]string{}})
	ctx := context.Background()

	state, err := sm.GenerateState(ctx)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if ok, err := sm.ValidateState(ctx, state); err != nil || !ok {
		t.Fatalf("expected first validation to pass, got %v %v", ok, err)
	}
	if ok, _ := sm.ValidateState(ctx, state); ok {
		t.Fatalf("state must be single use")
	}
	if ok, _ := sm.ValidateState(ctx, "forged"); ok {
		t.Fatalf("unknown state must be rejected")
	}
}

func TestGoogleProvider_AuthURL(t *testing.T) {
	g := NewGoogleProvider("client-id", "secret", "http://localhost/cb")
	url := g.GetAuthURL("abc")
	if !strings.Contains(url, "state=abc") || !strings.Contains(url, "client_id=client-id") {
		t.Fatalf("unexpected auth url %s", url)
	}
}

func TestGoogleProvider_UserInfo(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"g-1","email":"a@x.com","name":"Ana","verified_email":true}`))
	}))
	defer ts.Close()

	g := NewGoogleProvider("id", "secret", "http://localhost/cb")
	g.userInfoURL = ts.URL

	info, err := g.getUserInfo(context.Background(), ts.Client())
	if err != nil {
		t.Fatalf("user info failed: %v", err)
	}
	if info.ID != "g-1" || info.Email != "a@x.com" {
		t.Fatalf("unexpected profile %+v", info)
	}
}

func TestGoogleProvider_UserInfoError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	g := NewGoogleProvider("id", "secret", "http://localhost/cb")
	g.userInfoURL = ts.URL

	if _, err := g.getUserInfo(context.Background(), ts.Client()); err == nil {
		t.Fatalf("expected error on 401")
	}
}
