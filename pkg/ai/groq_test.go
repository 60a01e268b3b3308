package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/johnquangdev/meeting-intel/pkg/config"
	"github.com/johnquangdev/meeting-intel/pkg/jobcontext"
)

func newTestGroq(url string, timeout time.Duration, retries uint64) *GroqClient {
	c := NewGroqClient(
		&config.GroqConfig{APIKey: "test-key", BaseURL: url, Model: "test-model"},
		&config.AIConfig{Timeout: timeout, MaxRetries: retries},
		nil,
	)
	c.policy.InitialInterval = time.Millisecond
	return c
}

func TestComplete_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/openai/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if req.Model != "test-model" {
			t.Fatalf("unexpected model %s", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "hello" {
			t.Fatalf("unexpected messages %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "hi there"}}},
		})
	}))
	defer ts.Close()

	out, err := newTestGroq(ts.URL, 5*time.Second, 0).Complete(context.Background(), "be brief", "hello")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if out != "hi there" {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestComplete_RetriesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "ok"}}},
		})
	}))
	defer ts.Close()

	out, err := newTestGroq(ts.URL, 5*time.Second, 2).Complete(context.Background(), "", "hello")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if out != "ok" || atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("unexpected result %q after %d calls", out, calls)
	}
}

func TestComplete_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":"bad model"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := newTestGroq(ts.URL, 5*time.Second, 3).Complete(context.Background(), "", "hello")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected APIError 400, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

func TestComplete_TimeoutSurfacesErrTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	_, err := newTestGroq(ts.URL, 50*time.Millisecond, 5).Complete(context.Background(), "", "hello")
	if !errors.Is(err, jobcontext.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	if _, err := newTestGroq(ts.URL, time.Second, 0).Complete(context.Background(), "", "hello"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
