package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestRequestID(t *testing.T) {
	e := echo.New()
	var seen string
	h := RequestID()(func(c echo.Context) error {
		seen = c.Request().Header.Get(HeaderRequestID)
		return c.NoContent(http.StatusOK)
	})

	t.Run("generated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(req, rec)); err != nil {
			t.Fatal(err)
		}
		if _, err := uuid.Parse(seen); err != nil {
			t.Fatalf("expected uuid request id, got %q", seen)
		}
		if rec.Header().Get(HeaderRequestID) != seen {
			t.Fatal("request id not echoed")
		}
	})

	t.Run("kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "abc")
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(req, rec)); err != nil {
			t.Fatal(err)
		}
		if seen != "abc" || rec.Header().Get(HeaderRequestID) != "abc" {
			t.Fatalf("client id not kept: %q", seen)
		}
	})
}
