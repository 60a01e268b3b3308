package validator

import (
	"strings"
	"testing"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestValidate(t *testing.T) {
	cv := New()

	if err := cv.Validate(&credentials{Email: "a@x.com", Password: "pw123"}); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	err := cv.Validate(&credentials{Email: "not-an-email", Password: "pw123"})
	if err == nil {
		t.Fatalf("expected error for bad email")
	}
	if !strings.Contains(err.Error(), "email") {
		t.Fatalf("expected json field name in error, got %q", err.Error())
	}
}
