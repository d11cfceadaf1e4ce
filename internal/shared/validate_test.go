package shared

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateStruct(t *testing.T) {
	type credentials struct {
		Username string `validate:"required"`
		Password string `validate:"required"`
	}

	t.Run("valid", func(t *testing.T) {
		if err := ValidateStruct(credentials{Username: "alice", Password: "pw"}); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		err := ValidateStruct(credentials{})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if !strings.Contains(err.Error(), "username is required") {
			t.Errorf("expected username message, got %v", err)
		}
		if !strings.Contains(err.Error(), "password is required") {
			t.Errorf("expected password message, got %v", err)
		}
	})
}
