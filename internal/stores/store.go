package stores

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/passport/internal/services"
	"github.com/desertthunder/passport/internal/shared"
)

// UserSource reports the authenticated user id, or "" when logged out.
type UserSource interface {
	User() string
}

func storeLogger(l *log.Logger, name string) *log.Logger {
	if l == nil {
		l = log.New(io.Discard)
	}
	return shared.WithLogger(l, "store", name)
}

// errorText picks the message shown to the user for err.
func errorText(err error, fallback string) string {
	if msg := services.ErrorMessage(err); msg != "" {
		return msg
	}
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return "Not authenticated"
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrPlaylistNotFound):
		return err.Error()
	}
	return fallback
}
