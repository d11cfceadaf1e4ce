package models

import "errors"

var (
	ErrMissingUser   = errors.New("user id is required")
	ErrMissingFormat = errors.New("export format is required")
)
