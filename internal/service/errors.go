package service

import (
	"errors"

	"github.com/tokito/genka-kanri/internal/state"
)

var (
	ErrNotFound         = state.ErrNotFound
	ErrInvalidInput     = state.ErrInvalidInput
	ErrConflict         = state.ErrConflict
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUnavailable      = errors.New("service unavailable")
)
