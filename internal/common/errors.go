// Package common defines shared constants and sentinel errors used across
// the agent's layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Transport-level errors.
	ErrUnavailable = errors.New("server unavailable")

	// Auth errors (invalid or rejected credentials/token).
	ErrUnauthorized = errors.New("unauthorized")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Generic/internal flow control.
	ErrInternal = errors.New("internal error")
)
