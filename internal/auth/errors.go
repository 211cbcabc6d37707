package auth

import "errors"

var (
	// ErrInvalidToken indicates the token failed validation.
	ErrInvalidToken  = errors.New("auth: invalid token")
	ErrTokenExpired  = errors.New("auth: token expired")
	ErrMissingSecret = errors.New("auth: secret is not configured")
	ErrEmptyPassword = errors.New("auth: password is empty")
)
