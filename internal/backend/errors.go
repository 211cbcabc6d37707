package backend

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrOrgNotFound        = errors.New("organization not found")
	ErrForecastNotFound   = errors.New("sales forecast not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
)
