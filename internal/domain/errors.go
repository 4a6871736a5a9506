package domain

import "errors"

var (
	ErrNotFound         = errors.New("booking not found")
	ErrForbidden        = errors.New("not authorized for this booking")
	ErrInvalidState     = errors.New("operation not permitted")
	ErrValidation       = errors.New("invalid input")
	ErrInvalidSignature = errors.New("payment verification failed: invalid signature")
	ErrUpstream         = errors.New("upstream provider error")
)
