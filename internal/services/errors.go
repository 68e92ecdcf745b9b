package services

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrNameRequired       = errors.New("customer name is required")
	ErrCustomerHasTickets = errors.New("cannot delete customer with associated weigh tickets")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("invalid or expired session")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
