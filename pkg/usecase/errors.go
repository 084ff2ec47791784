package usecase

import "errors"

var (
	// ErrNotRegistered indicates the account is not registered here
	ErrNotRegistered = errors.New("user not registered")

	// ErrLoginRequired indicates the operation needs an authenticated sender
	ErrLoginRequired = errors.New("login required")
)
