// Package login provides the dashboard sign-in page.
//
// This file defines the messages shown on the login form.
package login

import "errors"

var (
	// ErrInvalidFormData is returned when the submitted login form cannot be parsed.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrInvalidCredentials is shown when email and password do not match an account.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInternalServerError is shown for unexpected failures during login.
	ErrInternalServerError = errors.New("internal server error")
)
