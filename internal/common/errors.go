// Package common defines shared constants and sentinel errors used across
// client and server layers of notetake. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
	ErrBusy       = errors.New("a request is already in progress")

	// Editor form validation.
	ErrTitleRequired = errors.New("title is required")
	ErrBodyRequired  = errors.New("body is required")

	// Collaborator validation errors.
	ErrNoFile           = errors.New("no file uploaded")
	ErrUnsupportedImage = errors.New("only image uploads are allowed")
	ErrNoPublicID       = errors.New("no public id provided")
	ErrNoHTML           = errors.New("missing html content")
	ErrNoMessages       = errors.New("no messages")
)
