// Package common defines shared constants and sentinel errors used across
// duread components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage errors.
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageIO          = errors.New("storage i/o error")

	// Credential errors.
	ErrCredentialMissing  = errors.New("api key not configured")
	ErrInvalidPassphrase  = errors.New("invalid passphrase")
	ErrPassphraseTooShort = errors.New("passphrase must be at least 6 characters")
	ErrEmptyAPIKey        = errors.New("api key is empty")

	// Translation errors.
	ErrTranslationAPI   = errors.New("translation api error")
	ErrTranslationParse = errors.New("translation response could not be parsed")

	// Document errors.
	ErrSegmentationEmpty = errors.New("no text to read")
	ErrInvalidDirection  = errors.New("invalid translation direction")
	ErrInvalidTransition = errors.New("invalid sentence status transition")
)
