package cli

import (
	"errors"

	"github.com/techurbanist/duread/internal/common"
)

// userMessage turns service errors into the text shown at the prompt.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrCredentialMissing):
		return "No usable API key (" + err.Error() + "). Use 'key' or 'unlock'."
	case errors.Is(err, common.ErrInvalidPassphrase):
		return "Invalid passphrase"
	case errors.Is(err, common.ErrPassphraseTooShort):
		return "Passphrase must be at least 6 characters"
	case errors.Is(err, common.ErrEmptyAPIKey):
		return "Please enter an API key"
	case errors.Is(err, common.ErrSegmentationEmpty):
		return "Please enter some text"
	case errors.Is(err, common.ErrNotFound):
		return "Text not found"
	case errors.Is(err, common.ErrInvalidDirection):
		return "Direction must be en-zh or zh-en"
	case errors.Is(err, common.ErrStorageUnavailable):
		return "Storage unavailable: " + err.Error()
	default:
		return err.Error()
	}
}
